package message

import "log/slog"

// rootPart returns the message's root part. Parse always produces one, so
// this is never nil for a Message returned by Parse.
func (m *Message) rootPart() *Part {
	return m.Part(m.Root)
}

func (m *Message) addressHeader(name string) AddressList {
	f := m.rootPart().Header.First(name)
	if f == nil || f.Value.Kind != KindAddress {
		return AddressList{}
	}
	return f.Value.Address
}

func (m *Message) From() AddressList    { return m.addressHeader("From") }
func (m *Message) To() AddressList      { return m.addressHeader("To") }
func (m *Message) Cc() AddressList      { return m.addressHeader("Cc") }
func (m *Message) Bcc() AddressList     { return m.addressHeader("Bcc") }
func (m *Message) ReplyTo() AddressList { return m.addressHeader("Reply-To") }
func (m *Message) Sender() AddressList  { return m.addressHeader("Sender") }

// Subject returns the decoded Subject header, or "" if absent or malformed.
func (m *Message) Subject() string {
	f := m.rootPart().Header.First("Subject")
	if f == nil || f.Value.Kind != KindText {
		return ""
	}
	return f.Value.Text
}

// Date returns the parsed Date header. ok is false if the header is absent
// or could not be parsed (spec section 7: an unparseable date never fails
// the parse, it just has no value here).
func (m *Message) Date() (DateValue, bool) {
	f := m.rootPart().Header.First("Date")
	if f == nil || f.Value.Kind != KindDateTime {
		return DateValue{}, false
	}
	return f.Value.DateTime, f.Value.DateOK
}

// MessageID returns the message's own Message-ID, if present.
func (m *Message) MessageID() (string, bool) {
	f := m.rootPart().Header.First("Message-Id")
	if f == nil || f.Value.Kind != KindMessageIds || len(f.Value.MessageIds) == 0 {
		return "", false
	}
	return f.Value.MessageIds[0], true
}

func (m *Message) References() []string {
	return m.messageIDHeader("References")
}

func (m *Message) InReplyTo() []string {
	return m.messageIDHeader("In-Reply-To")
}

func (m *Message) messageIDHeader(name string) []string {
	f := m.rootPart().Header.First(name)
	if f == nil || f.Value.Kind != KindMessageIds {
		return nil
	}
	return f.Value.MessageIds
}

// ThreadName strips Re:/Fwd:/tag noise from Subject (spec section 4.12).
func (m *Message) ThreadName() string {
	name, _ := ThreadName(m.Subject())
	return name
}

// AttachmentsLen returns the number of flattened attachments.
func (m *Message) AttachmentsLen() int { return len(m.Attachments) }

// Attachment returns the i'th flattened attachment part, or nil if i is out
// of range.
func (m *Message) Attachment(i int) *Part {
	if i < 0 || i >= len(m.Attachments) {
		return nil
	}
	return m.Part(m.Attachments[i])
}

// BodyText returns the i'th flattened text body, converting from HTML if
// that is the only side the cross-feed rule populated (spec section 4.11,
// 4.12; gated by Config.HTMLToTextInline).
func (m *Message) BodyText(i int) (string, bool) {
	if i < 0 || i >= len(m.TextBodies) {
		return "", false
	}
	p := m.Part(m.TextBodies[i])
	if p == nil {
		return "", false
	}
	text := m.decodePartText(p)
	if p.Kind == KindHTMLPart && m.Config.HTMLToTextInline {
		return HTMLToText(text), true
	}
	return text, true
}

// BodyHTML returns the i'th flattened HTML body, converting from plain text
// if that is the only side the cross-feed rule populated.
func (m *Message) BodyHTML(i int) (string, bool) {
	if i < 0 || i >= len(m.HTMLBodies) {
		return "", false
	}
	p := m.Part(m.HTMLBodies[i])
	if p == nil {
		return "", false
	}
	text := m.decodePartText(p)
	if p.Kind == KindTextPart && m.Config.HTMLToTextInline {
		return TextToHTML(text), true
	}
	return text, true
}

// decodePartText charset-decodes a leaf part's body, defaulting to US-ASCII
// for text parts with no charset parameter (spec section 4.7).
func (m *Message) decodePartText(p *Part) string {
	body := p.Body()
	charset := p.ContentType.Params["charset"]
	if charset == "" {
		charset = "us-ascii"
	}
	s, unknown := m.Charsets.Decode(charset, body)
	if unknown {
		if !p.UnknownCharset {
			log.Debug("unknown charset, falling back to Latin-1", slog.String("charset", charset), slog.Int("part", p.Index))
		}
		p.UnknownCharset = true
	}
	return s
}
