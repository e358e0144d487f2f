package message

import (
	"bytes"
	"log/slog"
	"strings"
)

// Parse parses a complete RFC 5322 / MIME message from buf into a Message.
// It never fails (spec section 7): anomalies degrade in place rather than
// aborting. buf is not copied; the returned Message aliases it except where
// transfer-decoding required a new allocation.
func Parse(buf []byte, cfg Config, external CharsetDecoder) *Message {
	m := &Message{
		Buffer:   buf,
		Config:   cfg,
		Charsets: NewCharsetRegistry(external),
	}
	m.Root = m.parsePart(0, len(buf), -1, 0)
	m.classify()
	return m
}

// parsePart parses one part's header block and body, recursing into
// multipart children. It always returns a valid part index.
func (m *Message) parsePart(rawStart, rawEnd, parentIndex, depth int) int {
	idx := len(m.Parts)
	p := &Part{Index: idx, ParentIndex: parentIndex, RawStart: rawStart, RawEnd: rawEnd, depth: depth, msg: m}
	m.Parts = append(m.Parts, p)

	p.HeaderStart = rawStart
	bs := NewByteStream(m.Buffer[rawStart:rawEnd])
	var fields []Field
	for {
		b0, ok := bs.Peek()
		if !ok {
			break
		}
		if b0 == '\r' || b0 == '\n' {
			bs.ReadToCRLF()
			break
		}
		line, ok := bs.ReadLogicalLine()
		if !ok {
			break
		}
		name, rawVal, ok := splitHeaderLine(line)
		if !ok {
			continue
		}
		fields = append(fields, Field{Name: name, Value: ParseHeaderField(m.Charsets, m.Config, name, rawVal)})
	}
	p.Header = Header{Fields: fields}
	p.HeaderEnd = rawStart + bs.Pos()
	p.BodyStart = p.HeaderEnd
	p.BodyEnd = rawEnd

	resolveContentType(p)
	resolveDisposition(p)
	if f := p.Header.First("Content-Transfer-Encoding"); f != nil {
		p.TransferEncoding = strings.ToLower(strings.TrimSpace(f.Value.Text))
	}

	if depth >= m.Config.MaxDepth {
		log.Debug("MIME nesting exceeded max depth, freezing as opaque attachment", slog.Int("part", idx), slog.Int("depth", depth))
		p.DepthCapped = true
		p.ContentType = ContentTypeValue{Type: "application", Subtype: "octet-stream", Params: p.ContentType.Params}
		p.Kind = KindBinaryPart
		p.Payload = Payload{Kind: PayloadRaw, Raw: m.Buffer[p.BodyStart:p.BodyEnd]}
		return idx
	}

	switch {
	case p.ContentType.Type == "multipart":
		m.parseMultipart(p, depth)
	case p.ContentType.Type == "message" && (p.ContentType.Subtype == "rfc822" || p.ContentType.Subtype == "global"):
		p.Kind = KindNestedMessagePart
		p.Payload = Payload{Kind: PayloadNestedMessage}
		if !m.Config.LazyNestedMessages {
			m.parseNestedMessage(p)
		}
	default:
		m.parseLeaf(p)
	}
	return idx
}

// splitHeaderLine splits an already-unfolded header line into its name and
// value, trimming any spaces and tabs after the colon. ok is false
// for a line with no colon at all, which is dropped (tolerant: there is no
// header to attribute it to).
func splitHeaderLine(line []byte) (name, value string, ok bool) {
	i := bytes.IndexByte(line, ':')
	if i < 0 {
		return "", "", false
	}
	name = string(line[:i])
	value = strings.TrimLeft(string(line[i+1:]), " \t")
	return name, value, true
}

func resolveContentType(p *Part) {
	if f := p.Header.First("Content-Type"); f != nil && f.Value.Kind == KindContentType {
		p.ContentType = f.Value.ContentType
		p.HasContentType = true
	}
	if p.ContentType.Type == "" {
		p.ContentType = ContentTypeValue{Type: "text", Subtype: "plain"}
	}
	if p.ContentType.Params == nil {
		p.ContentType.Params = map[string]string{}
	}
}

func resolveDisposition(p *Part) {
	if f := p.Header.First("Content-Disposition"); f != nil && f.Value.Kind == KindDisposition {
		p.Disposition = f.Value.Disposition
		p.HasDisposition = true
	}
}

// parseLeaf applies Content-Transfer-Encoding and classifies the part as
// text, HTML or binary.
func (m *Message) parseLeaf(p *Part) {
	raw := m.Buffer[p.BodyStart:p.BodyEnd]
	switch p.TransferEncoding {
	case "base64", "quoted-printable":
		decoded, _ := decodeTransfer(p.TransferEncoding, raw)
		p.Payload = Payload{Kind: PayloadDecoded, Decoded: decoded}
	default:
		p.Payload = Payload{Kind: PayloadRaw, Raw: raw}
	}

	switch {
	case p.ContentType.Type == "text" && p.ContentType.Subtype == "html":
		p.Kind = KindHTMLPart
	case p.ContentType.Type == "text":
		p.Kind = KindTextPart
	default:
		p.Kind = KindBinaryPart
	}
}

// parseNestedMessage parses a message/rfc822 or message/global part's body
// as an independent Message, decoding its transfer-encoding first if
// needed. Called at most once per part.
func (m *Message) parseNestedMessage(p *Part) {
	if p.nestedParsed {
		return
	}
	p.nestedParsed = true

	raw := m.Buffer[p.BodyStart:p.BodyEnd]
	var body []byte
	if p.TransferEncoding == "base64" || p.TransferEncoding == "quoted-printable" {
		body, _ = decodeTransfer(p.TransferEncoding, raw)
	} else {
		body = make([]byte, len(raw))
		copy(body, raw)
	}

	nested := &Message{Buffer: body, Config: m.Config, Charsets: m.Charsets}
	nested.Root = nested.parsePart(0, len(body), -1, p.depth+1)
	nested.classify()
	p.nestedMessage = nested
}

// parseMultipart reads the boundary parameter and recursively parses each
// child part between successive delimiter lines (spec section 4.10 steps
// 1-4). A missing boundary degrades the part to text/plain.
func (m *Message) parseMultipart(p *Part, depth int) {
	boundary := p.ContentType.Params["boundary"]
	if boundary == "" {
		log.Debug("multipart with no boundary parameter, treating as text/plain", slog.Int("part", p.Index))
		p.ContentType = ContentTypeValue{Type: "text", Subtype: "plain", Params: p.ContentType.Params}
		m.parseLeaf(p)
		return
	}

	p.Kind = KindMultipartContainer
	marker := "--" + boundary
	body := m.Buffer[p.BodyStart:p.BodyEnd]
	matches := findBoundaryLines(body, marker)

	var children []int
	for i, bm := range matches {
		if bm.closing {
			break
		}
		start := bm.partStart
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1].contentBoundary
		}
		if end < start {
			end = start
		}
		children = append(children, m.parsePart(p.BodyStart+start, p.BodyStart+end, p.Index, depth+1))
	}
	p.Payload = Payload{Kind: PayloadMultipart, Children: children}
}

// boundaryMatch locates one occurrence of a multipart delimiter line within
// a part's body.
type boundaryMatch struct {
	contentBoundary int // end of the preceding content, excluding its line terminator
	partStart       int // start of the following part, if any (just past this delimiter line)
	closing         bool
}

// findBoundaryLines finds every occurrence of marker ("--boundary") at the
// start of a physical line within body, tolerating a bare LF as well as
// CRLF before it, and a delimiter at the very start of the body with no
// preceding terminator at all (spec section 4.10 step 3).
func findBoundaryLines(body []byte, marker string) []boundaryMatch {
	var out []boundaryMatch
	mb := []byte(marker)
	pos := 0
	for pos <= len(body)-len(mb) {
		termLen := -1
		if pos == 0 {
			termLen = 0
		} else if body[pos-1] == '\n' {
			if pos >= 2 && body[pos-2] == '\r' {
				termLen = 2
			} else {
				termLen = 1
			}
		} else if body[pos-1] == '\r' {
			termLen = 1
		}
		if termLen < 0 || !bytes.HasPrefix(body[pos:], mb) {
			pos++
			continue
		}

		after := pos + len(mb)
		closing := bytes.HasPrefix(body[after:], []byte("--"))
		end := after
		if closing {
			end += 2
		}
		for end < len(body) && body[end] != '\n' && body[end] != '\r' {
			end++
		}
		lineTermLen := 0
		if end < len(body) {
			if body[end] == '\r' && end+1 < len(body) && body[end+1] == '\n' {
				lineTermLen = 2
			} else {
				lineTermLen = 1
			}
		}

		out = append(out, boundaryMatch{
			contentBoundary: pos - termLen,
			partStart:       end + lineTermLen,
			closing:         closing,
		})
		pos = end + lineTermLen
	}
	return out
}
