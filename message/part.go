package message

// PartKind classifies a Part for the purposes of the body classifier and
// the façade, per spec section 3's "computed kind".
type PartKind int

const (
	KindBinaryPart PartKind = iota
	KindTextPart
	KindHTMLPart
	KindNestedMessagePart
	KindMultipartContainer
)

// PayloadKind selects which field of Payload is meaningful.
type PayloadKind int

const (
	PayloadRaw PayloadKind = iota
	PayloadDecoded
	PayloadMultipart
	PayloadNestedMessage
)

// Payload is the part body (spec section 3): either a zero-copy slice of
// the input, a newly decoded buffer, or a list of child part indices. For
// message/rfc822 parts only Kind is set (PayloadNestedMessage); the nested
// message itself is reached through Part.Message.
type Payload struct {
	Kind     PayloadKind
	Raw      []byte // PayloadRaw: slice of Message.Buffer, no transfer-decoding needed
	Decoded  []byte // PayloadDecoded: newly allocated, transfer-decoded bytes
	Children []int  // PayloadMultipart: indices into Message.Parts
}

// Part is one node of the flat part tree (spec section 3 "flat arena +
// indices"). ParentIndex is -1 for the root.
type Part struct {
	Index       int
	ParentIndex int

	Header      Header
	ContentType ContentTypeValue
	HasContentType bool // the part actually carried a Content-Type header

	Disposition    ContentDispositionValue
	HasDisposition bool

	RawStart, RawEnd       int // the part's full byte range, header+body, within Message.Buffer
	HeaderStart, HeaderEnd int
	BodyStart, BodyEnd     int // the body's range before transfer-decoding

	TransferEncoding string // lowercased Content-Transfer-Encoding, "" if absent

	Kind    PartKind
	Payload Payload

	UnknownCharset bool // body charset fell back to Latin-1 (spec section 4.3/7)
	DepthCapped    bool // this part exceeded Config.MaxDepth and was frozen opaque

	nestedParsed  bool
	nestedMessage *Message // the lazily parsed message/rfc822 submessage, once parsed

	depth int     // MIME nesting depth, cumulative across message/rfc822 boundaries
	msg   *Message // owning Message, used to trigger lazy nested parsing
}

// Message returns the parsed submessage of a message/rfc822 or
// message/global part, parsing it on first access (spec section 4.10 step
// 5, section 9 "lazy parsing of nested messages"). It returns nil for any
// other part kind.
func (p *Part) Message() *Message {
	if p.Payload.Kind != PayloadNestedMessage {
		return nil
	}
	if !p.nestedParsed {
		p.msg.parseNestedMessage(p)
	}
	return p.nestedMessage
}

// Message is the parsed representation of one RFC 5322 / MIME message
// (spec section 3). Parts[0] is always the root.
type Message struct {
	Buffer   []byte
	Config   Config
	Charsets *CharsetRegistry

	Parts []*Part
	Root  int

	TextBodies  []int // indices into Parts, per spec section 4.11
	HTMLBodies  []int
	Attachments []int
}

// Part returns the part at index i, or nil if i is out of range.
func (m *Message) Part(i int) *Part {
	if i < 0 || i >= len(m.Parts) {
		return nil
	}
	return m.Parts[i]
}

// Walk visits every reachable part depth-first starting at root, calling fn
// with each part and its depth (root is depth 0). Nested message/rfc822
// subtrees are not visited, whether or not they have been parsed (Walk never
// forces lazy parsing).
func (m *Message) Walk(root int, fn func(p *Part, depth int)) {
	m.walk(root, 0, fn)
}

func (m *Message) walk(idx, depth int, fn func(p *Part, depth int)) {
	p := m.Part(idx)
	if p == nil {
		return
	}
	fn(p, depth)
	if p.Payload.Kind == PayloadMultipart {
		for _, c := range p.Payload.Children {
			m.walk(c, depth+1, fn)
		}
	}
	// message/rfc822 children live in their own Message (see Part.Message);
	// Walk does not cross that boundary or force lazy parsing.
}

// Body returns the part's current byte payload: the transfer-decoded body
// for leaf parts, or nil for multipart/nested-message parts whose content
// lives in their children.
func (p *Part) Body() []byte {
	switch p.Payload.Kind {
	case PayloadRaw:
		return p.Payload.Raw
	case PayloadDecoded:
		return p.Payload.Decoded
	default:
		return nil
	}
}

// Filename returns the part's best-effort filename: the Content-Disposition
// "filename" parameter, falling back to Content-Type's "name" parameter
// (a common non-conformant but widespread placement).
func (p *Part) Filename() (string, bool) {
	if p.HasDisposition {
		if v, ok := p.Disposition.Params["filename"]; ok && v != "" {
			return v, true
		}
	}
	if v, ok := p.ContentType.Params["name"]; ok && v != "" {
		return v, true
	}
	return "", false
}

// IsAttachmentDisposition reports whether the part explicitly declared
// Content-Disposition: attachment.
func (p *Part) IsAttachmentDisposition() bool {
	return p.HasDisposition && p.Disposition.Disposition == "attachment"
}
