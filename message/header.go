package message

import (
	"log/slog"
	"strings"
)

// HeaderKind identifies which variant of HeaderValue is populated.
type HeaderKind int

const (
	KindText HeaderKind = iota
	KindAddress
	KindContentType
	KindDateTime
	KindReceived
	KindMessageIds
	KindKeywords
	KindDisposition
	KindRaw
)

// ReceivedValue is the parsed value of a Received header: its raw path
// tokens (from/by/via/with/id/for, kept as tokens rather than further
// structured, per spec section 2's "Received (path + tokens)") and the
// trailing date-time, if any.
type ReceivedValue struct {
	Tokens   []string
	DateTime DateValue
	DateOK   bool
}

// HeaderValue is the tagged union described in spec section 3. Only the
// field matching Kind is meaningful.
type HeaderValue struct {
	Kind HeaderKind

	Text        string
	Address     AddressList
	ContentType ContentTypeValue
	Disposition ContentDispositionValue
	DateTime    DateValue
	DateOK      bool
	Received    ReceivedValue
	MessageIds  []string
	Keywords    []string
	Raw         []byte
}

// Field is one (name, value) header pair, in wire order.
type Field struct {
	Name  string // case as it appeared on the wire
	Value HeaderValue
}

// Header is the ordered list of a part's header fields.
type Header struct {
	Fields []Field
}

// First returns the first field with the given name (case-insensitive), or
// nil if none is present.
func (h *Header) First(name string) *Field {
	for i := range h.Fields {
		if strings.EqualFold(h.Fields[i].Name, name) {
			return &h.Fields[i]
		}
	}
	return nil
}

// All returns every field with the given name (case-insensitive), in wire
// order.
func (h *Header) All(name string) []Field {
	var out []Field
	for _, f := range h.Fields {
		if strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	return out
}

// headerRule describes how HeaderDispatcher handles one header name.
type headerRule struct {
	kind HeaderKind
}

// dispatchTable maps a lowercased header name to the structured parser it
// owns. Header names not present here are treated as Text (spec section
// 4.9: "unknown headers are stored as Text").
var dispatchTable = map[string]headerRule{
	"from":             {KindAddress},
	"to":               {KindAddress},
	"cc":               {KindAddress},
	"bcc":              {KindAddress},
	"reply-to":         {KindAddress},
	"sender":           {KindAddress},
	"resent-from":      {KindAddress},
	"resent-to":        {KindAddress},
	"resent-cc":        {KindAddress},
	"resent-bcc":       {KindAddress},
	"resent-sender":    {KindAddress},
	"content-type":     {KindContentType},
	"content-disposition": {KindDisposition},
	"date":             {KindDateTime},
	"resent-date":      {KindDateTime},
	"received":         {KindReceived},
	"message-id":       {KindMessageIds},
	"resent-message-id": {KindMessageIds},
	"content-id":       {KindMessageIds},
	"in-reply-to":      {KindMessageIds},
	"references":       {KindMessageIds},
	"keywords":         {KindKeywords},
	"subject":          {KindText},
	"comments":         {KindText},
	"content-description": {KindText},
}

// ParseHeaderField builds the structured HeaderValue for one header field,
// dispatching on name per spec section 4.9. A date header that ParseDate
// rejects, and an empty value for any other structured kind except
// addresses, is stored as Raw rather than dropped (spec section 7 and the
// supplemented raw-value fallback): the header line is never lost. Address
// headers are always stored as parsed address lists, and a non-empty
// Content-Type or Content-Disposition is always stored parsed, even without
// a "/".
func ParseHeaderField(reg *CharsetRegistry, cfg Config, name, rawValue string) HeaderValue {
	rule, known := dispatchTable[strings.ToLower(strings.TrimSpace(name))]
	kind := KindText
	if known {
		kind = rule.kind
	}

	switch kind {
	case KindAddress:
		return HeaderValue{Kind: KindAddress, Address: ParseAddressList(reg, cfg, rawValue)}
	case KindContentType:
		if strings.TrimSpace(rawValue) == "" {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindContentType, ContentType: ParseContentType(reg, rawValue)}
	case KindDisposition:
		if strings.TrimSpace(rawValue) == "" {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindDisposition, Disposition: ParseContentDisposition(reg, rawValue)}
	case KindDateTime:
		d, ok := ParseDate(rawValue)
		if !ok {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindDateTime, DateTime: d, DateOK: true}
	case KindReceived:
		if strings.TrimSpace(rawValue) == "" {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindReceived, Received: parseReceived(rawValue)}
	case KindMessageIds:
		if strings.TrimSpace(rawValue) == "" {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindMessageIds, MessageIds: parseMessageIds(rawValue)}
	case KindKeywords:
		if strings.TrimSpace(rawValue) == "" {
			return rawHeaderValue(name, rawValue)
		}
		return HeaderValue{Kind: KindKeywords, Keywords: parseKeywords(reg, cfg, rawValue)}
	default:
		return HeaderValue{Kind: KindText, Text: decodeUnstructuredText(reg, cfg, rawValue)}
	}
}

func rawHeaderValue(name, rawValue string) HeaderValue {
	log.Debug("malformed header, storing raw", slog.String("name", name))
	return HeaderValue{Kind: KindRaw, Raw: []byte(rawValue)}
}

// decodeUnstructuredText decodes encoded-words and collapses every whitespace
// run (including the fold whitespace ReadLogicalLine keeps) into a single
// space, giving a clean single-line string, for Subject/Comments/Content-Description-style headers. When
// cfg.TolerateEightBitHeaders is false, any raw byte outside 7-bit ASCII
// that survives encoded-word decoding is replaced with U+FFFD rather than
// passed through as an untagged RFC 6532 byte.
func decodeUnstructuredText(reg *CharsetRegistry, cfg Config, s string) string {
	if strings.Contains(s, "=?") {
		s = DecodeEncodedWords(reg, s)
	}
	s = collapseWS(s)
	if !cfg.TolerateEightBitHeaders && !isASCIIText(s) {
		log.Debug("non-ASCII byte in header value, TolerateEightBitHeaders disabled")
		s = asciiSanitizeText(s)
	}
	return s
}

// collapseWS collapses any run of whitespace to a single space and trims the
// ends, used for display-name/comment text reassembled from header tokens.
func collapseWS(s string) string {
	var sb strings.Builder
	inWS := false
	for _, r := range s {
		if isWSRune(r) {
			if !inWS && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			inWS = true
			continue
		}
		inWS = false
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String())
}

func isASCIIText(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// asciiSanitizeText replaces every rune outside 7-bit ASCII with U+FFFD, for
// the strict (non-RFC-6532-tolerant) header decode path.
func asciiSanitizeText(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('�')
		}
	}
	return sb.String()
}

// parseReceived splits a Received header into its leading path tokens and
// trailing date-time, at the last ";" outside comments (per RFC 5322's trace
// grammar: "received = name-val-list ';' date-time").
func parseReceived(raw string) ReceivedValue {
	stripped := stripComments(raw)
	i := strings.LastIndexByte(stripped, ';')
	if i < 0 {
		return ReceivedValue{Tokens: strings.Fields(stripped)}
	}
	tokens := strings.Fields(stripped[:i])
	d, ok := ParseDate(stripped[i+1:])
	return ReceivedValue{Tokens: tokens, DateTime: d, DateOK: ok}
}

// parseMessageIds splits a References/In-Reply-To/Message-ID/Content-ID
// value into its msg-id tokens, each "<...>". A value with no "<...>" token
// at all is split on whitespace and its tokens are taken verbatim (tolerant);
// bare tokens beside a "<...>" token are dropped.
func parseMessageIds(raw string) []string {
	var ids []string
	s := raw
	for {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			break
		}
		j := strings.IndexByte(s[i+1:], '>')
		if j < 0 {
			break
		}
		ids = append(ids, s[i:i+1+j+1])
		s = s[i+1+j+1:]
	}
	if len(ids) == 0 {
		for _, f := range strings.Fields(raw) {
			ids = append(ids, f)
		}
	}
	return ids
}

// parseKeywords splits a Keywords header into its comma-separated phrases,
// decoding encoded-words in each (spec section 4, supplemented features).
func parseKeywords(reg *CharsetRegistry, cfg Config, raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = decodeUnstructuredText(reg, cfg, p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
