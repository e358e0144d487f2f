package message

import (
	"strings"
	"unicode/utf8"
)

// CharsetDecoder is the external collaborator the core delegates
// non-built-in character set conversion to. Implementations must be pure and
// must never panic; an unknown label should be reported via ok=false so the
// caller can fall back to Latin-1.
type CharsetDecoder interface {
	Decode(label string, b []byte) (s string, ok bool)
}

// CharsetRegistry resolves a charset label (case-insensitive, alias
// tolerant) to decoded Unicode text. UTF-8, US-ASCII and ISO-8859-1 are
// always handled internally; any other label is delegated to an optional
// CharsetDecoder, falling back to Latin-1 so decoding never fails.
type CharsetRegistry struct {
	External CharsetDecoder
}

// NewCharsetRegistry returns a registry that delegates unknown labels to
// external. external may be nil, in which case every unrecognized label
// falls back to Latin-1.
func NewCharsetRegistry(external CharsetDecoder) *CharsetRegistry {
	return &CharsetRegistry{External: external}
}

// canonicalCharset normalizes common spellings of a charset label so lookups
// are tolerant of "utf8", "UTF_8", "utf-8", etc.
func canonicalCharset(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.NewReplacer("_", "-", " ", "-").Replace(s)
	switch s {
	case "utf8", "utf-8", "unicode-1-1-utf-8":
		return "utf-8"
	case "ascii", "us-ascii", "ansi-x3.4-1968", "ansi-x3.4-1986", "646":
		return "us-ascii"
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1", "cp819":
		return "iso-8859-1"
	}
	return s
}

// Decode converts b, labeled with charset, to a Unicode string. Decoding
// never fails: an unknown charset (or a nil External) decodes as Latin-1,
// and unknownCharset reports that fallback so callers can flag the part.
func (r *CharsetRegistry) Decode(charset string, b []byte) (s string, unknownCharset bool) {
	switch canonicalCharset(charset) {
	case "", "utf-8":
		return decodeUTF8Lenient(b), false
	case "us-ascii":
		return decodeASCIILenient(b), false
	case "iso-8859-1":
		return decodeLatin1(b), false
	}
	if r != nil && r.External != nil {
		if s, ok := r.External.Decode(charset, b); ok {
			return s, false
		}
	}
	return decodeLatin1(b), true
}

// decodeLatin1 maps each byte to the Unicode code point of the same value,
// which is exactly what ISO-8859-1 (Latin-1) means.
func decodeLatin1(b []byte) string {
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}

// decodeASCIILenient decodes as US-ASCII, replacing any byte outside the
// 7-bit range with U+FFFD rather than failing.
func decodeASCIILenient(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
		} else {
			sb.WriteRune('�')
		}
	}
	return sb.String()
}

// decodeUTF8Lenient decodes as UTF-8, substituting U+FFFD for invalid byte
// sequences instead of failing.
func decodeUTF8Lenient(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
