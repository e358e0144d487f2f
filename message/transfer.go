package message

import (
	"strings"
)

// base64Value maps each byte of the standard RFC 4648 alphabet to its 6-bit
// value and every other byte to -1; such bytes are ignored rather than
// treated as an error (spec section 4.4).
var base64Value [256]int8

func init() {
	for i := range base64Value {
		base64Value[i] = -1
	}
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	for i := 0; i < len(alphabet); i++ {
		base64Value[alphabet[i]] = int8(i)
	}
}

// decodeBase64Lenient decodes b as base64, ignoring any byte outside the
// alphabet (including padding, newlines and stray whitespace) and tolerating
// missing padding. It is bit-exact with RFC 4648 for well-formed input.
func decodeBase64Lenient(b []byte) []byte {
	var quantum [4]int8
	n := 0
	out := make([]byte, 0, len(b)*3/4+3)
	for _, c := range b {
		v := base64Value[c]
		if v < 0 {
			continue
		}
		quantum[n] = v
		n++
		if n == 4 {
			out = append(out,
				byte(quantum[0])<<2|byte(quantum[1])>>4,
				byte(quantum[1])<<4|byte(quantum[2])>>2,
				byte(quantum[2])<<6|byte(quantum[3]))
			n = 0
		}
	}
	switch n {
	case 2:
		out = append(out, byte(quantum[0])<<2|byte(quantum[1])>>4)
	case 3:
		out = append(out,
			byte(quantum[0])<<2|byte(quantum[1])>>4,
			byte(quantum[1])<<4|byte(quantum[2])>>2)
	}
	return out
}

// decodeQuotedPrintable implements RFC 2045 quoted-printable decoding:
// "=XX" hex-decodes a byte, a trailing "=" at end of line is a soft line
// break (removed along with the line terminator), trailing whitespace on a
// line is stripped before the line terminator, and an invalid "=XX" escape
// (non-hex digits) passes through verbatim.
func decodeQuotedPrintable(b []byte) []byte {
	out := make([]byte, 0, len(b))
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '=' && i+1 < len(b) && (b[i+1] == '\n' || (b[i+1] == '\r' && i+2 < len(b) && b[i+2] == '\n')):
			// Soft line break.
			if b[i+1] == '\r' {
				i += 3
			} else {
				i += 2
			}
		case c == '=' && i+1 == len(b):
			// Trailing soft break with no following data.
			i++
		case c == '=' && i+2 < len(b) && isHex(b[i+1]) && isHex(b[i+2]):
			out = append(out, hexVal(b[i+1])<<4|hexVal(b[i+2]))
			i += 3
		case c == '\r' && i+1 < len(b) && b[i+1] == '\n':
			out = trimTrailingWS(out)
			out = append(out, '\r', '\n')
			i += 2
		case c == '\n':
			out = trimTrailingWS(out)
			out = append(out, '\n')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return out
}

// trimTrailingWS strips trailing SP/HTAB already written to out, per the QP
// rule that terminal whitespace on a line is removed before the line ending.
func trimTrailingWS(out []byte) []byte {
	j := len(out)
	for j > 0 && (out[j-1] == ' ' || out[j-1] == '\t') {
		j--
	}
	return out[:j]
}

// decodeTransfer applies the Content-Transfer-Encoding named by cte (case
// sensitivity is the caller's concern; compare is case-insensitive here) to
// body. 7bit/8bit/binary and unknown encodings are the identity transform.
func decodeTransfer(cte string, body []byte) (decoded []byte, expanded bool) {
	switch strings.ToUpper(strings.TrimSpace(cte)) {
	case "BASE64":
		return decodeBase64Lenient(body), false
	case "QUOTED-PRINTABLE":
		return decodeQuotedPrintable(body), false
	default:
		return body, false
	}
}
