package message

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// TextCharsetDecoder is a CharsetDecoder backed by golang.org/x/text. It
// covers the legacy single-byte and CJK multi-byte charsets that commonly
// appear in mail beyond the three mandatory built-ins (UTF-8, US-ASCII,
// ISO-8859-1), plus UTF-16 with and without BOM.
type TextCharsetDecoder struct {
	// extra holds encodings not reachable through ianaindex/htmlindex under
	// the label mail senders commonly use (mostly UTF-16 variants and a few
	// CJK aliases).
	extra map[string]encoding.Encoding
}

// NewTextCharsetDecoder returns a CharsetDecoder exercising the
// golang.org/x/text encoding families relevant to mail: IANA/MIME charset
// lookup for everything with a registered name, plus a handful of explicit
// aliases the registries don't carry.
func NewTextCharsetDecoder() *TextCharsetDecoder {
	return &TextCharsetDecoder{
		extra: map[string]encoding.Encoding{
			"utf-16":    unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
			"utf-16be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
			"utf-16le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
			"windows-1252": charmap.Windows1252,
			"windows-1251": charmap.Windows1251,
			"windows-1250": charmap.Windows1250,
			"koi8-r":       charmap.KOI8R,
			"gbk":          simplifiedchinese.GBK,
			"gb2312":       simplifiedchinese.HZGB2312,
			"gb18030":      simplifiedchinese.GB18030,
			"big5":         traditionalchinese.Big5,
			"euc-jp":       japanese.EUCJP,
			"shift-jis":    japanese.ShiftJIS,
			"shift_jis":    japanese.ShiftJIS,
			"iso-2022-jp":  japanese.ISO2022JP,
			"euc-kr":       korean.EUCKR,
		},
	}
}

// Decode implements CharsetDecoder.
func (d *TextCharsetDecoder) Decode(label string, b []byte) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(label))
	if enc, ok := d.extra[key]; ok {
		return decodeWith(enc, b)
	}
	if enc, err := ianaindex.MIME.Encoding(label); err == nil && enc != nil {
		return decodeWith(enc, b)
	}
	if enc, err := ianaindex.IANA.Encoding(label); err == nil && enc != nil {
		return decodeWith(enc, b)
	}
	if enc, err := htmlindex.Get(label); err == nil && enc != nil {
		return decodeWith(enc, b)
	}
	return "", false
}

func decodeWith(enc encoding.Encoding, b []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}
