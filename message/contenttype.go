package message

import (
	"sort"
	"strconv"
	"strings"
)

// ContentTypeValue is the parsed value of a Content-Type header: the media
// type, subtype, and its parameters (spec section 4.7).
type ContentTypeValue struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// ContentDispositionValue is the parsed value of a Content-Disposition
// header.
type ContentDispositionValue struct {
	Disposition string
	Params      map[string]string
}

// ParseContentType parses an RFC 2045/2231 Content-Type header value.
// Parsing never fails: a missing "/" leaves Subtype empty, and malformed
// parameters are skipped rather than aborting the whole header.
func ParseContentType(reg *CharsetRegistry, s string) ContentTypeValue {
	main, rest := splitMainValue(s)
	typ, subtype := main, ""
	if i := strings.IndexByte(main, '/'); i >= 0 {
		typ, subtype = main[:i], main[i+1:]
	}
	return ContentTypeValue{
		Type:    strings.ToLower(strings.TrimSpace(typ)),
		Subtype: strings.ToLower(strings.TrimSpace(subtype)),
		Params:  parseParams(reg, rest),
	}
}

// ParseContentDisposition parses an RFC 2183 Content-Disposition header
// value.
func ParseContentDisposition(reg *CharsetRegistry, s string) ContentDispositionValue {
	main, rest := splitMainValue(s)
	return ContentDispositionValue{
		Disposition: strings.ToLower(strings.TrimSpace(main)),
		Params:      parseParams(reg, rest),
	}
}

func splitMainValue(s string) (main, rest string) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return strings.TrimSpace(s[:i]), s[i+1:]
	}
	return strings.TrimSpace(s), ""
}

// rawParam is one ";name=value" or RFC 2231 ";name*idx*=value" segment.
type rawParam struct {
	name    string // lowercased base name, without any "*idx" or trailing "*"
	index   int    // continuation index, or -1 if this param has none
	starred bool   // this segment's value is RFC 2231 percent-encoded (charset'lang'value for index 0)
	value   string
}

// parseParams parses the ";name=value" segments following a Content-Type or
// Content-Disposition main value, handling RFC 2231 parameter continuations
// and charset-tagged extended values. Duplicate parameters (by name and
// continuation index) keep the first occurrence.
func parseParams(reg *CharsetRegistry, s string) map[string]string {
	raws := scanRawParams(s)

	groups := map[string][]rawParam{}
	var order []string
	for _, p := range raws {
		dup := false
		for _, existing := range groups[p.name] {
			if existing.index == p.index {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		if _, ok := groups[p.name]; !ok {
			order = append(order, p.name)
		}
		groups[p.name] = append(groups[p.name], p)
	}

	result := make(map[string]string, len(order))
	for _, name := range order {
		entries := groups[name]
		sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
		result[name] = buildParamValue(reg, entries)
	}
	return result
}

// buildParamValue assembles the final decoded value of one parameter from
// its (possibly single) ordered segments.
func buildParamValue(reg *CharsetRegistry, entries []rawParam) string {
	if len(entries) == 1 && !entries[0].starred {
		return entries[0].value
	}

	var raw []byte
	charset := ""
	sawCharset := false
	for i, e := range entries {
		if !e.starred {
			raw = append(raw, e.value...)
			continue
		}
		text := e.value
		if i == 0 {
			if q1 := strings.IndexByte(text, '\''); q1 >= 0 {
				if q2 := strings.IndexByte(text[q1+1:], '\''); q2 >= 0 {
					charset = text[:q1]
					text = text[q1+1+q2+1:]
					sawCharset = true
				}
			}
		}
		raw = append(raw, percentDecode(text)...)
	}
	if !sawCharset {
		return string(raw)
	}
	s, _ := reg.Decode(charset, raw)
	return s
}

// percentDecode decodes "%XX" escapes, passing through any byte that is not
// part of a well-formed escape.
func percentDecode(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			out = append(out, hexVal(s[i+1])<<4|hexVal(s[i+2]))
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return out
}

// scanRawParams splits s on unquoted ";" and parses each "name=value"
// segment, including the RFC 2231 "name*N*=" and "name*=" forms.
func scanRawParams(s string) []rawParam {
	var out []rawParam
	i, n := 0, len(s)
	for i < n {
		for i < n && (isWSByte(s[i]) || s[i] == ';') {
			i++
		}
		if i >= n {
			break
		}
		nameStart := i
		for i < n && s[i] != '=' && s[i] != ';' {
			i++
		}
		if i >= n || s[i] != '=' {
			for i < n && s[i] != ';' {
				i++
			}
			continue
		}
		rawName := strings.TrimSpace(s[nameStart:i])
		i++ // consume '='
		for i < n && isWSByte(s[i]) {
			i++
		}

		var value string
		if i < n && s[i] == '"' {
			value, i = scanQuotedParamValue(s, i)
		} else {
			valStart := i
			for i < n && s[i] != ';' {
				i++
			}
			value = strings.TrimSpace(s[valStart:i])
		}

		name, idx, starred := splitParamName(rawName)
		if name == "" {
			continue
		}
		out = append(out, rawParam{name: strings.ToLower(name), index: idx, starred: starred, value: value})
	}
	return out
}

func scanQuotedParamValue(s string, i int) (string, int) {
	n := len(s)
	i++ // opening quote
	var sb strings.Builder
	for i < n {
		c := s[i]
		if c == '\\' && i+1 < n {
			sb.WriteByte(s[i+1])
			i += 2
			continue
		}
		if c == '"' {
			i++
			break
		}
		sb.WriteByte(c)
		i++
	}
	return sb.String(), i
}

// splitParamName parses a raw parameter name into its base name, RFC 2231
// continuation index (-1 if none), and whether this segment's value is
// percent-encoded.
func splitParamName(rawName string) (name string, index int, starred bool) {
	index = -1
	base := rawName
	if strings.HasSuffix(base, "*") {
		starred = true
		base = base[:len(base)-1]
	}
	if star := strings.IndexByte(base, '*'); star >= 0 {
		if idx, err := strconv.Atoi(base[star+1:]); err == nil {
			index = idx
			base = base[:star]
		}
	}
	return base, index, starred
}
