package message

import "strings"

// ThreadName strips RFC 5256 base-subject noise (Re:/Fwd:/Fw: prefixes,
// optional "[n]" reply counts, leading "[tag]" mailing-list markers, and a
// trailing "(fwd)") repeatedly until a fixpoint, for spec section 4.12's
// thread_name() helper. isResponse reports whether any Re:/Fwd:/Fw: prefix
// was found and stripped.
func ThreadName(subject string) (name string, isResponse bool) {
	s := subject
	for {
		if t := strings.TrimRight(s, " \t"); t != s {
			s = t
			continue
		}
		if t := stripFwdSuffix(s); t != s {
			s = t
			continue
		}
		if t := strings.TrimLeft(s, " \t"); t != s {
			s = t
			continue
		}
		if t, ok := stripLeadingTag(s); ok {
			s = t
			continue
		}
		if t, ok := stripLeadingRefwd(s); ok {
			s = t
			isResponse = true
			continue
		}
		break
	}
	return s, isResponse
}

func stripFwdSuffix(s string) string {
	if len(s) >= 5 && strings.EqualFold(s[len(s)-5:], "(fwd)") {
		return s[:len(s)-5]
	}
	return s
}

// stripLeadingTag removes one leading "[...]" mailing-list tag, e.g.
// "[SUSPECTED SPAM] Subject" -> " Subject".
func stripLeadingTag(s string) (string, bool) {
	if !strings.HasPrefix(s, "[") {
		return s, false
	}
	i := strings.IndexByte(s, ']')
	if i < 0 {
		return s, false
	}
	return s[i+1:], true
}

// stripLeadingRefwd removes one leading "re"/"fwd"/"fw" response marker,
// with an optional "[n]" reply count, up to and including its ":".
func stripLeadingRefwd(s string) (string, bool) {
	lower := strings.ToLower(s)
	for _, prefix := range []string{"re", "fwd", "fw"} {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := s[len(prefix):]
		restLower := lower[len(prefix):]
		if strings.HasPrefix(restLower, "[") {
			if j := strings.IndexByte(rest, ']'); j >= 0 {
				rest = rest[j+1:]
				restLower = restLower[j+1:]
			}
		}
		trimmed := strings.TrimLeft(rest, " \t")
		if strings.HasPrefix(trimmed, ":") {
			return trimmed[1:], true
		}
	}
	return s, false
}
