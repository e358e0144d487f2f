package message

import (
	"strconv"
	"strings"
	"time"
)

// DateValue is a parsed RFC 5322 date-time. ZoneKnown is false for the
// military zone letters (other than the named UT/GMT/US zones), which RFC
// 5322 section 4.3 says must be treated as indeterminate rather than taken
// at face value; ZoneOffsetMinutes is 0 in that case.
type DateValue struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	ZoneOffsetMinutes    int
	ZoneKnown            bool
}

// Time returns t as a time.Time in a fixed zone matching ZoneOffsetMinutes
// (UTC when the zone is indeterminate).
func (d DateValue) Time() time.Time {
	loc := time.FixedZone("", d.ZoneOffsetMinutes*60)
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, 0, loc)
}

// ParseDate parses an RFC 5322 date-time header value (spec section 4.9),
// tolerating the obsolete 2/3-digit year forms and the obsolete named and
// military time zones. ok is false when the value cannot be recognized as a
// date-time at all.
func ParseDate(s string) (DateValue, bool) {
	fields := strings.Fields(stripComments(s))
	if len(fields) > 0 && strings.HasSuffix(fields[0], ",") {
		fields = fields[1:]
	}
	if len(fields) < 5 {
		return DateValue{}, false
	}

	day, err := strconv.Atoi(fields[0])
	if err != nil || day < 1 || day > 31 {
		return DateValue{}, false
	}
	month, ok := monthNumber(fields[1])
	if !ok {
		return DateValue{}, false
	}
	year, ok := parseYear(fields[2])
	if !ok {
		return DateValue{}, false
	}
	hour, minute, second, ok := parseTimeOfDay(fields[3])
	if !ok {
		return DateValue{}, false
	}
	offset, known := parseZone(fields[4])

	return DateValue{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second,
		ZoneOffsetMinutes: offset, ZoneKnown: known,
	}, true
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

func monthNumber(s string) (int, bool) {
	if len(s) < 3 {
		return 0, false
	}
	m, ok := monthNames[strings.ToLower(s[:3])]
	return m, ok
}

// parseYear implements the RFC 5322 section 4.3 obsolete year rule: a
// 2-digit year less than 50 means 20xx, otherwise 19xx; a 3-digit year means
// 19xx; 4 or more digits are taken literally.
func parseYear(s string) (int, bool) {
	if s == "" || !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	switch len(s) {
	case 1, 2:
		if n < 50 {
			return 2000 + n, true
		}
		return 1900 + n, true
	case 3:
		return 1900 + n, true
	default:
		return n, true
	}
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseTimeOfDay(s string) (hour, minute, second int, ok bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}
	var err error
	if hour, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if minute, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if len(parts) == 3 {
		if second, err = strconv.Atoi(parts[2]); err != nil {
			return 0, 0, 0, false
		}
	}
	return hour, minute, second, true
}

// namedZones are the named zones RFC 5322 section 4.3 recognizes besides
// the numeric "+hhmm"/"-hhmm" form; all other letter zones are obsolete
// military zones whose meaning was defined inconsistently and so must be
// treated as indeterminate.
var namedZones = map[string]int{
	"UT": 0, "GMT": 0, "UTC": 0,
	"EST": -5 * 60, "EDT": -4 * 60,
	"CST": -6 * 60, "CDT": -5 * 60,
	"MST": -7 * 60, "MDT": -6 * 60,
	"PST": -8 * 60, "PDT": -7 * 60,
}

func parseZone(s string) (offsetMinutes int, known bool) {
	if len(s) == 5 && (s[0] == '+' || s[0] == '-') && isAllDigits(s[1:]) {
		hh, _ := strconv.Atoi(s[1:3])
		mm, _ := strconv.Atoi(s[3:5])
		offset := hh*60 + mm
		if s[0] == '-' {
			offset = -offset
		}
		if offset == 0 && s[0] == '-' {
			return 0, false // "-0000": explicitly unknown local offset
		}
		return offset, true
	}
	if off, ok := namedZones[strings.ToUpper(s)]; ok {
		return off, true
	}
	return 0, false
}

// stripComments removes RFC 5322 parenthesized comments from s (nested,
// backslash-escape aware), replacing each with a single space.
func stripComments(s string) string {
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && depth > 0 && i+1 < len(s):
			i++
		case c == '(':
			depth++
			if depth == 1 {
				sb.WriteByte(' ')
			}
		case c == ')' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
