package message

import "strings"

// Addr is one mailbox: an optional display name and an optional address.
// Per spec section 3, a well-formed "a@b" always populates Address; Name is
// nil when no display-name or comment contributed one.
type Addr struct {
	Name    *string
	Address *string
}

// Group is a named list of mailboxes terminated by ";" in the header
// grammar. An anonymous group (Name == nil) holds either one stray top-level
// address outside any real group, or a single trailing comment.
type Group struct {
	Name      *string
	Addresses []Addr
}

// AddressList is the parsed value of an address-list header: either a flat
// list of mailboxes, or a list of groups (used as soon as any group syntax
// appeared at the top level; bare addresses are then wrapped in anonymous
// singleton groups so ordering is preserved).
type AddressList struct {
	IsGroups  bool
	Addresses []Addr
	Groups    []Group
}

func strPtr(s string) *string { return &s }

// ParseAddressList parses an RFC 5322 address-list (spec section 4.6):
// groups, angle-addr, display-name and comment-merging, tolerant of the
// malformed forms real mail exhibits.
func ParseAddressList(reg *CharsetRegistry, cfg Config, s string) AddressList {
	sc := &addrScanner{s: s, reg: reg, cfg: cfg}

	type entry struct {
		isGroup bool
		addr    Addr
		group   Group
	}
	var entries []entry
	sawGroup := false

	for {
		leading := sc.skipCFWS()
		if sc.atEnd() {
			if len(leading) > 0 {
				entries = append(entries, entry{isGroup: true, group: Group{
					Name:      nil,
					Addresses: []Addr{{Name: strPtr(strings.Join(leading, " "))}},
				}})
				sawGroup = true
			}
			break
		}

		display, midComments := sc.scanPhrase()
		comments := append(leading, midComments...)
		comments = append(comments, sc.skipCFWS()...)

		switch sc.peek() {
		case ':':
			sc.advance()
			sawGroup = true
			addrs := sc.scanMailboxList()
			entries = append(entries, entry{isGroup: true, group: Group{
				Name:      buildAddrName(display, comments),
				Addresses: addrs,
			}})
		case '<':
			sc.advance()
			addrSpec, innerComments := sc.scanUntil(isByteRune('>'))
			if sc.peek() == '>' {
				sc.advance()
			}
			comments = append(comments, innerComments...)
			comments = append(comments, sc.skipCFWS()...)
			entries = append(entries, entry{addr: Addr{
				Name:    buildAddrName(display, comments),
				Address: emptyToNil(strings.TrimSpace(addrSpec)),
			}})
		case '@':
			sc.advance()
			domain, tailComments := sc.scanUntil(isAnyByte(",;"))
			addrSpec := display + "@" + strings.TrimSpace(domain)
			entries = append(entries, entry{addr: Addr{
				Name:    buildAddrName("", append(comments, tailComments...)),
				Address: strPtr(addrSpec),
			}})
		default:
			name := buildAddrName(display, comments)
			a := Addr{Name: name}
			if len(comments) == 0 && looksLikeAddrSpec(display) {
				a.Address = strPtr(display)
			}
			entries = append(entries, entry{addr: a})
		}

		trailing := sc.skipCFWS()
		if sc.peek() == ',' {
			sc.advance()
			continue
		}
		if sc.atEnd() {
			if len(trailing) > 0 {
				entries = append(entries, entry{isGroup: true, group: Group{
					Name:      nil,
					Addresses: []Addr{{Name: strPtr(strings.Join(trailing, " "))}},
				}})
				sawGroup = true
			}
			break
		}
		// Stray delimiter (e.g. an unmatched ';' at the top level); skip one
		// byte to guarantee forward progress and keep parsing tolerantly.
		sc.advanceRaw()
	}

	if !sawGroup {
		addrs := make([]Addr, 0, len(entries))
		for _, e := range entries {
			addrs = append(addrs, e.addr)
		}
		return AddressList{Addresses: addrs}
	}

	var groups []Group
	for _, e := range entries {
		if e.isGroup {
			groups = append(groups, e.group)
		} else {
			groups = append(groups, Group{Addresses: []Addr{e.addr}})
		}
	}
	return AddressList{IsGroups: true, Groups: groups}
}

// scanMailboxList parses the mailbox-list inside a group, up to and
// including the closing ";".
func (sc *addrScanner) scanMailboxList() []Addr {
	var addrs []Addr
	for {
		sc.skipCFWS()
		if sc.atEnd() {
			return addrs
		}
		if sc.peek() == ';' {
			sc.advance()
			return addrs
		}
		addrs = append(addrs, sc.scanMailbox())
		sc.skipCFWS()
		if sc.peek() == ',' {
			sc.advance()
			continue
		}
		if sc.peek() == ';' {
			sc.advance()
			return addrs
		}
		if sc.atEnd() {
			return addrs
		}
		sc.advanceRaw()
	}
}

// scanMailbox parses one name-addr or addr-spec, per the mailbox production.
func (sc *addrScanner) scanMailbox() Addr {
	leading := sc.skipCFWS()
	display, midComments := sc.scanPhrase()
	comments := append(leading, midComments...)
	comments = append(comments, sc.skipCFWS()...)

	switch sc.peek() {
	case '<':
		sc.advance()
		addrSpec, innerComments := sc.scanUntil(isByteRune('>'))
		if sc.peek() == '>' {
			sc.advance()
		}
		comments = append(comments, innerComments...)
		comments = append(comments, sc.skipCFWS()...)
		return Addr{
			Name:    buildAddrName(display, comments),
			Address: emptyToNil(strings.TrimSpace(addrSpec)),
		}
	case '@':
		sc.advance()
		domain, tailComments := sc.scanUntil(isAnyByte(",;"))
		addrSpec := display + "@" + strings.TrimSpace(domain)
		return Addr{
			Name:    buildAddrName("", append(comments, tailComments...)),
			Address: strPtr(addrSpec),
		}
	default:
		name := buildAddrName(display, comments)
		a := Addr{Name: name}
		if len(comments) == 0 && looksLikeAddrSpec(display) {
			a.Address = strPtr(display)
		}
		return a
	}
}

// buildAddrName merges a display-name with any comments gathered while
// parsing the mailbox, per spec section 4.6: if there was no display-name,
// the concatenation of all comments becomes the name; if there was, comments
// are appended in parentheses after it.
func buildAddrName(display string, comments []string) *string {
	comments = nonEmpty(comments)
	if display == "" && len(comments) == 0 {
		return nil
	}
	if display == "" {
		return strPtr(strings.Join(comments, " "))
	}
	if len(comments) == 0 {
		return strPtr(display)
	}
	return strPtr(display + " (" + strings.Join(comments, " ") + ")")
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// looksLikeAddrSpec reports whether s has the exact shape "local@domain"
// with no embedded whitespace, for the duplicated name==address behavior
// documented in spec section 9.
func looksLikeAddrSpec(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	i := strings.IndexByte(s, '@')
	return i > 0 && i < len(s)-1 && strings.Count(s, "@") == 1
}

// addrScanner is a small hand-rolled scanner over raw header text for the
// address-list grammar, in the spirit of the lexer but with the additional
// addr-spec-specific tolerance: whitespace and comments may appear anywhere
// inside an addr-spec (the whitespace is dropped, the comments are collected
// for the mailbox's name).
type addrScanner struct {
	s   string
	pos int
	reg *CharsetRegistry
	cfg Config
}

func (sc *addrScanner) atEnd() bool { return sc.pos >= len(sc.s) }

func (sc *addrScanner) peek() byte {
	if sc.atEnd() {
		return 0
	}
	return sc.s[sc.pos]
}

func (sc *addrScanner) advance() { sc.pos++ }

func (sc *addrScanner) advanceRaw() {
	if !sc.atEnd() {
		sc.pos++
	}
}

// skipCFWS skips whitespace and comments, returning the decoded text of any
// comments encountered.
func (sc *addrScanner) skipCFWS() []string {
	var comments []string
	for !sc.atEnd() {
		c := sc.s[sc.pos]
		if isWSByte(c) {
			sc.pos++
			continue
		}
		if c == '(' {
			comments = append(comments, sc.scanComment())
			continue
		}
		break
	}
	return comments
}

// scanComment consumes a possibly-nested parenthesized comment starting at
// '(' and returns its decoded, whitespace-collapsed text.
func (sc *addrScanner) scanComment() string {
	depth := 0
	var sb strings.Builder
	for !sc.atEnd() {
		c := sc.s[sc.pos]
		switch {
		case c == '\\' && sc.pos+1 < len(sc.s):
			sb.WriteByte(sc.s[sc.pos+1])
			sc.pos += 2
		case c == '(':
			depth++
			if depth > 1 {
				sb.WriteByte(c)
			}
			sc.pos++
		case c == ')':
			depth--
			sc.pos++
			if depth == 0 {
				text := sb.String()
				if sc.cfg.DecodeEncodedWordsInComments && strings.Contains(text, "=?") {
					text = DecodeEncodedWords(sc.reg, text)
				}
				return collapseWS(text)
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
			sc.pos++
		}
	}
	text := sb.String()
	if sc.cfg.DecodeEncodedWordsInComments && strings.Contains(text, "=?") {
		text = DecodeEncodedWords(sc.reg, text)
	}
	return collapseWS(text)
}

// scanPhrase consumes a run of atom/quoted-string/encoded-word tokens
// separated by CFWS, joining them with a single space — except that
// whitespace falling strictly between two adjacent encoded-words is dropped
// rather than turned into a space, per the RFC 2047 adjacency rule (spec
// section 4.2, scenario S3). Any comments encountered are returned
// separately rather than folded into the phrase.
func (sc *addrScanner) scanPhrase() (phrase string, comments []string) {
	var sb strings.Builder
	prevEncoded := false
	first := true
	for {
		gap := sc.skipCFWS()
		comments = append(comments, gap...)
		w, isEncoded, ok := sc.scanWord()
		if !ok {
			break
		}
		if !first && (len(gap) > 0 || !prevEncoded || !isEncoded) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w)
		prevEncoded = isEncoded
		first = false
	}
	return sb.String(), comments
}

// scanWord consumes one atom, quoted-string or encoded-word at the current
// position, reporting whether it was an encoded-word (needed by scanPhrase
// for the adjacency rule).
func (sc *addrScanner) scanWord() (text string, isEncoded bool, ok bool) {
	if sc.atEnd() {
		return "", false, false
	}
	c := sc.s[sc.pos]
	switch {
	case c == '"':
		return sc.scanQuotedString(), false, true
	case strings.HasPrefix(sc.s[sc.pos:], "=?"):
		if w, ok := scanEncodedWord(sc.s[sc.pos:]); ok {
			sc.pos += len(w.raw)
			return decodeWordRun(sc.reg, []encodedWord{w}), true, true
		}
		text, ok = sc.scanAtom()
		return text, false, ok
	case isWSByte(c) || strings.ContainsRune("<>,:;@.()\"[]", rune(c)):
		return "", false, false
	default:
		text, ok = sc.scanAtom()
		return text, false, ok
	}
}

func (sc *addrScanner) scanAtom() (string, bool) {
	start := sc.pos
	for !sc.atEnd() {
		c := sc.s[sc.pos]
		if isWSByte(c) || strings.ContainsRune("<>,:;@.()\"[]", rune(c)) {
			break
		}
		sc.pos++
	}
	if sc.pos == start {
		return "", false
	}
	return sc.s[start:sc.pos], true
}

func (sc *addrScanner) scanQuotedString() string {
	sc.pos++ // opening quote
	var sb strings.Builder
	for !sc.atEnd() {
		c := sc.s[sc.pos]
		if c == '\\' && sc.pos+1 < len(sc.s) {
			sb.WriteByte(sc.s[sc.pos+1])
			sc.pos += 2
			continue
		}
		if c == '"' {
			sc.pos++
			break
		}
		sb.WriteByte(c)
		sc.pos++
	}
	s := sb.String()
	if strings.Contains(s, "=?") {
		s = DecodeEncodedWords(sc.reg, s)
	}
	return s
}

// scanUntil consumes raw addr-spec text (handling quoted-strings,
// domain-literals, and embedded comments, and dropping every unquoted
// whitespace byte) until stop reports true for the next unquoted byte, or end of
// input. It returns the assembled text and any comment text it stripped
// out along the way, so the caller can fold those into the mailbox's name.
func (sc *addrScanner) scanUntil(stop func(byte) bool) (text string, comments []string) {
	var sb strings.Builder
	for !sc.atEnd() {
		c := sc.s[sc.pos]
		if stop(c) {
			break
		}
		switch {
		case c == '(':
			comments = append(comments, sc.scanComment())
		case c == '"':
			start := sc.pos
			sc.pos++
			for !sc.atEnd() {
				cc := sc.s[sc.pos]
				if cc == '\\' && sc.pos+1 < len(sc.s) {
					sc.pos += 2
					continue
				}
				sc.pos++
				if cc == '"' {
					break
				}
			}
			sb.WriteString(sc.s[start:sc.pos])
		case c == '[':
			start := sc.pos
			sc.pos++
			for !sc.atEnd() && sc.s[sc.pos] != ']' {
				sc.pos++
			}
			if !sc.atEnd() {
				sc.pos++
			}
			sb.WriteString(sc.s[start:sc.pos])
		case isWSByte(c):
			sc.pos++
		default:
			sb.WriteByte(c)
			sc.pos++
		}
	}
	return sb.String(), comments
}

func isByteRune(want byte) func(byte) bool {
	return func(b byte) bool { return b == want }
}

func isAnyByte(set string) func(byte) bool {
	return func(b byte) bool { return strings.IndexByte(set, b) >= 0 }
}
