package message

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockAtoms are the elements that force a line break once their content
// has been emitted, the way mox's preview.go HTML walker treats paragraph
// and structural tags as boundaries rather than running text together.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Header: true, atom.Footer: true,
}

// skipAtoms are elements whose text content is never part of the rendered
// text.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Title: true,
}

// HTMLToText converts an HTML document or fragment to plain text, for the
// body_text/body_html cross-feed of spec section 4.11/4.12. It never fails:
// a document html.Parse cannot make sense of is returned unchanged.
func HTMLToText(htmlSrc string) string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return htmlSrc
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipAtoms[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(collapseInlineWS(n.Data))
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			sb.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			sb.WriteByte('\n')
		}
	}
	walk(doc)
	return normalizePlainText(sb.String())
}

// collapseInlineWS collapses runs of whitespace in a text node to a single
// space, without trimming the ends (the surrounding space carries the
// separation between sibling inline elements).
func collapseInlineWS(s string) string {
	var sb strings.Builder
	inWS := false
	for _, r := range s {
		if isWSRune(r) {
			if !inWS {
				sb.WriteByte(' ')
			}
			inWS = true
			continue
		}
		inWS = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// normalizePlainText trims each line, collapses runs of blank lines to at
// most one, drops leading/trailing blank lines, and ensures the result ends
// with exactly one trailing newline if non-empty.
func normalizePlainText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	result := strings.Join(out, "\n")
	if result != "" {
		result += "\n"
	}
	return result
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// TextToHTML converts plain text to a minimal HTML rendering, for the
// body_html side of the cross-feed when only body_text is present.
func TextToHTML(text string) string {
	escaped := htmlEscaper.Replace(text)
	lines := strings.Split(escaped, "\n")
	return strings.Join(lines, "<br>\n")
}
