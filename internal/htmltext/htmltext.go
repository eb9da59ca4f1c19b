// Package htmltext extracts plain text from the HTML stored in note fields.
package htmltext

import (
	"strings"

	"golang.org/x/net/html"
)

// Text returns the text content of s with tags removed and entities
// decoded. <br> becomes a newline. Unparseable input is returned trimmed.
func Text(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			buf.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			buf.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)

	return strings.TrimSpace(strings.ReplaceAll(buf.String(), "\u00a0", " "))
}
