package resolver

import (
	"io"

	"golang.org/x/net/html"
)

// findOGImage extracts the content attribute of the first
// <meta property="og:image"> tag in an HTML document.
func findOGImage(r io.Reader) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}

	var content string
	var visit func(n *html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var property, value string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "property":
					property = attr.Val
				case "content":
					value = attr.Val
				}
			}
			if property == "og:image" && value != "" {
				content = value
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}

	found := visit(doc)
	return content, found
}
