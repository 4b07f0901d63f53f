package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Render writes the HTML serialization of n. Fragments render their children.
func Render(w io.Writer, n *Node) error {
	h := ToHTML(n)
	if h.Type != html.DocumentNode {
		return html.Render(w, h)
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

// OuterHTML returns the serialization of n including n itself.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	_ = Render(&sb, n)
	return sb.String()
}

// InnerHTML returns the serialization of the children (or template content) of n.
func (n *Node) InnerHTML() string {
	src := n
	if n.Content != nil {
		src = n.Content
	}
	var sb strings.Builder
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		_ = Render(&sb, c)
	}
	return sb.String()
}

// String implements fmt.Stringer for debugging.
func (n *Node) String() string {
	return n.OuterHTML()
}
