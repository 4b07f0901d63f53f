package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses HTML in the given context element and returns the nodes as a fragment.
// context must not be nil; use a <template> element to allow any content, or an <svg> element
// in the "svg" namespace to parse SVG markup.
func ParseFragment(r io.Reader, context *html.Node) (*Node, error) {
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, err
	}
	frag := NewFragment()
	for _, n := range nodes {
		frag.link(FromHTML(n), nil)
	}
	return frag, nil
}

// ParseFragmentString is ParseFragment for a string input.
func ParseFragmentString(s string, context *html.Node) (*Node, error) {
	return ParseFragment(strings.NewReader(s), context)
}

// FromHTML converts an x/net/html tree into a detached live tree. The children of a <template>
// element become its Content.
func FromHTML(h *html.Node) *Node {
	n := &Node{
		Type:      h.Type,
		DataAtom:  h.DataAtom,
		Data:      h.Data,
		Namespace: h.Namespace,
	}
	if h.Type == html.DocumentNode {
		n.Type = FragmentNode
	}
	if len(h.Attr) > 0 {
		n.Attr = make([]html.Attribute, len(h.Attr))
		copy(n.Attr, h.Attr)
	}
	dst := n
	if n.Type == html.ElementNode && n.Namespace == "" && n.DataAtom == atom.Template {
		n.Content = NewFragment()
		dst = n.Content
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		dst.link(FromHTML(c), nil)
	}
	return n
}

// ToHTML converts a live tree into a detached x/net/html tree. Fragments become document nodes
// and template content is rendered as children of the template element.
func ToHTML(n *Node) *html.Node {
	h := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if n.Type == FragmentNode {
		h.Type = html.DocumentNode
	}
	if len(n.Attr) > 0 {
		h.Attr = make([]html.Attribute, len(n.Attr))
		copy(h.Attr, n.Attr)
	}
	src := n
	if n.Content != nil {
		src = n.Content
	}
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		h.AppendChild(ToHTML(c))
	}
	return h
}
