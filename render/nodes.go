package render

import (
	"strings"

	"golang.org/x/net/html"
)

// textElements keep their body as raw text.
var textElements = map[string]bool{
	"plaintext": true,
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}

var voidElements = map[string]bool{
	"area":     true,
	"base":     true,
	"br":       true,
	"col":      true,
	"embed":    true,
	"hr":       true,
	"img":      true,
	"input":    true,
	"keygen":   true,
	"link":     true,
	"menuitem": true,
	"meta":     true,
	"param":    true,
	"source":   true,
	"track":    true,
	"wbr":      true,
}

// prop is a static attribute of a template element. A bare attribute (no value) is a boolean
// property.
type prop struct {
	key, val string
	bare     bool
}

// node is a node of the template tree. It only lives while a template is parsed and serialized
// into the markup of its fragment.
type node struct {
	Type     html.NodeType // ElementNode, TextNode, CommentNode or DocumentNode for the root
	Data     string        // tag name or character data
	XML      bool          // element serialized in XML mode
	Props    []prop
	Parent   *node
	Children []*node

	// ignorable marks synthesized <tbody>/<tr> elements that closing tags skip over.
	ignorable bool
}

func newElement(tag string, xml bool) *node {
	return &node{Type: html.ElementNode, Data: tag, XML: xml}
}

func newText(s string) *node {
	return &node{Type: html.TextNode, Data: s}
}

func newComment(s string) *node {
	return &node{Type: html.CommentNode, Data: s}
}

func newRoot() *node {
	return &node{Type: html.DocumentNode, Data: "#fragment"}
}

// append adds c as the last child of n. Adjacent text is merged so child indices match the
// tree built by an HTML parser.
func (n *node) append(c *node) *node {
	if c.Type == html.TextNode && len(n.Children) > 0 {
		if last := n.Children[len(n.Children)-1]; last.Type == html.TextNode {
			last.Data += c.Data
			return last
		}
	}
	n.Children = append(n.Children, c)
	c.Parent = n
	return c
}

func (n *node) setProp(key, val string, bare bool) {
	n.Props = append(n.Props, prop{key: key, val: val, bare: bare})
}

func (n *node) index() int {
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// String serializes the tree back to markup.
func (n *node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *node) write(sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
	case html.CommentNode:
		sb.WriteString("<!--")
		sb.WriteString(n.Data)
		sb.WriteString("-->")
	case html.DocumentNode:
		for _, c := range n.Children {
			c.write(sb)
		}
	case html.ElementNode:
		n.writeElement(sb)
	}
}

func (n *node) writeElement(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, p := range n.Props {
		sb.WriteByte(' ')
		sb.WriteString(p.key)
		switch {
		case p.bare && n.XML:
			sb.WriteString(`=""`)
		case p.bare:
		default:
			sb.WriteString(`="`)
			sb.WriteString(strings.ReplaceAll(p.val, `"`, "&quot;"))
			sb.WriteByte('"')
		}
	}
	switch {
	case len(n.Children) > 0:
		sb.WriteByte('>')
		if !n.XML && leadingNewline(n) {
			// the HTML parser drops the first newline of these elements
			sb.WriteByte('\n')
		}
		raw := !n.XML && textElements[n.Data]
		for _, c := range n.Children {
			if raw {
				sb.WriteString(c.Data)
			} else {
				c.write(sb)
			}
		}
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	case n.XML:
		sb.WriteString(" />")
	case voidElements[n.Data]:
		sb.WriteByte('>')
	default:
		sb.WriteString("></")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	}
}

func leadingNewline(n *node) bool {
	switch n.Data {
	case "pre", "listing", "textarea":
		c := n.Children[0]
		return c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n")
	}
	return false
}
