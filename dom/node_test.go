package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func children(n *Node) []string {
	var tags []string
	for _, c := range n.ChildNodes() {
		switch c.Type {
		case html.ElementNode:
			tags = append(tags, c.Data)
		case html.TextNode:
			tags = append(tags, "#"+c.Data)
		case html.CommentNode:
			tags = append(tags, "!"+c.Data)
		}
	}
	return tags
}

func TestNode_InsertBefore(t *testing.T) {
	ul := NewElement("UL")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")

	ul.AppendChild(a)
	ul.AppendChild(c)
	ul.InsertBefore(b, c)
	require.Equal(t, []string{"a", "b", "c"}, children(ul))
	assert.Equal(t, "ul", ul.Data)
	assert.Equal(t, atom.Ul, ul.DataAtom)
	assert.Equal(t, 1, b.Index())
	assert.Same(t, c, ul.ChildAt(2))
	assert.Nil(t, ul.ChildAt(3))
	assert.Nil(t, ul.ChildAt(-1))

	// attached nodes are moved
	ul.InsertBefore(c, a)
	require.Equal(t, []string{"c", "a", "b"}, children(ul))

	other := NewElement("div")
	other.AppendChild(a)
	assert.Equal(t, []string{"c", "b"}, children(ul))
	assert.Same(t, other, a.Parent)
	assert.Equal(t, -1, NewText("x").Index())
}

func TestNode_InsertBeforePanics(t *testing.T) {
	div := NewElement("div")
	span := NewElement("span")
	div.AppendChild(span)

	require.Panics(t, func() { div.InsertBefore(NewText("x"), NewText("y")) })
	require.Panics(t, func() { span.AppendChild(div) })
	require.Panics(t, func() { span.RemoveChild(div) })
}

func TestNode_Fragment(t *testing.T) {
	frag := NewFragment()
	frag.AppendChild(NewText("a"))
	frag.AppendChild(NewElement("b"))

	p := NewElement("p")
	p.AppendChild(NewComment("end"))
	p.InsertBefore(frag, p.FirstChild)

	assert.Equal(t, []string{"#a", "b", "!end"}, children(p))
	assert.Nil(t, frag.FirstChild)
	assert.Equal(t, "<p>a<b></b><!--end--></p>", p.OuterHTML())
}

func TestNode_Replace(t *testing.T) {
	div := NewElement("div")
	a, b, c := NewElement("a"), NewElement("b"), NewElement("c")
	div.AppendChild(a)
	div.AppendChild(b)

	div.ReplaceChild(c, a)
	require.Equal(t, []string{"c", "b"}, children(div))
	assert.Nil(t, a.Parent)

	b.ReplaceWith(NewText("x"), a)
	require.Equal(t, []string{"c", "#x", "a"}, children(div))

	// replacing with the next sibling keeps the order
	x := div.ChildAt(1)
	c.ReplaceWith(x)
	require.Equal(t, []string{"#x", "a"}, children(div))

	div.ReplaceChildren(a, NewElement("i"))
	require.Equal(t, []string{"a", "i"}, children(div))

	a.Remove()
	a.Remove()
	require.Equal(t, []string{"i"}, children(div))

	// detached nodes are left alone
	NewText("y").ReplaceWith(a)
	assert.Nil(t, a.Parent)
}

func TestNode_Clone(t *testing.T) {
	div := NewElement("div")
	div.SetAttribute("class", "box")
	div.SetProperty("value", 1)
	div.AppendChild(NewText("hi"))
	div.AddEventListener("click", func(*Event) {}, ListenerOptions{})

	shallow := div.Clone(false)
	assert.Nil(t, shallow.FirstChild)

	deep := div.Clone(true)
	assert.Equal(t, `<div class="box">hi</div>`, deep.OuterHTML())
	assert.NotSame(t, div.FirstChild, deep.FirstChild)
	_, ok := deep.Property("value")
	assert.False(t, ok)
	assert.Equal(t, 0, deep.ListenerCount("click"))

	deep.SetAttribute("class", "other")
	v, _ := div.GetAttribute("class")
	assert.Equal(t, "box", v)
}

func TestNode_TextContent(t *testing.T) {
	p := NewElement("p")
	p.AppendChild(NewText("a"))
	b := NewElement("b")
	b.AppendChild(NewText("b"))
	p.AppendChild(b)
	p.AppendChild(NewComment("ignored"))

	assert.Equal(t, "ab", p.TextContent())
	assert.True(t, p.Contains(b.FirstChild))
	assert.False(t, b.Contains(p))

	p.SetTextContent("plain")
	assert.Equal(t, "<p>plain</p>", p.OuterHTML())
	p.SetTextContent("")
	assert.Nil(t, p.FirstChild)

	txt := NewText("x")
	txt.SetTextContent("y")
	assert.Equal(t, "y", txt.TextContent())
}

func TestNode_Template(t *testing.T) {
	tmpl := NewElement("template")
	require.True(t, tmpl.IsTemplate())
	require.NotNil(t, tmpl.Content)

	tmpl.Content.AppendChild(NewElement("p"))
	assert.Equal(t, "<template><p></p></template>", tmpl.OuterHTML())
	assert.Equal(t, "<p></p>", tmpl.InnerHTML())

	clone := tmpl.Clone(false)
	require.NotNil(t, clone.Content)
	assert.NotSame(t, tmpl.Content.FirstChild, clone.Content.FirstChild)

	svg := NewElementNS("svg", "template")
	assert.False(t, svg.IsTemplate())
	assert.Nil(t, svg.Content)
}
