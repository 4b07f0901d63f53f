package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Attributes(t *testing.T) {
	n := NewElement("input")

	n.SetAttribute("type", "text")
	n.SetAttribute("type", "checkbox")
	v, ok := n.GetAttribute("type")
	require.True(t, ok)
	assert.Equal(t, "checkbox", v)

	assert.True(t, n.ToggleAttribute("checked", true))
	assert.True(t, n.ToggleAttribute("checked", true))
	assert.Equal(t, `<input type="checkbox" checked=""/>`, n.OuterHTML())

	assert.False(t, n.ToggleAttribute("checked", false))
	assert.False(t, n.HasAttribute("checked"))

	n.RemoveAttribute("type")
	n.RemoveAttribute("missing")
	assert.Empty(t, n.Attr)
}

func TestNode_Dataset(t *testing.T) {
	n := NewElement("div")
	ds := n.Dataset()

	ds.Set("userId", "7")
	ds.Set("x", "y")
	assert.True(t, n.HasAttribute("data-user-id"))

	v, ok := ds.Get("userId")
	require.True(t, ok)
	assert.Equal(t, "7", v)
	assert.Equal(t, []string{"userId", "x"}, ds.Keys())

	ds.Delete("x")
	assert.Equal(t, []string{"userId"}, ds.Keys())
}

func TestNode_Style(t *testing.T) {
	n := NewElement("p")
	n.SetAttribute("style", "color: red; margin:0")
	s := n.Style()

	assert.Equal(t, "red", s.Get("color"))
	assert.Equal(t, "0", s.Get("margin"))
	assert.Equal(t, "", s.Get("padding"))

	s.Set("color", "blue")
	s.Set("padding", "1px")
	v, _ := n.GetAttribute("style")
	assert.Equal(t, "color: blue; margin: 0; padding: 1px;", v)
	assert.Equal(t, []string{"color", "margin", "padding"}, s.Properties())

	s.Remove("color")
	s.Remove("margin")
	s.Remove("padding")
	assert.False(t, n.HasAttribute("style"))
}

func TestNode_Property(t *testing.T) {
	n := NewElement("div")

	n.SetProperty("value", 42)
	v, ok := n.Property("value")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	n.SetProperty("className", "box")
	n.SetProperty("id", "main")
	n.SetProperty("textContent", "hi")
	assert.Equal(t, `<div class="box" id="main">hi</div>`, n.OuterHTML())

	cls, _ := n.Property("className")
	assert.Equal(t, "box", cls)
	txt, _ := n.Property("textContent")
	assert.Equal(t, "hi", txt)

	_, ok = n.Property("missing")
	assert.False(t, ok)
}
