package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	templateContext = &html.Node{Type: html.ElementNode, DataAtom: atom.Template, Data: "template"}
	svgContext      = &html.Node{Type: html.ElementNode, DataAtom: atom.Svg, Data: "svg", Namespace: "svg"}
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name    string
		context *html.Node
		src     string
		want    string
		kids    int
	}{
		{
			name:    "siblings",
			context: templateContext,
			src:     `<p>a</p>b<!--c-->`,
			want:    `<p>a</p>b<!--c-->`,
			kids:    3,
		},
		{
			name:    "table rows",
			context: templateContext,
			src:     `<tr><td>1</td></tr>`,
			want:    `<tr><td>1</td></tr>`,
			kids:    1,
		},
		{
			name:    "entities",
			context: templateContext,
			src:     `a &amp; b`,
			want:    `a &amp; b`,
			kids:    1,
		},
		{
			name:    "nested template",
			context: templateContext,
			src:     `<template><b>x</b></template>`,
			want:    `<template><b>x</b></template>`,
			kids:    1,
		},
		{
			name:    "svg",
			context: svgContext,
			src:     `<circle r="5" /><g><rect/></g>`,
			want:    `<circle r="5"></circle><g><rect></rect></g>`,
			kids:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frag, err := ParseFragmentString(tt.src, tt.context)
			require.NoError(t, err)
			assert.Equal(t, FragmentNode, frag.Type)
			assert.Len(t, frag.ChildNodes(), tt.kids)
			assert.Equal(t, tt.want, frag.OuterHTML())
		})
	}
}

func TestParseFragment_TemplateContent(t *testing.T) {
	frag, err := ParseFragmentString(`<template><b>x</b></template>`, templateContext)
	require.NoError(t, err)

	tmpl := frag.FirstChild
	require.True(t, tmpl.IsTemplate())
	assert.Nil(t, tmpl.FirstChild)
	require.NotNil(t, tmpl.Content.FirstChild)
	assert.Equal(t, "b", tmpl.Content.FirstChild.Data)
}

func TestParseFragment_SVGNamespace(t *testing.T) {
	frag, err := ParseFragmentString(`<circle r="5"/>`, svgContext)
	require.NoError(t, err)

	circle := frag.FirstChild
	assert.Equal(t, "svg", circle.Namespace)
	r, _ := circle.GetAttribute("r")
	assert.Equal(t, "5", r)
}

func TestToHTML(t *testing.T) {
	div := NewElement("div")
	div.SetAttribute("id", "x")
	div.AppendChild(NewText("<escaped>"))

	h := ToHTML(div)
	assert.Equal(t, html.ElementNode, h.Type)
	assert.Equal(t, "x", h.Attr[0].Val)
	assert.Equal(t, `<div id="x">&lt;escaped&gt;</div>`, div.String())

	back := FromHTML(h)
	assert.Equal(t, div.OuterHTML(), back.OuterHTML())
	assert.NotSame(t, div.FirstChild, back.FirstChild)
}
