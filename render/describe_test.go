package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestEngine_Describe(t *testing.T) {
	e := NewEngine(Options{})
	tmpl := Must(New(`<ul class="`, `">`, `</ul>`))

	d, err := e.Describe(tmpl, false, "list", []any{})
	require.NoError(t, err)
	require.Len(t, d.Interpolations, 2)
	assert.False(t, d.Keyed)
	assert.False(t, d.Wrapped)

	attr, list := d.Interpolations[0], d.Interpolations[1]
	assert.Equal(t, KindAttribute, attr.Kind)
	assert.Equal(t, MarkerAttribute, attr.Marker)
	assert.Equal(t, "class", attr.Name)
	assert.Equal(t, "ul", d.Node(attr).Data)

	assert.Equal(t, kindCommentArray, list.Kind)
	assert.Empty(t, list.Name)
	assert.Equal(t, html.CommentNode, d.Node(list).Type)

	// cached: later sample values do not change the description
	again, err := e.Describe(tmpl, false, "list", "text")
	require.NoError(t, err)
	assert.Equal(t, kindCommentArray, again.Interpolations[1].Kind)
	assert.Equal(t, 1, e.Stats().Templates)

	// the fragment is a copy
	d.Fragment.RemoveChild(d.Fragment.FirstChild)
	assert.NotNil(t, again.Fragment.FirstChild)
}

func TestEngine_DescribeKeyedAndWrapped(t *testing.T) {
	e := NewEngine(Options{})

	d, err := e.Describe(Must(New(`<li key=`, `>`, `</li>`)), false)
	require.NoError(t, err)
	assert.True(t, d.Keyed)
	assert.Equal(t, MarkerKey, d.Interpolations[0].Marker)

	d, err = e.Describe(Must(New(`<b></b><i></i>`)), false)
	require.NoError(t, err)
	assert.True(t, d.Wrapped)
	assert.Empty(t, d.Interpolations)

	_, err = e.Describe(Must(New(`<circle r="`, `"/>`)), true)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Stats().Templates)

	_, err = e.Describe(&Template{segments: []string{"<div"}}, false)
	assert.ErrorIs(t, err, ErrUnclosedTag)
}
