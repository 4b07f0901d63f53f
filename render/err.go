package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

var (
	ErrUnclosedTag             = errors.New("unclosed tag")
	ErrUnclosedComment         = errors.New("unclosed comment")
	ErrUnclosedRawText         = errors.New("unclosed raw text element")
	ErrUnexpectedClose         = errors.New("unexpected closing tag")
	ErrUnexpectedInterpolation = errors.New("unexpected interpolation")
	ErrReservedName            = errors.New("reserved name")
	ErrUnsupportedValue        = errors.New("unsupported value")
	ErrReentrantRender         = errors.New("render into a container that is being rendered")

	// ErrUnresolvedPath is returned when an interpolation does not exist in the parsed markup,
	// typically because the HTML parser restructured the template.
	ErrUnresolvedPath = errors.New("interpolation not found in parsed markup")
)

// Span represents a location in the template source.
type Span struct {
	Offset int // Byte offset in the joined template source
	Line   int // 1-based line number
	Column int // 1-based column number (in runes, not bytes)
}

// IsZero returns true if the span is uninitialized
func (s Span) IsZero() bool {
	return s.Offset == 0 && s.Line == 0 && s.Column == 0
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

func spanOf(src string, offset int) Span {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	col := len([]rune(before[strings.LastIndexByte(before, '\n')+1:])) + 1
	return Span{Offset: offset, Line: line, Column: col}
}

// ParseError is returned for malformed templates.
type ParseError struct {
	Span Span
	err  error
	doc  *etree.Element
}

func newParseError(src string, offset int, n *node, err error) *ParseError {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{
		Span: spanOf(src, offset),
		err:  err,
		doc:  buildErrorContext(n),
	}
}

func (e *ParseError) Error() string {
	return "template " + e.Span.String() + ": " + e.err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.err
}

// HTMLContext returns the markup parsed so far around the failing node.
func (e *ParseError) HTMLContext() string {
	return renderErrorContext(e.doc)
}

// BindingError is returned when a value cannot be applied to its interpolation.
type BindingError struct {
	Name string // attribute name, empty for node interpolations
	Path []int
	err  error
}

func (e *BindingError) Error() string {
	name := e.Name
	if name == "" {
		name = "${}"
	}
	return fmt.Sprintf("bind %s at %v: %v", name, e.Path, e.err)
}

func (e *BindingError) Unwrap() error {
	return e.err
}

// errorContextBuilder is a type to organize helper functions for building error context trees.
type errorContextBuilder struct{}

func (b errorContextBuilder) addPrevSiblings(doc *etree.Element, n *node) {
	if n.Parent == nil {
		return
	}
	siblings, i := n.Parent.Children, n.index()
	for j, c := i-1, 0; j >= 0; j-- {
		if isBlank(siblings[j]) {
			continue
		}
		if c == 2 {
			doc.InsertChildAt(0, etree.NewText("..."))
			break
		}
		b.insertNode(doc, 0, siblings[j])
		c++
	}
}

func (b errorContextBuilder) addNextSiblings(doc *etree.Element, n *node) {
	if n.Parent == nil {
		return
	}
	siblings, i := n.Parent.Children, n.index()
	for j, c := i+1, 0; j < len(siblings); j++ {
		if isBlank(siblings[j]) {
			continue
		}
		if c == 2 {
			doc.AddChild(etree.NewText("..."))
			break
		}
		b.insertNode(doc, len(doc.Child), siblings[j])
		c++
	}
}

func (b errorContextBuilder) insertNode(doc *etree.Element, at int, n *node) {
	switch n.Type {
	case html.ElementNode:
		el := etree.NewElement(n.Data)
		for _, p := range n.Props {
			el.CreateAttr(p.key, p.val)
		}
		switch {
		case len(n.Children) == 1 && n.Children[0].Type == html.TextNode:
			el.SetText(n.Children[0].Data)
		case len(n.Children) > 0:
			el.AddChild(etree.NewText("..."))
		}
		doc.InsertChildAt(at, el)
	case html.TextNode:
		doc.InsertChildAt(at, etree.NewText(strings.ReplaceAll(n.Data, sentinel, "${}")))
	case html.CommentNode:
		doc.InsertChildAt(at, etree.NewComment(n.Data))
	}
}

func (b errorContextBuilder) wrapParent(doc *etree.Element, n *node) *etree.Element {
	parent := n.Parent
	if parent == nil || parent.Type != html.ElementNode {
		return doc // do not wrap the root
	}

	doc.Tag = parent.Data
	for _, p := range parent.Props {
		doc.CreateAttr(p.key, p.val)
	}

	wrapper := &etree.Element{}
	wrapper.AddChild(doc)

	return wrapper
}

// buildErrorContext creates an XML tree around the node n to provide context for an error.
func buildErrorContext(n *node) *etree.Element {
	doc := &etree.Element{}
	if n == nil {
		return doc
	}
	b := errorContextBuilder{}
	b.insertNode(doc, 0, n)
	b.addPrevSiblings(doc, n)
	b.addNextSiblings(doc, n)
	return b.wrapParent(doc, n)
}

func renderErrorContext(doc *etree.Element) string {
	dst := &html.Node{Type: html.DocumentNode}

	// traverse the etree.Element and build the html.Node
	var render func(*html.Node, *etree.Element)
	render = func(dst *html.Node, src *etree.Element) {
		for _, c := range src.Child {
			switch t := c.(type) {
			case *etree.Element:
				n := &html.Node{Type: html.ElementNode, Data: t.FullTag()}
				for _, a := range t.Attr {
					n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
				}
				dst.AppendChild(n)
				render(n, t)
			case *etree.CharData:
				dst.AppendChild(&html.Node{Type: html.TextNode, Data: t.Data})
			case *etree.Comment:
				dst.AppendChild(&html.Node{Type: html.CommentNode, Data: t.Data})
			}
		}
	}

	render(dst, doc)

	var buf strings.Builder
	_ = html.Render(&buf, dst)

	return buf.String()
}

func isBlank(n *node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}
