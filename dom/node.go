// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// Modifications:
// Copyright 2024 Daniel Potapov
//  - Live Node with browser-like tree semantics (nodes are moved, not rejected, when already
//    attached), template content, properties, listeners and mutation observers.

package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FragmentNode is the node type of a DocumentFragment. It extends the node types of
// golang.org/x/net/html which has no notion of fragments.
const FragmentNode html.NodeType = 100

// Node is a node of the live DOM.
type Node struct {
	// The following fields are replicated from golang.org/x/net/html.Node.
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	Type      html.NodeType
	DataAtom  atom.Atom
	Data      string
	Namespace string
	Attr      []html.Attribute

	// Content holds the children of a <template> element. The element itself has no children.
	Content *Node

	props     map[string]any
	listeners map[string][]*listener
	observers []*observer
}

// NewElement creates an HTML element. The tag name is lowercased.
func NewElement(tag string) *Node {
	return NewElementNS("", strings.ToLower(tag))
}

// NewElementNS creates an element in the given namespace ("" for HTML, "svg", "math").
// The tag name is kept as is.
func NewElementNS(ns, tag string) *Node {
	n := &Node{
		Type:      html.ElementNode,
		DataAtom:  atom.Lookup([]byte(tag)),
		Data:      tag,
		Namespace: ns,
	}
	if ns == "" && n.DataAtom == atom.Template {
		n.Content = NewFragment()
	}
	return n
}

func NewText(data string) *Node {
	return &Node{Type: html.TextNode, Data: data}
}

func NewComment(data string) *Node {
	return &Node{Type: html.CommentNode, Data: data}
}

func NewFragment() *Node {
	return &Node{Type: FragmentNode}
}

// IsTemplate reports whether n is an HTML <template> element.
func (n *Node) IsTemplate() bool {
	return n.Type == html.ElementNode && n.Namespace == "" && n.DataAtom == atom.Template
}

// ChildNodes returns a snapshot of the children of n.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}
	return nodes
}

// ChildAt returns the i-th child of n or nil.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 {
		return nil
	}
	c := n.FirstChild
	for ; c != nil && i > 0; i-- {
		c = c.NextSibling
	}
	return c
}

// Index returns the position of n among its siblings, or -1 if n is detached.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	i := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		i++
	}
	return i
}

// Contains reports whether c is n or a descendant of n.
func (n *Node) Contains(c *Node) bool {
	for ; c != nil; c = c.Parent {
		if c == n {
			return true
		}
	}
	return false
}

// InsertBefore inserts newChild as a child of n, immediately before oldChild. oldChild may be
// nil, in which case newChild is appended to the end of n's children.
//
// An attached newChild is moved. A fragment is emptied and its children are inserted instead.
func (n *Node) InsertBefore(newChild, oldChild *Node) {
	if oldChild != nil && oldChild.Parent != n {
		panic("dom: InsertBefore called with a reference node that is not a child")
	}
	if newChild.Type == FragmentNode {
		for _, c := range newChild.ChildNodes() {
			newChild.unlink(c)
			n.link(c, oldChild)
		}
		newChild.notify(Mutation{Kind: ChildList, Target: newChild})
		n.notify(Mutation{Kind: ChildList, Target: n})
		return
	}
	if newChild == oldChild {
		return
	}
	if newChild.Contains(n) {
		panic("dom: InsertBefore called with an ancestor of the parent")
	}
	if p := newChild.Parent; p != nil {
		p.unlink(newChild)
		if p != n {
			p.notify(Mutation{Kind: ChildList, Target: p})
		}
	}
	n.link(newChild, oldChild)
	n.notify(Mutation{Kind: ChildList, Target: n})
}

// AppendChild adds a node c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// RemoveChild removes a node c that is a child of n. Afterwards, c will have
// no parent and no siblings.
//
// It will panic if c's parent is not n.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("dom: RemoveChild called for a non-child Node")
	}
	n.unlink(c)
	n.notify(Mutation{Kind: ChildList, Target: n})
}

// ReplaceChild replaces the child oldChild of n with newChild.
func (n *Node) ReplaceChild(newChild, oldChild *Node) {
	if oldChild.Parent != n {
		panic("dom: ReplaceChild called for a non-child Node")
	}
	if newChild == oldChild {
		return
	}
	n.InsertBefore(newChild, oldChild)
	n.RemoveChild(oldChild)
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith replaces n in its parent with the given nodes. It is a no-op for detached nodes.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.Parent
	if p == nil {
		return
	}
	next := n.NextSibling
	for next != nil && containsNode(nodes, next) {
		next = next.NextSibling
	}
	p.RemoveChild(n)
	for _, c := range nodes {
		p.InsertBefore(c, next)
	}
}

// ReplaceChildren replaces all children of n with the given nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		if containsNode(nodes, c) {
			// keep it attached until it is re-inserted below
			n.unlink(c)
			continue
		}
		n.unlink(c)
	}
	for _, c := range nodes {
		n.InsertBefore(c, nil)
	}
	n.notify(Mutation{Kind: ChildList, Target: n})
}

// Clone returns a copy of n. Attributes, template content and character data are copied;
// properties, listeners and observers are not. With deep set, children are cloned too.
func (n *Node) Clone(deep bool) *Node {
	m := &Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		m.Attr = make([]html.Attribute, len(n.Attr))
		copy(m.Attr, n.Attr)
	}
	if n.Content != nil {
		m.Content = n.Content.Clone(true)
	}
	if deep {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			m.link(c.Clone(true), nil)
		}
	}
	return m
}

// TextContent returns the concatenated text of n's descendants, or the character data of
// text and comment nodes.
func (n *Node) TextContent() string {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		return n.Data
	}
	var sb strings.Builder
	var walk func(*Node)
	walk = func(p *Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode, FragmentNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

// SetTextContent replaces the children of n with a single text node. For text and comment
// nodes it sets the character data.
func (n *Node) SetTextContent(s string) {
	switch n.Type {
	case html.TextNode, html.CommentNode:
		n.SetData(s)
		return
	}
	if s == "" {
		n.ReplaceChildren()
		return
	}
	n.ReplaceChildren(NewText(s))
}

// SetData sets the character data of a text or comment node.
func (n *Node) SetData(s string) {
	if n.Data == s {
		return
	}
	n.Data = s
	n.notify(Mutation{Kind: CharacterData, Target: n})
}

// link inserts an unattached c before ref (or at the end), without notifications.
func (n *Node) link(c, ref *Node) {
	var prev, next *Node
	if ref != nil {
		prev, next = ref.PrevSibling, ref
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = c
	} else {
		n.FirstChild = c
	}
	if next != nil {
		next.PrevSibling = c
	} else {
		n.LastChild = c
	}
	c.Parent = n
	c.PrevSibling = prev
	c.NextSibling = next
}

// unlink detaches the child c from n, without notifications.
func (n *Node) unlink(c *Node) {
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

func containsNode(nodes []*Node, n *Node) bool {
	for _, c := range nodes {
		if c == n {
			return true
		}
	}
	return false
}
