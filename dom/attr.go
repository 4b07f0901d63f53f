package dom

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// GetAttribute returns the value of the named attribute and whether it is present.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute adds or replaces the named attribute.
func (n *Node) SetAttribute(name, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			if a.Val == value {
				return
			}
			n.Attr[i].Val = value
			n.notify(Mutation{Kind: Attributes, Target: n, Name: name})
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
	n.notify(Mutation{Kind: Attributes, Target: n, Name: name})
}

// RemoveAttribute removes the named attribute. It is a no-op if the attribute is absent.
func (n *Node) RemoveAttribute(name string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			n.notify(Mutation{Kind: Attributes, Target: n, Name: name})
			return
		}
	}
}

// ToggleAttribute sets the named attribute to an empty value when force is true and removes it
// otherwise. It returns force.
func (n *Node) ToggleAttribute(name string, force bool) bool {
	if force {
		if !n.HasAttribute(name) {
			n.SetAttribute(name, "")
		}
	} else {
		n.RemoveAttribute(name)
	}
	return force
}

// Dataset gives access to the data-* attributes of an element.
type Dataset struct {
	n *Node
}

func (n *Node) Dataset() Dataset {
	return Dataset{n: n}
}

// Get returns the value of data-<kebab(key)>.
func (d Dataset) Get(key string) (string, bool) {
	return d.n.GetAttribute(dataAttr(key))
}

func (d Dataset) Set(key, value string) {
	d.n.SetAttribute(dataAttr(key), value)
}

func (d Dataset) Delete(key string) {
	d.n.RemoveAttribute(dataAttr(key))
}

// Keys returns the camelCased keys of all data-* attributes in document order.
func (d Dataset) Keys() []string {
	var keys []string
	for _, a := range d.n.Attr {
		if a.Namespace == "" && strings.HasPrefix(a.Key, "data-") {
			keys = append(keys, camelCase(a.Key[len("data-"):]))
		}
	}
	return keys
}

func dataAttr(key string) string {
	var sb strings.Builder
	sb.WriteString("data-")
	for _, r := range key {
		if unicode.IsUpper(r) {
			sb.WriteByte('-')
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func camelCase(s string) string {
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Style gives access to individual CSS declarations of the style attribute.
type Style struct {
	n *Node
}

func (n *Node) Style() Style {
	return Style{n: n}
}

// Get returns the value of a CSS property.
func (s Style) Get(prop string) string {
	for _, d := range s.decls() {
		if d[0] == prop {
			return d[1]
		}
	}
	return ""
}

// Set sets a CSS property, keeping the declaration order of the existing ones.
func (s Style) Set(prop, value string) {
	decls := s.decls()
	for i, d := range decls {
		if d[0] == prop {
			decls[i][1] = value
			s.write(decls)
			return
		}
	}
	s.write(append(decls, [2]string{prop, value}))
}

// Remove removes a CSS property. The style attribute is removed when no declarations remain.
func (s Style) Remove(prop string) {
	decls := s.decls()
	for i, d := range decls {
		if d[0] == prop {
			s.write(append(decls[:i], decls[i+1:]...))
			return
		}
	}
}

// Properties returns the declared property names, sorted.
func (s Style) Properties() []string {
	var names []string
	for _, d := range s.decls() {
		names = append(names, d[0])
	}
	sort.Strings(names)
	return names
}

func (s Style) decls() [][2]string {
	v, _ := s.n.GetAttribute("style")
	var decls [][2]string
	for _, part := range strings.Split(v, ";") {
		name, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		decls = append(decls, [2]string{name, strings.TrimSpace(val)})
	}
	return decls
}

func (s Style) write(decls [][2]string) {
	if len(decls) == 0 {
		s.n.RemoveAttribute("style")
		return
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d[0] + ": " + d[1]
	}
	s.n.SetAttribute("style", strings.Join(parts, "; ")+";")
}

// Property returns a property previously assigned with SetProperty. The reflected
// properties textContent, className and id read from the node itself.
func (n *Node) Property(name string) (any, bool) {
	switch name {
	case "textContent":
		return n.TextContent(), true
	case "className":
		v, _ := n.GetAttribute("class")
		return v, true
	case "id":
		v, _ := n.GetAttribute("id")
		return v, true
	}
	v, ok := n.props[name]
	return v, ok
}

// SetProperty assigns a property on the node. textContent, className and id are reflected to
// the tree and attributes; everything else is kept on the node. A function assigned to an
// on<type> property is invoked by DispatchEvent for events of that type.
func (n *Node) SetProperty(name string, v any) {
	switch name {
	case "textContent":
		n.SetTextContent(stringOf(v))
		return
	case "className":
		n.SetAttribute("class", stringOf(v))
		return
	case "id":
		n.SetAttribute("id", stringOf(v))
		return
	}
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = v
	n.notify(Mutation{Kind: Property, Target: n, Name: name})
}

func stringOf(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	}
	return fmt.Sprint(v)
}
