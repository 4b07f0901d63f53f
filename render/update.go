package render

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/dpotapov/go-hyper/dom"
)

// holeComment is the data of the comment anchoring a node interpolation.
const holeComment = "◦"

// applyFunc writes a value to the node targeted by an update.
type applyFunc func(n *dom.Node, v any) error

// update describes one interpolation of a template: where its node is and how values are
// written to it. Node interpolations and events keep per-instance state and are applied by the
// binding instead of apply.
type update struct {
	path   []int
	kind   Kind
	marker Marker
	attr   string // attribute as written in the template, empty for node interpolations
	name   string // attribute, property or event name the marker applies to
	xml    bool
	apply  applyFunc
}

// describe is the default update factory used by the parser.
func describe(n *node, t html.NodeType, path []int, name string, sample any, xml bool) (*update, error) {
	u := &update{path: path, xml: xml}

	switch t {
	case html.CommentNode:
		switch sample.(type) {
		case UnsafeHTML:
			u.kind = KindUnsafe
		default:
			u.kind = KindComment
			if _, ok := toItems(sample); ok {
				u.kind = kindCommentArray
			}
		}
		return u, nil
	case html.TextNode:
		u.kind = KindText
		u.apply = setText
		return u, nil
	}

	u.attr = name
	u.marker, u.name = classify(n.Data, name)
	switch u.marker {
	case MarkerEvent, MarkerToggle, MarkerDirect:
		if u.name == "" {
			return nil, fmt.Errorf("%w: %q needs a name", ErrReservedName, name)
		}
	}

	switch u.marker {
	case MarkerEvent:
		u.kind = KindEvent
		if _, ok := sample.([]any); ok {
			u.kind = kindEventArray
		}
	case MarkerToggle:
		u.kind = KindToggle
		u.apply = toggle(u.name)
	case MarkerDirect:
		u.kind = KindDirect
		u.apply = direct(u.name)
	case MarkerHandler:
		u.kind = KindDirect
		u.apply = handlerProp(u.name)
	case MarkerRef:
		u.kind = KindDirect
		u.apply = setRef
	case MarkerSpread:
		u.kind = KindProp
		u.apply = spread
	case MarkerData:
		u.kind = KindData
		u.apply = dataset
	case MarkerKey:
		u.kind = KindKey
	case MarkerStyle:
		u.kind = KindAttribute
		u.apply = style
	default:
		u.kind = KindAttribute
		u.apply = attribute(u.name)
	}
	return u, nil
}

func attribute(name string) applyFunc {
	return func(n *dom.Node, v any) error {
		if v == nil {
			n.RemoveAttribute(name)
			return nil
		}
		s, err := stringify(v)
		if err != nil {
			return err
		}
		n.SetAttribute(name, s)
		return nil
	}
}

func toggle(name string) applyFunc {
	return func(n *dom.Node, v any) error {
		n.ToggleAttribute(name, truthy(v))
		return nil
	}
}

func direct(name string) applyFunc {
	return func(n *dom.Node, v any) error {
		n.SetProperty(name, v)
		return nil
	}
}

// handlerProp assigns an on<type> property. DispatchEvent only calls func(*dom.Event) values.
func handlerProp(name string) applyFunc {
	return func(n *dom.Node, v any) error {
		if fn, ok := v.(func()); ok {
			v = func(*dom.Event) { fn() }
		}
		n.SetProperty(name, v)
		return nil
	}
}

func setText(n *dom.Node, v any) error {
	s, err := stringify(v)
	if err != nil {
		return err
	}
	n.SetTextContent(s)
	return nil
}

func setRef(n *dom.Node, v any) error {
	switch r := v.(type) {
	case nil:
	case *Ref:
		r.Current = n
	case func(*dom.Node):
		r(n)
	default:
		return fmt.Errorf("%w: ref of type %T", ErrUnsupportedValue, v)
	}
	n.SetProperty("ref", v)
	return nil
}

func spread(n *dom.Node, v any) error {
	if v == nil {
		return nil
	}
	keys, m, ok := toMap(v)
	if !ok {
		return fmt.Errorf("%w: spread of type %T", ErrUnsupportedValue, v)
	}
	for _, k := range keys {
		if err := attribute(k)(n, m[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

func dataset(n *dom.Node, v any) error {
	if v == nil {
		return nil
	}
	keys, m, ok := toMap(v)
	if !ok {
		return fmt.Errorf("%w: data of type %T", ErrUnsupportedValue, v)
	}
	ds := n.Dataset()
	for _, k := range keys {
		if m[k] == nil {
			ds.Delete(k)
			continue
		}
		s, err := stringify(m[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		ds.Set(k, s)
	}
	return nil
}

func style(n *dom.Node, v any) error {
	if v == nil {
		n.RemoveAttribute("style")
		return nil
	}
	if s, ok := v.(string); ok {
		n.SetAttribute("style", s)
		return nil
	}
	keys, m, ok := toMap(v)
	if !ok {
		return fmt.Errorf("%w: style of type %T", ErrUnsupportedValue, v)
	}
	st := n.Style()
	for _, k := range keys {
		if m[k] == nil {
			st.Remove(k)
			continue
		}
		s, err := stringify(m[k])
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		st.Set(k, s)
	}
	return nil
}
