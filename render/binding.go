package render

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/dpotapov/go-hyper/dom"
)

// binding is the live state of one interpolation of a materialized Hole.
type binding struct {
	hole    *Hole
	u       *update
	node    *dom.Node // target element, or the anchor comment of node interpolations
	value   any       // last applied value; live Holes replace the ones passed in
	applied bool

	// node interpolations
	unit   Unit // what replaces the anchor, nil while the anchor is in place
	list   bool // items are rendered before the anchor
	items  []Unit
	text   *dom.Node
	raw    *PersistentFragment
	rawSrc string

	// events
	listener  dom.ListenerID
	listening bool
}

func (b *binding) set(v any) error {
	var err error
	switch {
	case b.u.kind&(KindComment|KindUnsafe) != 0:
		err = b.setNode(v)
	case b.u.kind&KindEvent != 0:
		err = b.setEvent(v)
	default:
		if b.applied && sameValue(b.value, v) {
			return nil
		}
		if err = b.u.apply(b.node, v); err == nil {
			b.value, b.applied = v, true
		}
	}
	if err == nil {
		return nil
	}
	var be *BindingError
	if errors.As(err, &be) {
		return err
	}
	return &BindingError{Name: b.u.attr, Path: b.u.path, err: err}
}

func (b *binding) setEvent(v any) error {
	handle, fn, opts, err := listenerOf(v)
	if err != nil {
		return err
	}
	if b.applied && sameValue(b.value, handle) {
		return nil
	}
	if b.listening {
		b.node.RemoveEventListener(b.u.name, b.listener)
		b.listening = false
	}
	if fn != nil {
		b.listener = b.node.AddEventListener(b.u.name, fn, opts)
		b.listening = true
	}
	b.value, b.applied = handle, true
	return nil
}

// listenerOf normalizes an event value. handle is the function the caller supplied, used to
// detect unchanged handlers.
func listenerOf(v any) (handle any, fn func(*dom.Event), opts dom.ListenerOptions, err error) {
	switch x := v.(type) {
	case nil:
		return nil, nil, opts, nil
	case func(*dom.Event):
		if x == nil {
			return nil, nil, opts, nil
		}
		return x, x, opts, nil
	case func():
		if x == nil {
			return nil, nil, opts, nil
		}
		return x, func(*dom.Event) { x() }, opts, nil
	case Listener:
		if x.Handle == nil {
			return nil, nil, opts, nil
		}
		return x.Handle, x.Handle, x.Options, nil
	case *Listener:
		if x == nil {
			return nil, nil, opts, nil
		}
		return listenerOf(*x)
	case []any:
		if len(x) == 0 || len(x) > 2 {
			return nil, nil, opts, fmt.Errorf("%w: event list of length %d", ErrUnsupportedValue, len(x))
		}
		handle, fn, _, err = listenerOf(x[0])
		if err != nil || len(x) == 1 {
			return handle, fn, opts, err
		}
		switch o := x[1].(type) {
		case dom.ListenerOptions:
			opts = o
		case bool:
			opts.Capture = o
		case nil:
		default:
			return nil, nil, opts, fmt.Errorf("%w: event options of type %T", ErrUnsupportedValue, o)
		}
		return handle, fn, opts, nil
	}
	return nil, nil, opts, fmt.Errorf("%w: event handler of type %T", ErrUnsupportedValue, v)
}

// setNode renders a node interpolation.
func (b *binding) setNode(v any) error {
	if b.applied && !b.list && sameValue(b.value, v) {
		if _, ok := v.(*Hole); !ok {
			return nil
		}
	}

	switch x := v.(type) {
	case *Hole:
		return b.setHole(x)
	case UnsafeHTML:
		return b.setUnsafe(string(x))
	case nil:
		b.releaseValue(nil)
		b.replace(nil)
	case Unit:
		b.releaseValue(nil)
		b.replace(x)
	case *dom.Node:
		b.releaseValue(nil)
		if x == nil {
			b.replace(nil)
		} else {
			b.replace(unitOf(x))
		}
	default:
		if items, ok := toItems(v); ok {
			return b.setList(items)
		}
		s, err := stringify(v)
		if err != nil {
			return err
		}
		if b.text == nil {
			b.text = dom.NewText(s)
		} else {
			b.text.SetData(s)
		}
		b.releaseValue(nil)
		b.replace(nodeUnit{b.text})
	}
	b.value, b.applied = v, true
	return nil
}

func (b *binding) setUnsafe(s string) error {
	if b.raw == nil || b.rawSrc != s {
		frag, err := createFragment(s, b.u.xml)
		if err != nil {
			return err
		}
		b.raw, b.rawSrc = NewPersistentFragment(frag), s
	}
	b.releaseValue(nil)
	b.replace(b.raw)
	b.value, b.applied = UnsafeHTML(s), true
	return nil
}

func (b *binding) setHole(x *Hole) error {
	if x == nil {
		b.releaseValue(nil)
		b.replace(nil)
		b.value, b.applied = nil, true
		return nil
	}
	if prev, ok := b.value.(*Hole); ok && b.applied && !b.list {
		if prev == x {
			return nil
		}
		if prev.t == x.t && !x.Materialized() {
			live, err := prev.update(x)
			if err != nil {
				return err
			}
			if live != prev {
				prev.release()
				b.replace(live.unit)
			}
			b.value = live
			return nil
		}
	}
	b.releaseValue(x)
	unit, err := x.mount()
	if err != nil {
		return err
	}
	b.replace(unit)
	b.value, b.applied = x, true
	return nil
}

// setList renders a list of items before the anchor. Items are reconciled with the previous
// ones on every call.
func (b *binding) setList(items []any) error {
	if !b.list {
		b.releaseValue(nil)
		b.replace(nil)
		b.list, b.items, b.value = true, nil, nil
	}
	prev, _ := b.value.([]any)
	units, live, err := b.holed(prev, items)
	if err != nil {
		return err
	}
	b.items = diff(b.items, units, b.hole.t.engine.get, b.node)

	kept := make(map[*Hole]bool, len(live))
	for _, v := range live {
		if h, ok := v.(*Hole); ok {
			kept[h] = true
		}
	}
	released := false
	for _, v := range prev {
		if h, ok := v.(*Hole); ok && !kept[h] {
			h.release()
			released = true
		}
	}
	if released {
		// a dropped Hole may have shared its key with a kept one
		for _, v := range live {
			if h, ok := v.(*Hole); ok && h.t.keyed != nil && h.unit != nil && h.t.keyed.get(h.keyValue()) == nil {
				h.t.keyed.set(h.keyValue(), h)
			}
		}
	}
	b.value, b.applied = live, true
	return nil
}

// holed pairs the items of a list with the previous ones and returns their units along with
// the live values. Materialized Holes are used as they are. Keyed Holes are matched by key and
// the others by position and template. Strings and numbers become text nodes; nil items render
// nothing.
func (b *binding) holed(prev, items []any) ([]Unit, []any, error) {
	units := make([]Unit, 0, len(items))
	live := make([]any, 0, len(items))

	claimed := make(map[*Hole]bool)
	for _, v := range items {
		if h, ok := v.(*Hole); ok && h.Materialized() {
			claimed[h] = true
		}
	}

	for _, v := range items {
		if v == nil {
			continue
		}
		i := len(units)
		var p any
		if i < len(prev) {
			p = prev[i]
		}
		var unit Unit

		switch x := v.(type) {
		case *Hole:
			if x == nil {
				continue
			}
			h, err := b.pair(p, x, claimed)
			if err != nil {
				return nil, nil, err
			}
			unit, v = h.unit, h
		case Unit:
			unit = x
		case *dom.Node:
			if x == nil {
				continue
			}
			unit = unitOf(x)
		case UnsafeHTML:
			if sameValue(p, v) && i < len(b.items) {
				unit = b.items[i]
				break
			}
			frag, err := createFragment(string(x), b.u.xml)
			if err != nil {
				return nil, nil, err
			}
			unit = NewPersistentFragment(frag)
		default:
			s, err := stringify(v)
			if err != nil {
				return nil, nil, err
			}
			if t := b.reusableText(p, i); t != nil {
				t.SetData(s)
				unit = nodeUnit{t}
			} else {
				unit = nodeUnit{dom.NewText(s)}
			}
		}
		units = append(units, unit)
		live = append(live, v)
	}
	return units, live, nil
}

// reusableText returns the text node rendered for the scalar item p at position i.
func (b *binding) reusableText(p any, i int) *dom.Node {
	switch p.(type) {
	case nil, *Hole, Unit, *dom.Node, UnsafeHTML:
		return nil
	}
	if i >= len(b.items) {
		return nil
	}
	if u, ok := b.items[i].(nodeUnit); ok && u.n.Type == html.TextNode {
		return u.n
	}
	return nil
}

// pair returns the live Hole rendering x within a list, p being the previous item at the same
// position.
func (b *binding) pair(p any, x *Hole, claimed map[*Hole]bool) (*Hole, error) {
	if x.Materialized() {
		return x, nil
	}
	ph, _ := p.(*Hole)
	if ph != nil && (ph.t != x.t || claimed[ph] || !ph.Materialized()) {
		ph = nil
	}

	if x.t.keyed != nil {
		key := x.keyValue()
		if ph == nil || !sameValue(ph.keyValue(), key) {
			ph = nil
			if cached := x.t.keyed.get(key); cached != nil && !claimed[cached] && cached.Materialized() {
				ph = cached
				b.hole.t.engine.logger.Debug("Keyed hit", "key", key)
			}
		}
	}

	if ph == nil {
		if _, err := x.mount(); err != nil {
			return nil, err
		}
		claimed[x] = true
		return x, nil
	}
	claimed[ph] = true
	return ph.update(x)
}

// replace puts next in place of the current content of a node interpolation. A nil next
// restores the anchor.
func (b *binding) replace(next Unit) {
	if b.list {
		b.items = diff(b.items, nil, b.hole.t.engine.get, b.node)
		b.list = false
	}
	anchor := nodeUnit{b.node}
	if next == nil {
		next = anchor
	}
	var prev Unit = anchor
	if b.unit != nil {
		prev = b.unit
	}
	if prev == next {
		return
	}
	prev.detach().ReplaceWith(next.mount())
	b.unit = next
	if next == Unit(anchor) {
		b.unit = nil
	}
}

// releaseValue drops the keyed registrations of the Holes rendered by a node interpolation,
// except keep.
func (b *binding) releaseValue(keep *Hole) {
	switch v := b.value.(type) {
	case *Hole:
		if v != keep {
			v.release()
		}
	case []any:
		for _, item := range v {
			if h, ok := item.(*Hole); ok && h != keep {
				h.release()
			}
		}
	}
}
