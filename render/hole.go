package render

import (
	"slices"

	"github.com/dpotapov/go-hyper/dom"
)

// parsed is the shared, immutable result of parsing a template in one mode.
type parsed struct {
	engine   *Engine
	tmpl     *Template
	xml      bool
	fragment *dom.Node
	updates  []*update
	keyed    *Keyed // nil unless the template has a key attribute
	key      int    // index of the key update or -1

	// wrap is set when the content is not exactly one node for the whole lifetime of an instance:
	// several root nodes, or a node interpolation at the root.
	wrap bool
}

// Hole is one rendering of a template with a set of values.
//
// A Hole starts unmaterialized, holding the values. Its first mount clones the template fragment
// and applies every value. Once materialized it holds one binding per interpolation and patches
// the DOM with the values of the next Hole of the same template.
type Hole struct {
	t   *parsed
	err error

	values []any      // unmaterialized
	slots  []*binding // materialized
	unit   Unit
}

// Template returns the template the Hole renders.
func (h *Hole) Template() *Template {
	if h.t == nil {
		return nil
	}
	return h.t.tmpl
}

// Materialized reports whether the Hole owns live nodes.
func (h *Hole) Materialized() bool {
	return h.unit != nil
}

// Nodes returns the live nodes of a materialized Hole. Multi-node content includes the <> and
// </> boundary comments.
func (h *Hole) Nodes() []*dom.Node {
	switch u := h.unit.(type) {
	case nodeUnit:
		return []*dom.Node{u.n}
	case *PersistentFragment:
		return u.Nodes()
	}
	return nil
}

// Node returns the content of the Hole as one insertable node: its single node, or a fragment
// gathering its nodes. It materializes the Hole if needed.
func (h *Hole) Node() (*dom.Node, error) {
	u, err := h.mount()
	if err != nil {
		return nil, err
	}
	return u.mount(), nil
}

func (h *Hole) keyValue() any {
	if h.t.key < 0 {
		return nil
	}
	if h.slots != nil {
		return h.slots[h.t.key].value
	}
	return h.values[h.t.key]
}

// mount materializes the Hole and returns its unit. Updates are applied from the last to the
// first so that replacing an anchor never shifts the path of an update still to be applied.
func (h *Hole) mount() (Unit, error) {
	if h.err != nil {
		return nil, h.err
	}
	if h.unit != nil {
		return h.unit, nil
	}
	p := h.t
	root := p.fragment.Clone(true)
	slots := make([]*binding, len(p.updates))

	var node *dom.Node
	var prev []int
	for i := len(p.updates) - 1; i >= 0; i-- {
		u := p.updates[i]
		if prev == nil || !slices.Equal(prev, u.path) {
			node, prev = resolve(root, u.path), u.path
		}
		if node == nil {
			return nil, &BindingError{Name: u.attr, Path: u.path, err: ErrUnresolvedPath}
		}
		b := &binding{hole: h, u: u, node: node}
		slots[i] = b
		if u.kind == KindKey {
			b.value, b.applied = h.values[i], true
			continue
		}
		if err := b.set(h.values[i]); err != nil {
			return nil, err
		}
	}

	if p.wrap {
		h.unit = NewPersistentFragment(root)
	} else {
		h.unit = nodeUnit{root.FirstChild}
	}
	h.values, h.slots = nil, slots

	if p.keyed != nil {
		p.keyed.set(h.keyValue(), h)
	}
	return h.unit, nil
}

// update patches h with the values of next, a Hole of the same template, and returns the live
// Hole. The result differs from h when the key changed: it is then the Hole registered under
// the new key, or next itself, freshly materialized.
func (h *Hole) update(next *Hole) (*Hole, error) {
	switch {
	case next == h:
		return h, nil
	case next.unit != nil || next.err != nil:
		_, err := next.mount()
		return next, err
	case h.unit == nil:
		_, err := next.mount()
		return next, err
	}

	if k := h.t.key; k >= 0 && !sameValue(h.slots[k].value, next.values[k]) {
		return h.rekey(next)
	}

	for i := len(h.slots) - 1; i >= 0; i-- {
		b := h.slots[i]
		if b.u.kind == KindKey {
			continue
		}
		if err := b.set(next.values[i]); err != nil {
			return h, err
		}
	}
	return h, nil
}

func (h *Hole) rekey(next *Hole) (*Hole, error) {
	key := next.keyValue()
	if cached := h.t.keyed.get(key); cached != nil && cached != h && cached.unit != nil {
		h.t.engine.logger.Debug("Keyed hit", "key", key)
		return cached.update(next)
	}
	_, err := next.mount()
	return next, err
}

// release drops the keyed registrations of h and of the Holes nested in it.
func (h *Hole) release() {
	if h.unit == nil {
		return
	}
	if h.t.keyed != nil {
		h.t.keyed.release(h.keyValue(), h)
	}
	for _, b := range h.slots {
		b.releaseValue(nil)
	}
}
