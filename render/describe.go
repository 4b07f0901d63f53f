package render

import (
	"slices"

	"github.com/dpotapov/go-hyper/dom"
)

// Interpolation describes one interpolation of a parsed template.
type Interpolation struct {
	Kind   Kind
	Marker Marker // zero for node interpolations
	Name   string // attribute as written in the template, empty for node interpolations
	Path   []int  // child indices from the node up to the fragment, -1 entering template content
}

// Description is the parsed form of a template as cached by an Engine.
type Description struct {
	Fragment       *dom.Node // a clone of the template fragment
	Interpolations []Interpolation
	Keyed          bool
	Wrapped        bool // instances are wrapped in a PersistentFragment
}

// Describe parses t in HTML or SVG mode and reports what the engine caches for it. values are
// sample values deciding the kind of node interpolations, as with the first render; they may
// be omitted.
func (e *Engine) Describe(t *Template, svg bool, values ...any) (*Description, error) {
	p, err := e.parse(t, values, svg)
	if err != nil {
		return nil, err
	}
	d := &Description{
		Fragment: p.fragment.Clone(true),
		Keyed:    p.keyed != nil,
		Wrapped:  p.wrap,
	}
	for _, u := range p.updates {
		d.Interpolations = append(d.Interpolations, Interpolation{
			Kind:   u.kind,
			Marker: u.marker,
			Name:   u.attr,
			Path:   slices.Clone(u.path),
		})
	}
	return d, nil
}

// Node returns the node in of d addresses: the element owning an attribute, the comment
// anchoring a node interpolation or the raw-text element.
func (d *Description) Node(in Interpolation) *dom.Node {
	return resolve(d.Fragment, in.Path)
}
