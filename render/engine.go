package render

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/dpotapov/go-hyper/dom"
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Logger receives debug records about parsing and rendering. Defaults to a discarding logger.
	Logger *slog.Logger

	// Metrics is updated on every parse and render when set.
	Metrics *Metrics
}

// RenderFunc renders a template with values into a bound container and returns the container.
type RenderFunc func(t *Template, values ...any) (*dom.Node, error)

// WireFunc renders a template for a wired owner and returns its live Hole.
type WireFunc func(t *Template, values ...any) (*Hole, error)

// Engine parses templates, caches them by identity and renders them into live DOM trees.
//
// The caches are guarded by a mutex, but rendering is not: a container, its Holes and their
// nodes must be used by one goroutine at a time. A render into a container from a callback
// running during a render of the same container, such as a ref function, fails with
// ErrReentrantRender and leaves the outer render in charge of the container.
type Engine struct {
	logger  *slog.Logger
	metrics *Metrics
	get     accessor

	mu        sync.Mutex
	templates [2]map[*Template]*parsed // html, svg
	wires     map[any]map[string]*Hole
	bound     map[*dom.Node]*Hole
	rendering map[*dom.Node]bool
}

// Stats is a snapshot of the registries of an Engine.
type Stats struct {
	Templates int // parsed templates, both modes
	Wires     int // wired owner/id pairs
	Bound     int // bound containers
	Keyed     int // live keyed entries
}

// Default is the engine behind the package-level functions.
var Default = NewEngine(Options{})

func NewEngine(opts Options) *Engine {
	e := &Engine{
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		wires:     make(map[any]map[string]*Hole),
		bound:     make(map[*dom.Node]*Hole),
		rendering: make(map[*dom.Node]bool),
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.templates[0] = make(map[*Template]*parsed)
	e.templates[1] = make(map[*Template]*parsed)
	e.get = unitNode
	if m := e.metrics; m != nil {
		e.get = func(u Unit, op diffOp) *dom.Node {
			m.diffOp(op)
			return unitNode(u, op)
		}
	}
	return e
}

// HTML returns an unmaterialized Hole rendering t with values in HTML mode.
// It panics if the number of values does not match the interpolations of t.
func (e *Engine) HTML(t *Template, values ...any) *Hole {
	return e.hole(t, values, false)
}

// SVG is HTML for markup parsed in an <svg> context.
func (e *Engine) SVG(t *Template, values ...any) *Hole {
	return e.hole(t, values, true)
}

func (e *Engine) hole(t *Template, values []any, xml bool) *Hole {
	if len(values) != t.Holes() {
		panic(fmt.Sprintf("render: template has %d interpolations, got %d values", t.Holes(), len(values)))
	}
	p, err := e.parse(t, values, xml)
	h := &Hole{t: p, values: values, err: err}
	if err != nil {
		h.t = &parsed{engine: e, tmpl: t, key: -1}
	}
	return h
}

// parse returns the cached parsed form of t, parsing it on first use. The values of the first
// call decide the kind of node interpolations.
func (e *Engine) parse(t *Template, values []any, xml bool) (*parsed, error) {
	mode := 0
	if xml {
		mode = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.templates[mode][t]; ok {
		return p, nil
	}

	root, updates, keyed, err := parseTemplate(t.segments, values, xml)
	if err != nil {
		return nil, err
	}
	markup := root.String()
	frag, err := createFragment(markup, xml)
	if err != nil {
		return nil, fmt.Errorf("create fragment: %w", err)
	}

	p := &parsed{
		engine:   e,
		tmpl:     t,
		xml:      xml,
		fragment: frag,
		updates:  updates,
		key:      -1,
	}
	for i, u := range updates {
		if u.kind == KindKey && p.key < 0 {
			p.key = i
		}
		if u.kind&(KindComment|KindUnsafe) != 0 && len(u.path) == 1 {
			p.wrap = true
		}
	}
	if frag.FirstChild == nil || frag.FirstChild != frag.LastChild {
		p.wrap = true
	}
	if keyed {
		p.keyed = newKeyed(e.metrics.keyed)
	}
	e.templates[mode][t] = p

	e.metrics.parsed(xml)
	e.logger.Debug("Parse template", "markup", markup, "holes", len(updates), "keyed", keyed, "svg", xml)
	return p, nil
}

// Bind returns a function rendering into container. A render with the template of the previous
// render patches the container; any other template replaces its children.
func (e *Engine) Bind(container *dom.Node) RenderFunc {
	return func(t *Template, values ...any) (*dom.Node, error) {
		start := time.Now()
		hole := e.HTML(t, values...)

		e.mu.Lock()
		if e.rendering[container] {
			e.mu.Unlock()
			return container, ErrReentrantRender
		}
		e.rendering[container] = true
		known := e.bound[container]
		e.mu.Unlock()

		defer func() {
			e.mu.Lock()
			delete(e.rendering, container)
			e.mu.Unlock()
		}()

		path := "update"
		live := known
		if known == nil || known.t != hole.t {
			path = "replace"
			n, err := hole.Node()
			if err != nil {
				return container, err
			}
			container.ReplaceChildren(n)
			if known != nil {
				known.release()
			}
			live = hole
		} else {
			var err error
			live, err = known.update(hole)
			if err != nil {
				return container, err
			}
			if live != known {
				container.ReplaceChildren(live.unit.mount())
				known.release()
			}
		}

		e.mu.Lock()
		e.bound[container] = live
		e.mu.Unlock()

		e.metrics.rendered(path, time.Since(start).Seconds())
		e.logger.Debug("Render", "path", path)
		return container, nil
	}
}

// Unbind forgets the last render of container. Its nodes are left in place.
func (e *Engine) Unbind(container *dom.Node) {
	e.mu.Lock()
	h := e.bound[container]
	delete(e.bound, container)
	e.mu.Unlock()
	if h != nil {
		h.release()
	}
}

// Execute evaluates a compiled template against env and renders it into container.
func (e *Engine) Execute(container *dom.Node, t *Template, env any, args ...any) (*dom.Node, error) {
	values, err := t.Values(env, args...)
	if err != nil {
		return container, err
	}
	return e.Bind(container)(t, values...)
}

// Wire returns a function rendering templates on behalf of owner. The first call for an
// (owner, id) pair materializes a Hole; the following calls with the same template update
// and return that same Hole, so a list of wired items moves nodes instead of patching them.
// owner must be comparable, typically a pointer.
func (e *Engine) Wire(owner any, id string) WireFunc {
	if !isComparable(owner) {
		panic(fmt.Sprintf("render: wire owner of type %T is not comparable", owner))
	}
	return func(t *Template, values ...any) (*Hole, error) {
		hole := e.HTML(t, values...)

		e.mu.Lock()
		holes := e.wires[owner]
		if holes == nil {
			holes = make(map[string]*Hole)
			e.wires[owner] = holes
		}
		known := holes[id]
		e.mu.Unlock()

		var live *Hole
		var err error
		if known == nil || known.t != hole.t {
			_, err = hole.mount()
			live = hole
		} else {
			live, err = known.update(hole)
		}
		if err != nil {
			return nil, err
		}
		if known != nil && live != known {
			known.release()
		}

		e.mu.Lock()
		holes[id] = live
		e.mu.Unlock()
		return live, nil
	}
}

// Release drops the wired Holes of owner.
func (e *Engine) Release(owner any) {
	if !isComparable(owner) {
		return
	}
	e.mu.Lock()
	holes := e.wires[owner]
	delete(e.wires, owner)
	e.mu.Unlock()
	for _, h := range holes {
		h.release()
	}
}

// Stats returns the sizes of the registries.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Stats{Bound: len(e.bound)}
	for _, m := range e.templates {
		s.Templates += len(m)
		for _, p := range m {
			if p.keyed != nil {
				s.Keyed += p.keyed.Len()
			}
		}
	}
	for _, holes := range e.wires {
		s.Wires += len(holes)
	}
	return s
}

// HTML calls Default.HTML.
func HTML(t *Template, values ...any) *Hole {
	return Default.HTML(t, values...)
}

// SVG calls Default.SVG.
func SVG(t *Template, values ...any) *Hole {
	return Default.SVG(t, values...)
}

// Bind calls Default.Bind.
func Bind(container *dom.Node) RenderFunc {
	return Default.Bind(container)
}

// Wire calls Default.Wire.
func Wire(owner any, id string) WireFunc {
	return Default.Wire(owner, id)
}
