package render

import (
	"strings"

	"github.com/dpotapov/go-hyper/dom"
)

// Unit is a renderable unit of a list or node interpolation: a single node or a
// PersistentFragment.
type Unit interface {
	firstNode() *dom.Node
	lastNode() *dom.Node
	// mount returns the node to insert. Fragments gather their nodes first.
	mount() *dom.Node
	// detach removes every node but the first and returns the first one.
	detach() *dom.Node
}

// nodeUnit is a Unit made of one node.
type nodeUnit struct {
	n *dom.Node
}

func (u nodeUnit) firstNode() *dom.Node { return u.n }
func (u nodeUnit) lastNode() *dom.Node  { return u.n }
func (u nodeUnit) mount() *dom.Node     { return u.n }
func (u nodeUnit) detach() *dom.Node    { return u.n }

// unitOf wraps a node into a Unit. A fragment node becomes a PersistentFragment.
func unitOf(n *dom.Node) Unit {
	if n.Type == dom.FragmentNode {
		return NewPersistentFragment(n)
	}
	return nodeUnit{n}
}

// PersistentFragment keeps track of the nodes of a fragment after they have been inserted into
// another parent, so that they can be moved, replaced or removed as one unit. The nodes are
// delimited by the <> and </> comments.
type PersistentFragment struct {
	frag        *dom.Node
	first, last *dom.Node
	nodes       []*dom.Node
}

// NewPersistentFragment adds the boundary comments to frag and wraps it.
func NewPersistentFragment(frag *dom.Node) *PersistentFragment {
	pf := &PersistentFragment{
		frag:  frag,
		first: dom.NewComment("<>"),
		last:  dom.NewComment("</>"),
	}
	frag.InsertBefore(pf.first, frag.FirstChild)
	frag.AppendChild(pf.last)
	return pf
}

func (pf *PersistentFragment) firstNode() *dom.Node { return pf.first }
func (pf *PersistentFragment) lastNode() *dom.Node  { return pf.last }

// Parent returns the node the fragment content currently lives in, the fragment itself before
// insertion and nil once removed.
func (pf *PersistentFragment) Parent() *dom.Node {
	return pf.first.Parent
}

// Nodes returns the nodes of the unit, boundaries included.
func (pf *PersistentFragment) Nodes() []*dom.Node {
	if pf.first.Parent == nil {
		return append([]*dom.Node(nil), pf.nodes...)
	}
	return pf.collect()
}

func (pf *PersistentFragment) collect() []*dom.Node {
	var nodes []*dom.Node
	for n := pf.first; n != nil; n = n.NextSibling {
		nodes = append(nodes, n)
		if n == pf.last {
			break
		}
	}
	return nodes
}

func (pf *PersistentFragment) mount() *dom.Node {
	switch p := pf.first.Parent; {
	case p == pf.frag:
		return pf.frag
	case p != nil:
		pf.nodes = pf.collect()
	}
	pf.frag.ReplaceChildren(pf.nodes...)
	return pf.frag
}

func (pf *PersistentFragment) detach() *dom.Node {
	if pf.first.Parent == nil {
		return pf.first
	}
	pf.nodes = pf.collect()
	for _, n := range pf.nodes[1:] {
		n.Remove()
	}
	return pf.first
}

// ReplaceWith replaces all the nodes of the unit with n.
func (pf *PersistentFragment) ReplaceWith(n *dom.Node) {
	pf.detach().ReplaceWith(n)
}

// Remove removes all the nodes of the unit from their parent.
func (pf *PersistentFragment) Remove() {
	pf.detach().Remove()
}

// String renders the nodes of the unit.
func (pf *PersistentFragment) String() string {
	var sb strings.Builder
	for _, n := range pf.Nodes() {
		if n == pf.first || n == pf.last {
			continue
		}
		_ = dom.Render(&sb, n)
	}
	return sb.String()
}
