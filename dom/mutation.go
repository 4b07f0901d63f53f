package dom

// MutationKind classifies a Mutation.
type MutationKind int

const (
	ChildList MutationKind = iota
	Attributes
	CharacterData
	Property
	Listener
)

func (k MutationKind) String() string {
	switch k {
	case ChildList:
		return "childList"
	case Attributes:
		return "attributes"
	case CharacterData:
		return "characterData"
	case Property:
		return "property"
	case Listener:
		return "listener"
	}
	return "unknown"
}

// Mutation describes a single change of the tree. Name is the attribute, property or event type
// for the corresponding kinds.
type Mutation struct {
	Kind   MutationKind
	Target *Node
	Name   string
}

type observer struct {
	fn func(Mutation)
}

// Observe calls fn for every mutation of n and its descendants. The returned function stops
// the observation.
func (n *Node) Observe(fn func(Mutation)) (cancel func()) {
	o := &observer{fn: fn}
	n.observers = append(n.observers, o)
	return func() {
		for i, x := range n.observers {
			if x == o {
				n.observers = append(n.observers[:i:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

func (n *Node) notify(m Mutation) {
	for c := n; c != nil; c = c.Parent {
		for _, o := range c.observers {
			o.fn(m)
		}
	}
}
