package dom

import (
	"strings"
	"sync/atomic"
)

// Event is dispatched to a node and bubbles up to its ancestors.
type Event struct {
	Type   string
	Detail any

	// Target is the node the event was dispatched to, CurrentTarget is the node whose
	// listeners are being invoked.
	Target, CurrentTarget *Node

	stopped bool
}

func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// ListenerOptions mirrors the options of addEventListener. Capture listeners are kept apart from
// bubble listeners but, as there is no capture phase, are invoked together with them.
type ListenerOptions struct {
	Capture bool
	Once    bool
}

// ListenerID identifies a registered listener for RemoveEventListener.
type ListenerID uint64

type listener struct {
	id   ListenerID
	fn   func(*Event)
	opts ListenerOptions
}

var listenerSeq atomic.Uint64

// AddEventListener registers fn for events of the given type and returns its id.
func (n *Node) AddEventListener(typ string, fn func(*Event), opts ListenerOptions) ListenerID {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{id: ListenerID(listenerSeq.Add(1)), fn: fn, opts: opts}
	n.listeners[typ] = append(n.listeners[typ], l)
	n.notify(Mutation{Kind: Listener, Target: n, Name: typ})
	return l.id
}

// RemoveEventListener unregisters a listener. Unknown ids are ignored.
func (n *Node) RemoveEventListener(typ string, id ListenerID) {
	ls := n.listeners[typ]
	for i, l := range ls {
		if l.id == id {
			n.listeners[typ] = append(ls[:i:i], ls[i+1:]...)
			n.notify(Mutation{Kind: Listener, Target: n, Name: typ})
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for the type, including a
// function-valued on<type> property.
func (n *Node) ListenerCount(typ string) int {
	c := len(n.listeners[typ])
	if _, ok := n.props["on"+strings.ToLower(typ)].(func(*Event)); ok {
		c++
	}
	return c
}

// DispatchEvent invokes the listeners of n and then of its ancestors until the event is
// stopped.
func (n *Node) DispatchEvent(e *Event) {
	e.Target = n
	for c := n; c != nil && !e.stopped; c = c.Parent {
		e.CurrentTarget = c
		c.invoke(e)
	}
	e.CurrentTarget = nil
}

func (n *Node) invoke(e *Event) {
	// snapshot: listeners may be added or removed while dispatching
	ls := append([]*listener(nil), n.listeners[e.Type]...)
	for _, l := range ls {
		if l.opts.Once {
			n.RemoveEventListener(e.Type, l.id)
		}
		l.fn(e)
	}
	if fn, ok := n.props["on"+strings.ToLower(e.Type)].(func(*Event)); ok {
		fn(e)
	}
}
