package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_DispatchEvent(t *testing.T) {
	outer := NewElement("div")
	button := NewElement("button")
	outer.AppendChild(button)

	var got []string
	id := button.AddEventListener("click", func(e *Event) {
		got = append(got, "button")
		assert.Same(t, button, e.Target)
		assert.Same(t, button, e.CurrentTarget)
	}, ListenerOptions{})
	outer.AddEventListener("click", func(e *Event) {
		got = append(got, "outer")
		assert.Same(t, button, e.Target)
	}, ListenerOptions{})
	outer.SetProperty("onclick", func(*Event) { got = append(got, "onclick") })

	button.DispatchEvent(NewEvent("click"))
	assert.Equal(t, []string{"button", "outer", "onclick"}, got)
	assert.Equal(t, 2, outer.ListenerCount("click"))

	got = nil
	button.RemoveEventListener("click", id)
	button.RemoveEventListener("click", id)
	button.DispatchEvent(NewEvent("click"))
	assert.Equal(t, []string{"outer", "onclick"}, got)
	assert.Equal(t, 0, button.ListenerCount("click"))
}

func TestNode_StopPropagation(t *testing.T) {
	outer := NewElement("div")
	inner := NewElement("span")
	outer.AppendChild(inner)

	called := false
	inner.AddEventListener("click", func(e *Event) { e.StopPropagation() }, ListenerOptions{})
	outer.AddEventListener("click", func(*Event) { called = true }, ListenerOptions{})

	inner.DispatchEvent(NewEvent("click"))
	assert.False(t, called)
}

func TestNode_ListenerOnce(t *testing.T) {
	n := NewElement("button")
	count := 0
	n.AddEventListener("click", func(*Event) { count++ }, ListenerOptions{Once: true})

	n.DispatchEvent(NewEvent("click"))
	n.DispatchEvent(NewEvent("click"))
	require.Equal(t, 1, count)
	assert.Equal(t, 0, n.ListenerCount("click"))
}
