package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-hyper/dom"
)

func TestPersistentFragment(t *testing.T) {
	frag, err := createFragment(`<b>1</b>two<i>3</i>`, false)
	require.NoError(t, err)
	pf := NewPersistentFragment(frag)
	assert.Same(t, frag, pf.Parent())
	assert.Len(t, pf.Nodes(), 5)

	container := dom.NewElement("div")
	container.AppendChild(dom.NewText("|"))
	container.AppendChild(pf.mount())
	assert.Same(t, container, pf.Parent())
	assert.Equal(t, "|<!--<>--><b>1</b>two<i>3</i><!--</>-->", container.InnerHTML())
	assert.Equal(t, "<b>1</b>two<i>3</i>", pf.String())

	pf.Remove()
	assert.Equal(t, "|", container.InnerHTML())
	assert.Nil(t, pf.Parent())
	assert.Len(t, pf.Nodes(), 5)
	assert.Equal(t, "<b>1</b>two<i>3</i>", pf.String())

	// remounting restores all the nodes
	other := dom.NewElement("p")
	other.AppendChild(pf.mount())
	assert.Equal(t, "<!--<>--><b>1</b>two<i>3</i><!--</>-->", other.InnerHTML())

	pf.ReplaceWith(dom.NewText("gone"))
	assert.Equal(t, "gone", other.InnerHTML())
}

func TestPersistentFragment_Move(t *testing.T) {
	frag := dom.NewFragment()
	frag.AppendChild(dom.NewElement("a"))
	frag.AppendChild(dom.NewElement("b"))
	pf := NewPersistentFragment(frag)

	from, to := dom.NewElement("div"), dom.NewElement("div")
	from.AppendChild(pf.mount())
	from.AppendChild(dom.NewElement("hr"))

	to.AppendChild(pf.mount())
	assert.Equal(t, "<hr/>", from.InnerHTML())
	assert.Equal(t, "<!--<>--><a></a><b></b><!--</>-->", to.InnerHTML())
}

func TestUnitOf(t *testing.T) {
	el := dom.NewElement("p")
	u := unitOf(el)
	assert.Equal(t, nodeUnit{el}, u)
	assert.Same(t, el, u.detach())

	frag := dom.NewFragment()
	frag.AppendChild(dom.NewText("x"))
	_, ok := unitOf(frag).(*PersistentFragment)
	assert.True(t, ok)
}
