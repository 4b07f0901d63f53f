package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/dpotapov/go-hyper/dom"
)

// listFixture is a parent holding named units right before an anchor comment.
type listFixture struct {
	parent *dom.Node
	anchor *dom.Node
	units  map[string]Unit
}

func newListFixture() *listFixture {
	f := &listFixture{
		parent: dom.NewElement("ul"),
		anchor: dom.NewComment(holeComment),
		units:  make(map[string]Unit),
	}
	f.parent.AppendChild(f.anchor)
	return f
}

// list returns the units named by the letters of s. Uppercase letters are single elements,
// lowercase letters are two-node fragments.
func (f *listFixture) list(s string) []Unit {
	var units []Unit
	for _, r := range s {
		name := string(r)
		u, ok := f.units[name]
		if !ok {
			if strings.ToUpper(name) == name {
				u = nodeUnit{dom.NewElement(name)}
			} else {
				frag := dom.NewFragment()
				frag.AppendChild(dom.NewText(name))
				frag.AppendChild(dom.NewText(name))
				u = NewPersistentFragment(frag)
			}
			f.units[name] = u
		}
		units = append(units, u)
	}
	return units
}

// order returns the rendered names, fragments collapsed into one letter.
func (f *listFixture) order() string {
	var sb strings.Builder
	for n := f.parent.FirstChild; n != f.anchor; n = n.NextSibling {
		switch {
		case n.Data == "<>" || n.Data == "</>":
		case n.Type == html.TextNode:
			if n.PrevSibling == nil || n.PrevSibling.Data != n.Data {
				sb.WriteString(n.Data)
			}
		default:
			sb.WriteString(strings.ToUpper(n.Data))
		}
	}
	return sb.String()
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"append", "ABC", "ABCDE"},
		{"prepend", "CDE", "ABCDE"},
		{"insert middle", "ABE", "ABCDE"},
		{"remove head", "ABCDE", "CDE"},
		{"remove tail", "ABCDE", "ABC"},
		{"remove middle", "ABCDE", "AE"},
		{"clear", "ABCDE", ""},
		{"swap", "ABCDE", "ADCBE"},
		{"reverse", "ABCDE", "EDCBA"},
		{"move last to first", "ABCDE", "EABCD"},
		{"move first to last", "ABCDE", "BCDEA"},
		{"scramble", "ABCDE", "CEADB"},
		{"replace all", "ABC", "XYZ"},
		{"mixed", "ABCDE", "FBXDA"},
		{"fragments", "aBcDe", "eDcBa"},
		{"fragments mixed", "aBc", "XcaB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newListFixture()
			a := diff(nil, f.list(tt.from), unitNode, f.anchor)
			require.Equal(t, tt.from, f.order())

			kept := make(map[string]*dom.Node)
			for name, u := range f.units {
				kept[name] = u.firstNode()
			}

			b := diff(a, f.list(tt.to), unitNode, f.anchor)
			assert.Equal(t, tt.to, f.order())
			assert.Len(t, b, len(tt.to))
			for _, r := range tt.to {
				if n, ok := kept[string(r)]; ok {
					assert.Same(t, n, f.units[string(r)].firstNode(), "%c was recreated", r)
					assert.Same(t, f.parent, n.Parent, "%c is not attached", r)
				}
			}
			for name, n := range kept {
				if !strings.Contains(tt.to, name) {
					assert.Nil(t, n.Parent, "%s was not removed", name)
				}
			}
		})
	}
}

// permutations returns every ordering of the letters of s.
func permutations(s string) []string {
	if len(s) <= 1 {
		return []string{s}
	}
	var out []string
	for i := range s {
		for _, rest := range permutations(s[:i] + s[i+1:]) {
			out = append(out, s[i:i+1]+rest)
		}
	}
	return out
}

func TestDiff_AllPermutations(t *testing.T) {
	for _, items := range []string{"ABCDE", "aBcDe"} {
		perms := permutations(items)
		require.Len(t, perms, 120)
		for _, to := range perms {
			f := newListFixture()
			a := diff(nil, f.list(items), unitNode, f.anchor)
			size := len(f.parent.ChildNodes())
			first := make(map[string]*dom.Node)
			for name, u := range f.units {
				first[name] = u.firstNode()
			}

			b := diff(a, f.list(to), unitNode, f.anchor)
			require.Equal(t, to, f.order(), "%s -> %s", items, to)
			require.Len(t, b, len(to))
			for name, n := range first {
				require.Same(t, n, f.units[name].firstNode(), "%s -> %s: %s was recreated", items, to, name)
			}
			assert.Len(t, f.parent.ChildNodes(), size, "%s -> %s", items, to)
		}
	}
}

func TestDiff_ReverseSwapMutations(t *testing.T) {
	f := newListFixture()
	a := diff(nil, f.list("ABC"), unitNode, f.anchor)

	var mutations []dom.Mutation
	cancel := f.parent.Observe(func(m dom.Mutation) { mutations = append(mutations, m) })
	defer cancel()

	diff(a, f.list("CBA"), unitNode, f.anchor)
	require.Equal(t, "CBA", f.order())
	assert.Len(t, mutations, 2)
	for _, m := range mutations {
		assert.Equal(t, dom.ChildList, m.Kind)
	}
}

func TestDiff_Unchanged(t *testing.T) {
	f := newListFixture()
	a := diff(nil, f.list("ABC"), unitNode, f.anchor)

	count := 0
	cancel := f.parent.Observe(func(dom.Mutation) { count++ })
	defer cancel()

	diff(a, f.list("ABC"), unitNode, f.anchor)
	assert.Zero(t, count)
}

func TestDiff_DetachedAnchor(t *testing.T) {
	f := newListFixture()
	b := f.list("AB")
	got := diff(nil, b, unitNode, dom.NewComment(holeComment))
	assert.Equal(t, b, got)
	assert.Equal(t, "", f.order())
}

func TestDiff_DoesNotMutateInput(t *testing.T) {
	f := newListFixture()
	a := diff(nil, f.list("ABCD"), unitNode, f.anchor)
	snapshot := append([]Unit(nil), a...)

	diff(a, f.list("DBCA"), unitNode, f.anchor)
	assert.Equal(t, snapshot, a)
}
