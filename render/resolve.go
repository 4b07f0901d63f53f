package render

import "github.com/dpotapov/go-hyper/dom"

// resolve walks path from root, outermost step first. A -1 step enters the content of a
// <template> element. It returns nil when the path does not exist in the tree.
func resolve(root *dom.Node, path []int) *dom.Node {
	n := root
	for i := len(path) - 1; i >= 0 && n != nil; i-- {
		if path[i] < 0 {
			n = n.Content
			continue
		}
		n = n.ChildAt(path[i])
	}
	return n
}
