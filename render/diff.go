package render

import "github.com/dpotapov/go-hyper/dom"

// diffOp tells an accessor which node of a unit the diff needs.
type diffOp int

const (
	opInsert diffOp = iota // the insertable node of the unit
	opFirst                // its first node, used as insertion reference
	opLast                 // its last node
	opRemove               // a single node standing for the unit, about to be removed
)

// accessor returns the node of u the diff operation works on.
type accessor func(u Unit, op diffOp) *dom.Node

// unitNode is the accessor for units.
func unitNode(u Unit, op diffOp) *dom.Node {
	switch op {
	case opInsert:
		return u.mount()
	case opFirst:
		return u.firstNode()
	case opLast:
		return u.lastNode()
	}
	return u.detach()
}

// diff reconciles the live units a, all placed right before the before node, into b and
// returns b. Units present in both lists are moved rather than recreated.
//
// The algorithm is udomdiff (https://github.com/WebReflection/udomdiff, ISC License,
// Copyright (c) 2020, Andrea Giammarchi).
func diff(a, b []Unit, get accessor, before *dom.Node) []Unit {
	parent := before.Parent
	if parent == nil {
		return b
	}
	a = append([]Unit(nil), a...)

	bLength := len(b)
	aEnd, bEnd := len(a), bLength
	aStart, bStart := 0, 0
	var index map[Unit]int

	for aStart < aEnd || bStart < bEnd {
		switch {
		case aEnd == aStart:
			// append head, tail or units in between
			ref := before
			if bEnd < bLength {
				if bStart > 0 {
					ref = get(b[bStart-1], opLast).NextSibling
				} else {
					ref = get(b[bEnd], opFirst)
				}
			}
			for bStart < bEnd {
				parent.InsertBefore(get(b[bStart], opInsert), ref)
				bStart++
			}
		case bEnd == bStart:
			// remove head or tail
			for aStart < aEnd {
				if _, ok := index[a[aStart]]; !ok {
					get(a[aStart], opRemove).Remove()
				}
				aStart++
			}
		case a[aStart] == b[bStart]:
			aStart++
			bStart++
		case a[aEnd-1] == b[bEnd-1]:
			aEnd--
			bEnd--
		case a[aStart] == b[bEnd-1] && b[bStart] == a[aEnd-1]:
			// reverse swap
			aEnd--
			ref := get(a[aEnd], opLast).NextSibling
			parent.InsertBefore(get(b[bStart], opInsert), get(a[aStart], opLast).NextSibling)
			bStart++
			aStart++
			bEnd--
			parent.InsertBefore(get(b[bEnd], opInsert), ref)
			a[aEnd] = b[bEnd]
		default:
			if index == nil {
				index = make(map[Unit]int, bEnd-bStart)
				for i := bStart; i < bEnd; i++ {
					index[b[i]] = i
				}
			}
			i, ok := index[a[aStart]]
			switch {
			case !ok:
				get(a[aStart], opRemove).Remove()
				aStart++
			case bStart < i && i < bEnd:
				// count how many units keep their relative order after a[aStart]
				sequence := 1
				for j := aStart + 1; j < aEnd && j < bEnd; j++ {
					if k, ok := index[a[j]]; !ok || k != i+sequence {
						break
					}
					sequence++
				}
				if sequence > i-bStart {
					ref := get(a[aStart], opFirst)
					for bStart < i {
						parent.InsertBefore(get(b[bStart], opInsert), ref)
						bStart++
					}
				} else {
					parent.ReplaceChild(get(b[bStart], opInsert), get(a[aStart], opRemove))
					bStart++
					aStart++
				}
			default:
				aStart++
			}
		}
	}
	return b
}
