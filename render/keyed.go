package render

// Keyed maps the key values of a keyed template to the live Holes rendered with them, so a list
// item that changes position is moved instead of rebuilt.
//
// Entries are removed explicitly: when the Hole leaves the list it was rendered in, when it is
// replaced by another value, or when its wire owner is released.
type Keyed struct {
	entries map[any]*Hole
	onSize  func(delta int)
}

func newKeyed(onSize func(delta int)) *Keyed {
	return &Keyed{entries: make(map[any]*Hole), onSize: onSize}
}

// Len returns the number of registered keys.
func (k *Keyed) Len() int {
	return len(k.entries)
}

func (k *Keyed) get(key any) *Hole {
	if !isComparable(key) {
		return nil
	}
	return k.entries[key]
}

// set registers h under key. Keys that cannot be map keys are ignored.
func (k *Keyed) set(key any, h *Hole) {
	if !isComparable(key) {
		return
	}
	if _, ok := k.entries[key]; !ok && k.onSize != nil {
		k.onSize(1)
	}
	k.entries[key] = h
}

// release removes key if it still refers to h.
func (k *Keyed) release(key any, h *Hole) {
	if !isComparable(key) || k.entries[key] != h {
		return
	}
	delete(k.entries, key)
	if k.onSize != nil {
		k.onSize(-1)
	}
}
