package render

import "strings"

// Kind is the type tag of an update. Tags are combined as a bit mask.
type Kind uint16

const (
	KindArray     Kind = 1 << iota // list of renderable items
	KindAttribute                  // plain attribute, style
	KindComment                    // node interpolation anchored by a comment
	KindData                       // data-* bulk assignment
	KindDirect                     // direct property assignment (.name, on*, ref)
	KindEvent                      // event listener (@name)
	KindKey                        // list identity, not applied to the DOM
	KindProp                       // attribute spread (...)
	KindText                       // text content of raw-text elements
	KindToggle                     // boolean attribute (?name)
	KindUnsafe                     // raw HTML
)

const (
	kindCommentArray = KindComment | KindArray
	kindEventArray   = KindEvent | KindArray
)

var kindNames = []string{
	"array", "attribute", "comment", "data", "direct", "event", "key", "prop", "text", "toggle",
	"unsafe",
}

func (k Kind) String() string {
	var names []string
	for i, name := range kindNames {
		if k&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Marker is the meaning of a dynamic attribute, derived from its name.
type Marker int

const (
	MarkerAttribute Marker = iota // name=${v}
	MarkerEvent                   // @name=${fn}
	MarkerToggle                  // ?name=${bool}
	MarkerDirect                  // .name=${v}
	MarkerSpread                  // ...=${map}
	MarkerData                    // data=${map}
	MarkerKey                     // key=${v}
	MarkerRef                     // ref=${ref}
	MarkerHandler                 // onname=${fn}
	MarkerStyle                   // style=${string|map}
)

func (m Marker) String() string {
	switch m {
	case MarkerEvent:
		return "event"
	case MarkerToggle:
		return "toggle"
	case MarkerDirect:
		return "direct"
	case MarkerSpread:
		return "spread"
	case MarkerData:
		return "data"
	case MarkerKey:
		return "key"
	case MarkerRef:
		return "ref"
	case MarkerHandler:
		return "handler"
	case MarkerStyle:
		return "style"
	}
	return "attribute"
}

// classify returns the marker of an attribute name and the name the marker applies to.
// The data marker only applies outside of <object> elements, where data is a real attribute.
func classify(tag, name string) (Marker, string) {
	switch {
	case name == "...":
		return MarkerSpread, ""
	case strings.HasPrefix(name, "@"):
		return MarkerEvent, name[1:]
	case strings.HasPrefix(name, "?"):
		return MarkerToggle, name[1:]
	case strings.HasPrefix(name, "."):
		return MarkerDirect, name[1:]
	case name == "data" && !strings.EqualFold(tag, "object"):
		return MarkerData, name
	case name == "key":
		return MarkerKey, name
	case name == "ref":
		return MarkerRef, name
	case strings.HasPrefix(name, "on"):
		return MarkerHandler, strings.ToLower(name)
	case name == "style":
		return MarkerStyle, name
	}
	return MarkerAttribute, name
}
