package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dpotapov/go-hyper/dom"
)

// Parsing contexts. They are never modified: html.ParseFragment only reads the context.
var (
	templateContext = &html.Node{Type: html.ElementNode, DataAtom: atom.Template, Data: "template"}
	svgContext      = &html.Node{Type: html.ElementNode, DataAtom: atom.Svg, Data: "svg", Namespace: "svg"}
)

// createFragment parses markup into a detached fragment. In xml mode the markup is parsed as the
// content of an <svg> element.
func createFragment(markup string, xml bool) (*dom.Node, error) {
	context := templateContext
	if xml {
		context = svgContext
	}
	return dom.ParseFragment(strings.NewReader(markup), context)
}
