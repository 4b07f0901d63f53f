package render

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// sentinel stands in for every interpolation while the static segments are scanned.
const sentinel = "\x00"

var (
	// nextRe matches the next point of interest: an interpolation or the start of a tag.
	nextRe = regexp.MustCompile(`\x00|<[^><\s]+`)

	// attrRe matches one attribute of a tag: name, optionally followed by a value that is an
	// interpolation, a quoted string or an unquoted string.
	attrRe = regexp.MustCompile(`([^\s/>=]+)(?:\s*=\s*(\x00|"[^"]*"|'[^']*'|[^\s>"'=<` + "`" + `]+))?`)
)

// describeFunc creates the update of an interpolation. t is html.CommentNode for node
// interpolations, html.TextNode for raw-text element bodies and html.ElementNode for attributes.
// sample is the first value ever bound to the interpolation.
type describeFunc func(n *node, t html.NodeType, path []int, name string, sample any, xml bool) (*update, error)

// parser turns the static segments of a template into a template tree and the list of updates,
// one per interpolation, in the order of the interpolations.
type parser struct {
	describe describeFunc

	content string
	pos     int
	hole    int
	values  []any
	xml     bool
	xmlRoot *node
	node    *node
	updates []*update
	keyed   bool
}

// parseTemplate parses segments with the default update factory.
func parseTemplate(segments []string, values []any, xml bool) (*node, []*update, bool, error) {
	p := &parser{describe: describe}
	return p.parse(segments, values, xml)
}

// parse returns the template tree, the updates and whether the template has a key attribute.
func (p *parser) parse(segments []string, values []any, xml bool) (*node, []*update, bool, error) {
	content := strings.Join(segments, sentinel)
	*p = parser{
		describe: p.describe,
		content:  strings.TrimLeftFunc(content, unicode.IsSpace),
		values:   values,
		xml:      xml,
		node:     newRoot(),
	}
	root := p.node

	for p.pos < len(p.content) {
		loc := nextRe.FindStringIndex(p.content[p.pos:])
		if loc == nil {
			break
		}
		index, end := p.pos+loc[0], p.pos+loc[1]
		chunk := p.content[index:end]
		if p.pos < index {
			p.node.append(newText(p.content[p.pos:index]))
		}

		var err error
		switch {
		case chunk == sentinel:
			err = p.parseHole(index)
		case strings.HasPrefix(chunk, "<!"):
			err = p.parseDeclaration(index)
		case strings.HasPrefix(chunk, "</"):
			err = p.parseEndTag(index)
		default:
			err = p.parseStartTag(index, chunk[1:])
		}
		if err != nil {
			return nil, nil, false, err
		}
	}

	if p.pos < len(p.content) {
		p.node.append(newText(p.content[p.pos:]))
	}

	if want := len(segments) - 1; p.hole != want {
		return nil, nil, false, p.errorf(len(p.content), root, ErrUnexpectedInterpolation,
			"%d of %d interpolations are bound", p.hole, want)
	}

	return root, p.updates, p.keyed, nil
}

func (p *parser) parseHole(index int) error {
	if !p.xml && p.node.Type == html.ElementNode && p.node.Data == "table" {
		p.node = p.node.append(newElement("tbody", false))
		p.node.ignorable = true
	}
	c := p.node.append(newComment(holeComment))
	if err := p.add(c, html.CommentNode, pathOf(c), ""); err != nil {
		return p.wrap(index, c, err)
	}
	p.pos = index + 1
	return nil
}

// parseDeclaration handles comments and declarations such as <!doctype>. Only <!--!...!-->
// comments are kept in the template.
func (p *parser) parseDeclaration(index int) error {
	if strings.HasPrefix(p.content[index:], "<!--") {
		i := strings.Index(p.content[index+4:], "-->")
		if i < 0 {
			return p.errorf(index, p.node, ErrUnclosedComment, "")
		}
		data := p.content[index+4 : index+4+i]
		if strings.Contains(data, sentinel) {
			return p.errorf(index, p.node, ErrUnexpectedInterpolation, "inside a comment")
		}
		if strings.HasPrefix(data, "!") {
			p.node.append(newComment(strings.TrimSuffix(data[1:], "!")))
		}
		p.pos = index + 4 + i + 3
		return nil
	}
	i := strings.IndexByte(p.content[index:], '>')
	if i < 0 {
		return p.errorf(index, p.node, ErrUnclosedTag, "")
	}
	if strings.Contains(p.content[index:index+i], sentinel) {
		return p.errorf(index, p.node, ErrUnexpectedInterpolation, "inside a declaration")
	}
	p.pos = index + i + 1
	return nil
}

func (p *parser) parseEndTag(index int) error {
	i := strings.IndexByte(p.content[index:], '>')
	if i < 0 {
		return p.errorf(index, p.node, ErrUnclosedTag, "")
	}
	parent := parentOf(p.node)
	if parent == nil {
		return p.errorf(index, p.node, ErrUnexpectedClose, "%s", p.content[index:index+i+1])
	}
	if p.xmlRoot != nil && p.node == p.xmlRoot {
		p.xml = false
		p.xmlRoot = nil
	}
	p.node = parent
	p.pos = index + i + 1
	return nil
}

func (p *parser) parseStartTag(index int, name string) error {
	if strings.Contains(name, sentinel) {
		return p.errorf(index, p.node, ErrUnexpectedInterpolation, "inside a tag name")
	}
	name = strings.TrimRight(name, "/")
	i := index + 1 + len(name)
	j := tagEnd(p.content, i)
	if j < 0 {
		return p.errorf(index, p.node, ErrUnclosedTag, "<%s", name)
	}

	tag := name
	if !p.xml {
		tag = strings.ToLower(tag)
		if p.node.Data == "table" && (tag == "tr" || tag == "td") {
			p.node = p.node.append(newElement("tbody", false))
			p.node.ignorable = true
		}
		if p.node.Data == "tbody" && tag == "td" {
			p.node = p.node.append(newElement("tr", false))
			p.node.ignorable = true
		}
	}

	el := p.node.append(newElement(tag, p.xml && tag != "svg"))
	p.node = el

	var path []int
	for _, m := range attrRe.FindAllStringSubmatch(p.content[i:j], -1) {
		key, val := m[1], m[2]
		dynamic := val == sentinel || val == `"`+sentinel+`"` || val == "'"+sentinel+"'"
		if val == "" && strings.Count(key, sentinel) == 1 && strings.HasSuffix(key, sentinel) {
			// <div ...${props}>
			key, dynamic = strings.TrimSuffix(key, sentinel), true
			if key == "" {
				return p.errorf(index, el, ErrUnexpectedInterpolation, "attribute without a name")
			}
		}
		if !dynamic {
			if strings.Contains(key, sentinel) || strings.Contains(val, sentinel) {
				return p.errorf(index, el, ErrUnexpectedInterpolation, "attribute %q mixes static text with an interpolation",
					strings.ReplaceAll(key, sentinel, "${}"))
			}
			if val == "" {
				el.setProp(key, "", true)
			} else {
				el.setProp(key, unquote(val), false)
			}
			continue
		}
		if path == nil {
			path = pathOf(el)
		}
		if err := p.add(el, html.ElementNode, path, key); err != nil {
			return p.wrap(index, el, err)
		}
	}

	p.pos = j + 1
	closed := p.content[j-1] == '/'

	switch {
	case p.xml:
		if closed {
			p.node = el.Parent
		}
	case closed || voidElements[tag]:
		if closed {
			p.node = parentOf(el)
		} else {
			p.node = el.Parent
		}
	case tag == "svg":
		p.xml = true
		p.xmlRoot = el
	case textElements[tag]:
		return p.parseRawText(index, el, name)
	}
	return nil
}

// parseRawText captures the body of a raw-text element. A body made of a single interpolation
// becomes a text update.
func (p *parser) parseRawText(index int, el *node, name string) error {
	end := strings.Index(p.content[p.pos:], "</"+name+">")
	if end < 0 {
		end = strings.Index(strings.ToLower(p.content[p.pos:]), "</"+el.Data+">")
	}
	if end < 0 {
		return p.errorf(index, el, ErrUnclosedRawText, "<%s>", el.Data)
	}
	body := p.content[p.pos : p.pos+end]
	switch {
	case strings.TrimSpace(body) == sentinel:
		if err := p.add(el, html.TextNode, pathOf(el), ""); err != nil {
			return p.wrap(index, el, err)
		}
	case strings.Contains(body, sentinel):
		return p.errorf(index, el, ErrUnexpectedInterpolation, "<%s> mixes text with an interpolation", el.Data)
	case body != "":
		el.append(newText(body))
	}
	p.node = el.Parent
	p.pos += end + len(name) + 3
	return nil
}

func (p *parser) add(n *node, t html.NodeType, path []int, name string) error {
	var sample any
	if p.hole < len(p.values) {
		sample = p.values[p.hole]
	}
	u, err := p.describe(n, t, path, name, sample, p.xml)
	if err != nil {
		return err
	}
	if u.kind == KindKey {
		p.keyed = true
	}
	p.updates = append(p.updates, u)
	p.hole++
	return nil
}

func (p *parser) errorf(offset int, n *node, err error, format string, args ...any) error {
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
	}
	return p.wrap(offset, n, err)
}

func (p *parser) wrap(offset int, n *node, err error) error {
	return newParseError(p.content, offset, n, err)
}

// pathOf returns the inside-out list of child indices from the root to n. A -1 step enters the
// content of a <template> element.
// unquote strips one pair of matching quotes around an attribute value.
func unquote(val string) string {
	if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		return val[1 : len(val)-1]
	}
	return val
}

func pathOf(n *node) []int {
	path := []int{}
	for n.Parent != nil {
		path = append(path, n.index())
		if pp := n.Parent; pp.Type == html.ElementNode && !pp.XML && pp.Data == "template" {
			path = append(path, -1)
		}
		n = n.Parent
	}
	return path
}

// parentOf returns the element a closing tag returns to from n, skipping synthesized
// elements on both sides. It returns nil at the root.
func parentOf(n *node) *node {
	for n.ignorable {
		n = n.Parent
	}
	n = n.Parent
	for n != nil && n.ignorable {
		n = n.Parent
	}
	return n
}

// tagEnd returns the index of the '>' closing the tag that starts before i, ignoring '>' inside
// quoted attribute values, or -1.
func tagEnd(s string, i int) int {
	var quote byte
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i
		}
	}
	return -1
}
