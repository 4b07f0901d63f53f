package render

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	eof        rune = -1
	leftDelim       = "${"
	rightDelim      = "}"
)

// Template is the static markup of a call site, split at its interpolations. A Template is
// created once and reused for every render: the engine caches its parsed form by pointer.
type Template struct {
	segments []string
	exprs    []*vm.Program // per interpolation, nil for positional values
}

// New creates a template from the static segments around the interpolations, like the strings
// of a tagged template literal:
//
//	render.New(`<p class="`, `">`, `</p>`) // <p class="${}">${}</p>
//
// The markup is validated eagerly.
func New(segments ...string) (*Template, error) {
	if len(segments) == 0 {
		segments = []string{""}
	}
	for _, s := range segments {
		if strings.Contains(s, sentinel) {
			return nil, fmt.Errorf("%w: NUL character in template", ErrUnexpectedInterpolation)
		}
	}
	t := &Template{segments: append([]string(nil), segments...)}
	if _, _, _, err := parseTemplate(t.segments, nil, false); err != nil {
		return nil, err
	}
	return t, nil
}

// Must is a helper that wraps a call to a function returning (*Template, error) and panics if
// the error is non-nil. It is intended for use in package variable initializations.
func Must(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}

// Compile creates a template from markup with ${expr} placeholders. An empty placeholder ${}
// takes a positional value; any other placeholder is an expr-lang expression evaluated against
// an environment by Values.
func Compile(src string) (*Template, error) {
	l := &lexer{input: src}
	for state := lexText; state != nil; {
		state = state(l)
	}

	segments := []string{""}
	var exprs []*vm.Program
	for _, it := range l.items {
		switch it.typ {
		case itemError:
			return nil, fmt.Errorf("compile template: %s", it.val)
		case itemText:
			segments[len(segments)-1] += it.val
		case itemExpr:
			var prog *vm.Program
			if code := strings.TrimSpace(it.val); code != "" {
				p, err := expr.Compile(code, expr.AllowUndefinedVariables())
				if err != nil {
					return nil, fmt.Errorf("compile ${%s}: %w", code, err)
				}
				prog = p
			}
			exprs = append(exprs, prog)
			segments = append(segments, "")
		}
	}

	t, err := New(segments...)
	if err != nil {
		return nil, err
	}
	t.exprs = exprs
	return t, nil
}

// Segments returns a copy of the static segments.
func (t *Template) Segments() []string {
	return append([]string(nil), t.segments...)
}

// Holes returns the number of interpolations.
func (t *Template) Holes() int {
	return len(t.segments) - 1
}

// String returns the markup with ${} in place of the interpolations.
func (t *Template) String() string {
	return strings.Join(t.segments, "${}")
}

// Values evaluates the expressions of a compiled template against env. Empty placeholders take
// the args in order.
func (t *Template) Values(env any, args ...any) ([]any, error) {
	if env == nil {
		env = map[string]any{}
	}
	values := make([]any, t.Holes())
	next := 0
	for i := range values {
		if i < len(t.exprs) && t.exprs[i] != nil {
			v, err := expr.Run(t.exprs[i], env)
			if err != nil {
				return nil, fmt.Errorf("evaluate interpolation %d: %w", i, err)
			}
			values[i] = v
			continue
		}
		if next >= len(args) {
			return nil, errors.New("not enough positional values")
		}
		values[i] = args[next]
		next++
	}
	if next < len(args) {
		return nil, errors.New("too many positional values")
	}
	return values, nil
}

// The lexer is based on https://go.dev/talks/2011/lex.slide

// lexer holds the state of the scanner.
type lexer struct {
	input       string // the string being scanned
	start       int    // start position of this item.
	pos         int    // current position in the input.
	width       int    // width of last rune read from input.
	bracesDepth int    // nesting depth of braces {}
	items       []item
}

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemText
	itemExpr
)

type item struct {
	typ itemType
	val string
}

// stateFn represents the state of the scanner
// as a function that returns the next state.
type stateFn func(*lexer) stateFn

// emit passes an item back to the client.
func (l *lexer) emit(t itemType) stateFn {
	l.items = append(l.items, item{t, l.input[l.start:l.pos]})
	l.start = l.pos
	return nil
}

// errorf returns an error token and terminates the scan.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.items = append(l.items, item{itemError, fmt.Sprintf(format, args...)})
	return nil
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// scanString consumes a quoted string inside an expression. It reports whether the string is
// terminated.
func (l *lexer) scanString(quote rune) bool {
	for ch := l.next(); ch != quote; ch = l.next() {
		if ch == '\n' || ch == eof {
			return false
		}
		if ch == '\\' {
			l.next()
		}
	}
	return true
}

func (l *lexer) atRightDelim() bool {
	return l.bracesDepth == 0 && strings.HasPrefix(l.input[l.pos:], rightDelim)
}

func lexText(l *lexer) stateFn {
	if x := strings.Index(l.input[l.pos:], leftDelim); x >= 0 {
		if x > 0 {
			l.pos += x
			l.emit(itemText)
		}
		return lexLeftDelim
	}
	l.pos = len(l.input)
	if l.pos > l.start {
		l.emit(itemText)
	}
	return l.emit(itemEOF)
}

func lexLeftDelim(l *lexer) stateFn {
	l.pos += len(leftDelim)
	l.ignore()
	return lexExpr
}

func lexRightDelim(l *lexer) stateFn {
	l.pos += len(rightDelim)
	l.ignore()
	return lexText
}

func lexExpr(l *lexer) stateFn {
	if l.atRightDelim() {
		l.emit(itemExpr)
		return lexRightDelim
	}
	switch r := l.next(); {
	case r == eof:
		return l.errorf("unclosed placeholder at offset %d", l.start-len(leftDelim))
	case r == '\'' || r == '"':
		if !l.scanString(r) {
			return l.errorf("unterminated string in placeholder at offset %d", l.start-len(leftDelim))
		}
	case r == '{':
		l.bracesDepth++
	case r == '}':
		l.bracesDepth--
	}
	return lexExpr
}
