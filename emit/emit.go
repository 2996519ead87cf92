// Package emit prints an AST back as HaloScript source.
package emit

import (
	"bufio"
	"io"
	"strings"

	"github.com/strager/hscx/ast"
)

type Options struct {
	// Pretty puts every nested call on its own line, indented one tab per
	// level. Otherwise each declaration is printed on one line.
	Pretty bool
}

type emitter struct {
	w      *bufio.Writer
	pretty bool

	depth     int
	needSpace bool
	first     bool
}

// Emit writes every declaration of tree in table order. Macros are not
// printed and constglobals are printed as globals.
func Emit(w io.Writer, tree *ast.AST, opts Options) error {
	e := &emitter{w: bufio.NewWriter(w), pretty: opts.Pretty, depth: -1, first: true}
	for _, node := range tree.Entries() {
		switch n := node.(type) {
		case *ast.Script:
			if n.Type == ast.Macro {
				continue
			}
			e.script(n)
		case *ast.Global:
			e.global(n)
		}
	}
	if !e.first {
		e.w.WriteByte('\n')
	}
	return e.w.Flush()
}

// String is Emit into a string.
func String(tree *ast.AST, opts Options) string {
	var b strings.Builder
	Emit(&b, tree, opts)
	return b.String()
}

func (e *emitter) script(s *ast.Script) {
	e.enter()
	e.atom("script")
	e.atom(s.Type.String())
	if s.Type.HasReturnType() {
		e.atom(string(s.ReturnType))
	}
	e.atom(s.DeclName())
	for el := s.Codes.Front(); el != nil; el = el.Next() {
		e.value(el.Value)
	}
	e.exit()
}

func (e *emitter) global(g *ast.Global) {
	e.enter()
	e.atom("global")
	e.atom(string(g.Type))
	e.atom(g.DeclName())
	e.value(g.Value)
	e.exit()
}

func (e *emitter) value(v *ast.Value) {
	switch c := v.Content.(type) {
	case *ast.Atom:
		e.atom(c.String())
	case *ast.Code:
		e.code(c)
	case *ast.Global:
		e.atom(c.DeclName())
	case *ast.Script:
		e.atom(c.DeclName())
	}
}

func (e *emitter) code(c *ast.Code) {
	e.enter()
	// A cond clause is written as its elements only.
	if !c.FromCond {
		e.atom(c.FunctionName())
	}
	for el := c.Arguments.Front(); el != nil; el = el.Next() {
		e.value(el.Value)
	}
	e.exit()
}

// needsQuotes reports whether text would not read back as one atom.
func needsQuotes(text string) bool {
	return text == "" || strings.ContainsAny(text, " \t\n();")
}

func (e *emitter) atom(text string) {
	if e.needSpace {
		e.w.WriteByte(' ')
	}
	if needsQuotes(text) {
		e.w.WriteByte('"')
		e.w.WriteString(text)
		e.w.WriteByte('"')
	} else {
		e.w.WriteString(text)
	}
	e.needSpace = true
}

func (e *emitter) enter() {
	e.depth++
	switch {
	case e.first:
	case e.pretty:
		e.newline()
	case e.depth == 0:
		e.w.WriteByte('\n')
	case e.needSpace:
		e.w.WriteByte(' ')
	}
	e.w.WriteByte('(')
	e.needSpace = false
	e.first = false
}

func (e *emitter) exit() {
	e.depth--
	if e.depth == -1 && e.pretty {
		e.newline()
	}
	e.w.WriteByte(')')
	e.needSpace = true
}

func (e *emitter) newline() {
	e.w.WriteByte('\n')
	for i := 0; i < e.depth; i++ {
		e.w.WriteByte('\t')
	}
}
