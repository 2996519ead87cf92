// Package passes rewrites a built AST before it is emitted.
package passes

import (
	"github.com/strager/hscx/ast"
)

// Hooks are called by Walk as it moves through the tree. Embed Base to get
// no-op defaults.
type Hooks interface {
	// OnVisitGlobal runs before the global's value is visited. Returning
	// true removes the global from the name table after the walk.
	OnVisitGlobal(g *ast.Global) (remove bool)

	// OnVisitScript runs before the script's body is visited. Returning
	// true removes the script after the walk and skips its body.
	OnVisitScript(s *ast.Script) (remove bool)

	// OnVisitCodeArgument runs for each element of a script body or call
	// argument list before the element's value is visited. The hook may
	// insert after arg in list; inserted elements are visited next.
	// Returning true removes arg without visiting it.
	OnVisitCodeArgument(arg *ast.Cursor, list *ast.Values, parent ast.Node) (remove bool)

	// OnVisitValue may replace v.Content. The new content is then visited.
	OnVisitValue(v *ast.Value)

	// OnVisitCode runs before the function and arguments are visited.
	OnVisitCode(c *ast.Code)
}

type Base struct{}

func (Base) OnVisitGlobal(*ast.Global) bool { return false }
func (Base) OnVisitScript(*ast.Script) bool { return false }
func (Base) OnVisitCodeArgument(*ast.Cursor, *ast.Values, ast.Node) bool { return false }
func (Base) OnVisitValue(*ast.Value) {}
func (Base) OnVisitCode(*ast.Code) {}

type walker struct {
	hooks Hooks

	// visitReferences makes the walk follow global and script references
	// into the declarations they point at.
	visitReferences bool

	visited map[ast.Node]struct{}
	remove  []string
}

// Walk visits every declaration of tree once. Removals requested by hooks
// are applied after the whole tree has been walked.
func Walk(tree *ast.AST, hooks Hooks, visitReferences bool) {
	w := &walker{
		hooks:           hooks,
		visitReferences: visitReferences,
		visited:         map[ast.Node]struct{}{},
	}
	for _, node := range tree.Entries() {
		switch n := node.(type) {
		case *ast.Global:
			w.visitGlobal(n)
		case *ast.Script:
			w.visitScript(n)
		}
	}
	for _, name := range w.remove {
		tree.Remove(name)
	}
}

// enter records node and reports whether it was already visited.
func (w *walker) enter(node ast.Node) bool {
	if _, ok := w.visited[node]; ok {
		return true
	}
	w.visited[node] = struct{}{}
	return false
}

func (w *walker) visitGlobal(g *ast.Global) {
	if w.enter(g) {
		return
	}
	if w.hooks.OnVisitGlobal(g) {
		w.remove = append(w.remove, g.DeclName())
		return
	}
	w.visitValue(g.Value)
}

func (w *walker) visitScript(s *ast.Script) {
	if w.enter(s) {
		return
	}
	if w.hooks.OnVisitScript(s) {
		w.remove = append(w.remove, s.DeclName())
		return
	}
	w.visitList(s.Codes, s)
}

func (w *walker) visitValue(v *ast.Value) {
	if w.enter(v) {
		return
	}
	w.hooks.OnVisitValue(v)
	switch c := v.Content.(type) {
	case *ast.Code:
		w.visitCode(c)
	case *ast.Global:
		if w.visitReferences {
			w.visitGlobal(c)
		}
	case *ast.Script:
		if w.visitReferences {
			w.visitScript(c)
		}
	}
}

func (w *walker) visitCode(c *ast.Code) {
	if w.enter(c) {
		return
	}
	w.hooks.OnVisitCode(c)
	if s, ok := c.Script(); ok {
		w.visitScript(s)
	}
	w.visitList(c.Arguments, c)
}

func (w *walker) visitList(list *ast.Values, parent ast.Node) {
	for e := list.Front(); e != nil; {
		if w.hooks.OnVisitCodeArgument(e, list, parent) {
			next := e.Next()
			list.Remove(e)
			e = next
			continue
		}
		w.visitValue(e.Value)
		e = e.Next()
	}
}

// splice inserts values after at and returns the last inserted element.
func splice(list *ast.Values, at *ast.Cursor, values []*ast.Value) *ast.Cursor {
	for _, v := range values {
		at = list.InsertAfter(v, at)
	}
	return at
}

// onlyStatement reports whether arg is all that is left of a script body.
// Removing it would leave a script the builder cannot read back.
func onlyStatement(arg *ast.Cursor, parent ast.Node) bool {
	_, isScript := parent.(*ast.Script)
	return isScript && arg.Prev() == nil && arg.Next() == nil
}

// isStatementList reports whether values in parent's list can be spliced
// in place: a script body or the arguments of a begin.
func isStatementList(parent ast.Node) bool {
	switch p := parent.(type) {
	case *ast.Script:
		return true
	case *ast.Code:
		_, isScript := p.Script()
		return !isScript && !p.FromCond && p.Calls("begin")
	}
	return false
}
