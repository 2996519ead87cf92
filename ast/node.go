// Package ast is the typed tree of a HaloScript compilation unit.
//
// Nodes do not store their parent. Code that needs the parent of a node is
// handed it by whatever is walking the tree.
package ast

import (
	list "github.com/bahlo/generic-list-go"

	"github.com/strager/hscx/syntax"
)

// Node is implemented by every tree node.
type Node interface {
	// NodeCount is the number of nodes in the tree rooted here.
	NodeCount() int
	// SourceSpan is the span the node was built from. Nodes created by
	// passes have none.
	SourceSpan() (syntax.Span, bool)
}

// Named is a declaration in the name table: a *Global or a *Script.
type Named interface {
	Node
	DeclName() string
	isNamed()
}

// Content is what a Value holds: *Atom, *Code, *Global or *Script.
// A *Global or *Script content is a shared reference into the name table,
// never owned by the Value.
type Content interface {
	isContent()
}

// Function is what a Code calls: an unresolved *Atom or a *Script.
type Function interface {
	isFunction()
}

// Values is an ordered sequence of values with stable element cursors, so
// a walker can splice around the element it is visiting.
type Values = list.List[*Value]

// Cursor points at one element of a Values list.
type Cursor = list.Element[*Value]

func NewValues(values ...*Value) *Values {
	l := list.New[*Value]()
	for _, v := range values {
		l.PushBack(v)
	}
	return l
}

// Slice copies the values out of l.
func Slice(l *Values) []*Value {
	out := make([]*Value, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value)
	}
	return out
}

func spanOf(v syntax.Value) (syntax.Span, bool) {
	if v == nil {
		return syntax.Span{}, false
	}
	return v.Source(), true
}
