package ast

import (
	orderedmap "github.com/pb33f/ordered-map/v2"
)

// AST is the name table of a compilation unit. Globals and scripts share
// one namespace. Entries keep the order in which their names were first
// declared, which is the order they are emitted in.
type AST struct {
	names *orderedmap.OrderedMap[string, Named]
}

func New() *AST {
	return &AST{names: orderedmap.New[string, Named]()}
}

// Add sets the entry for the node's name. Replacing an entry keeps its
// position.
func (a *AST) Add(node Named) {
	a.names.Set(node.DeclName(), node)
}

func (a *AST) Get(name string) (Named, bool) {
	return a.names.Get(name)
}

// Remove deletes name and reports whether it was present.
func (a *AST) Remove(name string) bool {
	_, ok := a.names.Delete(name)
	return ok
}

func (a *AST) IsUserDefinedName(atom *Atom) bool {
	_, ok := a.names.Get(atom.String())
	return ok
}

func (a *AST) Len() int {
	return a.names.Len()
}

// Entries returns the declarations in table order. The slice is a
// snapshot, so the table may be changed while ranging over it.
func (a *AST) Entries() []Named {
	out := make([]Named, 0, a.names.Len())
	for pair := a.names.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (a *AST) Names() []string {
	out := make([]string, 0, a.names.Len())
	for pair := a.names.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// NodeCount sums the node counts of every declaration.
func (a *AST) NodeCount() int {
	count := 0
	for pair := a.names.Oldest(); pair != nil; pair = pair.Next() {
		count += pair.Value.NodeCount()
	}
	return count
}
