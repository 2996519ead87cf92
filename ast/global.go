package ast

import "github.com/strager/hscx/syntax"

// ValueType is a declared type such as short, real or object_list. The
// compiler does not check types, so any word is accepted.
type ValueType string

type Global struct {
	source  *syntax.Expression
	Name    *Atom
	Type    ValueType
	IsConst bool
	Value   *Value
}

func NewGlobal(name string, typ ValueType, value *Value) *Global {
	return &Global{Name: NewAtom(name), Type: typ, Value: value}
}

func (g *Global) DeclName() string { return g.Name.String() }

func (g *Global) NodeCount() int { return 1 + g.Value.NodeCount() }

func (g *Global) SourceSpan() (syntax.Span, bool) {
	if g.source == nil {
		return syntax.Span{}, false
	}
	return g.source.Span, true
}

func (g *Global) Rewrite(m Mapping) { g.Value.Rewrite(m) }

func (*Global) isNamed() {}
func (*Global) isContent() {}
