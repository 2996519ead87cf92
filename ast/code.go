package ast

import "github.com/strager/hscx/syntax"

// Code is a call: a function and its arguments.
type Code struct {
	source    *syntax.Expression
	Function  Function
	Arguments *Values

	// FromCond marks a cond clause. Clauses are calls to "if" that take
	// every element of the clause as an argument and print without a head.
	FromCond bool
}

func NewCode(function Function, args ...*Value) *Code {
	return &Code{Function: function, Arguments: NewValues(args...)}
}

// NewCall makes a synthesized call to a built-in or unresolved name.
func NewCall(name string, args ...*Value) *Code {
	return NewCode(NewAtom(name), args...)
}

func (c *Code) FunctionName() string {
	switch f := c.Function.(type) {
	case *Atom:
		return f.String()
	case *Script:
		return f.DeclName()
	}
	return ""
}

// Calls reports whether c calls the built-in or script called name.
func (c *Code) Calls(name string) bool {
	return c.FunctionName() == name
}

// Script returns the resolved script c calls, if any.
func (c *Code) Script() (*Script, bool) {
	s, ok := c.Function.(*Script)
	return s, ok
}

func (c *Code) NodeCount() int {
	count := 1
	for e := c.Arguments.Front(); e != nil; e = e.Next() {
		count += e.Value.NodeCount()
	}
	return count
}

func (c *Code) SourceSpan() (syntax.Span, bool) {
	if c.source == nil {
		return syntax.Span{}, false
	}
	return c.source.Span, true
}

func (c *Code) Clone() *Code {
	clone := &Code{source: c.source, FromCond: c.FromCond, Arguments: NewValues()}
	switch f := c.Function.(type) {
	case *Atom:
		clone.Function = f.Clone()
	case *Script:
		clone.Function = f
	}
	for e := c.Arguments.Front(); e != nil; e = e.Next() {
		clone.Arguments.PushBack(e.Value.Clone())
	}
	return clone
}

func (c *Code) Rewrite(m Mapping) {
	for e := c.Arguments.Front(); e != nil; e = e.Next() {
		e.Value.Rewrite(m)
	}
}

// Become replaces the call with (name args...), keeping c's identity.
func (c *Code) Become(name string, args []*Value) {
	c.Function = NewAtom(name)
	c.FromCond = false
	c.Arguments = NewValues(args...)
}

func (*Code) isContent() {}
