package ast

import (
	"fmt"

	"github.com/strager/hscx/syntax"
)

type ScriptType int

const (
	Startup ScriptType = iota
	Continuous
	Dormant
	Static
	Stub
	CommandScript
	Macro
	Invalid
)

var scriptTypeNames = [...]string{
	Startup:       "startup",
	Continuous:    "continuous",
	Dormant:       "dormant",
	Static:        "static",
	Stub:          "stub",
	CommandScript: "command_script",
	Macro:         "macro",
}

// ParseScriptType returns Invalid for unknown words.
func ParseScriptType(s string) ScriptType {
	for i, name := range scriptTypeNames {
		if name == s {
			return ScriptType(i)
		}
	}
	return Invalid
}

func (t ScriptType) String() string {
	if t >= 0 && int(t) < len(scriptTypeNames) {
		return scriptTypeNames[t]
	}
	return fmt.Sprintf("invalid(%d)", int(t))
}

// HasReturnType reports whether scripts of this type declare a return type
// before their name.
func (t ScriptType) HasReturnType() bool {
	return t == Static || t == Stub || t == Macro
}

// Param is one (type name) pair of a macro's parameter list.
type Param struct {
	Type ValueType
	Name *Atom
}

type Script struct {
	source *syntax.Expression
	Name   *Atom
	Type   ScriptType

	// ReturnType is empty unless Type.HasReturnType().
	ReturnType ValueType

	// Params is only set for macros.
	Params []Param

	Codes *Values
}

func NewScript(name string, typ ScriptType, returnType ValueType, codes ...*Value) *Script {
	return &Script{Name: NewAtom(name), Type: typ, ReturnType: returnType, Codes: NewValues(codes...)}
}

func (s *Script) DeclName() string { return s.Name.String() }

func (s *Script) NodeCount() int {
	count := 1
	for e := s.Codes.Front(); e != nil; e = e.Next() {
		count += e.Value.NodeCount()
	}
	return count
}

func (s *Script) SourceSpan() (syntax.Span, bool) {
	if s.source == nil {
		return syntax.Span{}, false
	}
	return s.source.Span, true
}

// IsParam reports whether name is one of the macro's parameters.
func (s *Script) IsParam(name string) bool {
	for _, p := range s.Params {
		if p.Name.Is(name) {
			return true
		}
	}
	return false
}

func (s *Script) Rewrite(m Mapping) {
	for e := s.Codes.Front(); e != nil; e = e.Next() {
		e.Value.Rewrite(m)
	}
}

func (*Script) isNamed() {}
func (*Script) isContent() {}
func (*Script) isFunction() {}
