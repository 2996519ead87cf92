package ast

import "github.com/strager/hscx/syntax"

type Value struct {
	source  syntax.Value
	Content Content
}

func NewValue(content Content) *Value {
	return &Value{Content: content}
}

func NewAtomValue(text string) *Value {
	return &Value{Content: NewAtom(text)}
}

func (v *Value) NodeCount() int {
	if code, ok := v.Content.(*Code); ok {
		return code.NodeCount()
	}
	return 1
}

func (v *Value) SourceSpan() (syntax.Span, bool) {
	return spanOf(v.source)
}

// Clone deep-copies atoms and code. Global and script references are
// shared with the original.
func (v *Value) Clone() *Value {
	clone := &Value{source: v.source}
	switch c := v.Content.(type) {
	case *Atom:
		clone.Content = c.Clone()
	case *Code:
		clone.Content = c.Clone()
	case *Global, *Script:
		clone.Content = c
	}
	return clone
}

// Rewrite substitutes v, or values below it, that match a key of m with a
// fresh clone of the mapped value. Substituted values are not rewritten
// again.
func (v *Value) Rewrite(m Mapping) {
	if key, ok := KeyOf(v); ok {
		if replacement, ok := m[key]; ok {
			clone := replacement.Clone()
			v.Content = clone.Content
			v.source = clone.source
			return
		}
	}
	if code, ok := v.Content.(*Code); ok {
		code.Rewrite(m)
	}
}

// Code returns the value's content as a call, if it is one.
func (v *Value) Code() (*Code, bool) {
	code, ok := v.Content.(*Code)
	return code, ok
}

// Text returns the text of an atom, global or script content.
func (v *Value) Text() (string, bool) {
	switch c := v.Content.(type) {
	case *Atom:
		return c.String(), true
	case *Global:
		return c.DeclName(), true
	case *Script:
		return c.DeclName(), true
	}
	return "", false
}

type keyKind int

const (
	atomKey keyKind = iota + 1
	referenceKey
)

// Key identifies a Value for substitution. Atoms are keyed by text,
// globals and scripts by identity. Code is never a key.
type Key struct {
	kind keyKind
	text string
	ref  Named
}

func KeyOf(v *Value) (Key, bool) {
	switch c := v.Content.(type) {
	case *Atom:
		return Key{kind: atomKey, text: c.String()}, true
	case *Global:
		return Key{kind: referenceKey, ref: c}, true
	case *Script:
		return Key{kind: referenceKey, ref: c}, true
	}
	return Key{}, false
}

// Mapping is a substitution table for Rewrite.
type Mapping map[Key]*Value

// Add maps from to to. It reports false if from cannot be a key.
func (m Mapping) Add(from, to *Value) bool {
	key, ok := KeyOf(from)
	if ok {
		m[key] = to
	}
	return ok
}
