package ast

import "github.com/strager/hscx/syntax"

// Atom is a word or literal. Two atoms are the same when their text is.
type Atom struct {
	source *syntax.Atom
	text   string
}

// NewAtom makes a synthesized atom.
func NewAtom(text string) *Atom {
	return &Atom{text: text}
}

func AtomFromSyntax(a *syntax.Atom) *Atom {
	return &Atom{source: a, text: a.Text()}
}

func (a *Atom) String() string { return a.text }

func (a *Atom) Is(text string) bool { return a.text == text }

func (a *Atom) Equal(other *Atom) bool {
	return other != nil && a.text == other.text
}

func (a *Atom) Clone() *Atom {
	clone := *a
	return &clone
}

// Quoted reports whether the atom was written in quotes in the source.
func (a *Atom) Quoted() bool {
	return a.source != nil && a.source.Quoted
}

func (a *Atom) NodeCount() int { return 1 }

func (a *Atom) SourceSpan() (syntax.Span, bool) {
	if a.source == nil {
		return syntax.Span{}, false
	}
	return a.source.Span, true
}

func (*Atom) isContent() {}
func (*Atom) isFunction() {}
