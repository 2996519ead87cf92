// Package syntax reads HaloScript source text into untyped S-expression trees.
package syntax

import "fmt"

// SourceFile is one script file. Every Span into the file borrows Text, so
// the file must outlive anything built from it.
type SourceFile struct {
	Text string
	Name string

	// ImportedBy is the (import ...) form that pulled this file in, or nil
	// for the main file of a compilation unit.
	ImportedBy *Expression
}

// Location is a position in a SourceFile. Line and Column are zero based;
// Column counts runes, Offset counts bytes.
type Location struct {
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
}

// Span is the half-open byte range [Start, End) of a token or form.
// An expression's span is partial until its closing bracket is read.
type Span struct {
	File  *SourceFile
	Start Location
	End   Location

	partial bool
}

func newSpan(file *SourceFile, start, end Location) Span {
	return Span{File: file, Start: start, End: end}
}

func newPartialSpan(file *SourceFile, start Location) Span {
	return Span{File: file, Start: start, End: start, partial: true}
}

// PointSpan is an empty span at loc, used for errors that have a position
// but no extent.
func PointSpan(file *SourceFile, loc Location) Span {
	return Span{File: file, Start: loc, End: loc}
}

// Partial reports whether the end of the span is still unknown.
func (s Span) Partial() bool {
	return s.partial
}

// setEnd finalizes a partial span. It may only be called once.
func (s *Span) setEnd(end Location) {
	if !s.partial {
		panic("syntax: span end already set")
	}
	s.End = end
	s.partial = false
}

// Text returns the source text covered by the span.
func (s Span) Text() string {
	if s.File == nil || s.partial {
		return ""
	}
	return s.File.Text[s.Start.Offset:s.End.Offset]
}

func (s Span) String() string {
	name := "<unknown>"
	if s.File != nil {
		name = s.File.Name
	}
	return fmt.Sprintf("%s:%s", name, s.Start)
}
