package syntax

import "fmt"

type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota
	UnterminatedElement
	UnexpectedAtom
	UnexpectedExpression
	InvalidExpression
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case UnterminatedElement:
		return "unterminated element"
	case UnexpectedAtom:
		return "unexpected atom"
	case UnexpectedExpression:
		return "unexpected expression"
	case InvalidExpression:
		return "invalid expression"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Error is a fatal problem found while reading or building source.
type Error struct {
	Kind    ErrorKind
	Span    Span
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Span, e.Kind, e.Message)
}

// Errorf builds an *Error of the given kind covering span.
func Errorf(kind ErrorKind, span Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
