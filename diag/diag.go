// Package diag collects compiler diagnostics and prints them.
package diag

import (
	"errors"
	"fmt"

	"github.com/strager/hscx/syntax"
)

type Level int

const (
	Error Level = iota
	Warning
	Informational
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Informational:
		return "info"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Locatable is anything a message can point at, such as an AST node. Nodes
// synthesized by the compiler have no span.
type Locatable interface {
	SourceSpan() (syntax.Span, bool)
}

type Message struct {
	Level   Level
	Content string

	// Span is where the problem is, or nil if the message is not tied to
	// a position.
	Span *syntax.Span

	// Node is set when the message was reported against a tree node.
	Node Locatable
}

// Reporter accumulates the messages of one compilation unit.
type Reporter struct {
	messages []Message
	counts   [3]int
}

func (r *Reporter) add(m Message) {
	r.messages = append(r.messages, m)
	if int(m.Level) < len(r.counts) {
		r.counts[m.Level]++
	}
}

func (r *Reporter) Report(level Level, format string, args ...any) {
	r.add(Message{Level: level, Content: fmt.Sprintf(format, args...)})
}

func (r *Reporter) ReportAt(level Level, span syntax.Span, format string, args ...any) {
	r.add(Message{Level: level, Content: fmt.Sprintf(format, args...), Span: &span})
}

func (r *Reporter) ReportNode(level Level, node Locatable, format string, args ...any) {
	m := Message{Level: level, Content: fmt.Sprintf(format, args...), Node: node}
	if span, ok := node.SourceSpan(); ok {
		m.Span = &span
	}
	r.add(m)
}

// ReportError records err as an Error. A *syntax.Error keeps its span.
func (r *Reporter) ReportError(err error) {
	var synErr *syntax.Error
	if errors.As(err, &synErr) {
		r.ReportAt(Error, synErr.Span, "%s: %s", capitalize(synErr.Kind.String()), synErr.Message)
		return
	}
	r.Report(Error, "%s", err)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// HasFatalErrors reports whether any Error was recorded.
func (r *Reporter) HasFatalErrors() bool {
	return r.counts[Error] > 0
}

func (r *Reporter) Count(level Level) int {
	return r.counts[level]
}

func (r *Reporter) Messages() []Message {
	return r.messages
}

// Merge appends the messages of other, keeping their order.
func (r *Reporter) Merge(other *Reporter) {
	for _, m := range other.messages {
		r.add(m)
	}
}
