package diag

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/nalgeon/be"

	"github.com/strager/hscx/syntax"
)

type generated struct{}

func (generated) SourceSpan() (syntax.Span, bool) { return syntax.Span{}, false }

type located struct{ span syntax.Span }

func (l located) SourceSpan() (syntax.Span, bool) { return l.span, true }

// source is a two-line file with a multi-byte rune before the span.
var source = &syntax.SourceFile{
	Name: "main.hsc",
	Text: "(script startup main\n\t(print \"é\" (bad)))",
}

func badCall() syntax.Span {
	return syntax.Span{
		File:  source,
		Start: syntax.Location{Offset: 34, Line: 1, Column: 12},
		End:   syntax.Location{Offset: 39, Line: 1, Column: 17},
	}
}

func TestReporterCounts(t *testing.T) {
	var r Reporter
	be.True(t, !r.HasFatalErrors())

	r.Report(Warning, "careful with %s", "that")
	r.Report(Informational, "fyi")
	be.True(t, !r.HasFatalErrors())

	r.ReportAt(Error, badCall(), "bad call")
	r.ReportNode(Error, generated{}, "no position")
	be.True(t, r.HasFatalErrors())
	be.Equal(t, r.Count(Error), 2)
	be.Equal(t, r.Count(Warning), 1)
	be.Equal(t, r.Count(Informational), 1)

	messages := r.Messages()
	be.Equal(t, len(messages), 4)
	be.Equal(t, messages[0].Content, "careful with that")
	be.Equal(t, messages[2].Span.Text(), "(bad)")
	be.True(t, messages[3].Span == nil)
	be.True(t, messages[3].Node != nil)
}

func TestReportNodeKeepsSpan(t *testing.T) {
	var r Reporter
	r.ReportNode(Warning, located{badCall()}, "here")
	m := r.Messages()[0]
	be.True(t, m.Span != nil)
	be.Equal(t, m.Span.String(), "main.hsc:2:13")
}

func TestReportError(t *testing.T) {
	var r Reporter
	r.ReportError(syntax.Errorf(syntax.InvalidExpression, badCall(), "wrong number of arguments"))
	r.ReportError(errors.New("file not found"))

	messages := r.Messages()
	be.Equal(t, messages[0].Content, "Invalid expression: wrong number of arguments")
	be.Equal(t, messages[0].Span.Text(), "(bad)")
	be.Equal(t, messages[1].Content, "file not found")
	be.True(t, messages[1].Span == nil)
	be.Equal(t, r.Count(Error), 2)
}

func TestMerge(t *testing.T) {
	var a, b Reporter
	a.Report(Warning, "first")
	b.Report(Error, "second")
	b.Report(Warning, "third")
	a.Merge(&b)
	be.Equal(t, a.Count(Error), 1)
	be.Equal(t, a.Count(Warning), 2)
	be.Equal(t, a.Messages()[2].Content, "third")
}

func TestLevelString(t *testing.T) {
	be.Equal(t, Error.String(), "error")
	be.Equal(t, Warning.String(), "warning")
	be.Equal(t, Informational.String(), "info")
	be.Equal(t, Level(7).String(), "level(7)")
}

func TestPrinter(t *testing.T) {
	var r Reporter
	r.ReportAt(Error, badCall(), "bad call")
	r.ReportNode(Warning, generated{}, "made up")
	r.Report(Informational, "done")

	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.PrintAll(r.Messages())
	p.PrintSummary(&r)

	be.Equal(t, buf.String(), ""+
		"main.hsc:2:13: error: bad call\n"+
		"   2 |     (print \"é\" (bad)))\n"+
		"     |                ^^^^^\n"+
		"<generated>: warning: made up\n"+
		"info: done\n"+
		"1 error(s), 1 warning(s), 1 message(s)\n")
}

func TestPrinterPointSpan(t *testing.T) {
	file := &syntax.SourceFile{Name: "x.hsc", Text: "(global short x"}
	var r Reporter
	r.ReportAt(Error, syntax.PointSpan(file, syntax.Location{}), "expression is not terminated")

	var buf bytes.Buffer
	NewPrinter(&buf, false).PrintAll(r.Messages())
	be.Equal(t, buf.String(), ""+
		"x.hsc:1:1: error: expression is not terminated\n"+
		"   1 | (global short x\n"+
		"     | ^\n")
}

func TestPrinterColor(t *testing.T) {
	var r Reporter
	r.ReportAt(Error, badCall(), "bad call")
	r.Report(Warning, "careful")

	var plain, colored bytes.Buffer
	NewPrinter(&plain, false).PrintAll(r.Messages())
	NewPrinter(&colored, true).PrintAll(r.Messages())

	be.True(t, strings.Contains(colored.String(), "\x1b["))
	be.Equal(t, ansi.Strip(colored.String()), plain.String())
}
