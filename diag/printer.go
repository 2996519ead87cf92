package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

const tabWidth = 4

type Printer struct {
	w io.Writer

	levelStyles [3]lipgloss.Style
	locStyle    lipgloss.Style
	gutterStyle lipgloss.Style
	caretStyle  lipgloss.Style
}

// NewPrinter returns a Printer writing to w. With color false all styling
// is dropped, which is also what tests rely on. With color true, styling is
// written even if w is not a terminal.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	p := &Printer{w: w}
	p.levelStyles[Error] = r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	p.levelStyles[Warning] = r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	p.levelStyles[Informational] = r.NewStyle().Foreground(lipgloss.Color("12"))
	p.locStyle = r.NewStyle().Bold(true)
	p.gutterStyle = r.NewStyle().Foreground(lipgloss.Color("8"))
	p.caretStyle = r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	return p
}

func (p *Printer) Print(m Message) {
	level := m.Level.String()
	if int(m.Level) < len(p.levelStyles) {
		level = p.levelStyles[m.Level].Render(level)
	}

	switch {
	case m.Span != nil:
		fmt.Fprintf(p.w, "%s: %s: %s\n", p.locStyle.Render(m.Span.String()), level, m.Content)
		p.printSnippet(m)
	case m.Node != nil:
		fmt.Fprintf(p.w, "%s: %s: %s\n", p.locStyle.Render("<generated>"), level, m.Content)
	default:
		fmt.Fprintf(p.w, "%s: %s\n", level, m.Content)
	}
}

func (p *Printer) PrintAll(messages []Message) {
	for _, m := range messages {
		p.Print(m)
	}
}

// PrintSummary prints the per-level totals of r.
func (p *Printer) PrintSummary(r *Reporter) {
	fmt.Fprintf(p.w, "%d error(s), %d warning(s), %d message(s)\n",
		r.Count(Error), r.Count(Warning), r.Count(Informational))
}

// printSnippet shows the first line of the span with carets under it.
func (p *Printer) printSnippet(m Message) {
	span := m.Span
	if span.File == nil {
		return
	}
	lines := strings.Split(span.File.Text, "\n")
	if span.Start.Line >= len(lines) {
		return
	}
	line := strings.TrimRight(lines[span.Start.Line], "\r")

	// Column counts runes; convert to a byte index into the line.
	start := runeOffset(line, span.Start.Column)
	end := len(line)
	if span.End.Line == span.Start.Line && !span.Partial() {
		end = runeOffset(line, span.End.Column)
	}
	if end < start {
		end = start
	}

	pad := displayWidth(line[:start])
	width := displayWidth(line[start:end])
	if width < 1 {
		width = 1
	}

	gutter := p.gutterStyle.Render(fmt.Sprintf("%4d |", span.Start.Line+1))
	fmt.Fprintf(p.w, "%s %s\n", gutter, expandTabs(line))
	fmt.Fprintf(p.w, "%s %s%s\n", p.gutterStyle.Render("     |"),
		strings.Repeat(" ", pad), p.caretStyle.Render(strings.Repeat("^", width)))
}

func runeOffset(s string, column int) int {
	i := 0
	for offset := range s {
		if i == column {
			return offset
		}
		i++
	}
	return len(s)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
