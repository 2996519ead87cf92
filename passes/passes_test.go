package passes

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/MakeNowJust/heredoc"
	"github.com/nalgeon/be"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/emit"
)

func compile(t *testing.T, source string) *ast.AST {
	t.Helper()
	fsys := fstest.MapFS{"main.hsc": &fstest.MapFile{Data: []byte(source)}}
	tree := ast.New()
	reporter := &diag.Reporter{}
	be.True(t, ast.NewBuilder(fsys, tree, reporter, nil).Import("main.hsc"))
	be.Equal(t, len(reporter.Messages()), 0)
	return tree
}

// run builds source, applies set and returns the compact output.
func run(t *testing.T, source string, set Set) (string, *diag.Reporter) {
	t.Helper()
	return runWith(t, source, Options{Passes: set})
}

func runWith(t *testing.T, source string, opts Options) (string, *diag.Reporter) {
	t.Helper()
	tree := compile(t, source)
	reporter := &diag.Reporter{}
	Run(tree, reporter, opts)
	return emit.String(tree, emit.Options{}), reporter
}

func contents(r *diag.Reporter, level diag.Level) []string {
	var out []string
	for _, m := range r.Messages() {
		if m.Level == level {
			out = append(out, m.Content)
		}
	}
	return out
}

func TestParseSet(t *testing.T) {
	tests := []struct {
		names []string
		want  Set
	}{
		{[]string{"macro"}, Macro},
		{[]string{"macro", "loop"}, Macro | Loop},
		{[]string{" constant_eval "}, ConstantEval},
		{[]string{"minimal"}, Minimal},
		{[]string{"full"}, Full},
		{[]string{"all"}, Full},
		{[]string{"none"}, None},
		{nil, None},
	}
	for _, tt := range tests {
		got, err := ParseSet(tt.names)
		be.Err(t, err, nil)
		be.Equal(t, got, tt.want)
	}

	_, err := ParseSet([]string{"inline"})
	be.Err(t, err, `unknown pass "inline"`)
	be.True(t, !strings.Contains(err.Error(), "did you mean"))

	_, err = ParseSet([]string{"consteval"})
	be.Err(t, err, `unknown pass "consteval", did you mean "constant_eval"?`)
}

func TestSetString(t *testing.T) {
	be.Equal(t, None.String(), "none")
	be.Equal(t, Minimal.String(), "macro,loop,constant_global")
	be.Equal(t, (Loop | ConstantEval).String(), "loop,constant_eval")
	be.True(t, Full.Has(Minimal))
	be.True(t, !Minimal.Has(ConstantEval))
}

func TestRunNoPassesLeavesTreeAlone(t *testing.T) {
	source := "(script startup main (print (+ 1 2)))"
	out, reporter := run(t, source, None)
	be.Equal(t, out, source+"\n")
	be.Equal(t, len(reporter.Messages()), 0)
}

func TestRunFullPipeline(t *testing.T) {
	out, reporter := run(t, heredoc.Doc(`
		(constglobal short count 3)
		(script macro void announce ((short i)) (print (* i 10)))
		(script startup main
			(loop i 0 count (announce i)))
	`), Full)
	be.Equal(t, len(reporter.Messages()), 0)
	be.Equal(t, out, "(script startup main (print 0) (print 10) (print 20))\n")
}

func TestRunIsIdempotent(t *testing.T) {
	tree := compile(t, heredoc.Doc(`
		(constglobal real speed (* 2 0.5))
		(global short counter 0)
		(script macro void bump ((short by)) (set counter (+ counter by)))
		(script startup main
			(loop i 0 2 (bump i))
			(if (> speed 0.5) (sleep speed) (sleep 0)))
	`))
	reporter := &diag.Reporter{}
	Run(tree, reporter, Options{Passes: Full})
	first := emit.String(tree, emit.Options{})
	Run(tree, reporter, Options{Passes: Full})
	be.Equal(t, emit.String(tree, emit.Options{}), first)
	be.Equal(t, first, "(global short counter 0)\n"+
		"(script startup main (set counter (+ counter 0)) (set counter (+ counter 1)) (sleep 1))\n")
	be.Equal(t, len(reporter.Messages()), 0)
}

func TestRunStopsAfterErrors(t *testing.T) {
	out, reporter := run(t, heredoc.Doc(`
		(script macro short add ((short a) (short b)) (+ a b))
		(script startup main
			(print (add 1))
			(loop i 0 2 (print i)))
	`), Full)
	be.Equal(t, contents(reporter, diag.Error),
		[]string{`Invalid expression: wrong number of arguments! "add" takes 2, got 1`})
	be.Equal(t, out, "(script startup main (print (add 1)) (loop i 0 2 (print i)))\n")
}

func TestRunLogsNodeCounts(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	_, reporter := runWith(t, "(script startup main (print (+ 1 2)))", Options{Passes: Full, Logger: logger})
	be.Equal(t, len(reporter.Messages()), 0)
	be.Equal(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), []string{
		`level=DEBUG msg="pass finished" pass=macro nodes_before=5 nodes_after=5`,
		`level=DEBUG msg="pass finished" pass=loop nodes_before=5 nodes_after=5`,
		`level=DEBUG msg="pass finished" pass=constant_global nodes_before=5 nodes_after=5`,
		`level=DEBUG msg="pass finished" pass=constant_eval nodes_before=5 nodes_after=3`,
	})
}
