package emit

import (
	"testing"
	"testing/fstest"

	"github.com/MakeNowJust/heredoc"
	"github.com/nalgeon/be"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
)

func compile(t *testing.T, source string) *ast.AST {
	t.Helper()
	fsys := fstest.MapFS{"test.hsc": &fstest.MapFile{Data: []byte(source)}}
	tree := ast.New()
	be.True(t, ast.NewBuilder(fsys, tree, &diag.Reporter{}, nil).Import("test.hsc"))
	return tree
}

func TestEmitRoundTripKeepsQuotes(t *testing.T) {
	tree := compile(t, `(global string g "hello world")`)
	be.Equal(t, String(tree, Options{Pretty: true}), "(global string g \"hello world\"\n)\n")
	be.Equal(t, String(tree, Options{}), "(global string g \"hello world\")\n")
}

func TestEmitPretty(t *testing.T) {
	tree := compile(t, heredoc.Doc(`
		(global short counter 0)
		(script static short twice (* counter 2))
		(script startup main
			(if (> counter 1) (begin (sleep 1) (print "done")))
			(set counter (twice)))
	`))
	expected := "(global short counter 0\n)\n" +
		"(script static short twice\n" +
		"\t(* counter 2)\n" +
		")\n" +
		"(script startup main\n" +
		"\t(if\n" +
		"\t\t(> counter 1)\n" +
		"\t\t(begin\n" +
		"\t\t\t(sleep 1)\n" +
		"\t\t\t(print done)))\n" +
		"\t(set counter\n" +
		"\t\t(twice))\n" +
		")\n"
	be.Equal(t, String(tree, Options{Pretty: true}), expected)
}

func TestEmitCompact(t *testing.T) {
	tree := compile(t, heredoc.Doc(`
		(script startup main
			(if (> counter 1) (begin (sleep 1) (print "two words")) x))
		(global short counter 0)
	`))
	be.Equal(t, String(tree, Options{}),
		"(script startup main (if (> counter 1) (begin (sleep 1) (print \"two words\")) x))\n"+
			"(global short counter 0)\n")
}

func TestEmitCondClausesWithoutHead(t *testing.T) {
	tree := compile(t, `(script dormant pick (cond ((= a 1) (print one)) (true (print other))))`)
	be.Equal(t, String(tree, Options{}),
		"(script dormant pick (cond ((= a 1) (print one)) (true (print other))))\n")
}

func TestEmitSkipsMacrosAndDemotesConstants(t *testing.T) {
	tree := compile(t, heredoc.Doc(`
		(script macro short add ((short a) (short b)) (+ a b))
		(constglobal real speed 1.5)
	`))
	be.Equal(t, String(tree, Options{}), "(global real speed 1.5)\n")
}

func TestEmitEmpty(t *testing.T) {
	be.Equal(t, String(ast.New(), Options{Pretty: true}), "")
}

func TestQuoting(t *testing.T) {
	tests := []struct {
		text   string
		quoted bool
	}{
		{"plain", false},
		{"has space", true},
		{"", true},
		{"semi;colon", true},
		{"(paren", true},
		{"under_score", false},
	}
	for _, tt := range tests {
		be.Equal(t, needsQuotes(tt.text), tt.quoted)
	}
}
