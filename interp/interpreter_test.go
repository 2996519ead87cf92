package interp

import (
	"math"
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
	reporter := &diag.Reporter{}
	tree := ast.New()
	ok := ast.NewBuilder(fsys, tree, reporter, nil).Import("test.hsc")
	be.True(t, ok)
	return tree
}

func global(t *testing.T, tree *ast.AST, name string) *ast.Global {
	t.Helper()
	node, ok := tree.Get(name)
	be.True(t, ok)
	g, ok := node.(*ast.Global)
	be.True(t, ok)
	return g
}

// evalStatements evaluates each statement of the script called "test".
func evalStatements(t *testing.T, source string) []string {
	t.Helper()
	tree := compile(t, source)
	node, ok := tree.Get("test")
	be.True(t, ok)
	in := New()
	var results []string
	for _, v := range ast.Slice(node.(*ast.Script).Codes) {
		result := in.InterpretValue(v)
		if result == nil {
			results = append(results, "<nil>")
			continue
		}
		s, ok := GetString(result)
		if !ok {
			s = "<void>"
		}
		results = append(results, s)
	}
	return results
}

func TestInterpretGlobals(t *testing.T) {
	tree := compile(t, heredoc.Doc(`
		(constglobal string str "A constglobal string!")
		(constglobal long num 117)
		(constglobal real sum (+ 100 17))
		(constglobal real chained (+ sum 0))
		(global string otherstring "x")
		(global long otherlong 5)
		(constglobal real uses_mutable (+ otherlong 1))
	`))
	in := New()

	result := in.InterpretGlobal(global(t, tree, "str"))
	s, _ := GetString(result)
	be.Equal(t, s, "A constglobal string!")
	_, ok := GetBoolean(result)
	be.True(t, !ok)

	n, ok := GetLong(in.InterpretGlobal(global(t, tree, "num")))
	be.True(t, ok)
	be.Equal(t, n, int64(117))

	f, ok := GetFloat(in.InterpretGlobal(global(t, tree, "chained")))
	be.True(t, ok)
	be.Equal(t, f, float32(117))

	be.True(t, in.InterpretGlobal(global(t, tree, "otherstring")) == nil)
	be.True(t, in.InterpretGlobal(global(t, tree, "otherlong")) == nil)
	be.True(t, in.InterpretGlobal(global(t, tree, "uses_mutable")) == nil)
}

func TestInterpretCache(t *testing.T) {
	tree := compile(t, "(constglobal real x (* 2 3))")
	g := global(t, tree, "x")
	in := New()
	be.True(t, !in.IsInCache(g))
	in.InterpretGlobal(g)
	be.True(t, in.IsInCache(g))
	be.True(t, in.IsInCache(g.Value))
	be.True(t, !New().IsInCache(g))
}

func TestInterpretSelfReferenceIsNotConstant(t *testing.T) {
	tree := compile(t, "(constglobal real a (+ b 1)) (constglobal real b (+ a 1))")
	in := New()
	be.True(t, in.InterpretGlobal(global(t, tree, "a")) == nil)
}

func TestInterpretBuiltins(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected string
	}{
		{"add", "(+ 2 3)", "5"},
		{"add many", "(+ 1 2 3 4 2)", "12"},
		{"add string", `(+ 2 "halo")`, "<nil>"},
		{"add nothing", "(+)", "<nil>"},
		{"multiply string", `(* 13 3 3 "halo")`, "<nil>"},
		{"multiply", "(* 2 2.5)", "5"},
		{"subtract", "(- 2 3)", "-1"},
		{"subtract arity", "(- 2 3 4)", "<nil>"},
		{"subtract one", "(- 2)", "<nil>"},
		{"divide", "(/ 10 2)", "5"},
		{"divide by zero", "(/ 1 0)", "+Inf"},
		{"min", "(min 3 0 7)", "0"},
		{"max", "(max 3 0 7)", "7"},
		{"max string", "(max 3 x)", "<nil>"},
		{"equal", "(= 5 (+ 2 3))", "true"},
		{"equal atoms by text", "(= 5 5.0)", "false"},
		{"equal strings", `(= abc "abc")`, "true"},
		{"equal arity", "(= 1 1 1)", "<nil>"},
		{"not equal", "(!= 5 6)", "true"},
		{"greater", "(> 3 2)", "true"},
		{"less", "(< 3 2)", "false"},
		{"greater equal", "(>= 2 2)", "true"},
		{"less equal", "(<= 3 2)", "false"},
		{"compare string", "(< a 2)", "<nil>"},
		{"if true", "(if true 1 2)", "1"},
		{"if false", "(if (> 1 2) 1 2)", "2"},
		{"if false no else", "(if false 1)", "<nil>"},
		{"if unknown", "(if x 1 2)", "<nil>"},
		{"if short", "(if true)", "<nil>"},
		{"and", "(and true 1 (< 1 2))", "true"},
		{"and false", "(and true false)", "false"},
		{"and short circuit", "(and false unknown)", "false"},
		{"and unknown first", "(and unknown false)", "<nil>"},
		{"or", "(or false 0 (> 1 2))", "false"},
		{"or short circuit", "(or true unknown)", "true"},
		{"or unknown first", "(or unknown true)", "<nil>"},
		{"begin", "(begin (print 1) 2)", "<nil>"},
		{"begin constant", "(begin 1 (+ 1 1))", "2"},
		{"empty begin", "(begin)", "<nil>"},
		{"unknown function", "(sleep 30)", "<nil>"},
		{"cond", "(cond (true 1))", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := evalStatements(t, "(script dormant test "+tt.expr+")")
			be.Equal(t, results, []string{tt.expected})
		})
	}
}

func TestInterpretScripts(t *testing.T) {
	results := evalStatements(t, heredoc.Doc(`
		(script static real seven 7)
		(script stub real later 0)
		(script dormant test_script_time! (sleep 1))
		(script dormant test
			(seven)
			(later)
			(+ (seven) 1)
			test_script_time!)
	`))
	be.Equal(t, results, []string{"<nil>", "<nil>", "<nil>", "test_script_time!"})
}

func TestInterpretInfinity(t *testing.T) {
	tree := compile(t, "(constglobal real inf (/ 1 0))")
	f, ok := GetFloat(New().InterpretGlobal(global(t, tree, "inf")))
	be.True(t, ok)
	be.True(t, math.IsInf(float64(f), 1))
}
