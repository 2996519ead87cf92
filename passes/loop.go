package passes

import (
	"strconv"

	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/interp"
)

// loopUnrolling expands (loop <counter> <start> <end> <body...>) into one
// copy of the body for each counter value in [start, end).
type loopUnrolling struct {
	Base
	env    *Env
	failed map[*ast.Code]bool
}

func RunLoopUnrolling(tree *ast.AST, env *Env) {
	Walk(tree, &loopUnrolling{env: env, failed: map[*ast.Code]bool{}}, true)
}

func isLoop(code *ast.Code) bool {
	_, isScript := code.Script()
	return !isScript && !code.FromCond && code.Calls("loop")
}

func (p *loopUnrolling) bound(v *ast.Value, name string) (int64, bool) {
	result := p.env.Interpreter.InterpretValue(v)
	if result == nil {
		p.env.Reporter.ReportNode(diag.Error, v, "unable to evaluate %s value for loop!", name)
		return 0, false
	}
	n, ok := interp.GetLong(result)
	if !ok {
		p.env.Reporter.ReportNode(diag.Error, v, "unable to evaluate loop %s value as a long!", name)
		return 0, false
	}
	return n, true
}

func (p *loopUnrolling) unroll(code *ast.Code) ([]*ast.Value, bool) {
	if !isLoop(code) || p.failed[code] {
		return nil, false
	}
	unrolled, ok := p.tryUnroll(code)
	if !ok {
		p.failed[code] = true
	}
	return unrolled, ok
}

func (p *loopUnrolling) tryUnroll(code *ast.Code) ([]*ast.Value, bool) {
	args := ast.Slice(code.Arguments)
	if len(args) < 3 {
		p.env.Reporter.ReportNode(diag.Error, code,
			"invalid loop expression, expecting (loop <counter> <start value> <end value> [expressions])")
		return nil, false
	}
	counter, body := args[0], args[3:]
	start, ok := p.bound(args[1], "start")
	if !ok {
		return nil, false
	}
	end, ok := p.bound(args[2], "end")
	if !ok {
		return nil, false
	}
	if end <= start {
		return nil, true
	}

	// end-start can exceed MaxInt64, so measure the range unsigned. Every
	// step below saturates at one past the limit.
	limit := uint64(p.env.budget.limit) + 1
	width := min(uint64(end)-uint64(start), limit)
	perStep := uint64(max(len(body), 1))
	total := limit
	if width <= limit/perStep {
		total = width * perStep
	}
	if !p.env.budget.spend(int(total), code, p.env.Reporter) {
		return nil, false
	}

	var unrolled []*ast.Value
	for i := start; i < end; i++ {
		mapping := ast.Mapping{}
		mapping.Add(counter, ast.NewAtomValue(strconv.FormatInt(i, 10)))
		for _, v := range body {
			clone := v.Clone()
			clone.Rewrite(mapping)
			unrolled = append(unrolled, clone)
		}
	}
	return unrolled, true
}

func (p *loopUnrolling) OnVisitCodeArgument(arg *ast.Cursor, list *ast.Values, parent ast.Node) bool {
	code, ok := arg.Value.Code()
	if !ok || !isStatementList(parent) {
		return false
	}
	unrolled, ok := p.unroll(code)
	if !ok {
		return false
	}
	if len(unrolled) == 0 && onlyStatement(arg, parent) {
		code.Become("begin", nil)
		return false
	}
	splice(list, arg, unrolled)
	return true
}

func (p *loopUnrolling) OnVisitValue(v *ast.Value) {
	code, ok := v.Code()
	if !ok {
		return
	}
	unrolled, ok := p.unroll(code)
	if !ok {
		return
	}
	code.Become("begin", unrolled)
}
