package passes

import (
	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
)

// macroExpansion inlines calls to macro scripts and drops the macros.
type macroExpansion struct {
	Base
	env    *Env
	failed map[*ast.Code]bool
}

func RunMacroExpansion(tree *ast.AST, env *Env) {
	Walk(tree, &macroExpansion{env: env, failed: map[*ast.Code]bool{}}, true)
}

func (p *macroExpansion) OnVisitScript(s *ast.Script) bool {
	return s.Type == ast.Macro
}

// expand returns the macro body with parameters replaced by the call's
// arguments, or false if code is not a valid macro call.
func (p *macroExpansion) expand(code *ast.Code) ([]*ast.Value, bool) {
	macro, ok := code.Script()
	if !ok || macro.Type != ast.Macro || p.failed[code] {
		return nil, false
	}
	args := ast.Slice(code.Arguments)
	if len(args) != len(macro.Params) {
		p.failed[code] = true
		p.env.Reporter.ReportNode(diag.Error, code, "Invalid expression: wrong number of arguments! %q takes %d, got %d",
			macro.DeclName(), len(macro.Params), len(args))
		return nil, false
	}
	if !p.env.budget.spend(1, code, p.env.Reporter) {
		p.failed[code] = true
		return nil, false
	}

	mapping := ast.Mapping{}
	for i, param := range macro.Params {
		mapping.Add(ast.NewValue(param.Name), args[i])
	}
	var expanded []*ast.Value
	for e := macro.Codes.Front(); e != nil; e = e.Next() {
		v := e.Value.Clone()
		v.Rewrite(mapping)
		expanded = append(expanded, v)
	}
	return expanded, true
}

func (p *macroExpansion) OnVisitCodeArgument(arg *ast.Cursor, list *ast.Values, parent ast.Node) bool {
	code, ok := arg.Value.Code()
	if !ok || !isStatementList(parent) {
		return false
	}
	expanded, ok := p.expand(code)
	if !ok {
		return false
	}
	splice(list, arg, expanded)
	return true
}

// OnVisitValue expands until v is no longer a macro call, since the walker
// does not offer replaced content to this hook again.
func (p *macroExpansion) OnVisitValue(v *ast.Value) {
	for {
		code, ok := v.Code()
		if !ok {
			return
		}
		expanded, ok := p.expand(code)
		if !ok {
			return
		}
		if len(expanded) != 1 {
			code.Become("begin", expanded)
			return
		}
		v.Content = expanded[0].Content
	}
}
