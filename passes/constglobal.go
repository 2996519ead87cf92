package passes

import (
	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/interp"
)

// constantGlobal replaces references to evaluable constglobals with their
// value and removes the declarations. Other constglobals become globals.
type constantGlobal struct {
	Base
	env *Env
}

func RunConstantGlobal(tree *ast.AST, env *Env) {
	Walk(tree, &constantGlobal{env: env}, true)
}

func (p *constantGlobal) text(g *ast.Global) (string, bool) {
	v := p.env.Interpreter.InterpretGlobal(g)
	if v == nil {
		return "", false
	}
	return interp.GetLiteral(v)
}

func (p *constantGlobal) OnVisitGlobal(g *ast.Global) bool {
	if !g.IsConst {
		return false
	}
	if _, ok := p.text(g); ok {
		return true
	}
	p.env.Reporter.ReportNode(diag.Warning, g,
		"unable to evaluate constglobal %q at compile time, downgrading to global, was this intentional?", g.DeclName())
	g.IsConst = false
	return false
}

func (p *constantGlobal) OnVisitValue(v *ast.Value) {
	g, ok := v.Content.(*ast.Global)
	if !ok || !g.IsConst {
		return
	}
	if text, ok := p.text(g); ok {
		v.Content = ast.NewAtom(text)
	}
}
