package passes

import (
	"github.com/strager/hscx/ast"
	"github.com/strager/hscx/interp"
)

// constantEval folds calls that evaluate at compile time into literals,
// and simplifies (begin X) and ifs with a known condition.
type constantEval struct {
	Base
	env *Env

	// statements are script body elements other than the last. They must
	// stay calls, so they are never replaced by a bare atom.
	statements map[*ast.Value]bool
}

func RunConstantEval(tree *ast.AST, env *Env) {
	Walk(tree, &constantEval{env: env, statements: map[*ast.Value]bool{}}, true)
}

func (p *constantEval) fold(code *ast.Code) (string, bool) {
	v := p.env.Interpreter.InterpretCode(code)
	if v == nil {
		return "", false
	}
	return interp.GetLiteral(v)
}

// knownCondition reports the value of an if's condition, if it is known.
func (p *constantEval) knownCondition(code *ast.Code) (cond bool, args []*ast.Value, ok bool) {
	if _, isScript := code.Script(); isScript || code.FromCond || !code.Calls("if") {
		return false, nil, false
	}
	args = ast.Slice(code.Arguments)
	if len(args) < 2 || len(args) > 3 {
		return false, nil, false
	}
	v := p.env.Interpreter.InterpretValue(args[0])
	if v == nil {
		return false, nil, false
	}
	cond, ok = interp.GetBoolean(v)
	return cond, args, ok
}

func (p *constantEval) OnVisitCodeArgument(arg *ast.Cursor, list *ast.Values, parent ast.Node) bool {
	code, ok := arg.Value.Code()
	if !ok || !isStatementList(parent) {
		return false
	}
	if _, isScript := parent.(*ast.Script); isScript && arg.Next() != nil {
		// A constant statement does nothing.
		if _, constant := p.fold(code); constant {
			return true
		}
		p.statements[arg.Value] = true
	}
	// (if false X) as a statement does nothing either.
	if cond, args, ok := p.knownCondition(code); ok && !cond && len(args) == 2 {
		if onlyStatement(arg, parent) {
			code.Become("begin", nil)
			return false
		}
		return true
	}
	return false
}

func (p *constantEval) OnVisitValue(v *ast.Value) {
	code, ok := v.Code()
	if !ok {
		return
	}
	if text, ok := p.fold(code); ok {
		if !p.statements[v] {
			v.Content = ast.NewAtom(text)
		}
		return
	}

	for {
		replacement := p.simplify(code)
		if replacement == nil {
			return
		}
		if _, isCode := replacement.Content.(*ast.Code); !isCode && p.statements[v] {
			return
		}
		v.Content = replacement.Content
		if code, ok = v.Code(); !ok {
			return
		}
	}
}

func (p *constantEval) simplify(code *ast.Code) *ast.Value {
	if _, isScript := code.Script(); !isScript && !code.FromCond && code.Calls("begin") && code.Arguments.Len() == 1 {
		return code.Arguments.Front().Value
	}
	cond, args, ok := p.knownCondition(code)
	if !ok {
		return nil
	}
	if cond {
		return args[1]
	}
	if len(args) == 3 {
		return args[2]
	}
	return nil
}
