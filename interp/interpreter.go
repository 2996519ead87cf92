package interp

import (
	"math"

	"github.com/strager/hscx/ast"
)

// Interpreter evaluates tree nodes, remembering every result. The cache is
// keyed by node identity, so an Interpreter must not outlive a change to
// the tree; make a new one after each pass.
type Interpreter struct {
	cache map[ast.Node]Value
}

func New() *Interpreter {
	return &Interpreter{cache: map[ast.Node]Value{}}
}

func (in *Interpreter) memo(node ast.Node, eval func() Value) Value {
	if v, ok := in.cache[node]; ok {
		return v
	}
	// A node that refers back to itself is not constant.
	in.cache[node] = nil
	v := eval()
	in.cache[node] = v
	return v
}

// IsInCache reports whether node has already been evaluated.
func (in *Interpreter) IsInCache(node ast.Node) bool {
	_, ok := in.cache[node]
	return ok
}

// InterpretGlobal evaluates the value of a constglobal. Ordinary globals
// can change at runtime and are never constant.
func (in *Interpreter) InterpretGlobal(g *ast.Global) Value {
	if !g.IsConst {
		return nil
	}
	return in.memo(g, func() Value {
		return in.InterpretValue(g.Value)
	})
}

func (in *Interpreter) InterpretValue(v *ast.Value) Value {
	return in.memo(v, func() Value {
		switch c := v.Content.(type) {
		case *ast.Atom:
			return Atom(c.String())
		case *ast.Code:
			return in.InterpretCode(c)
		case *ast.Global:
			return in.InterpretGlobal(c)
		case *ast.Script:
			return Atom(c.DeclName())
		}
		return nil
	})
}

func (in *Interpreter) InterpretCode(c *ast.Code) Value {
	return in.memo(c, func() Value {
		// Calls to user scripts are left for the runtime.
		if _, ok := c.Script(); ok {
			return nil
		}
		// Clauses of a cond only mean something inside their cond.
		if c.FromCond {
			return nil
		}
		builtin, ok := builtins[c.FunctionName()]
		if !ok {
			return nil
		}
		return builtin(in, ast.Slice(c.Arguments))
	})
}

func (in *Interpreter) boolean(v *ast.Value) (bool, bool) {
	result := in.InterpretValue(v)
	if result == nil {
		return false, false
	}
	return GetBoolean(result)
}

func (in *Interpreter) real(v *ast.Value) (float32, bool) {
	result := in.InterpretValue(v)
	if result == nil {
		return 0, false
	}
	return GetFloat(result)
}

func (in *Interpreter) binaryReals(args []*ast.Value) (float32, float32, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	a, ok := in.real(args[0])
	if !ok {
		return 0, 0, false
	}
	b, ok := in.real(args[1])
	return a, b, ok
}

type builtin func(in *Interpreter, args []*ast.Value) Value

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"if":    evalIf,
		"cond":  func(*Interpreter, []*ast.Value) Value { return nil },
		"and":   evalLogic(false),
		"or":    evalLogic(true),
		"begin": evalBegin,
		"+":     evalFold(0, func(acc, x float32) float32 { return acc + x }),
		"*":     evalFold(1, func(acc, x float32) float32 { return acc * x }),
		"min":   evalExtreme(func(a, b float32) float32 { return float32(math.Min(float64(a), float64(b))) }),
		"max":   evalExtreme(func(a, b float32) float32 { return float32(math.Max(float64(a), float64(b))) }),
		"-":     evalArith(func(a, b float32) Value { return Float(a - b) }),
		"/":     evalArith(func(a, b float32) Value { return Float(a / b) }),
		">":     evalArith(func(a, b float32) Value { return Bool(a > b) }),
		"<":     evalArith(func(a, b float32) Value { return Bool(a < b) }),
		">=":    evalArith(func(a, b float32) Value { return Bool(a >= b) }),
		"<=":    evalArith(func(a, b float32) Value { return Bool(a <= b) }),
		"=":     evalEqual(false),
		"!=":    evalEqual(true),
	}
}

// evalIf: (if cond then [else]). A false condition with no else branch has
// no value.
func evalIf(in *Interpreter, args []*ast.Value) Value {
	if len(args) < 2 {
		return nil
	}
	cond, ok := in.boolean(args[0])
	if !ok {
		return nil
	}
	if cond {
		return in.InterpretValue(args[1])
	}
	if len(args) > 2 {
		return in.InterpretValue(args[2])
	}
	return nil
}

// evalLogic builds and (decisive false) and or (decisive true). Evaluation
// stops at the first decisive argument, even if later ones are unknown.
func evalLogic(decisive bool) builtin {
	return func(in *Interpreter, args []*ast.Value) Value {
		if len(args) == 0 {
			return nil
		}
		for _, arg := range args {
			b, ok := in.boolean(arg)
			if !ok {
				return nil
			}
			if b == decisive {
				return Bool(decisive)
			}
		}
		return Bool(!decisive)
	}
}

func evalBegin(in *Interpreter, args []*ast.Value) Value {
	var last Value
	for _, arg := range args {
		last = in.InterpretValue(arg)
		if last == nil {
			return nil
		}
	}
	return last
}

func evalFold(initial float32, op func(acc, x float32) float32) builtin {
	return func(in *Interpreter, args []*ast.Value) Value {
		if len(args) == 0 {
			return nil
		}
		acc := initial
		for _, arg := range args {
			x, ok := in.real(arg)
			if !ok {
				return nil
			}
			acc = op(acc, x)
		}
		return Float(acc)
	}
}

func evalExtreme(pick func(a, b float32) float32) builtin {
	return func(in *Interpreter, args []*ast.Value) Value {
		if len(args) == 0 {
			return nil
		}
		var acc float32
		for i, arg := range args {
			x, ok := in.real(arg)
			if !ok {
				return nil
			}
			if i == 0 {
				acc = x
			} else {
				acc = pick(acc, x)
			}
		}
		return Float(acc)
	}
}

func evalArith(op func(a, b float32) Value) builtin {
	return func(in *Interpreter, args []*ast.Value) Value {
		a, b, ok := in.binaryReals(args)
		if !ok {
			return nil
		}
		return op(a, b)
	}
}

func evalEqual(negate bool) builtin {
	return func(in *Interpreter, args []*ast.Value) Value {
		if len(args) != 2 {
			return nil
		}
		a := in.InterpretValue(args[0])
		if a == nil {
			return nil
		}
		b := in.InterpretValue(args[1])
		if b == nil {
			return nil
		}
		equal, ok := IsEqual(a, b)
		if !ok {
			return nil
		}
		return Bool(equal != negate)
	}
}
