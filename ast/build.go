package ast

import (
	"github.com/strager/hscx/diag"
	"github.com/strager/hscx/syntax"
)

// reader walks the elements of one expression.
type reader struct {
	expr  *syntax.Expression
	index int
}

func (r *reader) next() (syntax.Value, bool) {
	if r.index == len(r.expr.Values) {
		return nil, false
	}
	v := r.expr.Values[r.index]
	r.index++
	return v, true
}

func (r *reader) nextAtom(message string) (*syntax.Atom, error) {
	v, ok := r.next()
	if !ok {
		return nil, syntax.Errorf(syntax.UnexpectedExpression, r.expr.Span, "unexpected end of expression: %s", message)
	}
	return expectAtom(v, message)
}

func (r *reader) nextExpression(message string) (*syntax.Expression, error) {
	v, ok := r.next()
	if !ok {
		return nil, syntax.Errorf(syntax.UnexpectedExpression, r.expr.Span, "unexpected end of expression: %s", message)
	}
	expr, ok := v.(*syntax.Expression)
	if !ok {
		return nil, syntax.Errorf(syntax.UnexpectedAtom, v.Source(), "%s", message)
	}
	return expr, nil
}

func expectAtom(v syntax.Value, message string) (*syntax.Atom, error) {
	atom, ok := v.(*syntax.Atom)
	if !ok {
		return nil, syntax.Errorf(syntax.UnexpectedExpression, v.Source(), "%s", message)
	}
	return atom, nil
}

func (b *Builder) build() error {
	for _, expr := range b.parsed.All() {
		if len(expr.Values) == 0 {
			return syntax.Errorf(syntax.UnexpectedExpression, expr.Span, "unexpected empty expression")
		}
		r := &reader{expr: expr}
		keyword, err := r.nextAtom(`expected "global", "script" or "constglobal" but got an expression`)
		if err != nil {
			return err
		}

		var node Named
		switch keyword.Text() {
		case "global":
			node, err = b.buildGlobal(expr, false)
		case "constglobal":
			node, err = b.buildGlobal(expr, true)
		case "script":
			node, err = b.buildScript(r)
		case "import":
			continue
		default:
			return syntax.Errorf(syntax.UnexpectedExpression, keyword.Span,
				`expected "global", "script" or "constglobal" but got %q`, keyword.Text())
		}
		if err != nil {
			return err
		}
		if err := b.addNamed(node); err != nil {
			return err
		}
	}
	return nil
}

// addNamed registers a declaration. The only redefinition allowed is a
// static script replacing a stub with the same return type; a stub after
// its static is ignored.
func (b *Builder) addNamed(node Named) error {
	existing, ok := b.ast.Get(node.DeclName())
	if !ok {
		b.added = append(b.added, node)
		b.ast.Add(node)
		return nil
	}

	span, _ := node.SourceSpan()
	oldScript, oldIsScript := existing.(*Script)
	newScript, newIsScript := node.(*Script)
	if !oldIsScript || !newIsScript {
		return syntax.Errorf(syntax.UnexpectedExpression, span, "invalid name overload of %q", node.DeclName())
	}
	if oldScript.ReturnType != newScript.ReturnType {
		return syntax.Errorf(syntax.UnexpectedExpression, span, "script return types don't match")
	}
	switch {
	case newScript.Type == Stub && oldScript.Type == Static:
		return nil
	case newScript.Type == Static && oldScript.Type == Stub:
		b.added = append(b.added, node)
		b.ast.Add(node)
		return nil
	}
	return syntax.Errorf(syntax.UnexpectedExpression, span, "only stub and static scripts can be overloaded")
}

func (b *Builder) buildGlobal(expr *syntax.Expression, isConst bool) (*Global, error) {
	if len(expr.Values) != 4 {
		return nil, syntax.Errorf(syntax.InvalidExpression, expr.Span,
			`expected an expression in the format "(global <type> <name> <value>)"`)
	}
	typ, err := expectAtom(expr.Values[1], "expected an atom for global type")
	if err != nil {
		return nil, err
	}
	name, err := expectAtom(expr.Values[2], "expected an atom for global name")
	if err != nil {
		return nil, err
	}
	value, err := b.buildValue(expr.Values[3], nil)
	if err != nil {
		return nil, err
	}
	return &Global{
		source:  expr,
		Name:    AtomFromSyntax(name),
		Type:    ValueType(typ.Text()),
		IsConst: isConst,
		Value:   value,
	}, nil
}

func (b *Builder) buildScript(r *reader) (*Script, error) {
	if len(r.expr.Values) < 4 {
		return nil, syntax.Errorf(syntax.InvalidExpression, r.expr.Span, "too short to be a script")
	}
	typeAtom, err := r.nextAtom("expected an atom for script type")
	if err != nil {
		return nil, err
	}
	typ := ParseScriptType(typeAtom.Text())
	if typ == Invalid {
		return nil, syntax.Errorf(syntax.InvalidExpression, typeAtom.Span, "invalid script type %q", typeAtom.Text())
	}

	script := &Script{source: r.expr, Type: typ}
	if typ.HasReturnType() {
		returnType, err := r.nextAtom("expected an atom for script return type")
		if err != nil {
			return nil, err
		}
		script.ReturnType = ValueType(returnType.Text())
	}
	name, err := r.nextAtom("expected an atom for script name")
	if err != nil {
		return nil, err
	}
	script.Name = AtomFromSyntax(name)

	if typ == Macro {
		params, err := r.nextExpression("expected an arguments expression")
		if err != nil {
			return nil, err
		}
		if script.Params, err = buildParams(params); err != nil {
			return nil, err
		}
	}

	script.Codes, err = b.buildCodeList(r)
	if err != nil {
		return nil, err
	}
	return script, nil
}

// buildParams reads a macro parameter list. Both (type name type name)
// and ((type name) (type name)) are accepted.
func buildParams(expr *syntax.Expression) ([]Param, error) {
	var flat []syntax.Value
	for _, v := range expr.Values {
		if pair, ok := v.(*syntax.Expression); ok {
			if len(pair.Values) != 2 {
				return nil, syntax.Errorf(syntax.InvalidExpression, pair.Span, "invalid arguments expression")
			}
			flat = append(flat, pair.Values...)
			continue
		}
		flat = append(flat, v)
	}
	if len(flat)%2 != 0 {
		return nil, syntax.Errorf(syntax.InvalidExpression, expr.Span, "invalid arguments expression")
	}

	params := make([]Param, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		typ, err := expectAtom(flat[i], "expected an atom for argument type")
		if err != nil {
			return nil, err
		}
		name, err := expectAtom(flat[i+1], "expected an atom for argument name")
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Type: ValueType(typ.Text()), Name: AtomFromSyntax(name)})
	}
	return params, nil
}

// buildCodeList reads a script body. Only the last statement may be a bare
// atom (the script's result).
func (b *Builder) buildCodeList(r *reader) (*Values, error) {
	codes := NewValues()
	for i := r.index; i < len(r.expr.Values); i++ {
		v := r.expr.Values[i]
		if atom, ok := v.(*syntax.Atom); ok && i == len(r.expr.Values)-1 {
			codes.PushBack(&Value{source: atom, Content: AtomFromSyntax(atom)})
			continue
		}
		code, err := b.buildCode(v, nil)
		if err != nil {
			return nil, err
		}
		codes.PushBack(&Value{source: v, Content: code})
	}
	return codes, nil
}

func (b *Builder) buildValue(v syntax.Value, parent *Atom) (*Value, error) {
	if atom, ok := v.(*syntax.Atom); ok {
		return &Value{source: atom, Content: AtomFromSyntax(atom)}, nil
	}
	code, err := b.buildCode(v, parent)
	if err != nil {
		return nil, err
	}
	return &Value{source: v, Content: code}, nil
}

// buildCode builds a call. Inside a cond, each clause becomes an "if"
// whose arguments are all of the clause's elements.
func (b *Builder) buildCode(v syntax.Value, parent *Atom) (*Code, error) {
	expr, ok := v.(*syntax.Expression)
	if !ok {
		return nil, syntax.Errorf(syntax.UnexpectedAtom, v.Source(), "expected code, got atom")
	}
	if len(expr.Values) == 0 {
		return nil, syntax.Errorf(syntax.UnexpectedExpression, expr.Span, "unexpected empty expression")
	}

	r := &reader{expr: expr}
	code := &Code{source: expr, Arguments: NewValues()}
	var name *Atom
	if parent != nil && parent.Is("cond") {
		name = NewAtom("if")
		code.FromCond = true
	} else {
		atom, err := r.nextAtom("expected an atom for the function name")
		if err != nil {
			return nil, err
		}
		name = AtomFromSyntax(atom)
	}
	code.Function = name

	for i := r.index; i < len(expr.Values); i++ {
		arg, err := b.buildValue(expr.Values[i], name)
		if err != nil {
			return nil, err
		}
		code.Arguments.PushBack(arg)
	}
	return code, nil
}

// resolve links names in the bodies of the newly added declarations to the
// globals and scripts they denote. Unknown names are left as atoms. Inside
// a macro, parameter names are never resolved.
func (b *Builder) resolve() {
	for _, node := range b.added {
		switch n := node.(type) {
		case *Global:
			b.resolveValue(n.Value, nil)
		case *Script:
			var macro *Script
			if n.Type == Macro {
				macro = n
			}
			for e := n.Codes.Front(); e != nil; e = e.Next() {
				b.resolveValue(e.Value, macro)
			}
		}
	}
}

func (b *Builder) lookup(atom *Atom, macro *Script) (Named, bool) {
	if macro != nil && macro.IsParam(atom.String()) {
		return nil, false
	}
	return b.ast.Get(atom.String())
}

func (b *Builder) resolveValue(v *Value, macro *Script) {
	switch c := v.Content.(type) {
	case *Atom:
		if named, ok := b.lookup(c, macro); ok {
			v.Content = named.(Content)
		}
	case *Code:
		b.resolveCode(c, macro)
	}
}

func (b *Builder) resolveCode(code *Code, macro *Script) {
	if fn, ok := code.Function.(*Atom); ok && !code.FromCond {
		if named, ok := b.lookup(fn, macro); ok {
			switch n := named.(type) {
			case *Global:
				span, ok := fn.SourceSpan()
				if !ok {
					span, _ = code.SourceSpan()
				}
				b.reporter.ReportAt(diag.Error, span, "global %q is being used as a function!", n.DeclName())
			case *Script:
				code.Function = n
			}
		}
	}
	for e := code.Arguments.Front(); e != nil; e = e.Next() {
		b.resolveValue(e.Value, macro)
	}
}
