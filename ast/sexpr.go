package ast

import (
	"strconv"
	"strings"
)

// ToSExpr renders a node as a debugging S-expression, such as
// (call "+" (atom "1") (global-ref "x")).
func ToSExpr(node Node) string {
	switch n := node.(type) {
	case *Atom:
		return "(atom " + strconv.Quote(n.String()) + ")"
	case *Value:
		switch c := n.Content.(type) {
		case *Atom:
			return ToSExpr(c)
		case *Code:
			return ToSExpr(c)
		case *Global:
			return "(global-ref " + strconv.Quote(c.DeclName()) + ")"
		case *Script:
			return "(script-ref " + strconv.Quote(c.DeclName()) + ")"
		}
	case *Code:
		var result string
		switch {
		case n.FromCond:
			result = "(clause"
		case isScriptCall(n):
			result = "(call-script " + strconv.Quote(n.FunctionName())
		default:
			result = "(call " + strconv.Quote(n.FunctionName())
		}
		for e := n.Arguments.Front(); e != nil; e = e.Next() {
			result += " " + ToSExpr(e.Value)
		}
		return result + ")"
	case *Global:
		keyword := "global"
		if n.IsConst {
			keyword = "constglobal"
		}
		return "(" + keyword + " " + strconv.Quote(string(n.Type)) + " " +
			strconv.Quote(n.DeclName()) + " " + ToSExpr(n.Value) + ")"
	case *Script:
		result := "(script " + strconv.Quote(n.Type.String())
		if n.Type.HasReturnType() {
			result += " " + strconv.Quote(string(n.ReturnType))
		}
		result += " " + strconv.Quote(n.DeclName())
		if n.Type == Macro {
			var params []string
			for _, p := range n.Params {
				params = append(params, "(param "+strconv.Quote(string(p.Type))+" "+strconv.Quote(p.Name.String())+")")
			}
			result += " (params" + prefixSpace(params) + ")"
		}
		for e := n.Codes.Front(); e != nil; e = e.Next() {
			result += " " + ToSExpr(e.Value)
		}
		return result + ")"
	}
	return "(unknown)"
}

func isScriptCall(c *Code) bool {
	_, ok := c.Function.(*Script)
	return ok
}

func prefixSpace(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

// Dump renders every declaration of a as (ast ...).
func Dump(a *AST) string {
	var parts []string
	for _, node := range a.Entries() {
		parts = append(parts, ToSExpr(node))
	}
	return "(ast" + prefixSpace(parts) + ")"
}
