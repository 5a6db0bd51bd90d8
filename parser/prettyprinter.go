/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"bytes"
	"fmt"
	"strings"
)

/*
Precedence levels of expressions
*/
const (
	precLowest = iota
	precComparison
	precAddition
	precMultiplication
	precUnary
	precPow
	precPostfix
)

/*
Map of operator node names to their precedence
*/
var opPrec = map[string]int{
	NodeEQ:     precComparison,
	NodeNEQ:    precComparison,
	NodeGEQ:    precComparison,
	NodeLEQ:    precComparison,
	NodeGT:     precComparison,
	NodeLT:     precComparison,
	NodePLUS:   precAddition,
	NodeMINUS:  precAddition,
	NodeTIMES:  precMultiplication,
	NodeDIV:    precMultiplication,
	NodeDIVINT: precMultiplication,
	NodeMOD:    precMultiplication,
	NodePOW:    precPow,
}

/*
Map of operator node names to their source symbol
*/
var opSymbol = map[string]string{
	NodeEQ:     "=",
	NodeNEQ:    "!=",
	NodeGEQ:    ">=",
	NodeLEQ:    "<=",
	NodeGT:     ">",
	NodeLT:     "<",
	NodePLUS:   "+",
	NodeMINUS:  "-",
	NodeTIMES:  "*",
	NodeDIV:    "/",
	NodeDIVINT: "//",
	NodeMOD:    "%",
	NodePOW:    "**",
}

/*
OperatorSymbol returns the source symbol of an operator node name.
*/
func OperatorSymbol(op string) string {
	return opSymbol[op]
}

/*
PrettyPrint produces pretty printed Leaf code from a given AST.
*/
func PrettyPrint(ast Node) string {
	var buf bytes.Buffer

	if sl, ok := ast.(*StatementList); ok {
		ppBlock(&buf, sl, 0)
	} else {
		buf.WriteString(ppStatement(ast, 0))
		buf.WriteString("\n")
	}

	return buf.String()
}

/*
ppPipes returns the line prefix of a given block depth.
*/
func ppPipes(depth int) string {
	return strings.Repeat("| ", depth)
}

/*
ppBlock writes all statements of a block. Every line is prefixed with the
pipes of the given depth.
*/
func ppBlock(buf *bytes.Buffer, sl *StatementList, depth int) {
	for _, stmt := range sl.Statements {
		buf.WriteString(strings.TrimRight(ppPipes(depth)+ppStatement(stmt, depth), " "))
		buf.WriteString("\n")
	}
}

/*
ppStatement returns the code of a single statement. Statements with blocks
span several lines.
*/
func ppStatement(n Node, depth int) string {
	var buf bytes.Buffer

	switch n := n.(type) {

	case *Empty:
		return ""

	case *Assign:
		return fmt.Sprintf("%s << %s", ppExpr(n.Target, precLowest), ppExpr(n.Value, precLowest))

	case *MultipleAssign:
		var targets, values []string

		for _, t := range n.Targets {
			targets = append(targets, ppExpr(t, precLowest))
		}

		for _, v := range n.Values {
			values = append(values, ppExpr(v, precLowest))
		}

		return fmt.Sprintf("%s << %s", strings.Join(targets, ", "), strings.Join(values, ", "))

	case *IfStatement:
		fmt.Fprintf(&buf, "if (%s), then\n", ppExpr(n.Cond, precLowest))
		ppBlock(&buf, n.Block, depth+1)

		for i, c := range n.ElifConds {
			fmt.Fprintf(&buf, "%selse, if (%s), then\n", ppPipes(depth), ppExpr(c, precLowest))
			ppBlock(&buf, n.ElifBlocks[i], depth+1)
		}

		if n.ElseBlock != nil {
			fmt.Fprintf(&buf, "%selse\n", ppPipes(depth))
			ppBlock(&buf, n.ElseBlock, depth+1)
		}

		buf.WriteString(ppPipes(depth) + "endif")

	case *WhileLoop:
		fmt.Fprintf(&buf, "while (%s), loop\n", ppExpr(n.Cond, precLowest))
		ppBlock(&buf, n.Block, depth+1)
		buf.WriteString(ppPipes(depth) + "endloop")

	case *UntilLoop:
		fmt.Fprintf(&buf, "until (%s), loop\n", ppExpr(n.Cond, precLowest))
		ppBlock(&buf, n.Block, depth+1)
		buf.WriteString(ppPipes(depth) + "endloop")

	case *ForLoop:
		fmt.Fprintf(&buf, "for (%s) in (%s), loop\n", strings.Join(n.Params, ", "),
			ppExpr(n.Iterable, precLowest))
		ppBlock(&buf, n.Block, depth+1)
		buf.WriteString(ppPipes(depth) + "endloop")

	case *FunctionDefinition:
		params := append([]string(nil), n.Params...)

		if n.Variadic != "" {
			params = append(params, ":"+n.Variadic)
		}

		for _, m := range n.Modifiers {
			params = append(params, ppExpr(m, precLowest))
		}

		for _, f := range n.Flags {
			params = append(params, ppExpr(f, precLowest))
		}

		fmt.Fprintf(&buf, "function (%s) << (%s), do\n", n.Name, strings.Join(params, ", "))
		ppBlock(&buf, n.Body, depth+1)
		buf.WriteString(ppPipes(depth) + "endfunction")

	case *Return:
		if n.Expr == nil {
			return "return"
		}

		return fmt.Sprintf("return (%s)", ppExpr(n.Expr, precLowest))

	case *LoopControl:
		return n.Kind()

	default:
		return ppExpr(n, precLowest)
	}

	return buf.String()
}

/*
ppExpr returns the code of an expression. The expression is put in
parentheses if its precedence is lower than the given precedence.
*/
func ppExpr(n Node, prec int) string {
	var ret string
	var own = precPostfix

	switch n := n.(type) {

	case *NumberLiteral:
		ret = n.Value.String()

	case *StringLiteral:
		ret = "'" + strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(n.Value) + "'"

	case *BooleanLiteral, *NoneLiteral:
		ret = n.Kind()

	case *Variable:
		ret = n.Name

	case *ListLiteral:
		var elems []string

		for _, e := range n.Elements {
			elems = append(elems, ppExpr(e, precLowest))
		}

		ret = "[" + strings.Join(elems, ", ") + "]"

	case *AttributeAccess:
		ret = ppExpr(n.Object, precPostfix) + "." + n.Attr

	case *FunctionCall:
		var args []string

		for _, a := range n.Args {
			args = append(args, ppExpr(a, precLowest))
		}

		for _, m := range n.Modifiers {
			args = append(args, ppExpr(m, precLowest))
		}

		for _, f := range n.Flags {
			args = append(args, ppExpr(f, precLowest))
		}

		ret = ppExpr(n.Callee, precPostfix) + "[" + strings.Join(args, ", ") + "]"

	case *Modifier:
		ret = fmt.Sprintf("~%s << %s", n.Name, ppExpr(n.Value, precLowest))

	case *Flag:
		ret = "~" + n.Name

	case *IterableUnpacking:
		own = precLowest
		ret = ":" + ppExpr(n.Expr, precComparison)

	case *UnaryOperation:
		own = precUnary
		ret = opSymbol[n.Op] + ppExpr(n.Expr, precUnary)

	case *BinaryOperation:
		own = opPrec[n.Op]

		if n.Op == NodePOW {

			// Right associative

			ret = fmt.Sprintf("%s ** %s", ppExpr(n.Left, own+1), ppExpr(n.Right, own))

		} else {

			ret = fmt.Sprintf("%s %s %s", ppExpr(n.Left, own), opSymbol[n.Op], ppExpr(n.Right, own+1))
		}

	default:
		ret = ppStatement(n, 0)
	}

	if own < prec {
		ret = "(" + ret + ")"
	}

	return ret
}
