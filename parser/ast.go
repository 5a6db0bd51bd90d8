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

	"github.com/shopspring/decimal"
)

/*
Node is a node in the abstract syntax tree. The set of node types is closed,
all of them are declared in this file.
*/
type Node interface {

	/*
		Kind returns the name of this node (one of the Node... constants).
	*/
	Kind() string

	/*
		Token returns the token which was used to create this node.
	*/
	Token() LexToken

	/*
		Children returns all child nodes of this node.
	*/
	Children() []Node
}

/*
node holds the token of an AST node.
*/
type node struct {
	tok LexToken
}

/*
Token returns the token which was used to create this node.
*/
func (n *node) Token() LexToken {
	return n.tok
}

// Statements
// ==========

/*
StatementList is a list of statements which are evaluated in order.
*/
type StatementList struct {
	node
	Statements []Node
}

func (n *StatementList) Kind() string     { return NodeSTATEMENTS }
func (n *StatementList) Children() []Node { return n.Statements }

/*
Empty is a statement which does nothing.
*/
type Empty struct {
	node
}

func (n *Empty) Kind() string     { return NodeEMPTY }
func (n *Empty) Children() []Node { return nil }

/*
Assign binds the result of an expression to a variable or an attribute.
*/
type Assign struct {
	node
	Target Node // Either a Variable or an AttributeAccess
	Value  Node
}

func (n *Assign) Kind() string     { return NodeASSIGN }
func (n *Assign) Children() []Node { return []Node{n.Target, n.Value} }

/*
MultipleAssign distributes a list of values over a list of targets. Targets
are either Variable or IterableUnpacking nodes which wrap a Variable.
*/
type MultipleAssign struct {
	node
	Targets []Node
	Values  []Node
}

func (n *MultipleAssign) Kind() string     { return NodeMULTIASSIGN }
func (n *MultipleAssign) Children() []Node { return n.Values }

/*
IfStatement is a conditional with optional else-if and else branches.
*/
type IfStatement struct {
	node
	Cond       Node
	Block      *StatementList
	ElifConds  []Node
	ElifBlocks []*StatementList
	ElseBlock  *StatementList // Optional else block (may be nil)
}

func (n *IfStatement) Kind() string { return NodeIF }
func (n *IfStatement) Children() []Node {
	res := []Node{n.Cond, n.Block}
	for i, c := range n.ElifConds {
		res = append(res, c, n.ElifBlocks[i])
	}
	if n.ElseBlock != nil {
		res = append(res, n.ElseBlock)
	}
	return res
}

/*
WhileLoop runs its block while its condition is true.
*/
type WhileLoop struct {
	node
	Cond  Node
	Block *StatementList
}

func (n *WhileLoop) Kind() string     { return NodeWHILE }
func (n *WhileLoop) Children() []Node { return []Node{n.Cond, n.Block} }

/*
UntilLoop runs its block while its condition is false.
*/
type UntilLoop struct {
	node
	Cond  Node
	Block *StatementList
}

func (n *UntilLoop) Kind() string     { return NodeUNTIL }
func (n *UntilLoop) Children() []Node { return []Node{n.Cond, n.Block} }

/*
ForLoop runs its block once for every element of an iterable.
*/
type ForLoop struct {
	node
	Params   []string
	Iterable Node
	Block    *StatementList
}

func (n *ForLoop) Kind() string     { return NodeFOR }
func (n *ForLoop) Children() []Node { return []Node{n.Iterable, n.Block} }

/*
FunctionDefinition defines a user function.
*/
type FunctionDefinition struct {
	node
	Name      string
	Params    []string
	Variadic  string // Name of the arbitrary argument list (may be empty)
	Modifiers []*Modifier
	Flags     []*Flag
	Body      *StatementList
}

func (n *FunctionDefinition) Kind() string { return NodeFUNCTION }
func (n *FunctionDefinition) Children() []Node {
	var res []Node
	for _, m := range n.Modifiers {
		res = append(res, m)
	}
	for _, f := range n.Flags {
		res = append(res, f)
	}
	return append(res, n.Body)
}

/*
Return leaves the current user function.
*/
type Return struct {
	node
	Expr Node // Optional return value (may be nil)
}

func (n *Return) Kind() string { return NodeRETURN }
func (n *Return) Children() []Node {
	if n.Expr == nil {
		return nil
	}
	return []Node{n.Expr}
}

/*
LoopControlKind is the kind of a loop control statement.
*/
type LoopControlKind int

/*
Loop control kinds
*/
const (
	LoopNext LoopControlKind = iota
	LoopBreak
)

/*
LoopControl ends the current loop iteration or the whole loop.
*/
type LoopControl struct {
	node
	Control LoopControlKind
}

func (n *LoopControl) Kind() string {
	if n.Control == LoopBreak {
		return NodeBREAK
	}
	return NodeNEXT
}
func (n *LoopControl) Children() []Node { return nil }

// Expressions
// ===========

/*
BinaryOperation is an operation with two operands.
*/
type BinaryOperation struct {
	node
	Op    string // Operator name (e.g. NodePLUS)
	Left  Node
	Right Node
}

func (n *BinaryOperation) Kind() string     { return n.Op }
func (n *BinaryOperation) Children() []Node { return []Node{n.Left, n.Right} }

/*
UnaryOperation is an operation with a single operand.
*/
type UnaryOperation struct {
	node
	Op   string // Operator name (NodePLUS or NodeMINUS)
	Expr Node
}

func (n *UnaryOperation) Kind() string     { return n.Op }
func (n *UnaryOperation) Children() []Node { return []Node{n.Expr} }

/*
Variable is a reference to a name.
*/
type Variable struct {
	node
	Name string
}

func (n *Variable) Kind() string     { return NodeIDENTIFIER }
func (n *Variable) Children() []Node { return nil }

/*
AttributeAccess is a reference to an attribute of an object.
*/
type AttributeAccess struct {
	node
	Object Node
	Attr   string
}

func (n *AttributeAccess) Kind() string     { return NodeATTRIBUTE }
func (n *AttributeAccess) Children() []Node { return []Node{n.Object} }

/*
FunctionCall calls a function value.
*/
type FunctionCall struct {
	node
	Callee    Node
	Args      []Node
	Modifiers []*Modifier
	Flags     []*Flag
}

func (n *FunctionCall) Kind() string { return NodeCALL }
func (n *FunctionCall) Children() []Node {
	res := append([]Node{n.Callee}, n.Args...)
	for _, m := range n.Modifiers {
		res = append(res, m)
	}
	for _, f := range n.Flags {
		res = append(res, f)
	}
	return res
}

/*
Modifier is a named argument with a value (~name << value).
*/
type Modifier struct {
	node
	Name  string
	Value Node
}

func (n *Modifier) Kind() string     { return NodeMODIFIER }
func (n *Modifier) Children() []Node { return []Node{n.Value} }

/*
Flag is a named boolean switch (~name).
*/
type Flag struct {
	node
	Name string
}

func (n *Flag) Kind() string     { return NodeFLAG }
func (n *Flag) Children() []Node { return nil }

/*
IterableUnpacking marks an expression whose elements should be spread
over several slots.
*/
type IterableUnpacking struct {
	node
	Expr Node
}

func (n *IterableUnpacking) Kind() string     { return NodeUNPACK }
func (n *IterableUnpacking) Children() []Node { return []Node{n.Expr} }

// Literals
// ========

/*
NumberLiteral is a decimal number constant.
*/
type NumberLiteral struct {
	node
	Value decimal.Decimal
}

func (n *NumberLiteral) Kind() string     { return NodeNUMBER }
func (n *NumberLiteral) Children() []Node { return nil }

/*
StringLiteral is a string constant.
*/
type StringLiteral struct {
	node
	Value string
}

func (n *StringLiteral) Kind() string     { return NodeSTRING }
func (n *StringLiteral) Children() []Node { return nil }

/*
BooleanLiteral is either true or false.
*/
type BooleanLiteral struct {
	node
	Value bool
}

func (n *BooleanLiteral) Kind() string {
	if n.Value {
		return NodeTRUE
	}
	return NodeFALSE
}
func (n *BooleanLiteral) Children() []Node { return nil }

/*
NoneLiteral is the none constant.
*/
type NoneLiteral struct {
	node
}

func (n *NoneLiteral) Kind() string     { return NodeNONE }
func (n *NoneLiteral) Children() []Node { return nil }

/*
ListLiteral creates a new list.
*/
type ListLiteral struct {
	node
	Elements []Node
}

func (n *ListLiteral) Kind() string     { return NodeLIST }
func (n *ListLiteral) Children() []Node { return n.Elements }

// Output functions
// ================

/*
Dump returns a tree representation of a given AST.
*/
func Dump(n Node) string {
	var buf bytes.Buffer

	dumpLevel(&buf, n, 0)

	return buf.String()
}

/*
dumpLevel writes a node and its children at a given indentation level.
*/
func dumpLevel(buf *bytes.Buffer, n Node, level int) {

	buf.WriteString(strings.Repeat("  ", level))
	buf.WriteString(n.Kind())

	if val := nodeValue(n); val != "" {
		buf.WriteString(": ")
		buf.WriteString(val)
	}

	buf.WriteString("\n")

	for _, c := range n.Children() {
		dumpLevel(buf, c, level+1)
	}
}

/*
Plain returns a plain object representation of a given AST which can be
marshalled into JSON or YAML.
*/
func Plain(n Node) map[string]interface{} {
	ret := map[string]interface{}{
		"name": n.Kind(),
		"line": n.Token().Lline,
		"pos":  n.Token().Lpos,
	}

	if val := nodeValue(n); val != "" {
		ret["value"] = val
	}

	if children := n.Children(); len(children) > 0 {
		var plainChildren []interface{}

		for _, c := range children {
			plainChildren = append(plainChildren, Plain(c))
		}

		ret["children"] = plainChildren
	}

	return ret
}

/*
nodeValue returns the value part of a node for output.
*/
func nodeValue(n Node) string {

	switch n := n.(type) {

	case *NumberLiteral:
		return n.Value.String()

	case *StringLiteral:
		return fmt.Sprintf("%q", n.Value)

	case *Variable:
		return n.Name

	case *AttributeAccess:
		return n.Attr

	case *Modifier:
		return n.Name

	case *Flag:
		return n.Name

	case *ForLoop:
		return strings.Join(n.Params, ", ")

	case *MultipleAssign:
		var targets []string

		for _, t := range n.Targets {
			if u, ok := t.(*IterableUnpacking); ok {
				targets = append(targets, ":"+u.Expr.(*Variable).Name)
			} else {
				targets = append(targets, t.(*Variable).Name)
			}
		}

		return strings.Join(targets, ", ")

	case *FunctionDefinition:
		params := append([]string(nil), n.Params...)

		if n.Variadic != "" {
			params = append(params, ":"+n.Variadic)
		}

		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(params, ", "))
	}

	return ""
}
