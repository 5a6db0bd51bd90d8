/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"fmt"

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/scope"
	"devt.de/krotik/leaf/util"
	"devt.de/krotik/leaf/value"
)

// Control signals
// ===============

/*
returnSignal is produced by a return statement. It carries the return
value up to the function call.
*/
type returnSignal struct {
	value value.Value
}

func (r *returnSignal) TypeName() string { return "Return" }
func (r *returnSignal) String() string   { return fmt.Sprintf("return %v", r.value) }
func (r *returnSignal) Truth() bool      { return false }

/*
loopSignal is produced by next and break statements.
*/
type loopSignal struct {
	control parser.LoopControlKind
}

func (l *loopSignal) TypeName() string { return "LoopControl" }
func (l *loopSignal) String() string   { return fmt.Sprint(l.control) }
func (l *loopSignal) Truth() bool      { return false }

/*
Markers on the construct stack
*/
const (
	loopMarker     = "loop"
	functionMarker = "function"
)

// Evaluation
// ==========

/*
eval evaluates a single node. Failures are tagged with the position of
the innermost node which produced them.
*/
func (i *Interpreter) eval(n parser.Node, sc scope.Handle) (value.Value, error) {
	res, err := i.evalNode(n, sc)

	if err != nil {
		return nil, i.positionError(err, n)
	}

	return res, nil
}

/*
evalNode dispatches the evaluation of a node by its type.
*/
func (i *Interpreter) evalNode(n parser.Node, sc scope.Handle) (value.Value, error) {

	switch n := n.(type) {

	case *parser.StatementList:
		return i.evalStatements(n, sc)

	case *parser.Empty:
		return value.None, nil

	case *parser.NumberLiteral:
		return value.Number{Value: n.Value}, nil

	case *parser.StringLiteral:
		return value.String(n.Value), nil

	case *parser.BooleanLiteral:
		return value.Boolean(n.Value), nil

	case *parser.NoneLiteral:
		return value.None, nil

	case *parser.ListLiteral:
		items, err := i.evalArgs(n.Elements, sc)
		if err != nil {
			return nil, err
		}
		return &value.List{Items: items}, nil

	case *parser.Variable:
		return i.arena.Lookup(sc, n.Name)

	case *parser.AttributeAccess:
		obj, err := i.eval(n.Object, sc)
		if err != nil {
			return nil, err
		}
		return i.types.Attribute(obj, n.Attr)

	case *parser.BinaryOperation:
		return i.evalBinary(n, sc)

	case *parser.UnaryOperation:
		v, err := i.eval(n.Expr, sc)
		if err != nil {
			return nil, err
		}
		return i.types.UnaryOp(n.Op, v)

	case *parser.IterableUnpacking:
		return nil, util.NewFailure(util.ErrSyntaxError,
			"Unpacking is only allowed in argument lists, list literals, assignments and for loops")

	case *parser.FunctionCall:
		return i.evalCall(n, sc)

	case *parser.Assign:
		return value.None, i.evalAssign(n, sc)

	case *parser.MultipleAssign:
		return value.None, i.evalMultipleAssign(n, sc)

	case *parser.IfStatement:
		return i.evalIf(n, sc)

	case *parser.WhileLoop:
		return i.evalConditionLoop(n.Cond, n.Block, true, sc)

	case *parser.UntilLoop:
		return i.evalConditionLoop(n.Cond, n.Block, false, sc)

	case *parser.ForLoop:
		return i.evalFor(n, sc)

	case *parser.FunctionDefinition:
		return value.None, i.evalFunctionDefinition(n, sc)

	case *parser.Return:
		return i.evalReturn(n, sc)

	case *parser.LoopControl:
		if i.constructs.Empty() || i.constructs.Back() != loopMarker {
			return nil, util.NewFailure(util.ErrSyntaxError, "'%v' outside of a loop", n.Kind())
		}
		return &loopSignal{n.Control}, nil
	}

	return nil, util.NewFailure(util.ErrSyntaxError, "Unknown node: %v", n.Kind())
}

/*
evalStatements evaluates a list of statements. A control signal stops the
evaluation and is passed on.
*/
func (i *Interpreter) evalStatements(n *parser.StatementList, sc scope.Handle) (value.Value, error) {
	var res value.Value = value.None

	i.active = append(i.active, sc)
	defer func() {
		i.active = i.active[:len(i.active)-1]
	}()

	for _, stmt := range n.Statements {
		r, err := i.eval(stmt, sc)

		if err != nil {
			return nil, err
		}

		switch r.(type) {
		case *returnSignal, *loopSignal:
			return r, nil
		}

		if i.interactive && i.Echo != nil && isExpression(stmt) && r != value.None &&
			!(i.quietCall && stmt.Kind() == parser.NodeCALL) && !i.inFunction(sc) {

			i.Echo(r)
		}

		res = r
	}

	return res, nil
}

/*
isExpression checks if a statement is an expression statement.
*/
func isExpression(n parser.Node) bool {
	switch n.(type) {
	case *parser.Assign, *parser.MultipleAssign, *parser.IfStatement, *parser.WhileLoop,
		*parser.UntilLoop, *parser.ForLoop, *parser.FunctionDefinition, *parser.Return,
		*parser.LoopControl, *parser.Empty:
		return false
	}
	return true
}

/*
inFunction checks if a scope is part of a function call.
*/
func (i *Interpreter) inFunction(sc scope.Handle) bool {
	for _, tag := range i.arena.EnclosingNames(sc) {
		if tag == scope.TagFunctionCall {
			return true
		}
	}
	return false
}

/*
evalArgs evaluates a list of expressions. Expressions which are marked for
unpacking contribute all their elements.
*/
func (i *Interpreter) evalArgs(nodes []parser.Node, sc scope.Handle) ([]value.Value, error) {
	ret := make([]value.Value, 0, len(nodes))

	for _, n := range nodes {

		if u, ok := n.(*parser.IterableUnpacking); ok {
			v, err := i.eval(u.Expr, sc)
			if err != nil {
				return nil, err
			}

			items, err := i.types.Collect(v)
			if err != nil {
				return nil, i.positionError(err, u)
			}

			ret = append(ret, items...)
			continue
		}

		v, err := i.eval(n, sc)
		if err != nil {
			return nil, err
		}

		ret = append(ret, v)
	}

	return ret, nil
}

/*
evalBinary evaluates a binary operation.
*/
func (i *Interpreter) evalBinary(n *parser.BinaryOperation, sc scope.Handle) (value.Value, error) {
	left, err := i.eval(n.Left, sc)
	if err != nil {
		return nil, err
	}

	right, err := i.eval(n.Right, sc)
	if err != nil {
		return nil, err
	}

	return i.types.BinaryOp(n.Op, left, right)
}

// Assignments
// ===========

/*
evalAssign binds a value to a name or sets an attribute.
*/
func (i *Interpreter) evalAssign(n *parser.Assign, sc scope.Handle) error {
	val, err := i.eval(n.Value, sc)
	if err != nil {
		return err
	}

	if attr, ok := n.Target.(*parser.AttributeAccess); ok {
		obj, err := i.eval(attr.Object, sc)
		if err != nil {
			return err
		}

		return i.types.SetAttribute(obj, attr.Attr, val)
	}

	return i.arena.Define(sc, n.Target.(*parser.Variable).Name, val)
}

/*
evalMultipleAssign distributes values over several targets. Plain targets
take one value each. Unpacking targets share the remaining values as evenly
as possible with the remainder going to the earliest unpacking targets.
*/
func (i *Interpreter) evalMultipleAssign(n *parser.MultipleAssign, sc scope.Handle) error {
	vals, err := i.evalArgs(n.Values, sc)
	if err != nil {
		return err
	}

	plain, unpack := 0, 0

	for _, t := range n.Targets {
		if _, ok := t.(*parser.IterableUnpacking); ok {
			unpack++
		} else {
			plain++
		}
	}

	if unpack == 0 && len(vals) != plain {
		return util.NewFailure(util.ErrTypeError, "expected %v values, got %v", plain, len(vals))
	} else if len(vals) < plain {
		return util.NewFailure(util.ErrTypeError, "expected at least %v values, got %v", plain, len(vals))
	}

	var share, extra int

	if unpack > 0 {
		share = (len(vals) - plain) / unpack
		extra = (len(vals) - plain) % unpack
	}

	pos := 0

	for _, t := range n.Targets {
		var name string
		var v value.Value

		if u, ok := t.(*parser.IterableUnpacking); ok {
			count := share

			if extra > 0 {
				count++
				extra--
			}

			name = u.Expr.(*parser.Variable).Name
			v = value.NewList(vals[pos : pos+count]...)
			pos += count

		} else {

			name = t.(*parser.Variable).Name
			v = vals[pos]
			pos++
		}

		if err := i.arena.Define(sc, name, v); err != nil {
			return i.positionError(err, t)
		}
	}

	return nil
}

// Control flow
// ============

/*
evalIf evaluates the first branch whose condition is true.
*/
func (i *Interpreter) evalIf(n *parser.IfStatement, sc scope.Handle) (value.Value, error) {
	conds := append([]parser.Node{n.Cond}, n.ElifConds...)
	blocks := append([]*parser.StatementList{n.Block}, n.ElifBlocks...)

	for j, cond := range conds {
		c, err := i.eval(cond, sc)
		if err != nil {
			return nil, err
		}

		if c.Truth() {
			return i.evalStatements(blocks[j], sc)
		}
	}

	if n.ElseBlock != nil {
		return i.evalStatements(n.ElseBlock, sc)
	}

	return value.None, nil
}

/*
evalConditionLoop evaluates a while loop (loop while the condition is
true) or an until loop (loop while the condition is false).
*/
func (i *Interpreter) evalConditionLoop(cond parser.Node, block *parser.StatementList,
	while bool, sc scope.Handle) (value.Value, error) {

	if err := i.pushConstruct(loopMarker); err != nil {
		return nil, err
	}
	defer i.constructs.PopBack()

	for {
		c, err := i.eval(cond, sc)
		if err != nil {
			return nil, err
		}

		if c.Truth() != while {
			break
		}

		res, err := i.evalStatements(block, sc)
		if err != nil {
			return nil, err
		}

		if stop, ret := loopResult(res); stop {
			return ret, nil
		}
	}

	return value.None, nil
}

/*
loopResult checks the result of a loop body. It returns true if the loop
should stop together with the value of the loop.
*/
func loopResult(res value.Value) (bool, value.Value) {
	switch res := res.(type) {

	case *returnSignal:
		return true, res

	case *loopSignal:
		if res.control == parser.LoopBreak {
			return true, value.None
		}
	}

	return false, nil
}

/*
evalFor evaluates a for loop. The loop runs in its own scope whose
bindings are copied into the enclosing scope once the loop has finished.
If the iterable is marked for unpacking then every element is unpacked
into the loop parameters.
*/
func (i *Interpreter) evalFor(n *parser.ForLoop, sc scope.Handle) (value.Value, error) {
	expr, unpack := n.Iterable, false

	if u, ok := n.Iterable.(*parser.IterableUnpacking); ok {
		expr, unpack = u.Expr, true
	}

	iterable, err := i.eval(expr, sc)
	if err != nil {
		return nil, err
	}

	it, err := i.types.Iterate(iterable)
	if err != nil {
		return nil, i.positionError(err, n.Iterable)
	}

	if err := i.pushConstruct(loopMarker); err != nil {
		return nil, err
	}
	defer i.constructs.PopBack()

	ls := i.arena.Child(sc, scope.TagForLoop)
	defer i.arena.Release(ls)

	var res value.Value = value.None

	for {
		item, ok, err := it()

		if err != nil {
			return nil, i.positionError(err, n.Iterable)
		} else if !ok {
			break
		}

		if err := i.bindLoopParams(n.Params, item, unpack, ls); err != nil {
			return nil, err
		}

		body, err := i.evalStatements(n.Block, ls)
		if err != nil {
			return nil, err
		}

		if stop, ret := loopResult(body); stop {
			res = ret
			break
		}
	}

	bindings := i.arena.Bindings(ls)

	i.Logger.LogDebug(fmt.Sprintf("%v: copying %v for loop bindings to %v scope",
		i.Name, len(bindings), i.arena.Tag(sc)))

	for name, v := range bindings {
		i.arena.DefinePrivileged(sc, name, v)
	}

	return res, nil
}

/*
bindLoopParams binds an element of a for loop to the loop parameters.
Several parameters always unpack the element.
*/
func (i *Interpreter) bindLoopParams(params []string, item value.Value, unpack bool, ls scope.Handle) error {

	if len(params) == 1 && !unpack {
		return i.arena.Define(ls, params[0], item)
	}

	items, err := i.types.Collect(item)

	if err != nil || len(items) != len(params) {
		return util.NewFailure(util.ErrNameError, "cannot bind %v to loop parameters %v",
			value.Repr(item), params)
	}

	for j, p := range params {
		if err := i.arena.Define(ls, p, items[j]); err != nil {
			return err
		}
	}

	return nil
}

/*
pushConstruct pushes a marker on the construct stack. The nesting of
constructs is limited by the maximum recursion depth.
*/
func (i *Interpreter) pushConstruct(marker string) error {

	if i.constructs.Len() >= i.MaxDepth {
		return util.NewFailure(util.ErrRecursionError, "maximum recursion depth exceeded (%v)",
			i.MaxDepth)
	}

	i.constructs.PushBack(marker)

	return nil
}

/*
evalReturn evaluates a return statement. Return is only allowed inside a
function call.
*/
func (i *Interpreter) evalReturn(n *parser.Return, sc scope.Handle) (value.Value, error) {

	if !i.inFunction(sc) {
		return nil, util.NewFailure(util.ErrSyntaxError, "'return' outside of a function")
	}

	var res value.Value = value.None

	if n.Expr != nil {
		var err error

		if res, err = i.eval(n.Expr, sc); err != nil {
			return nil, err
		}
	}

	return &returnSignal{res}, nil
}
