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

/*
evalFunctionDefinition creates a user function and binds it to its name.
Modifier defaults are evaluated when the function is defined.
*/
func (i *Interpreter) evalFunctionDefinition(n *parser.FunctionDefinition, sc scope.Handle) error {
	sig := value.NewSignature(n.Variadic, n.Params...)

	for _, m := range n.Modifiers {
		def, err := i.eval(m.Value, sc)
		if err != nil {
			return err
		}

		sig.WithModifier(m.Name, def)
	}

	for _, f := range n.Flags {
		sig.WithFlags(f.Name)
	}

	return i.arena.Define(sc, n.Name, &value.UserFunction{Name: n.Name, Sig: sig, Body: n.Body})
}

/*
evalCall evaluates a function call.
*/
func (i *Interpreter) evalCall(n *parser.FunctionCall, sc scope.Handle) (value.Value, error) {
	callee, err := i.eval(n.Callee, sc)
	if err != nil {
		return nil, err
	}

	args, err := i.evalArgs(n.Args, sc)
	if err != nil {
		return nil, err
	}

	var mods []value.NamedValue
	var flags []string

	for _, m := range n.Modifiers {
		v, err := i.eval(m.Value, sc)
		if err != nil {
			return nil, err
		}

		mods = append(mods, value.NamedValue{Name: m.Name, Value: v})
	}

	for _, f := range n.Flags {
		flags = append(flags, f.Name)
	}

	res, err := i.call(callee, args, mods, flags, sc)

	b, isBuiltin := callee.(*value.Builtin)
	i.quietCall = isBuiltin && b.Quiet

	return res, err
}

/*
CallFunction calls a function value with positional arguments. The call
is made from the innermost scope which is currently evaluated.
*/
func (i *Interpreter) CallFunction(fn value.Value, args []value.Value) (value.Value, error) {
	sc := i.root

	if l := len(i.active); l > 0 {
		sc = i.active[l-1]
	}

	return i.call(fn, args, nil, nil, sc)
}

/*
call binds arguments to a function value and runs it.
*/
func (i *Interpreter) call(fn value.Value, args []value.Value, mods []value.NamedValue,
	flags []string, sc scope.Handle) (value.Value, error) {

	switch f := fn.(type) {

	case *value.Builtin:
		b, err := f.Sig.Bind(args, mods, flags)
		if err != nil {
			return nil, err
		}
		return f.Fn(b)

	case *value.Method:
		b, err := f.Sig.Bind(args, mods, flags)
		if err != nil {
			return nil, err
		}
		return f.Fn(b)

	case *value.BoundMethod:
		return i.call(f.Func, append([]value.Value{f.Receiver}, args...), mods, flags, sc)

	case *value.UserFunction:
		return i.callUserFunction(f, args, mods, flags, sc)

	case *value.TypeObject:
		if !f.IsUserType() {
			return i.call(f.Constructor, args, mods, flags, sc)
		}

		if len(args) > 0 {
			return nil, util.NewFailure(util.ErrTypeError, "unexpected argument %v", value.Repr(args[0]))
		} else if len(mods) > 0 {
			return nil, util.NewFailure(util.ErrSyntaxError, "unexpected modifier %v", mods[0].Name)
		} else if len(flags) > 0 {
			return nil, util.NewFailure(util.ErrSyntaxError, "unexpected flag %v", flags[0])
		}

		return value.NewInstance(f), nil
	}

	return nil, util.NewFailure(util.ErrTypeError, "%v is not callable", value.Repr(fn))
}

/*
callUserFunction runs the body of a user function in a new scope. The
enclosing scope of the new scope is the scope of the caller.
*/
func (i *Interpreter) callUserFunction(f *value.UserFunction, args []value.Value,
	mods []value.NamedValue, flags []string, sc scope.Handle) (value.Value, error) {

	if i.depth >= i.MaxDepth {
		return nil, util.NewFailure(util.ErrRecursionError, "maximum recursion depth exceeded (%v)",
			i.MaxDepth)
	}

	b, err := f.Sig.Bind(args, mods, flags)
	if err != nil {
		return nil, err
	}

	fs := i.arena.Child(sc, scope.TagFunctionCall)
	defer i.arena.Release(fs)

	for name, v := range b.Params {
		if err := i.arena.Define(fs, name, v); err != nil {
			return nil, err
		}
	}

	for name, v := range b.Modifiers {
		if err := i.arena.Define(fs, name, v); err != nil {
			return nil, err
		}
	}

	for name, v := range b.Flags {
		if err := i.arena.Define(fs, name, value.Boolean(v)); err != nil {
			return nil, err
		}
	}

	if err := i.pushConstruct(functionMarker); err != nil {
		return nil, err
	}

	i.depth++

	defer func() {
		i.depth--
		i.constructs.PopBack()
	}()

	i.Logger.LogDebug(fmt.Sprintf("%v: calling %v (depth %v)", i.Name, f.Name, i.depth))

	res, err := i.evalStatements(f.Body, fs)
	if err != nil {
		return nil, err
	}

	if ret, ok := res.(*returnSignal); ok {
		return ret.value, nil
	}

	return value.None, nil
}
