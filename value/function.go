/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package value

import (
	"fmt"

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/util"
)

/*
Signature describes the parameters of a function.
*/
type Signature struct {
	Params    []string         // Names of the positional parameters
	Variadic  string           // Name of the arbitrary argument list (may be empty)
	Modifiers []string         // Names of the modifiers in declaration order
	Defaults  map[string]Value // Default values of the modifiers
	Flags     []string         // Names of the flags
}

/*
NamedValue is a modifier value given at a call site.
*/
type NamedValue struct {
	Name  string
	Value Value
}

/*
Binding is the result of binding call arguments to a signature.
*/
type Binding struct {
	Params    map[string]Value // Positional parameters and the arbitrary argument list
	Modifiers map[string]Value // Modifier values
	Flags     map[string]bool  // Flag values
}

/*
Bind binds call arguments to this signature. Positional arguments fill the
parameters from left to right and any remaining ones go into the arbitrary
argument list. Modifiers given at the call site override the declared
defaults. A modifier whose value is a Boolean sets a flag of the same name
if no modifier of that name is declared.
*/
func (s *Signature) Bind(args []Value, mods []NamedValue, flags []string) (*Binding, error) {
	b := &Binding{
		make(map[string]Value),
		make(map[string]Value),
		make(map[string]bool),
	}

	for i, name := range s.Params {
		if i >= len(args) {
			return nil, util.NewFailure(util.ErrTypeError, "expected argument %v", name)
		}

		b.Params[name] = args[i]
	}

	if rest := args[minInt(len(s.Params), len(args)):]; s.Variadic != "" {
		b.Params[s.Variadic] = NewList(rest...)
	} else if len(rest) > 0 {
		return nil, util.NewFailure(util.ErrTypeError, "unexpected argument %v", Repr(rest[0]))
	}

	for _, name := range s.Modifiers {
		b.Modifiers[name] = s.Defaults[name]
	}

	for _, name := range s.Flags {
		b.Flags[name] = false
	}

	for _, m := range mods {

		if _, ok := b.Modifiers[m.Name]; ok {
			b.Modifiers[m.Name] = m.Value
			continue
		}

		boolVal, isBool := m.Value.(Boolean)

		if !isBool {
			return nil, util.NewFailure(util.ErrSyntaxError, "unexpected modifier %v", m.Name)
		}

		if _, ok := b.Flags[m.Name]; !ok {
			return nil, util.NewFailure(util.ErrSyntaxError, "unexpected flag %v", m.Name)
		}

		b.Flags[m.Name] = bool(boolVal)
	}

	for _, name := range flags {
		if _, ok := b.Flags[name]; !ok {
			return nil, util.NewFailure(util.ErrSyntaxError, "unexpected flag %v", name)
		}

		b.Flags[name] = true
	}

	return b, nil
}

/*
minInt returns the smaller of two ints.
*/
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Function values
// ===============

/*
NativeFunc is the implementation of a built-in function or method.
*/
type NativeFunc func(b *Binding) (Value, error)

/*
Builtin is a built-in function.
*/
type Builtin struct {
	Name  string
	Sig   *Signature
	Quiet bool // Results of this function are never echoed in interactive mode
	Fn    NativeFunc
}

func (f *Builtin) TypeName() string { return "Function" }
func (f *Builtin) String() string   { return fmt.Sprintf("<built-in function %v>", f.Name) }
func (f *Builtin) Truth() bool      { return true }

/*
Method is a function which is stored in the namespace of a type. The first
parameter of a method is the instance it operates on.
*/
type Method struct {
	Name  string
	Owner string // Name of the type which owns this method
	Sig   *Signature
	Fn    NativeFunc
}

func (m *Method) TypeName() string { return "Method" }
func (m *Method) String() string   { return fmt.Sprintf("<method %v of %v type>", m.Name, m.Owner) }
func (m *Method) Truth() bool      { return true }

/*
BoundMethod is a function together with the receiver which is passed as
its first argument.
*/
type BoundMethod struct {
	Func     Value // A Method, Builtin or UserFunction
	Receiver Value
}

func (m *BoundMethod) TypeName() string { return "Method" }
func (m *BoundMethod) Truth() bool      { return true }
func (m *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %v of %v>", FunctionName(m.Func), Repr(m.Receiver))
}

/*
UserFunction is a function which was defined in a program. The body is
evaluated in a scope whose enclosing scope is the scope of the caller.
*/
type UserFunction struct {
	Name string
	Sig  *Signature
	Body *parser.StatementList
}

func (f *UserFunction) TypeName() string { return "Function" }
func (f *UserFunction) String() string   { return fmt.Sprintf("<user-defined function %v>", f.Name) }
func (f *UserFunction) Truth() bool      { return true }

/*
FunctionName returns the name of a function value.
*/
func FunctionName(v Value) string {

	switch f := v.(type) {

	case *Builtin:
		return f.Name

	case *Method:
		return f.Name

	case *UserFunction:
		return f.Name

	case *BoundMethod:
		return FunctionName(f.Func)
	}

	return v.String()
}

/*
IsCallable checks if a value can be called.
*/
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Builtin, *Method, *BoundMethod, *UserFunction, *TypeObject:
		return true
	}
	return false
}
