/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package interpreter contains the tree-walking evaluator of Leaf.

An Interpreter owns a scope arena with a root scope, a registry of the
built-in types and the state of the current evaluation. Bindings in the
root scope survive between calls to Interpret:

	i := interpreter.New("console")

	i.Interpret("x << 5")
	res, err := i.Interpret("x * 2")

An Interpreter must not be used by more than one goroutine at a time.
*/
package interpreter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"devt.de/krotik/leaf/config"
	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/scope"
	"devt.de/krotik/leaf/value"
	"github.com/edwingeng/deque"
	"github.com/krotik/ecal/util"
)

/*
InteractiveVar is the name of the global which indicates an interactive session.
*/
const InteractiveVar = "__interactive__"

/*
ProtectedNames are the global names which cannot be rebound by programs.
*/
var ProtectedNames = []string{"String", "Number", "List", "Boolean", "Type", InteractiveVar}

/*
Interpreter evaluates Leaf programs.
*/
type Interpreter struct {
	Name     string            // Name of the interpreter (used in error messages)
	Out      io.Writer         // Output of the show builtin
	Logger   util.Logger       // Logger for debug and error messages
	Echo     func(value.Value) // Receiver of statement results in interactive mode
	MaxDepth int               // Maximum nesting of calls and constructs

	types       *value.Types     // Built-in types of this interpreter
	funcs       []*value.Builtin // Built-in functions of this interpreter
	arena       *scope.Arena     // Scopes of this interpreter
	root        scope.Handle     // Root scope
	active      []scope.Handle   // Scopes of the blocks which are currently evaluated
	constructs  deque.Deque      // Active loop and function call markers
	depth       int              // Current call nesting
	interactive bool             // Flag if statement results should be echoed
	quietCall   bool             // Flag if the last completed call was quiet
}

/*
New creates a new interpreter with a fresh root scope.
*/
func New(name string) *Interpreter {
	i := &Interpreter{
		Name:     name,
		Out:      os.Stdout,
		Logger:   util.NewNullLogger(),
		MaxDepth: int(config.Int(config.MaxRecursionDepth)),
	}

	i.types = value.NewTypes(i)
	i.funcs = i.builtins()
	i.arena = scope.NewArena(ProtectedNames...)
	i.root = i.arena.Root(scope.TagGlobal)
	i.constructs = deque.NewDeque()

	i.initGlobals()

	return i
}

/*
initGlobals defines the builtins and the protected globals in the root scope.
*/
func (i *Interpreter) initGlobals() {
	for _, t := range i.types.Constructors() {
		i.arena.DefinePrivileged(i.root, t.Name, t)
	}

	for _, b := range i.funcs {
		i.arena.DefinePrivileged(i.root, b.Name, b)
	}

	i.arena.DefinePrivileged(i.root, InteractiveVar, value.Boolean(i.interactive))
}

/*
Interpret parses and evaluates a program in a fresh interpreter.
*/
func Interpret(name string, source string) (value.Value, error) {
	return New(name).Interpret(source)
}

/*
Types returns the built-in types of this interpreter.
*/
func (i *Interpreter) Types() *value.Types {
	return i.types
}

/*
SetInteractive sets the interactive mode. In interactive mode results of
expression statements are passed to the Echo function.
*/
func (i *Interpreter) SetInteractive(interactive bool) {
	i.interactive = interactive
	i.arena.DefinePrivileged(i.root, InteractiveVar, value.Boolean(interactive))
}

/*
Interpret parses and evaluates a program. It returns the value of the last
evaluated statement.
*/
func (i *Interpreter) Interpret(source string) (value.Value, error) {
	ast, err := parser.Parse(i.Name, source)

	if err == nil {
		var res value.Value

		if res, err = i.Run(ast); err == nil {
			return res, nil
		}
	}

	i.Logger.LogError(err)

	return nil, err
}

/*
Run evaluates a parsed program in the root scope.
*/
func (i *Interpreter) Run(ast *parser.StatementList) (value.Value, error) {

	// Reset the state of a previous evaluation which may have been aborted

	i.constructs = deque.NewDeque()
	i.active = nil
	i.depth = 0

	res, err := i.evalStatements(ast, i.root)

	if err != nil {
		return nil, err
	}

	switch res.(type) {
	case *returnSignal, *loopSignal:

		// Signals are checked when they are raised and cannot escape

		panic(fmt.Sprintf("Unexpected control signal at top level: %v", res))
	}

	return res, nil
}

/*
ReadVariable resolves a name in the root scope.
*/
func (i *Interpreter) ReadVariable(name string) (value.Value, error) {
	return i.arena.Lookup(i.root, name)
}

/*
Bindings returns a copy of all bindings of the root scope which were made
by programs.
*/
func (i *Interpreter) Bindings() map[string]value.Value {
	ret := i.arena.Bindings(i.root)

	for name, v := range ret {
		if i.isGlobal(name, v) {
			delete(ret, name)
		}
	}

	return ret
}

/*
Names returns the sorted names of all bindings of the root scope including
the predefined globals.
*/
func (i *Interpreter) Names() []string {
	var ret []string

	for name := range i.arena.Bindings(i.root) {
		ret = append(ret, name)
	}

	sort.Strings(ret)

	return ret
}

/*
Restore binds all given values in the root scope. Protected names are
skipped. Values are bound as they are: builtins and types which were taken
from another interpreter keep referring to that interpreter.
*/
func (i *Interpreter) Restore(bindings map[string]value.Value) {
	for name, v := range bindings {
		if !i.arena.IsProtected(name) {
			i.arena.DefinePrivileged(i.root, name, v)
		}
	}
}

/*
Reset removes all bindings which were made by programs.
*/
func (i *Interpreter) Reset() {
	i.arena.Release(i.root)
	i.root = i.arena.Root(scope.TagGlobal)
	i.initGlobals()
}

/*
isGlobal checks if a root binding is one of the predefined globals.
*/
func (i *Interpreter) isGlobal(name string, v value.Value) bool {
	if i.arena.IsProtected(name) {
		return true
	}

	for _, b := range i.funcs {
		if b.Name == name && b == v {
			return true
		}
	}

	for _, t := range i.types.Constructors() {
		if t.Name == name && t == v {
			return true
		}
	}

	return false
}
