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
Package scope contains the variable scopes of Leaf.

Scopes are stored in an arena and referenced by handles. Each scope has a
name tag, a nesting level, its own bindings and an optional enclosing
scope. A lookup which misses locally continues in the enclosing scope.

A set of protected names can only be bound by the privileged initializer
of an interpreter.
*/
package scope

import (
	"fmt"
	"sort"

	"devt.de/krotik/leaf/util"
	"devt.de/krotik/leaf/value"
	"github.com/ahrtr/gocontainer/set"
	"github.com/krotik/common/stringutil"
)

/*
Handle references a scope in an arena.
*/
type Handle int

/*
NoScope is the handle of a missing scope.
*/
const NoScope Handle = -1

/*
Default scope tags
*/
const (
	TagGlobal       = "global"
	TagFunctionCall = "user function call"
	TagForLoop      = "for loop"
)

/*
record is a single scope in an arena.
*/
type record struct {
	tag       string                 // Name tag of the scope
	level     int                    // Nesting level (root is 0)
	enclosing Handle                 // Enclosing scope
	vars      map[string]value.Value // Bindings of the scope
}

/*
Arena holds a tree of scopes.
*/
type Arena struct {
	records   []*record     // All scopes (released scopes are nil)
	free      []Handle      // Released handles which can be reused
	protected set.Interface // Names which cannot be rebound by programs
}

/*
NewArena creates a new scope arena with a set of protected names.
*/
func NewArena(protected ...string) *Arena {
	ps := set.New()

	for _, name := range protected {
		ps.Add(name)
	}

	return &Arena{nil, nil, ps}
}

/*
Root creates a new root scope.
*/
func (a *Arena) Root(tag string) Handle {
	return a.alloc(&record{tag, 0, NoScope, make(map[string]value.Value)})
}

/*
Child creates a new scope whose enclosing scope is a given scope.
*/
func (a *Arena) Child(enclosing Handle, tag string) Handle {
	return a.alloc(&record{tag, a.get(enclosing).level + 1, enclosing,
		make(map[string]value.Value)})
}

/*
alloc stores a scope record in the arena.
*/
func (a *Arena) alloc(r *record) Handle {

	if l := len(a.free); l > 0 {
		h := a.free[l-1]
		a.free = a.free[:l-1]
		a.records[h] = r
		return h
	}

	a.records = append(a.records, r)

	return Handle(len(a.records) - 1)
}

/*
Release discards a scope. Its handle may be reused afterwards.
*/
func (a *Arena) Release(h Handle) {
	if a.records[h] != nil {
		a.records[h] = nil
		a.free = append(a.free, h)
	}
}

/*
Size returns the number of live scopes in this arena.
*/
func (a *Arena) Size() int {
	return len(a.records) - len(a.free)
}

/*
get returns the record of a live scope.
*/
func (a *Arena) get(h Handle) *record {
	if h < 0 || int(h) >= len(a.records) || a.records[h] == nil {
		panic(fmt.Sprintf("Invalid scope handle: %v", h))
	}

	return a.records[h]
}

/*
Lookup resolves a name through a scope and all its enclosing scopes.
*/
func (a *Arena) Lookup(h Handle, name string) (value.Value, error) {

	for s := h; s != NoScope; s = a.get(s).enclosing {
		if v, ok := a.get(s).vars[name]; ok {
			return v, nil
		}
	}

	if suggestion := a.closest(h, name); suggestion != "" {
		return nil, util.NewFailure(util.ErrNameError, "Unknown name '%v' (did you mean '%v'?)",
			name, suggestion)
	}

	return nil, util.NewFailure(util.ErrNameError, "Unknown name '%v'", name)
}

/*
closest returns a visible name which is similar to a given name or an
empty string.
*/
func (a *Arena) closest(h Handle, name string) string {
	best, bestDist := "", 3

	if len(name) < 3 {
		return ""
	}

	for _, candidate := range a.visibleNames(h) {
		if d := stringutil.LevenshteinDistance(name, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}

	return best
}

/*
visibleNames returns all names which can be resolved from a scope in
alphabetical order.
*/
func (a *Arena) visibleNames(h Handle) []string {
	var ret []string

	for name := range a.Visible(h) {
		ret = append(ret, name)
	}

	sort.Strings(ret)

	return ret
}

/*
Define binds a name in a scope. Protected names cannot be bound.
*/
func (a *Arena) Define(h Handle, name string, v value.Value) error {

	if a.protected.Contains(name) {
		return util.NewFailure(util.ErrTypeError, "Cannot assign to protected name '%v'", name)
	}

	a.DefinePrivileged(h, name, v)

	return nil
}

/*
DefinePrivileged binds a name in a scope without checking protected names.
*/
func (a *Arena) DefinePrivileged(h Handle, name string, v value.Value) {
	a.get(h).vars[name] = v
}

/*
IsProtected checks if a name is protected.
*/
func (a *Arena) IsProtected(name string) bool {
	return a.protected.Contains(name)
}

/*
EnclosingNames returns the tags of a scope and all its enclosing scopes
starting with the given scope.
*/
func (a *Arena) EnclosingNames(h Handle) []string {
	var ret []string

	for s := h; s != NoScope; s = a.get(s).enclosing {
		ret = append(ret, a.get(s).tag)
	}

	return ret
}

/*
Bindings returns a copy of the bindings of a single scope.
*/
func (a *Arena) Bindings(h Handle) map[string]value.Value {
	ret := make(map[string]value.Value)

	for k, v := range a.get(h).vars {
		ret[k] = v
	}

	return ret
}

/*
Visible returns all bindings which can be resolved from a scope. Inner
bindings shadow outer ones.
*/
func (a *Arena) Visible(h Handle) map[string]value.Value {
	ret := make(map[string]value.Value)

	for s := h; s != NoScope; s = a.get(s).enclosing {
		for k, v := range a.get(s).vars {
			if _, ok := ret[k]; !ok {
				ret[k] = v
			}
		}
	}

	return ret
}

/*
Enclosing returns the enclosing scope of a scope.
*/
func (a *Arena) Enclosing(h Handle) Handle {
	return a.get(h).enclosing
}

/*
Level returns the nesting level of a scope.
*/
func (a *Arena) Level(h Handle) int {
	return a.get(h).level
}

/*
Tag returns the name tag of a scope.
*/
func (a *Arena) Tag(h Handle) string {
	return a.get(h).tag
}

/*
String returns a string representation of a scope and its enclosing scopes.
*/
func (a *Arena) String(h Handle) string {
	var buf []byte

	for s := h; s != NoScope; s = a.get(s).enclosing {
		r := a.get(s)

		buf = append(buf, fmt.Sprintf("%v (%v) {\n", r.tag, r.level)...)

		names := make([]string, 0, len(r.vars))
		for k := range r.vars {
			names = append(names, k)
		}
		sort.Strings(names)

		for _, k := range names {
			buf = append(buf, fmt.Sprintf("    %v (%v) : %v\n", k, r.vars[k].TypeName(),
				value.Repr(r.vars[k]))...)
		}

		buf = append(buf, "}\n"...)
	}

	return string(buf)
}
