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
	"sort"
)

/*
Namespace maps attribute names to values.
*/
type Namespace struct {
	entries map[string]Value
}

/*
NewNamespace creates a new empty namespace.
*/
func NewNamespace() *Namespace {
	return &Namespace{make(map[string]Value)}
}

/*
Get returns the value of an attribute.
*/
func (ns *Namespace) Get(name string) (Value, bool) {
	v, ok := ns.entries[name]
	return v, ok
}

/*
Set sets the value of an attribute.
*/
func (ns *Namespace) Set(name string, v Value) {
	ns.entries[name] = v
}

/*
Names returns all attribute names in alphabetical order.
*/
func (ns *Namespace) Names() []string {
	var ret []string

	for k := range ns.entries {
		ret = append(ret, k)
	}

	sort.Strings(ret)

	return ret
}

/*
TypeObject is the value which represents a type. Calling a type object
creates a new value of the type.
*/
type TypeObject struct {
	Name        string     // Name of the type
	Namespace   *Namespace // Methods and other attributes of the type
	Constructor *Builtin   // Constructor of a built-in type (nil for user types)
}

/*
newTypeObject creates a new type object.
*/
func newTypeObject(name string, constructor *Builtin) *TypeObject {
	return &TypeObject{name, NewNamespace(), constructor}
}

/*
NewUserType creates a new user type. Instances of the type are created by
calling it.
*/
func NewUserType(name string) *TypeObject {
	return newTypeObject(name, nil)
}

func (t *TypeObject) TypeName() string { return "Type" }
func (t *TypeObject) String() string   { return fmt.Sprintf("<type %v>", t.Name) }
func (t *TypeObject) Truth() bool      { return true }

/*
IsUserType returns true if this type was created by a program.
*/
func (t *TypeObject) IsUserType() bool {
	return t.Constructor == nil
}

/*
Instance is an object of a user type. It holds its own attributes.
*/
type Instance struct {
	Type  *TypeObject
	Attrs *Namespace
}

/*
NewInstance creates a new instance of a given user type.
*/
func NewInstance(t *TypeObject) *Instance {
	return &Instance{t, NewNamespace()}
}

func (i *Instance) TypeName() string { return i.Type.Name }
func (i *Instance) String() string   { return fmt.Sprintf("<%v object>", i.Type.Name) }
func (i *Instance) Truth() bool      { return true }
