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
Package value contains the runtime values of Leaf.

The set of value types is closed. Numbers, strings, booleans and none are
immutable. Lists and instances of user types are containers which are
shared by reference and can be changed in place. Indexed, Parallel and
Chain are lazy adapters over other iterables.

Operators, equality, iteration and attribute lookup are provided by a Types
registry. Each interpreter owns its own registry so changes to a type
namespace never leak between interpreters.
*/
package value

import (
	"strings"

	"github.com/shopspring/decimal"
)

/*
Value is a runtime value.
*/
type Value interface {

	/*
		TypeName returns the name of the type of this value.
	*/
	TypeName() string

	/*
		String returns the display string of this value.
	*/
	String() string

	/*
		Truth returns the truthiness of this value.
	*/
	Truth() bool
}

// Number
// ======

/*
Number is an arbitrary-precision decimal number.
*/
type Number struct {
	Value decimal.Decimal
}

/*
NewNumber creates a new number from an int.
*/
func NewNumber(i int64) Number {
	return Number{decimal.NewFromInt(i)}
}

func (n Number) TypeName() string { return "Number" }
func (n Number) String() string   { return n.Value.String() }
func (n Number) Truth() bool      { return !n.Value.IsZero() }

// String
// ======

/*
String is a text value.
*/
type String string

func (s String) TypeName() string { return "String" }
func (s String) String() string   { return string(s) }
func (s String) Truth() bool      { return s != "" }

// Boolean
// =======

/*
Boolean is a truth value. It behaves like the numbers 0 and 1 in arithmetic.
*/
type Boolean bool

func (b Boolean) TypeName() string { return "Boolean" }
func (b Boolean) Truth() bool      { return bool(b) }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

/*
AsNumber returns the number which represents this boolean.
*/
func (b Boolean) AsNumber() Number {
	if b {
		return NewNumber(1)
	}
	return NewNumber(0)
}

// None
// ====

/*
NoneValue is the type of none.
*/
type NoneValue struct {
}

/*
None is the none value.
*/
var None = &NoneValue{}

func (n *NoneValue) TypeName() string { return "None" }
func (n *NoneValue) String() string   { return "none" }
func (n *NoneValue) Truth() bool      { return false }

// List
// ====

/*
List is an ordered mutable sequence of values.
*/
type List struct {
	Items []Value
}

/*
NewList creates a new list which holds a copy of the given items.
*/
func NewList(items ...Value) *List {
	return &List{append([]Value{}, items...)}
}

func (l *List) TypeName() string { return "List" }
func (l *List) Truth() bool      { return len(l.Items) > 0 }
func (l *List) String() string {
	return l.display(map[*List]bool{})
}

/*
display returns the display string of this list. Lists which contain
themselves are shown as [...].
*/
func (l *List) display(seen map[*List]bool) string {
	if seen[l] {
		return "[...]"
	}

	seen[l] = true
	defer delete(seen, l)

	var items []string

	for _, v := range l.Items {
		if sub, ok := v.(*List); ok {
			items = append(items, sub.display(seen))
		} else {
			items = append(items, Repr(v))
		}
	}

	return "[" + strings.Join(items, ", ") + "]"
}

// Helper functions
// ================

/*
Repr returns the representation of a value inside a container. Strings are
quoted, everything else uses its display string.
*/
func Repr(v Value) string {
	if s, ok := v.(String); ok {
		return "'" + string(s) + "'"
	}

	return v.String()
}

/*
reprAll returns the comma separated representations of a list of values.
*/
func reprAll(vals []Value) string {
	var ret []string

	for _, v := range vals {
		ret = append(ret, Repr(v))
	}

	return strings.Join(ret, ", ")
}

/*
numeric returns the decimal of a number or boolean value.
*/
func numeric(v Value) (decimal.Decimal, bool) {

	switch v := v.(type) {

	case Number:
		return v.Value, true

	case Boolean:
		return v.AsNumber().Value, true
	}

	return decimal.Decimal{}, false
}
