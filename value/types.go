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
	"strings"

	"devt.de/krotik/leaf/util"
	"github.com/shopspring/decimal"
)

/*
Caller calls function values. It is used to run equality overrides which
may be user-defined functions.
*/
type Caller interface {

	/*
		CallFunction calls a function value with positional arguments.
	*/
	CallFunction(fn Value, args []Value) (Value, error)
}

/*
Types is the registry of all built-in types.
*/
type Types struct {
	caller Caller

	StringType   *TypeObject
	NumberType   *TypeObject
	BooleanType  *TypeObject
	ListType     *TypeObject
	NoneType     *TypeObject
	IndexedType  *TypeObject
	ParallelType *TypeObject
	ChainType    *TypeObject
	FunctionType *TypeObject
	MethodType   *TypeObject
	TypeType     *TypeObject
}

/*
NewSignature creates a new signature with positional parameters and an
optional arbitrary argument list.
*/
func NewSignature(variadic string, params ...string) *Signature {
	return &Signature{params, variadic, nil, make(map[string]Value), nil}
}

/*
WithModifier adds a modifier with a default value to this signature.
*/
func (s *Signature) WithModifier(name string, def Value) *Signature {
	s.Modifiers = append(s.Modifiers, name)
	s.Defaults[name] = def
	return s
}

/*
WithFlags adds flags to this signature.
*/
func (s *Signature) WithFlags(names ...string) *Signature {
	s.Flags = append(s.Flags, names...)
	return s
}

/*
NewTypes creates a new type registry.
*/
func NewTypes(caller Caller) *Types {
	ts := &Types{caller: caller}

	ts.StringType = newTypeObject("String", &Builtin{"String", NewSignature("", "value"), false,
		func(b *Binding) (Value, error) {
			return String(b.Params["value"].String()), nil
		}})

	ts.NumberType = newTypeObject("Number", &Builtin{"Number", NewSignature("", "value"), false,
		func(b *Binding) (Value, error) {
			return toNumber(b.Params["value"])
		}})

	ts.BooleanType = newTypeObject("Boolean", &Builtin{"Boolean", NewSignature("", "value"), false,
		func(b *Binding) (Value, error) {
			return Boolean(b.Params["value"].Truth()), nil
		}})

	ts.ListType = newTypeObject("List", &Builtin{"List", NewSignature("values"), false,
		func(b *Binding) (Value, error) {
			return b.Params["values"], nil
		}})

	ts.TypeType = newTypeObject("Type", &Builtin{"Type", NewSignature("", "name"), false,
		func(b *Binding) (Value, error) {
			return NewUserType(b.Params["name"].String()), nil
		}})

	ts.IndexedType = newTypeObject("Indexed", &Builtin{"Indexed",
		NewSignature("", "iterable").
			WithModifier("start", NewNumber(0)).
			WithModifier("increment", NewNumber(1)).
			WithFlags("unpack"), false, ts.newIndexed})

	ts.ParallelType = newTypeObject("Parallel", &Builtin{"Parallel",
		NewSignature("iterables", "iterable").
			WithModifier("pad", None).
			WithFlags("short"), false, ts.newParallel})

	ts.ChainType = newTypeObject("Chain", &Builtin{"Chain",
		NewSignature("iterables", "iterable"), false, ts.newChain})

	ts.NoneType = NewUserType("None")
	ts.FunctionType = NewUserType("Function")
	ts.MethodType = NewUserType("Method")

	ts.addListMethods()
	ts.addNumberMethods()
	ts.addStringMethods()

	return ts
}

/*
Constructors returns all type objects which can be called to create values.
*/
func (ts *Types) Constructors() []*TypeObject {
	return []*TypeObject{ts.StringType, ts.NumberType, ts.BooleanType, ts.ListType,
		ts.TypeType, ts.IndexedType, ts.ParallelType, ts.ChainType}
}

/*
Of returns the type object of a value.
*/
func (ts *Types) Of(v Value) *TypeObject {

	switch v := v.(type) {
	case Number:
		return ts.NumberType
	case String:
		return ts.StringType
	case Boolean:
		return ts.BooleanType
	case *List:
		return ts.ListType
	case *Indexed:
		return ts.IndexedType
	case *Parallel:
		return ts.ParallelType
	case *Chain:
		return ts.ChainType
	case *Builtin, *UserFunction:
		return ts.FunctionType
	case *Method, *BoundMethod:
		return ts.MethodType
	case *TypeObject:
		return ts.TypeType
	case *Instance:
		return v.Type
	}

	return ts.NoneType
}

// Attributes
// ==========

/*
Attribute looks up an attribute of a value. Instances are searched before
their type. Functions which are found in the namespace of the type of a
value are bound to the value.
*/
func (ts *Types) Attribute(v Value, name string) (Value, error) {

	switch v := v.(type) {

	case *TypeObject:
		if attr, ok := v.Namespace.Get(name); ok {
			return attr, nil
		}

	case *Instance:
		if attr, ok := v.Attrs.Get(name); ok {
			return attr, nil
		}
	}

	if _, ok := v.(*TypeObject); !ok {
		if attr, ok := ts.Of(v).Namespace.Get(name); ok {
			if IsCallable(attr) {
				if _, isType := attr.(*TypeObject); !isType {
					return &BoundMethod{attr, v}, nil
				}
			}
			return attr, nil
		}
	}

	return nil, util.NewFailure(util.ErrNameError, "Could not find attribute '%v' of %v",
		name, v.TypeName())
}

/*
SetAttribute sets an attribute of an instance or a type.
*/
func (ts *Types) SetAttribute(v Value, name string, attr Value) error {

	switch v := v.(type) {

	case *TypeObject:
		v.Namespace.Set(name, attr)
		return nil

	case *Instance:
		v.Attrs.Set(name, attr)
		return nil
	}

	return util.NewFailure(util.ErrTypeError, "Cannot set attribute '%v' of %v",
		name, v.TypeName())
}

// Constructors
// ============

/*
toNumber converts a value to a number. Strings must consist of digits with
at most one decimal point.
*/
func toNumber(v Value) (Value, error) {

	switch v := v.(type) {

	case Number:
		return v, nil

	case Boolean:
		return v.AsNumber(), nil

	case String:
		s := string(v)
		digits := 0

		for _, c := range s {
			if c >= '0' && c <= '9' {
				digits++
			} else if c != '.' {
				digits = -1
				break
			}
		}

		if digits > 0 && strings.Count(s, ".") <= 1 {
			if d, err := decimal.NewFromString(s); err == nil {
				return Number{d}, nil
			}
		}
	}

	return nil, util.NewFailure(util.ErrTypeError, "invalid value to convert to Number: %v", Repr(v))
}

/*
newIndexed creates a new Indexed adapter.
*/
func (ts *Types) newIndexed(b *Binding) (Value, error) {
	iterable := b.Params["iterable"]

	if _, err := ts.Iterate(iterable); err != nil {
		return nil, err
	}

	start, err := decimalOf(b.Modifiers["start"], "start")
	if err != nil {
		return nil, err
	}

	inc, err := decimalOf(b.Modifiers["increment"], "increment")
	if err != nil {
		return nil, err
	}

	return &Indexed{iterable, start, inc, b.Flags["unpack"]}, nil
}

/*
newParallel creates a new Parallel adapter.
*/
func (ts *Types) newParallel(b *Binding) (Value, error) {
	iterables, err := ts.iterables(b)
	if err != nil {
		return nil, err
	}

	return &Parallel{iterables, b.Modifiers["pad"], b.Flags["short"]}, nil
}

/*
newChain creates a new Chain adapter.
*/
func (ts *Types) newChain(b *Binding) (Value, error) {
	iterables, err := ts.iterables(b)
	if err != nil {
		return nil, err
	}

	return &Chain{iterables}, nil
}

/*
iterables returns the iterables of a Parallel or Chain constructor call.
*/
func (ts *Types) iterables(b *Binding) ([]Value, error) {
	ret := append([]Value{b.Params["iterable"]}, b.Params["iterables"].(*List).Items...)

	for _, iterable := range ret {
		if _, err := ts.Iterate(iterable); err != nil {
			return nil, err
		}
	}

	return ret, nil
}

// Methods
// =======

/*
addMethod adds a method to a built-in type. The receiver is checked before
the method implementation is called.
*/
func (ts *Types) addMethod(t *TypeObject, name string, sig *Signature, fn NativeFunc) {
	sig.Params = append([]string{"instance"}, sig.Params...)

	t.Namespace.Set(name, &Method{name, t.Name, sig, func(b *Binding) (Value, error) {

		if ts.Of(b.Params["instance"]) != t {
			return nil, util.NewFailure(util.ErrTypeError, "method %v of %v type needs a %v not %v",
				name, t.Name, t.Name, b.Params["instance"].TypeName())
		}

		return fn(b)
	}})
}

/*
addListMethods adds the methods of the List type. Mutating methods work
in place unless the copy flag is given.
*/
func (ts *Types) addListMethods() {

	target := func(b *Binding) *List {
		l := b.Params["instance"].(*List)
		if b.Flags["copy"] {
			l = NewList(l.Items...)
		}
		return l
	}

	ts.addMethod(ts.ListType, "add", NewSignature("", "value").WithFlags("copy"),
		func(b *Binding) (Value, error) {
			l := target(b)
			l.Items = append(l.Items, b.Params["value"])
			return l, nil
		})

	ts.addMethod(ts.ListType, "remove", NewSignature("", "index").WithFlags("copy"),
		func(b *Binding) (Value, error) {
			l := target(b)

			d, err := decimalOf(b.Params["index"], "index")
			if err != nil {
				return nil, err
			}

			size := decimal.NewFromInt(int64(len(l.Items)))

			if !d.IsInteger() || d.GreaterThanOrEqual(size) || d.LessThan(size.Neg()) {
				return nil, util.NewFailure(util.ErrTypeError, "list index out of range: %v", d)
			}

			i := int(d.IntPart())
			if i < 0 {
				i += len(l.Items)
			}

			l.Items = append(l.Items[:i:i], l.Items[i+1:]...)

			return l, nil
		})

	ts.addMethod(ts.ListType, "length", NewSignature(""),
		func(b *Binding) (Value, error) {
			return NewNumber(int64(len(b.Params["instance"].(*List).Items))), nil
		})
}

/*
addNumberMethods adds the methods of the Number type.
*/
func (ts *Types) addNumberMethods() {
	ts.addMethod(ts.NumberType, "integer", NewSignature(""),
		func(b *Binding) (Value, error) {
			return Number{b.Params["instance"].(Number).Value.Truncate(0)}, nil
		})
}

/*
addStringMethods adds the methods of the String type.
*/
func (ts *Types) addStringMethods() {
	receiver := func(b *Binding) string {
		return string(b.Params["instance"].(String))
	}

	ts.addMethod(ts.StringType, "uppercase", NewSignature(""),
		func(b *Binding) (Value, error) {
			return String(strings.ToUpper(receiver(b))), nil
		})

	ts.addMethod(ts.StringType, "lowercase", NewSignature(""),
		func(b *Binding) (Value, error) {
			return String(strings.ToLower(receiver(b))), nil
		})

	ts.addMethod(ts.StringType, "length", NewSignature(""),
		func(b *Binding) (Value, error) {
			return NewNumber(int64(len([]rune(receiver(b))))), nil
		})

	ts.addMethod(ts.StringType, "join", NewSignature("values"),
		func(b *Binding) (Value, error) {
			var parts []string

			for _, v := range b.Params["values"].(*List).Items {
				parts = append(parts, v.String())
			}

			return String(strings.Join(parts, receiver(b))), nil
		})
}
