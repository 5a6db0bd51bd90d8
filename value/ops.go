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

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/util"
	"github.com/shopspring/decimal"
)

/*
DivisionPrecision is the number of decimal places of a true division.
*/
const DivisionPrecision = 28

/*
MaxRepeatLength is the maximum length of a repeated string or list.
*/
const MaxRepeatLength = 1 << 26

/*
Names of the attributes which override equality
*/
const (
	EqualOverride   = "__equal__"
	UnequalOverride = "__unequal__"
)

// Binary operations
// =================

/*
BinaryOp applies a binary operator to two values. The operator is given as
the name of its AST node.
*/
func (ts *Types) BinaryOp(op string, a, b Value) (Value, error) {

	switch op {

	case parser.NodeEQ:
		res, err := ts.Equal(a, b)
		return Boolean(res), err

	case parser.NodeNEQ:
		res, err := ts.Unequal(a, b)
		return Boolean(res), err

	case parser.NodeLT, parser.NodeGT, parser.NodeLEQ, parser.NodeGEQ:
		return ts.compare(op, a, b)

	case parser.NodePLUS:
		return ts.add(a, b)

	case parser.NodeTIMES:
		return ts.multiply(a, b)
	}

	ad, aok := numeric(a)
	bd, bok := numeric(b)

	if !aok || !bok {
		return nil, opError(op, a, b)
	}

	switch op {

	case parser.NodeMINUS:
		return Number{ad.Sub(bd)}, nil

	case parser.NodeDIV:
		if bd.IsZero() {
			return nil, util.NewFailure(util.ErrZeroDivisionError, "attempted division by zero")
		}
		return Number{ad.DivRound(bd, DivisionPrecision)}, nil

	case parser.NodeDIVINT:
		if bd.IsZero() {
			return nil, util.NewFailure(util.ErrZeroDivisionError, "attempted floor division by zero")
		}
		q, _ := ad.QuoRem(bd, 0)
		return Number{q}, nil

	case parser.NodeMOD:
		if bd.IsZero() {
			return nil, util.NewFailure(util.ErrZeroDivisionError, "attempted modulo by zero")
		}
		return Number{ad.Mod(bd)}, nil

	case parser.NodePOW:
		if bd.IsZero() {
			return NewNumber(1), nil
		} else if ad.IsZero() && bd.IsNegative() {
			return nil, util.NewFailure(util.ErrZeroDivisionError,
				"attempted raising zero to a negative power")
		}

		res, err := ad.PowWithPrecision(bd, DivisionPrecision)
		if err != nil {
			return nil, util.NewFailure(util.ErrTypeError,
				"Cannot raise %v to the power of %v: %v", ad, bd, err)
		}

		return Number{res}, nil
	}

	return nil, opError(op, a, b)
}

/*
add implements the + operator.
*/
func (ts *Types) add(a, b Value) (Value, error) {

	if ad, ok := numeric(a); ok {
		if bd, ok := numeric(b); ok {
			return Number{ad.Add(bd)}, nil
		}
	}

	switch a := a.(type) {

	case String:
		if b, ok := b.(String); ok {
			return a + b, nil
		}

	case *List:
		if b, ok := b.(*List); ok {
			items := make([]Value, 0, len(a.Items)+len(b.Items))
			return &List{append(append(items, a.Items...), b.Items...)}, nil
		}
	}

	return nil, opError(parser.NodePLUS, a, b)
}

/*
multiply implements the * operator. Strings and lists can be repeated by an
integral number.
*/
func (ts *Types) multiply(a, b Value) (Value, error) {

	ad, aok := numeric(a)
	bd, bok := numeric(b)

	if aok && bok {
		return Number{ad.Mul(bd)}, nil
	}

	seq, count := a, b
	if aok {
		seq, count = b, a
	}

	switch s := seq.(type) {

	case String:
		n, ok, err := repeatCount(count, len(s))
		if err != nil {
			return nil, err
		} else if ok {
			return String(strings.Repeat(string(s), n)), nil
		}

	case *List:
		n, ok, err := repeatCount(count, len(s.Items))
		if err != nil {
			return nil, err
		} else if ok {
			items := make([]Value, 0, len(s.Items)*n)
			for i := 0; i < n; i++ {
				items = append(items, s.Items...)
			}
			return &List{items}, nil
		}
	}

	return nil, opError(parser.NodeTIMES, a, b)
}

/*
repeatCount returns how often a sequence of the given size is repeated by a
value. Negative counts repeat zero times. Results longer than MaxRepeatLength
are an error.
*/
func repeatCount(v Value, size int) (int, bool, error) {
	d, ok := numeric(v)

	if !ok || !d.IsInteger() {
		return 0, false, nil
	}

	if d.IsNegative() || size == 0 {
		return 0, true, nil
	}

	if d.GreaterThan(decimal.NewFromInt(int64(MaxRepeatLength / size))) {
		return 0, true, util.NewFailure(util.ErrTypeError,
			"repetition result too long: %v * %v exceeds %v", size, d, MaxRepeatLength)
	}

	return int(d.IntPart()), true, nil
}

/*
compare implements the ordering operators which are defined on numbers only.
*/
func (ts *Types) compare(op string, a, b Value) (Value, error) {
	ad, aok := numeric(a)
	bd, bok := numeric(b)

	if !aok || !bok {
		return nil, opError(op, a, b)
	}

	c := ad.Cmp(bd)

	switch op {
	case parser.NodeLT:
		return Boolean(c < 0), nil
	case parser.NodeGT:
		return Boolean(c > 0), nil
	case parser.NodeLEQ:
		return Boolean(c <= 0), nil
	}

	return Boolean(c >= 0), nil
}

/*
opError returns the error for an unsupported operand combination.
*/
func opError(op string, a, b Value) error {
	return util.NewFailure(util.ErrTypeError, "Invalid operation: %v %v %v",
		a.TypeName(), parser.OperatorSymbol(op), b.TypeName())
}

// Unary operations
// ================

/*
UnaryOp applies a unary operator to a value.
*/
func (ts *Types) UnaryOp(op string, a Value) (Value, error) {
	d, ok := numeric(a)

	if !ok {
		return nil, util.NewFailure(util.ErrTypeError, "Invalid operation: %v%v",
			parser.OperatorSymbol(op), a.TypeName())
	}

	if op == parser.NodeMINUS {
		return Number{d.Neg()}, nil
	}

	return Number{d}, nil
}

// Equality
// ========

/*
Equal checks if two values are equal. An __equal__ attribute of either
operand overrides the structural comparison.
*/
func (ts *Types) Equal(a, b Value) (bool, error) {

	if res, ok, err := ts.override(EqualOverride, a, b); ok || err != nil {
		return res, err
	}

	return ts.equalValues(a, b, map[[2]*List]bool{})
}

/*
Unequal checks if two values are unequal. An __unequal__ attribute of
either operand overrides the comparison, otherwise the result is the
negation of Equal.
*/
func (ts *Types) Unequal(a, b Value) (bool, error) {

	if res, ok, err := ts.override(UnequalOverride, a, b); ok || err != nil {
		return res, err
	}

	res, err := ts.Equal(a, b)

	return !res, err
}

/*
override calls a comparison override of the left or the right operand.
*/
func (ts *Types) override(name string, a, b Value) (bool, bool, error) {

	for _, pair := range [][2]Value{{a, b}, {b, a}} {

		if fn := ts.special(pair[0], name); fn != nil {
			res, err := ts.caller.CallFunction(fn, []Value{pair[0], pair[1]})
			if err != nil {
				return false, true, err
			}

			return res.Truth(), true, nil
		}
	}

	return false, false, nil
}

/*
special looks up a callable special attribute of a value. Instance
attributes take precedence over the type namespace.
*/
func (ts *Types) special(v Value, name string) Value {

	if inst, ok := v.(*Instance); ok {
		if fn, ok := inst.Attrs.Get(name); ok && IsCallable(fn) {
			return fn
		}
	}

	if fn, ok := ts.Of(v).Namespace.Get(name); ok && IsCallable(fn) {
		return fn
	}

	return nil
}

/*
equalValues compares two values structurally. Values of different
categories are never equal.
*/
func (ts *Types) equalValues(a, b Value, seen map[[2]*List]bool) (bool, error) {

	if ad, ok := numeric(a); ok {
		bd, ok := numeric(b)
		return ok && ad.Equal(bd), nil
	}

	switch a := a.(type) {

	case String:
		bs, ok := b.(String)
		return ok && a == bs, nil

	case *NoneValue:
		_, ok := b.(*NoneValue)
		return ok, nil

	case *List:
		bl, ok := b.(*List)
		if !ok {
			return false, nil
		}
		return ts.equalLists(a, bl, seen)

	case *Indexed:
		bi, ok := b.(*Indexed)
		if !ok || a.Unpack != bi.Unpack || !a.Start.Equal(bi.Start) || !a.Increment.Equal(bi.Increment) {
			return false, nil
		}
		return ts.equalValues(a.Iterable, bi.Iterable, seen)

	case *Parallel:
		bp, ok := b.(*Parallel)
		if !ok || a.Short != bp.Short {
			return false, nil
		}
		if eq, err := ts.equalValues(a.Pad, bp.Pad, seen); !eq || err != nil {
			return false, err
		}
		return ts.equalLists(&List{a.Iterables}, &List{bp.Iterables}, seen)

	case *Chain:
		bc, ok := b.(*Chain)
		if !ok {
			return false, nil
		}
		return ts.equalLists(&List{a.Iterables}, &List{bc.Iterables}, seen)
	}

	return a == b, nil
}

/*
equalLists compares two lists element by element. Element comparison
honours equality overrides.
*/
func (ts *Types) equalLists(a, b *List, seen map[[2]*List]bool) (bool, error) {

	if a == b {
		return true, nil
	}

	if len(a.Items) != len(b.Items) {
		return false, nil
	}

	key := [2]*List{a, b}
	if seen[key] {
		return true, nil
	}

	seen[key] = true
	defer delete(seen, key)

	for i, av := range a.Items {
		bv := b.Items[i]

		eq, ok, err := ts.override(EqualOverride, av, bv)
		if err != nil {
			return false, err
		}

		if !ok {
			if eq, err = ts.equalValues(av, bv, seen); err != nil {
				return false, err
			}
		}

		if !eq {
			return false, nil
		}
	}

	return true, nil
}

/*
decimalOf returns the decimal value of a number or boolean or a TypeError.
*/
func decimalOf(v Value, what string) (decimal.Decimal, error) {
	d, ok := numeric(v)

	if !ok {
		return d, util.NewFailure(util.ErrTypeError, "%v must be a Number not %v",
			what, v.TypeName())
	}

	return d, nil
}
