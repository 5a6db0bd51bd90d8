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

// Iterator adapters
// =================

/*
Indexed pairs each element of an iterable with an index. If Unpack is set
the element is flattened into the pair.
*/
type Indexed struct {
	Iterable  Value
	Start     decimal.Decimal
	Increment decimal.Decimal
	Unpack    bool
}

func (x *Indexed) TypeName() string { return "Indexed" }
func (x *Indexed) String() string   { return "Indexed[" + Repr(x.Iterable) + "]" }
func (x *Indexed) Truth() bool      { return x.Iterable.Truth() }

/*
Parallel zips several iterables. Shorter iterables are padded with Pad
unless Short is set in which case iteration stops with the shortest one.
*/
type Parallel struct {
	Iterables []Value
	Pad       Value
	Short     bool
}

func (x *Parallel) TypeName() string { return "Parallel" }
func (x *Parallel) String() string   { return "Parallel[" + reprAll(x.Iterables) + "]" }
func (x *Parallel) Truth() bool      { return len(x.Iterables) > 0 }

/*
Chain concatenates several iterables.
*/
type Chain struct {
	Iterables []Value
}

func (x *Chain) TypeName() string { return "Chain" }
func (x *Chain) String() string   { return "Chain[" + reprAll(x.Iterables) + "]" }
func (x *Chain) Truth() bool      { return len(x.Iterables) > 0 }

// Iteration
// =========

/*
Iterator produces the elements of an iterable one by one. The second
return value is false once all elements have been produced.
*/
type Iterator func() (Value, bool, error)

/*
Iterate returns a new iterator over a value. Every call starts again from
the beginning of the underlying source.
*/
func (ts *Types) Iterate(v Value) (Iterator, error) {

	switch v := v.(type) {

	case Number:
		if v.Value.IsNegative() {
			return nil, util.NewFailure(util.ErrTypeError, "digits of a number must be numbers: %v", v)
		}

		digits := strings.Replace(v.Value.String(), ".", "", 1)

		return sliceIterator(len(digits), func(i int) Value {
			return NewNumber(int64(digits[i] - '0'))
		}), nil

	case String:
		chars := []rune(string(v))

		return sliceIterator(len(chars), func(i int) Value {
			return String(chars[i])
		}), nil

	case *List:

		// Lists are read live so changes during iteration are visible

		i := 0

		return func() (Value, bool, error) {
			if i >= len(v.Items) {
				return nil, false, nil
			}
			i++
			return v.Items[i-1], true, nil
		}, nil

	case *Indexed:
		return ts.iterateIndexed(v)

	case *Parallel:
		return ts.iterateParallel(v)

	case *Chain:
		return ts.iterateChain(v)
	}

	return nil, util.NewFailure(util.ErrTypeError, "%v is not iterable", v.TypeName())
}

/*
sliceIterator iterates over n elements which are produced by a given
function.
*/
func sliceIterator(n int, get func(int) Value) Iterator {
	i := 0

	return func() (Value, bool, error) {
		if i >= n {
			return nil, false, nil
		}
		i++
		return get(i - 1), true, nil
	}
}

/*
iterateIndexed produces [index, element] pairs.
*/
func (ts *Types) iterateIndexed(x *Indexed) (Iterator, error) {
	it, err := ts.Iterate(x.Iterable)
	if err != nil {
		return nil, err
	}

	index := x.Start

	return func() (Value, bool, error) {
		item, ok, err := it()
		if !ok || err != nil {
			return nil, false, err
		}

		entry := []Value{Number{index}}

		if x.Unpack {
			sub, err := ts.Collect(item)
			if err != nil {
				return nil, false, err
			}
			entry = append(entry, sub...)
		} else {
			entry = append(entry, item)
		}

		index = index.Add(x.Increment)

		return &List{entry}, true, nil
	}, nil
}

/*
iterateParallel produces lists which hold one element of each iterable.
*/
func (ts *Types) iterateParallel(x *Parallel) (Iterator, error) {
	its := make([]Iterator, len(x.Iterables))
	done := make([]bool, len(x.Iterables))

	for i, iterable := range x.Iterables {
		it, err := ts.Iterate(iterable)
		if err != nil {
			return nil, err
		}
		its[i] = it
	}

	return func() (Value, bool, error) {
		var row []Value
		live := false

		for i, it := range its {

			if !done[i] {
				item, ok, err := it()
				if err != nil {
					return nil, false, err
				}

				if ok {
					live = true
					row = append(row, item)
					continue
				}

				if x.Short {
					return nil, false, nil
				}

				done[i] = true
			}

			row = append(row, x.Pad)
		}

		if !live {
			return nil, false, nil
		}

		return &List{row}, true, nil
	}, nil
}

/*
iterateChain produces the elements of all iterables one after another.
*/
func (ts *Types) iterateChain(x *Chain) (Iterator, error) {

	for _, iterable := range x.Iterables {
		if _, err := ts.Iterate(iterable); err != nil {
			return nil, err
		}
	}

	var current Iterator
	next := 0

	var it Iterator
	it = func() (Value, bool, error) {

		for current == nil {
			if next >= len(x.Iterables) {
				return nil, false, nil
			}

			current, _ = ts.Iterate(x.Iterables[next])
			next++
		}

		item, ok, err := current()
		if err != nil {
			return nil, false, err
		}

		if !ok {
			current = nil
			return it()
		}

		return item, true, nil
	}

	return it, nil
}

/*
Collect returns all elements of an iterable.
*/
func (ts *Types) Collect(v Value) ([]Value, error) {
	it, err := ts.Iterate(v)
	if err != nil {
		return nil, err
	}

	var ret []Value

	for {
		item, ok, err := it()
		if err != nil {
			return nil, err
		} else if !ok {
			return ret, nil
		}

		ret = append(ret, item)
	}
}

/*
Len returns the number of elements of an iterable.
*/
func (ts *Types) Len(v Value) (int, error) {

	switch v := v.(type) {
	case String:
		return len([]rune(string(v))), nil
	case *List:
		return len(v.Items), nil
	}

	items, err := ts.Collect(v)

	return len(items), err
}
