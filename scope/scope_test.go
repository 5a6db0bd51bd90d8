/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package scope

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"devt.de/krotik/leaf/util"
	"devt.de/krotik/leaf/value"
	"github.com/krotik/common/errorutil"
)

func TestScopeChain(t *testing.T) {
	a := NewArena("List")

	root := a.Root(TagGlobal)
	a.DefinePrivileged(root, "List", value.NewNumber(0))
	errorutil.AssertOk(a.Define(root, "counter", value.NewNumber(1)))

	fn := a.Child(root, TagFunctionCall)
	loop := a.Child(fn, TagForLoop)

	errorutil.AssertOk(a.Define(fn, "x", value.String("a")))
	errorutil.AssertOk(a.Define(loop, "counter", value.NewNumber(2)))

	if res, err := a.Lookup(loop, "counter"); err != nil || res.String() != "2" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := a.Lookup(loop, "x"); err != nil || res.String() != "a" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := a.Lookup(root, "counter"); err != nil || res.String() != "1" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := a.Lookup(root, "x"); !errors.Is(err, util.ErrNameError) ||
		err.Error() != "NameError: Unknown name 'x'" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := a.Lookup(loop, "countr"); err == nil ||
		err.Error() != "NameError: Unknown name 'countr' (did you mean 'counter'?)" {
		t.Error("Unexpected result:", err)
		return
	}

	if res := fmt.Sprint(a.EnclosingNames(loop)); res != "[for loop user function call global]" {
		t.Error("Unexpected result:", res)
		return
	}

	if a.Level(loop) != 2 || a.Level(root) != 0 || a.Tag(fn) != TagFunctionCall ||
		a.Enclosing(loop) != fn || a.Enclosing(root) != NoScope {
		t.Error("Unexpected scope structure")
		return
	}

	if res := len(a.Bindings(loop)); res != 1 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := len(a.Visible(loop)); res != 3 {
		t.Error("Unexpected result:", res)
		return
	}

	if res := a.String(fn); res != `
user function call (1) {
    x (String) : 'a'
}
global (0) {
    List (Number) : 0
    counter (Number) : 1
}
`[1:] {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestProtectedNames(t *testing.T) {
	a := NewArena("List", "__interactive__")
	root := a.Root(TagGlobal)

	if err := a.Define(root, "List", value.None); !errors.Is(err, util.ErrTypeError) ||
		err.Error() != "TypeError: Cannot assign to protected name 'List'" {
		t.Error("Unexpected result:", err)
		return
	}

	a.DefinePrivileged(root, "__interactive__", value.Boolean(true))

	if res, err := a.Lookup(root, "__interactive__"); err != nil || res != value.Boolean(true) {
		t.Error("Unexpected result:", res, err)
		return
	}

	if !a.IsProtected("List") || a.IsProtected("list") {
		t.Error("Unexpected protected check")
		return
	}
}

func TestRelease(t *testing.T) {
	a := NewArena()
	root := a.Root(TagGlobal)

	c1 := a.Child(root, "c1")
	c2 := a.Child(root, "c2")

	if a.Size() != 3 {
		t.Error("Unexpected size:", a.Size())
		return
	}

	a.Release(c1)
	a.Release(c1)

	if a.Size() != 2 {
		t.Error("Unexpected size:", a.Size())
		return
	}

	// Released handles are reused

	c3 := a.Child(c2, "c3")

	if c3 != c1 || a.Tag(c3) != "c3" || a.Level(c3) != 2 || a.Size() != 3 {
		t.Error("Unexpected result:", c3, a.Tag(c3), a.Level(c3))
		return
	}

	a.Release(c3)

	defer func() {
		if r := recover(); r == nil || !strings.Contains(fmt.Sprint(r), "Invalid scope handle") {
			t.Error("Using a released scope should panic:", r)
		}
	}()

	a.Tag(c3)
}
