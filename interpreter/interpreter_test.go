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
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/util"
	"devt.de/krotik/leaf/value"
	"github.com/krotik/common/errorutil"
	ecalutil "github.com/krotik/ecal/util"
)

/*
newTestInterpreter creates an interpreter which writes into a buffer.
*/
func newTestInterpreter() (*Interpreter, *bytes.Buffer) {
	var buf bytes.Buffer

	i := New("test")
	i.Out = &buf

	return i, &buf
}

/*
runProgram runs a program and only returns the error.
*/
func runProgram(i *Interpreter, source string) error {
	_, err := i.Interpret(source)
	return err
}

/*
readVar reads a variable and returns its representation.
*/
func readVar(i *Interpreter, name string) string {
	v, err := i.ReadVariable(name)
	if err != nil {
		return err.Error()
	}
	return value.Repr(v)
}

func TestLiterals(t *testing.T) {

	tests := map[string]string{
		`5.5`:                  "5.5",
		`'hi'`:                 "'hi'",
		`true`:                 "true",
		`false`:                "false",
		`none`:                 "none",
		`[1, 'a', [none], []]`: "[1, 'a', [none], []]",
		`[1, :'ab', :[2]]`:     "[1, 'a', 'b', 2]",
		`-(2 + 3)`:             "-5",
	}

	for input, expected := range tests {
		res, err := Interpret("test", input)

		if err != nil || value.Repr(res) != expected {
			t.Error("Unexpected result for", input, ":", res, err, "expected:", expected)
			return
		}
	}

	res, err := Interpret("test", `5.5`)

	if n, ok := res.(value.Number); err != nil || !ok || n.Value.String() != "5.5" {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestArithmetic(t *testing.T) {

	res, err := Interpret("test", `0.1 + 0.2`)

	if err != nil || res.String() != "0.3" {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = Interpret("test", `2 ** 3 ** 2 - 10 // 3 * 2`)

	if err != nil || res.String() != "506" {
		t.Error("Unexpected result:", res, err)
		return
	}

	_, err = Interpret("test", `5 + 'x'`)

	if !errors.Is(err, util.ErrTypeError) || !strings.Contains(err.Error(), "Number") ||
		!strings.Contains(err.Error(), "String") {
		t.Error("Unexpected result:", err)
		return
	}

	var re *RuntimeError

	if !errors.As(err, &re) || re.Line != 1 || re.Detail != "Invalid operation: Number + String" {
		t.Error("Unexpected result:", err)
		return
	}

	for _, input := range []string{`5 / 0`, `5 // 0`, `5 % 0`, `0 ** -1`} {
		if _, err = Interpret("test", input); !errors.Is(err, util.ErrZeroDivisionError) {
			t.Error("Unexpected result for", input, ":", err)
			return
		}
	}
}

func TestScoping(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
for (x) in ([1, 2, 3]), loop
| last << x * 10
endloop
function (f) << (), do
| inner << 1
endfunction
f[]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "last"); res != "30" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := readVar(i, "x"); res != "3" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := i.ReadVariable("inner"); !errors.Is(err, util.ErrNameError) {
		t.Error("Unexpected result:", err)
		return
	}

	// Functions see the scope of their caller

	_, err = i.Interpret(`
function (g) << (), do
| return (y)
endfunction
function (h) << (), do
| y << 5
| return (g[])
endfunction
r << h[]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "r"); res != "5" {
		t.Error("Unexpected result:", res)
		return
	}

	// Protected names

	if _, err := i.Interpret(`List << 1`); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`__interactive__ << true`); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestBlockNesting(t *testing.T) {
	i, buf := newTestInterpreter()

	_, err := i.Interpret(`
i << 0
while (i < 3), loop
| if (i > 0), then
| | if (i = 2), then
| | | show['two']
| | else
| | | show['one']
| | endif
| else
| | show['zero']
| endif
| i << i + 1
endloop
`)
	errorutil.AssertOk(err)

	if res := buf.String(); res != "zero\none\ntwo\n" {
		t.Error("Unexpected result:", res)
		return
	}

	_, err = i.Interpret(`
while (i < 3), loop
| if (i > 0), then
| show['x']
| endif
endloop
`)

	if !errors.Is(err, util.ErrSyntaxError) || !strings.Contains(err.Error(), "Expected block depth 2") {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = i.Interpret(`
while (i < 3), loop
|| i << i + 1
endloop
`)

	if !errors.Is(err, util.ErrSyntaxError) || !strings.Contains(err.Error(), "found 2 pipes") {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestFunctionArity(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
function (f) << (a, b), do
| return (a + b)
endfunction
`)
	errorutil.AssertOk(err)

	if res, err := i.Interpret(`f[1, 2]`); err != nil || res.String() != "3" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := i.Interpret(`f[1]`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "expected argument b") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`f[1, 2, 3]`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "unexpected argument 3") {
		t.Error("Unexpected result:", err)
		return
	}

	// Unpacking at the call site

	if res, err := i.Interpret(`f[:[1, 2]]`); err != nil || res.String() != "3" {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestFunctionModifiers(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
function (f) << (a, :rest, ~sep << '-', ~loud), do
| res << a + sep + join[:rest, ~sep << sep]
| if (loud), then
| | return (res + '!')
| endif
| return res
endfunction
r1 << f['x', 'y', 'z']
r2 << f['x', ~sep << '+', ~loud]
r3 << f['x', 'y', ~loud << true]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "r1"); res != "'x-y-z'" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := readVar(i, "r2"); res != "'x+!'" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := readVar(i, "r3"); res != "'x-y!'" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := i.Interpret(`f['x', ~foo << 1]`); !errors.Is(err, util.ErrSyntaxError) ||
		!strings.Contains(err.Error(), "unexpected modifier foo") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`f['x', ~foo]`); !errors.Is(err, util.ErrSyntaxError) ||
		!strings.Contains(err.Error(), "unexpected flag foo") {
		t.Error("Unexpected result:", err)
		return
	}

	// A function without return gives none

	_, err = i.Interpret(`
function (g) << (), do
| 1
endfunction
r4 << g[]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "r4"); res != "none" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestMultipleAssign(t *testing.T) {
	i, _ := newTestInterpreter()

	errorutil.AssertOk(runProgram(i, `a, :b << 1, 2, 3, 4`))

	if res := readVar(i, "a") + " " + readVar(i, "b"); res != "1 [2, 3, 4]" {
		t.Error("Unexpected result:", res)
		return
	}

	errorutil.AssertOk(runProgram(i, `:c, d, :e << :[1, 2, 3], 4, 5, 6`))

	if res := readVar(i, "c") + " " + readVar(i, "d") + " " + readVar(i, "e"); res != "[1, 2, 3] 4 [5, 6]" {
		t.Error("Unexpected result:", res)
		return
	}

	errorutil.AssertOk(runProgram(i, `:c, :d << 1, 2, 3`))

	if res := readVar(i, "c") + " " + readVar(i, "d"); res != "[1, 2] [3]" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := i.Interpret(`a, b << 1`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "expected 2 values, got 1") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`a, b << 1, 2, 3`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "expected 2 values, got 3") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`a, b, :c << 1`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "expected at least 2 values, got 1") {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestLoopControl(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
r << []
i << 0
while (i < 10), loop
| i << i + 1
| if (i % 2 = 0), then
| | next
| endif
| if (i > 7), then
| | break
| endif
| r.add[i]
endloop
until (i = 0), loop
| i << i - 1
endloop
s << []
for (x, y) in (Parallel['abc', [1, 2]]), loop
| if (y = none), then
| | break
| endif
| s.add[x * y]
endloop
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "r") + " " + readVar(i, "i") + " " + readVar(i, "s"); res != "[1, 3, 5, 7] 0 ['a', 'bb']" {
		t.Error("Unexpected result:", res)
		return
	}

	tests := map[string]string{
		`next`:       "'next' outside of a loop",
		`break`:      "'break' outside of a loop",
		`return (1)`: "'return' outside of a function",
		`
for (x) in ([1]), loop
| return
endloop`: "'return' outside of a function",
		`
function (f) << (), do
| break
endfunction
while (true), loop
| f[]
endloop`: "'break' outside of a loop",
	}

	for input, expected := range tests {
		if _, err := i.Interpret(input); !errors.Is(err, util.ErrSyntaxError) ||
			!strings.Contains(err.Error(), expected) {
			t.Error("Unexpected result for", input, ":", err, "expected:", expected)
			return
		}
	}

	// Return leaves all loops of a function

	_, err = i.Interpret(`
function (find) << (l, v), do
| for (i, x) in (Indexed[l]), loop
| | while (true), loop
| | | if (x = v), then
| | | | return i
| | | endif
| | | break
| | endloop
| endloop
| return (-1)
endfunction
f1 << find[[5, 6, 7], 7]
f2 << find['abc', 'x']
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "f1") + " " + readVar(i, "f2"); res != "2 -1" {
		t.Error("Unexpected result:", res)
		return
	}

	// Loop parameters must match the elements

	if _, err := i.Interpret(`
for (a, b) in ([[1, 2], [3]]), loop
| a
endloop`); !errors.Is(err, util.ErrNameError) {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`
for (a) in (true), loop
| a
endloop`); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestEqualityOverride(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
Point << Type['Point']
p1 << Point[]
p2 << Point[]
p1.x << 1
p2.x << 2
before << p1 = p2
function (eq) << (a, b), do
| return (a.x - b.x < 2)
endfunction
Point.__equal__ << eq
after << p1 = p2
differ << p1 != p2
inlist << [p1] = [p2]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "before") + " " + readVar(i, "after") + " " +
		readVar(i, "differ") + " " + readVar(i, "inlist"); res != "false true false true" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := readVar(i, "p1"); res != "<Point object>" {
		t.Error("Unexpected result:", res)
		return
	}

	if _, err := i.Interpret(`Point[1]`); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestRecursion(t *testing.T) {
	i, _ := newTestInterpreter()
	i.MaxDepth = 50

	_, err := i.Interpret(`
function (fac) << (n), do
| if (n <= 1), then
| | return 1
| endif
| return (n * fac[n - 1])
endfunction
r << fac[20]
`)
	errorutil.AssertOk(err)

	if res := readVar(i, "r"); res != "2432902008176640000" {
		t.Error("Unexpected result:", res)
		return
	}

	_, err = i.Interpret(`
function (f) << (n), do
| return (f[n + 1])
endfunction
f[0]
`)

	if !errors.Is(err, util.ErrRecursionError) ||
		!strings.Contains(err.Error(), "maximum recursion depth exceeded (50)") {
		t.Error("Unexpected result:", err)
		return
	}

	// The interpreter can be used again after a recursion error

	if res, err := i.Interpret(`fac[3]`); err != nil || res.String() != "6" {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestBuiltins(t *testing.T) {
	i, buf := newTestInterpreter()

	_, err := i.Interpret(`
a << show['a', 1, [2]]
show['b', 'c', ~sep << '-', ~end << '|']
show['d', 'e', ~comma_sep, ~no_newline]
n << show['f', ~no_return]
j << join['x', 'y', ~start << '<', ~end << '>', ~comma_sep]
t << type[1]
P << Type['P']
tl << type[P]
tp << type[P[]]
u << 'aBc'.uppercase[]
l << [3]
l.add[4]
l2 << List.add[l, 5, ~copy]
s << ', '.join[1, 2]
num << Number['2.50'] + Number[true]
`)
	errorutil.AssertOk(err)

	if res := buf.String(); res != "a 1 [2]\nb-c|d, ef\n" {
		t.Error("Unexpected output:", res)
		return
	}

	for name, expected := range map[string]string{
		"a":   "'a 1 [2]'",
		"n":   "none",
		"j":   "'<x, y>'",
		"t":   "<type Number>",
		"tl":  "<type Type>",
		"tp":  "<type P>",
		"u":   "'ABC'",
		"l":   "[3, 4]",
		"l2":  "[3, 4, 5]",
		"s":   "'1, 2'",
		"num": "3.5",
	} {
		if res := readVar(i, name); res != expected {
			t.Error("Unexpected result for", name, ":", res, "expected:", expected)
			return
		}
	}

	if _, err := i.Interpret(`5[]`); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "5 is not callable") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := i.Interpret(`x << :l`); !errors.Is(err, util.ErrSyntaxError) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestIterators(t *testing.T) {
	i, _ := newTestInterpreter()

	_, err := i.Interpret(`
s << ''
for (i, c) in (Indexed['ab', ~start << 1]), loop
| s << s + String[i] + c
endloop
d << []
for (x) in (123.4), loop
| d.add[x]
endloop
c << List[:Chain['ab', [1], 2]]
p << List[:Parallel[[1, 2], 'a', ~pad << 0]]
u << List[:Indexed[[['a', 'b']], ~unpack]]
m << ''
for (k, x) in (:Indexed[[5, 6]]), loop
| m << m + String[k] + String[x]
endloop
w << ''
for (v) in (:[['x'], ['y']]), loop
| w << w + v
endloop
`)
	errorutil.AssertOk(err)

	for name, expected := range map[string]string{
		"s": "'1a2b'",
		"d": "[1, 2, 3, 4]",
		"c": "['a', 'b', 1, 2]",
		"p": "[[1, 'a'], [2, 0]]",
		"u": "[[0, 'a', 'b']]",
		"m": "'0516'",
		"w": "'xy'",
	} {
		if res := readVar(i, name); res != expected {
			t.Error("Unexpected result for", name, ":", res, "expected:", expected)
			return
		}
	}

	// Unpacked elements must match the loop parameters

	for _, src := range []string{
		"for (a, b) in (:[[1, 2, 3]]), loop\n| a\nendloop",
		"for (a) in (:[[1, 2]]), loop\n| a\nendloop",
		"for (a) in (:[true]), loop\n| a\nendloop",
	} {
		if err := runProgram(i, src); !errors.Is(err, util.ErrNameError) {
			t.Error("Unexpected result:", src, err)
			return
		}
	}

	// Negative numbers cannot be iterated

	if err := runProgram(i, "for (a) in (-12), loop\n| a\nendloop"); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}

	// Huge repetitions fail instead of exhausting memory

	if err := runProgram(i, "r << 'ab' * 9223372036854775808"); !errors.Is(err, util.ErrTypeError) ||
		!strings.Contains(err.Error(), "repetition result too long") {
		t.Error("Unexpected result:", err)
		return
	}

	if err := runProgram(i, "r << [1] * 7766279631452241919"); !errors.Is(err, util.ErrTypeError) {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestInteractive(t *testing.T) {
	i, buf := newTestInterpreter()

	var echoed []string

	i.Echo = func(v value.Value) {
		echoed = append(echoed, value.Repr(v))
	}

	i.SetInteractive(true)

	if res := readVar(i, InteractiveVar); res != "true" {
		t.Error("Unexpected result:", res)
		return
	}

	_, err := i.Interpret(`
1 + 1
x << 5
x
none
show['hi']
join['a', 'b']
function (f) << (), do
| 'inner'
| return 'result'
endfunction
f[]
if (true), then
| 'branch'
endif
`)
	errorutil.AssertOk(err)

	if res := fmt.Sprint(echoed); res != "[2 5 'ab' 'result' 'branch']" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := buf.String(); res != "hi\n" {
		t.Error("Unexpected output:", res)
		return
	}

	i.SetInteractive(false)
	echoed = nil

	errorutil.AssertOk(runProgram(i, `x`))

	if len(echoed) != 0 {
		t.Error("Unexpected result:", echoed)
		return
	}
}

func TestNames(t *testing.T) {
	i, _ := newTestInterpreter()

	errorutil.AssertOk(runProgram(i, "zz << 1\naa << 2"))

	names := i.Names()

	if !sort.StringsAreSorted(names) || !strings.Contains(fmt.Sprint(names), " aa ") ||
		names[len(names)-1] != "zz" || !strings.Contains(fmt.Sprint(names), InteractiveVar) ||
		!strings.Contains(fmt.Sprint(names), " show ") {
		t.Error("Unexpected result:", names)
		return
	}
}

func TestSessionState(t *testing.T) {
	i, _ := newTestInterpreter()

	res, err := i.Interpret(`
a << 1
b << [a]
b
`)

	if err != nil || res.String() != "[1]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	bindings := i.Bindings()

	if len(bindings) != 2 || bindings["a"].String() != "1" {
		t.Error("Unexpected bindings:", bindings)
		return
	}

	i.Reset()

	if _, err := i.ReadVariable("a"); !errors.Is(err, util.ErrNameError) {
		t.Error("Unexpected result:", err)
		return
	}

	if res := readVar(i, "List"); res != "<type List>" {
		t.Error("Unexpected result:", res)
		return
	}

	bindings["List"] = value.None
	i.Restore(bindings)

	if res := readVar(i, "b") + " " + readVar(i, "List"); res != "[1] <type List>" {
		t.Error("Unexpected result:", res)
		return
	}

	// Rebinding a builtin function is allowed and the rebound value is kept

	errorutil.AssertOk(runProgram(i, `show << 1`))

	if _, ok := i.Bindings()["show"]; !ok {
		t.Error("Rebound builtin should be part of the bindings")
		return
	}
}

func TestErrors(t *testing.T) {
	i, _ := newTestInterpreter()

	logger := ecalutil.NewMemoryLogger(10)
	i.Logger = logger

	_, err := i.Interpret(`
x << 1
y << z`)

	var re *RuntimeError

	if !errors.As(err, &re) || re.Line != 3 || !errors.Is(err, util.ErrNameError) ||
		!strings.HasPrefix(err.Error(), "NameError in test: Unknown name 'z'") {
		t.Error("Unexpected result:", err)
		return
	}

	if _, ok := re.Node.(*parser.Variable); !ok {
		t.Error("Unexpected error node:", re.Node)
		return
	}

	if !strings.Contains(logger.String(), "Unknown name 'z'") {
		t.Error("Unexpected log:", logger.String())
		return
	}

	_, err = i.Interpret(`x << `)

	var pe *parser.Error

	if !errors.As(err, &pe) || !pe.AtEnd() || !errors.Is(err, util.ErrSyntaxError) {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = i.Interpret(`x << 1 $ 2`)

	if !errors.Is(err, util.ErrLexError) {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = i.Interpret(`x.foo`)

	if !errors.Is(err, util.ErrNameError) ||
		!strings.Contains(err.Error(), "Could not find attribute 'foo' of Number") {
		t.Error("Unexpected result:", err)
		return
	}

	if res := (&RuntimeError{"src", util.ErrTypeError, "foo", nil, 0, 0, ""}).Error(); res != "TypeError in src: foo" {
		t.Error("Unexpected result:", res)
		return
	}
}
