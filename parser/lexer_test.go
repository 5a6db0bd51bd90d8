/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"fmt"
	"testing"
)

func TestSimpleLexing(t *testing.T) {

	// Test empty string parsing

	if res := fmt.Sprint(LexToList("mytest", "    \t   ")); res != "[EOF]" {
		t.Error("Unexpected lexer result:", res)
		return
	}

	if res := fmt.Sprint(LexToList("mytest", `a << 1 + 2.5; b << 'x\ny'`)); res !=
		`["a" << "1" + "2.5" NEWLINE "b" << "x\ny" EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	if res := fmt.Sprint(LexToList("mytest", `a<<b>>c<=d>=e!=f!g=h**i//j%k~l.m:n`)); res !=
		`["a" << "b" >> "c" <= "d" >= "e" != "f" ! "g" = "h" ** "i" // "j" % "k" ~ "l" . "m" : "n" EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	if res := fmt.Sprint(LexToList("mytest", `f[(1), 'a\\b\c'] * -3`)); res !=
		`["f" [ ( "1" ) , "a\\b\\c" ] * - "3" EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	// Numbers have at most one decimal point which must be followed by a digit

	if res := fmt.Sprint(LexToList("mytest", `3.14 5.integer 7.`)); res !=
		`["3.14" "5" . "integer" "7" . EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	// Keywords and type names

	if res := fmt.Sprint(LexToList("mytest", `String Number List Boolean true false none in`)); res !=
		`[<String> <Number> <List> <Boolean> <true> <false> <none> <in> EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}
}

func TestBlockLexing(t *testing.T) {

	input := `
if (a), then
| | show[a] # comment
| endif`

	if res := fmt.Sprint(LexToList("mytest", input)); res !=
		`[NEWLINE <if> ( "a" ) , <then> NEWLINE "||" "show" [ "a" ] NEWLINE "|" <endif> EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	// Runs of terminators, blank lines and comment lines collapse

	input = "a\n\n  ;\n# c\n\nb"

	if res := fmt.Sprint(LexToList("mytest", input)); res != `["a" NEWLINE "b" EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	// A comment at the end of a statement does not swallow the terminator

	if res := fmt.Sprint(LexToList("mytest", "a # comment\nb")); res != `["a" NEWLINE "b" EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}
}

func TestLexingPositions(t *testing.T) {

	tokens := LexToList("mytest", "a << 1\nbb << foo + 2")

	foo := tokens[6]

	if foo.Val != "foo" || foo.Lline != 2 || foo.Lpos != 7 || foo.PosString() != "Line 2, Pos 7" {
		t.Error("Unexpected token:", foo, foo.PosString())
		return
	}

	if foo.Lookahead != "bb << foo + 2" {
		t.Error("Unexpected lookahead:", foo.Lookahead)
		return
	}

	// Long values are shortened

	if res := fmt.Sprint(LexToList("mytest", "averyveryverylongname")); res != `["averyveryv"... EOF]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	// Repeated calls after the end return EOF

	l := Lex("mytest", "a")

	for i, expected := range []LexTokenID{TokenIDENTIFIER, TokenEOF, TokenEOF} {
		if tok := l.NextToken(); tok.ID != expected {
			t.Error("Unexpected token", i, tok)
			return
		}
	}
}

func TestLexingErrors(t *testing.T) {

	if res := fmt.Sprint(LexToList("mytest", "a $ b")); res !=
		`["a" Error: Invalid character '$' (Line 1, Pos 3)]` {
		t.Error("Unexpected lexer result:", res)
		return
	}

	if res := fmt.Sprint(LexToList("mytest", "'abc")); res !=
		`[Error: Unterminated string literal (Line 1, Pos 1)]` {
		t.Error("Unexpected lexer result:", res)
		return
	}
}
