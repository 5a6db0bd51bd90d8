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
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
LexToken represents a token which is returned by the lexer.
*/
type LexToken struct {
	ID        LexTokenID // Token kind
	Pos       int        // Starting position (in bytes)
	Val       string     // Token value
	Lline     int        // Line in the input this token appears
	Lpos      int        // Position in the input line this token appears
	Lookahead string     // Excerpt of the source text around the token
}

/*
PosString returns the position of this token in the origianl input as a string.
*/
func (t LexToken) PosString() string {
	return fmt.Sprintf("Line %v, Pos %v", t.Lline, t.Lpos)
}

/*
String returns a string representation of a token.
*/
func (t LexToken) String() string {

	switch {

	case t.ID == TokenEOF:
		return "EOF"

	case t.ID == TokenNEWLINE:
		return "NEWLINE"

	case t.ID == TokenError:
		return fmt.Sprintf("Error: %s (%s)", t.Val, t.PosString())

	case t.ID > TOKENodeSYMBOLS && t.ID < TOKENodeKEYWORDS:
		return fmt.Sprintf("%s", strings.ToUpper(t.Val))

	case t.ID > TOKENodeKEYWORDS:
		return fmt.Sprintf("<%s>", t.Val)

	case len(t.Val) > 10:

		// Special case for very long values

		return fmt.Sprintf("%.10q...", t.Val)
	}

	return fmt.Sprintf("%q", t.Val)
}

// Lexer
// =====

/*
RuneEOF is a special rune which represents the end of the input
*/
const RuneEOF = -1

/*
Function which represents the current state of the lexer and returns the next state
*/
type lexFunc func(*Lexer) lexFunc

/*
Lexer data structure. The lexer is pulled by its client through NextToken.
*/
type Lexer struct {
	name    string     // Name to identify the input
	input   string     // Input string of the lexer
	pos     int        // Current rune pointer
	line    int        // Current line pointer
	lastnl  int        // Position of the first character of the current line
	width   int        // Width of last rune
	start   int        // Start position of the current read token
	sline   int        // Line of the current read token
	slastnl int        // Line start of the current read token
	state   lexFunc    // Current state
	tokens  []LexToken // Tokens which have not been handed out yet
}

/*
Lex creates a new lexer for a given input.
*/
func Lex(name string, input string) *Lexer {
	return &Lexer{name: name, input: input, width: -1, state: lexToken}
}

/*
LexToList lexes a given input. Returns a list of tokens which ends with an
EOF or an error token.
*/
func LexToList(name string, input string) []LexToken {
	var tokens []LexToken

	l := Lex(name, input)

	for {
		t := l.NextToken()
		tokens = append(tokens, t)

		if t.ID == TokenEOF || t.ID == TokenError {
			break
		}
	}

	return tokens
}

/*
NextToken returns the next token of the input. Once the end of the input
or an error was reached all further calls return an EOF token.
*/
func (l *Lexer) NextToken() LexToken {

	for len(l.tokens) == 0 {

		if l.state == nil {
			l.startNew()
			return LexToken{TokenEOF, l.pos, "", l.line + 1, l.pos - l.lastnl + 1, ""}
		}

		l.state = l.state(l)
	}

	t := l.tokens[0]
	l.tokens = l.tokens[1:]

	return t
}

/*
next returns the next rune in the input and advances the current rune pointer
if the peek flag is not set. If the peek flag is set then the rune pointer
is not advanced.
*/
func (l *Lexer) next(peek bool) rune {

	// Check if we reached the end

	if int(l.pos) >= len(l.input) {
		return RuneEOF
	}

	// Decode the next rune

	r, w := utf8.DecodeRuneInString(l.input[l.pos:])

	if !peek {
		l.width = w
		l.pos += l.width

		if r == '\n' {
			l.line++
			l.lastnl = l.pos
		}
	}

	return r
}

/*
peekAt returns the rune which follows the next rune of the input without
advancing the rune pointer.
*/
func (l *Lexer) peekAt() rune {
	_, w := utf8.DecodeRuneInString(l.input[l.pos:])

	if l.pos+w >= len(l.input) {
		return RuneEOF
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos+w:])

	return r
}

/*
startNew starts a new token.
*/
func (l *Lexer) startNew() {
	l.start = l.pos
	l.sline = l.line
	l.slastnl = l.lastnl
}

/*
lookahead returns a short excerpt of the current line around the start of
the current token.
*/
func (l *Lexer) lookahead() string {
	start := l.start - 20
	if start < l.slastnl {
		start = l.slastnl
	}

	end := l.start + 11
	if end > len(l.input) {
		end = len(l.input)
	}

	if i := strings.IndexRune(l.input[l.start:end], '\n'); i != -1 {
		end = l.start + i
	}

	return strings.TrimSpace(strings.ToValidUTF8(l.input[start:end], ""))
}

/*
emitToken passes a token back to the client.
*/
func (l *Lexer) emitToken(t LexTokenID) {
	l.emitTokenAndValue(t, l.input[l.start:l.pos])
}

/*
emitTokenAndValue passes a token with a given value back to the client.
*/
func (l *Lexer) emitTokenAndValue(t LexTokenID, val string) {
	l.tokens = append(l.tokens, LexToken{t, l.start, val, l.sline + 1,
		l.start - l.slastnl + 1, l.lookahead()})
}

/*
emitError passes an error token back to the client.
*/
func (l *Lexer) emitError(msg string) {
	l.emitTokenAndValue(TokenError, msg)
}

// State functions
// ===============

/*
lexToken is the main entry function for the lexer.
*/
func lexToken(l *Lexer) lexFunc {

	skipWhiteSpace(l)

	l.startNew()

	r := l.next(true)

	switch {

	case r == RuneEOF:
		l.emitTokenAndValue(TokenEOF, "")
		return nil

	case r == '\n' || r == ';':
		return lexNewline

	case r == '#':
		skipComment(l)
		return lexToken

	case r == '|':
		return lexPipe

	case r == '\'':
		return lexString

	case isDigit(r):
		return lexNumber

	case r == '_' || unicode.IsLetter(r):
		return lexName
	}

	return lexSymbol
}

/*
lexNewline lexes a run of statement terminators. Whitespace and comments
between the terminators are swallowed.
*/
func lexNewline(l *Lexer) lexFunc {

	for r := l.next(true); ; r = l.next(true) {

		if r == '#' {
			skipComment(l)
			continue
		}

		if r != '\n' && r != ';' && r != ' ' && r != '\t' && r != '\r' {
			break
		}

		l.next(false)
	}

	l.emitTokenAndValue(TokenNEWLINE, "\n")

	return lexToken
}

/*
lexPipe lexes a run of pipe characters. Spaces between the pipes are ignored.
*/
func lexPipe(l *Lexer) lexFunc {
	var count int

	for r := l.next(true); r == '|' || r == ' ' || r == '\t'; r = l.next(true) {
		if r == '|' {
			count++
		}

		l.next(false)
	}

	l.emitTokenAndValue(TokenPIPE, strings.Repeat("|", count))

	return lexToken
}

/*
lexString lexes a quoted string.
*/
func lexString(l *Lexer) lexFunc {
	var buf strings.Builder

	l.next(false) // Opening quote

	for {
		r := l.next(false)

		switch r {

		case RuneEOF:
			l.emitError("Unterminated string literal")
			return nil

		case '\'':
			l.emitTokenAndValue(TokenSTRING, buf.String())
			return lexToken

		case '\\':

			if n := l.next(true); n == 'n' {
				l.next(false)
				buf.WriteRune('\n')
			} else if n == '\\' {
				l.next(false)
				buf.WriteRune('\\')
			} else {
				buf.WriteRune(r)
			}

		default:
			buf.WriteRune(r)
		}
	}
}

/*
lexNumber lexes a number literal. A decimal point is only part of the
number if it is followed by a digit.
*/
func lexNumber(l *Lexer) lexFunc {

	skipDigits(l)

	if l.next(true) == '.' && isDigit(l.peekAt()) {
		l.next(false)
		skipDigits(l)
	}

	l.emitToken(TokenNUMBER)

	return lexToken
}

/*
lexName lexes a keyword or an identifier.
*/
func lexName(l *Lexer) lexFunc {

	for r := l.next(true); r == '_' || unicode.IsLetter(r) || isDigit(r); r = l.next(true) {
		l.next(false)
	}

	if token, ok := KeywordMap[l.input[l.start:l.pos]]; ok {
		l.emitToken(token)
	} else {
		l.emitToken(TokenIDENTIFIER)
	}

	return lexToken
}

/*
lexSymbol lexes an operator or another special symbol.
*/
func lexSymbol(l *Lexer) lexFunc {

	// Longest match first

	if l.pos+2 <= len(l.input) {
		if token, ok := SymbolMap[l.input[l.pos:l.pos+2]]; ok {
			l.pos += 2
			l.emitToken(token)
			return lexToken
		}
	}

	r := l.next(false)

	if token, ok := SymbolMap[string(r)]; ok {
		l.emitToken(token)
		return lexToken
	}

	l.emitError(fmt.Sprintf("Invalid character '%c'", r))

	return nil
}

/*
skipComment skips all characters until the next newline character. The
newline itself is not consumed.
*/
func skipComment(l *Lexer) {
	for r := l.next(true); r != '\n' && r != RuneEOF; r = l.next(true) {
		l.next(false)
	}
}

/*
skipWhiteSpace skips any whitespace characters which do not end a statement.
*/
func skipWhiteSpace(l *Lexer) {
	for r := l.next(true); r == ' ' || r == '\t' || r == '\r'; r = l.next(true) {
		l.next(false)
	}
}

/*
skipDigits skips a run of digits.
*/
func skipDigits(l *Lexer) {
	for r := l.next(true); isDigit(r); r = l.next(true) {
		l.next(false)
	}
}

/*
isDigit checks if a given rune is a decimal digit.
*/
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
