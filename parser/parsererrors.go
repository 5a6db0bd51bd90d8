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
)

/*
newParserError creates a new ParserError object.
*/
func (p *parser) newParserError(t error, d string, token LexToken) error {
	return &Error{p.name, t, d, token.Lline, token.Lpos, token.Lookahead,
		token.ID == TokenEOF}
}

/*
Error models a parser related error
*/
type Error struct {
	Source  string // Name of the source which was given to the parser
	Type    error  // Error type (to be used for equal checks)
	Detail  string // Details of this error
	Line    int    // Line of the error
	Pos     int    // Position of the error
	Context string // Excerpt of the source text around the error
	eof     bool   // Flag if the error was caused by the end of the input
}

/*
Error returns a human-readable string representation of this error.
*/
func (pe *Error) Error() string {
	var ret string

	if pe.Detail != "" {
		ret = fmt.Sprintf("%v in %s: %v", pe.Type, pe.Source, pe.Detail)
	} else {
		ret = fmt.Sprintf("%v in %s", pe.Type, pe.Source)
	}

	if pe.Line != 0 {
		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, pe.Line, pe.Pos)
	}

	if pe.Context != "" {
		ret = fmt.Sprintf("%s near: %s", ret, pe.Context)
	}

	return ret
}

/*
Unwrap returns the error kind of this error.
*/
func (pe *Error) Unwrap() error {
	return pe.Type
}

/*
AtEnd returns true if the input ended before the parser could finish. More
input might turn the program into a valid one.
*/
func (pe *Error) AtEnd() bool {
	return pe.eof
}
