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
	"fmt"

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/util"
)

/*
newRuntimeError creates a new RuntimeError object.
*/
func (i *Interpreter) newRuntimeError(t error, d string, node parser.Node) error {
	tok := node.Token()
	return &RuntimeError{i.Name, t, d, node, tok.Lline, tok.Lpos, tok.Lookahead}
}

/*
positionError attaches the position of a node to a failure. Errors which
already carry a position are returned unchanged.
*/
func (i *Interpreter) positionError(err error, node parser.Node) error {
	if f, ok := err.(*util.Failure); ok {
		return i.newRuntimeError(f.Type, f.Detail, node)
	}

	return err
}

/*
RuntimeError is a runtime related error
*/
type RuntimeError struct {
	Source  string      // Name of the source which was given to the parser
	Type    error       // Error type (to be used for equal checks)
	Detail  string      // Details of this error
	Node    parser.Node // AST Node where the error occurred
	Line    int         // Line of the error
	Pos     int         // Position of the error
	Context string      // Excerpt of the source text around the error
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("%v in %s: %v", re.Type, re.Source, re.Detail)

	if re.Line != 0 {
		ret = fmt.Sprintf("%s (Line:%d Pos:%d)", ret, re.Line, re.Pos)
	}

	if re.Context != "" {
		ret = fmt.Sprintf("%s near: %s", ret, re.Context)
	}

	return ret
}

/*
Unwrap returns the error kind of this error.
*/
func (re *RuntimeError) Unwrap() error {
	return re.Type
}
