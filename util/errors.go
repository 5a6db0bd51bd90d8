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
Package util contains the error kinds which are shared by all parts of Leaf.

Every error which is produced while lexing, parsing or evaluating Leaf code
carries one of the kind errors below as its type. The kind can be checked
with errors.Is:

	if errors.Is(err, util.ErrTypeError) {
		...
	}
*/
package util

import (
	"errors"
	"fmt"
)

/*
Error kinds
*/
var (
	ErrLexError          = errors.New("LexError")
	ErrSyntaxError       = errors.New("SyntaxError")
	ErrNameError         = errors.New("NameError")
	ErrTypeError         = errors.New("TypeError")
	ErrZeroDivisionError = errors.New("ZeroDivisionError")
	ErrRecursionError    = errors.New("RecursionError")
)

/*
Failure is an error of a given kind which has not yet been associated with
a position in the source. The interpreter attaches the position of the node
which was evaluated when the failure occurred.
*/
type Failure struct {
	Type   error  // Error kind
	Detail string // Details of this error
}

/*
NewFailure creates a new failure of a given kind.
*/
func NewFailure(kind error, format string, args ...interface{}) *Failure {
	return &Failure{kind, fmt.Sprintf(format, args...)}
}

/*
Error returns a human-readable string representation of this failure.
*/
func (f *Failure) Error() string {
	return fmt.Sprintf("%v: %v", f.Type, f.Detail)
}

/*
Unwrap returns the kind of this failure.
*/
func (f *Failure) Unwrap() error {
	return f.Type
}

/*
Kind returns the error kind of a given error or nil if the error is not a
Leaf error.
*/
func Kind(err error) error {
	for _, k := range []error{ErrLexError, ErrSyntaxError, ErrNameError,
		ErrTypeError, ErrZeroDivisionError, ErrRecursionError} {

		if errors.Is(err, k) {
			return k
		}
	}

	return nil
}
