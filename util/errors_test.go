/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package util

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailure(t *testing.T) {

	f := NewFailure(ErrTypeError, "Invalid operation: %v + %v", "Number", "String")

	if f.Error() != "TypeError: Invalid operation: Number + String" {
		t.Error("Unexpected result:", f.Error())
		return
	}

	if !errors.Is(f, ErrTypeError) || errors.Is(f, ErrNameError) {
		t.Error("Unexpected kind check result")
		return
	}

	wrapped := fmt.Errorf("while running: %w", f)

	if Kind(wrapped) != ErrTypeError {
		t.Error("Unexpected kind:", Kind(wrapped))
		return
	}

	if Kind(errors.New("foo")) != nil {
		t.Error("Unexpected kind for foreign error")
		return
	}
}
