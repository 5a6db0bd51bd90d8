/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"devt.de/krotik/leaf/config"
	"devt.de/krotik/leaf/interpreter"
	"devt.de/krotik/leaf/util"
	"github.com/krotik/common/errorutil"
)

func newTestConsole() (*LeafConsole, *bytes.Buffer) {
	var out bytes.Buffer

	config.LoadDefaultConfig()
	config.Config[config.EnableColor] = false

	return NewConsole(&out, interpreter.New("console")), &out
}

/*
runLines runs several lines and returns the output.
*/
func runLines(c *LeafConsole, out *bytes.Buffer, lines ...string) (string, error) {
	out.Reset()

	for _, line := range lines {
		if _, err := c.Run(line); err != nil {
			return out.String(), err
		}
	}

	return out.String(), nil
}

func TestRunCode(t *testing.T) {
	c, out := newTestConsole()

	if res, err := runLines(c, out, "x << 5", "x * 2", "show['a']", ""); err != nil || res != `
10
a
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runLines(c, out, "y"); !errors.Is(err, util.ErrNameError) {
		t.Error("Unexpected result:", err)
		return
	}

	// Multi-line input

	if ok, err := c.Run("if (x > 1), then"); ok || err != nil || c.Prompt() != PromptContinuation {
		t.Error("Unexpected result:", ok, err)
		return
	}

	if ok, err := c.Run("| 'big'"); ok || err != nil {
		t.Error("Unexpected result:", ok, err)
		return
	}

	out.Reset()

	if ok, err := c.Run("endif"); !ok || err != nil || c.Prompt() != PromptInput || out.String() != "'big'\n" {
		t.Error("Unexpected result:", ok, err, out.String())
		return
	}

	// An empty line ends an incomplete input

	if ok, err := c.Run("z << "); ok || err != nil {
		t.Error("Unexpected result:", ok, err)
		return
	}

	if ok, err := c.Run(""); !ok || !errors.Is(err, util.ErrSyntaxError) || c.Prompt() != PromptInput {
		t.Error("Unexpected result:", ok, err)
		return
	}

	// Errors which are not at the end of the input are reported immediately

	if ok, err := c.Run("z << )"); !ok || !errors.Is(err, util.ErrSyntaxError) {
		t.Error("Unexpected result:", ok, err)
		return
	}

	out.Reset()

	c.WriteError(fmt.Errorf("foo"))

	if res := out.String(); res != "foo\n" {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestCommands(t *testing.T) {
	c, out := newTestConsole()

	if res, err := runLines(c, out, "@history", "@vars", "@ast"); err == nil ||
		err.Error() != "No input to parse" || res != `
No history
No variables defined
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	runLines(c, out, "x << 5", "if (true), then", "| l << [1]", "endif")

	if res, err := runLines(c, out, "@history"); err != nil || res != `
  1  x << 5
  2  if (true), then
     | l << [1]
     endif
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runLines(c, out, "@vars"); err != nil || !strings.Contains(res, "Number") ||
		!strings.Contains(res, "[1]") || strings.Contains(res, "show") {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runLines(c, out, "@ast y << 1"); err != nil || res != `
statements
  assign
    identifier: y
    number: 1
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runLines(c, out, "@fmt"); err != nil || res != `
if (true), then
| l << [1]
endif
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runLines(c, out, "@fmt y<<(1)"); err != nil || res != "y << 1\n" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runLines(c, out, "@ast y <<"); !errors.Is(err, util.ErrSyntaxError) {
		t.Error("Unexpected result:", err)
		return
	}

	if res, err := runLines(c, out, "@help"); err != nil || !strings.Contains(res, "@vars") ||
		!strings.Contains(res, "Pretty print code.") {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := runLines(c, out, "@help reset"); err != nil ||
		res != "Remove all global variables which were defined in this session. Builtins are kept.\n" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runLines(c, out, "@help foo"); err == nil || err.Error() != "Unknown command: @foo" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := runLines(c, out, "@foo"); err == nil ||
		err.Error() != "Unknown command: @foo (use @help for a list of commands)" {
		t.Error("Unexpected result:", err)
		return
	}

	if res, err := runLines(c, out, "@reset"); err != nil || res != "Removed 2 variables\n" ||
		len(c.Interpreter().Bindings()) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestLoad(t *testing.T) {
	c, out := newTestConsole()

	testfile := "console_load_test.leaf"

	errorutil.AssertOk(ioutil.WriteFile(testfile, []byte("z << 7\nz\nshow['loading']\n"), 0644))
	defer os.Remove(testfile)

	if res, err := runLines(c, out, "@load "+testfile, "z"); err != nil || res != `
loading
Loaded console_load_test.leaf
7
`[1:] {
		t.Error("Unexpected result:", res, err)
		return
	}

	if _, err := runLines(c, out, "@load"); err == nil || err.Error() != "Please specify a file to load" {
		t.Error("Unexpected result:", err)
		return
	}

	if _, err := runLines(c, out, "@load foo.leaf"); err == nil || err.Error() != "File foo.leaf does not exist" {
		t.Error("Unexpected result:", err)
		return
	}

	errorutil.AssertOk(ioutil.WriteFile(testfile, []byte("a << 1\nb << c\n"), 0644))

	if _, err := runLines(c, out, "@load "+testfile); !errors.Is(err, util.ErrNameError) {
		t.Error("Unexpected result:", err)
		return
	}

	// Bindings before the error are kept and interactive mode is restored

	if res, err := runLines(c, out, "a", "__interactive__"); err != nil || res != "1\ntrue\n" {
		t.Error("Unexpected result:", res, err)
		return
	}
}

func TestSuggest(t *testing.T) {
	c, out := newTestConsole()

	runLines(c, out, "showtime << 1")

	if res, err := c.Suggest("@h"); err != nil || fmt.Sprint(res) != "[@help @history]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := c.Suggest("x << sho"); err != nil || fmt.Sprint(res) != "[show showtime]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := c.Suggest("Li"); err != nil || fmt.Sprint(res) != "[List]" {
		t.Error("Unexpected result:", res, err)
		return
	}

	if res, err := c.Suggest("foo"); err != nil || len(res) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}
}
