/*
 * Leaf
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"devt.de/krotik/leaf/config"
	"github.com/krotik/common/errorutil"
	"gopkg.in/yaml.v3"
)

const testdir = "clitest"

func TestMain(m *testing.M) {
	config.LoadDefaultConfig()

	os.RemoveAll(testdir)
	errorutil.AssertOk(os.Mkdir(testdir, 0770))

	res := m.Run()

	os.RemoveAll(testdir)

	os.Exit(res)
}

func writeTestFile(name string, content string) string {
	file := testdir + "/" + name
	errorutil.AssertOk(ioutil.WriteFile(file, []byte(content), 0660))
	return file
}

func TestRunFiles(t *testing.T) {
	var out bytes.Buffer

	a := writeTestFile("a.leaf", "x << 2\nshow[x * 3]\n")
	b := writeTestFile("b.leaf", "show['b']\nshow[x]\n")
	c := writeTestFile("c.leaf", "function (f) << (n), do\n| return (n + 1)\nendfunction\nshow[f[1]]\n")

	if err := runFiles(&out, []string{a, c}); err != nil || out.String() != "6\n2\n" {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	out.Reset()

	// Files run in their own interpreters and failures do not stop the run

	err := runFiles(&out, []string{b, testdir + "/missing.leaf", a})

	if err == nil || out.String() != "b\n6\n" {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	if res := err.Error(); !strings.HasPrefix(res, "NameError in "+b+": Unknown name 'x'") ||
		!strings.Contains(res, "missing.leaf") {
		t.Error("Unexpected error:", res)
		return
	}
}

func TestFormatFile(t *testing.T) {
	var out bytes.Buffer

	file := writeTestFile("fmt.leaf", "y<<(1)\nif (true), then\n| l << [1]\nendif\n")

	if err := formatFile(&out, file); err != nil || out.String() != `
y << 1
if (true), then
| l << [1]
endif
`[1:] {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	if err := formatFile(&out, writeTestFile("bad.leaf", "y <<")); err == nil {
		t.Error("Parse error expected")
		return
	}
}

func TestDumpAST(t *testing.T) {
	var out bytes.Buffer

	file := writeTestFile("ast.leaf", "y << 1\n")

	if err := dumpAST(&out, file, ""); err != nil || out.String() != `
statements
  assign
    identifier: y
    number: 1
`[1:] {
		t.Error("Unexpected result:", out.String(), err)
		return
	}

	var plain map[string]interface{}

	out.Reset()

	errorutil.AssertOk(dumpAST(&out, file, "json"))
	errorutil.AssertOk(json.Unmarshal(out.Bytes(), &plain))

	if plain["name"] != "statements" {
		t.Error("Unexpected result:", out.String())
		return
	}

	out.Reset()
	plain = nil

	errorutil.AssertOk(dumpAST(&out, file, "yaml"))
	errorutil.AssertOk(yaml.Unmarshal(out.Bytes(), &plain))

	if plain["name"] != "statements" || !strings.Contains(out.String(), "name: assign") {
		t.Error("Unexpected result:", out.String())
		return
	}

	if err := dumpAST(&out, file, "xml"); err == nil || err.Error() != "Unknown output format: xml" {
		t.Error("Unexpected result:", err)
		return
	}
}
