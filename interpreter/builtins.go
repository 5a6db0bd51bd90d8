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
	"strings"

	"devt.de/krotik/leaf/value"
)

/*
builtins returns the built-in functions of this interpreter.
*/
func (i *Interpreter) builtins() []*value.Builtin {
	return []*value.Builtin{
		{
			Name: "show",
			Sig: value.NewSignature("args").
				WithModifier("end", value.String("\n")).
				WithModifier("sep", value.String(" ")).
				WithFlags("comma_sep", "no_newline", "no_return"),
			Quiet: true,
			Fn:    i.show,
		},
		{
			Name: "join",
			Sig: value.NewSignature("args").
				WithModifier("start", value.String("")).
				WithModifier("sep", value.String("")).
				WithModifier("end", value.String("")).
				WithFlags("comma_sep"),
			Fn: join,
		},
		{
			Name: "type",
			Sig:  value.NewSignature("", "object"),
			Fn: func(b *value.Binding) (value.Value, error) {
				return i.types.Of(b.Params["object"]), nil
			},
		},
	}
}

/*
joinArgs joins the display strings of the arguments of a call.
*/
func joinArgs(b *value.Binding) string {
	var parts []string

	for _, v := range b.Params["args"].(*value.List).Items {
		parts = append(parts, v.String())
	}

	sep := b.Modifiers["sep"].String()
	if b.Flags["comma_sep"] {
		sep = ", "
	}

	return strings.Join(parts, sep)
}

/*
show writes its arguments to the output of the interpreter and returns the
written text.
*/
func (i *Interpreter) show(b *value.Binding) (value.Value, error) {
	text := joinArgs(b)

	end := b.Modifiers["end"].String()
	if b.Flags["no_newline"] {
		end = ""
	}

	fmt.Fprint(i.Out, text+end)

	if b.Flags["no_return"] {
		return value.None, nil
	}

	return value.String(text), nil
}

/*
join returns the joined display strings of its arguments.
*/
func join(b *value.Binding) (value.Value, error) {
	return value.String(b.Modifiers["start"].String() + joinArgs(b) + b.Modifiers["end"].String()), nil
}
