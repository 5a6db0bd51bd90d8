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
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/value"
	"github.com/krotik/common/fileutil"
	"github.com/krotik/common/stringutil"
)

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "@help"

/*
CmdHelp displays descriptions of other commands.
*/
type CmdHelp struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdHelp) Name() string {
	return CommandHelp
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdHelp) ShortDescription() string {
	return "Display descriptions for all available commands."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdHelp) LongDescription() string {
	return "Display descriptions for all available commands. Use @help <command> to " +
		"get a detailed description of a single command."
}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {

	cmds := capi.Commands()

	if len(args) > 0 {
		name := CommandPrefix + strings.TrimPrefix(args[0], CommandPrefix)

		for _, cmd := range cmds {
			if cmd.Name() == name {
				fmt.Fprintln(capi.Out(), cmd.LongDescription())
				return nil
			}
		}

		return fmt.Errorf("Unknown command: %s", name)
	}

	var tab []string

	tab = append(tab, "Command")
	tab = append(tab, "Description")

	for _, cmd := range cmds {
		tab = append(tab, cmd.Name())
		tab = append(tab, cmd.ShortDescription())
	}

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

// Command: vars
// =============

/*
CommandVars is a command name.
*/
const CommandVars = "@vars"

/*
CmdVars lists all variables of the session.
*/
type CmdVars struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdVars) Name() string {
	return CommandVars
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdVars) ShortDescription() string {
	return "List all global variables."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdVars) LongDescription() string {
	return "List all global variables which were defined in this session with their type and value."
}

/*
Run executes the command.
*/
func (c *CmdVars) Run(args []string, capi CommandConsoleAPI) error {
	var names []string

	bindings := capi.Interpreter().Bindings()

	if len(bindings) == 0 {
		fmt.Fprintln(capi.Out(), "No variables defined")
		return nil
	}

	for name := range bindings {
		names = append(names, name)
	}

	sort.Strings(names)

	tab := []string{"Name", "Type", "Value"}

	for _, name := range names {
		v := bindings[name]
		tab = append(tab, name, v.TypeName(), value.Repr(v))
	}

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 3))

	return nil
}

// Command: reset
// ==============

/*
CommandReset is a command name.
*/
const CommandReset = "@reset"

/*
CmdReset removes all variables of the session.
*/
type CmdReset struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdReset) Name() string {
	return CommandReset
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdReset) ShortDescription() string {
	return "Remove all global variables."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdReset) LongDescription() string {
	return "Remove all global variables which were defined in this session. Builtins are kept."
}

/*
Run executes the command.
*/
func (c *CmdReset) Run(args []string, capi CommandConsoleAPI) error {
	count := len(capi.Interpreter().Bindings())

	capi.Interpreter().Reset()

	fmt.Fprintln(capi.Out(), fmt.Sprintf("Removed %v variable%v", count, stringutil.Plural(count)))

	return nil
}

// Command: load
// =============

/*
CommandLoad is a command name.
*/
const CommandLoad = "@load"

/*
CmdLoad runs a file in the session.
*/
type CmdLoad struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdLoad) Name() string {
	return CommandLoad
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdLoad) ShortDescription() string {
	return "Run a file in this session."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdLoad) LongDescription() string {
	return "Run a file in this session. All global variables of the file are kept. " +
		"Results of expression statements are not shown."
}

/*
Run executes the command.
*/
func (c *CmdLoad) Run(args []string, capi CommandConsoleAPI) error {

	if len(args) != 1 {
		return fmt.Errorf("Please specify a file to load")
	}

	if ok, _ := fileutil.PathExists(args[0]); !ok {
		return fmt.Errorf("File %v does not exist", args[0])
	}

	src, err := ioutil.ReadFile(args[0])

	if err == nil {
		i := capi.Interpreter()

		i.SetInteractive(false)
		defer i.SetInteractive(true)

		if _, err = i.Interpret(string(src)); err == nil {
			fmt.Fprintln(capi.Out(), "Loaded", args[0])
		}
	}

	return err
}

// Command: ast
// ============

/*
CommandAST is a command name.
*/
const CommandAST = "@ast"

/*
CmdAST shows the syntax tree of code.
*/
type CmdAST struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdAST) Name() string {
	return CommandAST
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdAST) ShortDescription() string {
	return "Show the syntax tree of code."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdAST) LongDescription() string {
	return "Show the syntax tree of the given code or of the last input if no code is given."
}

/*
Run executes the command.
*/
func (c *CmdAST) Run(args []string, capi CommandConsoleAPI) error {
	ast, err := parseArgs(args, capi)

	if err == nil {
		fmt.Fprint(capi.Out(), parser.Dump(ast))
	}

	return err
}

// Command: fmt
// ============

/*
CommandFmt is a command name.
*/
const CommandFmt = "@fmt"

/*
CmdFmt shows code in its normal form.
*/
type CmdFmt struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdFmt) Name() string {
	return CommandFmt
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdFmt) ShortDescription() string {
	return "Pretty print code."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdFmt) LongDescription() string {
	return "Pretty print the given code or the last input if no code is given."
}

/*
Run executes the command.
*/
func (c *CmdFmt) Run(args []string, capi CommandConsoleAPI) error {
	ast, err := parseArgs(args, capi)

	if err == nil {
		fmt.Fprint(capi.Out(), parser.PrettyPrint(ast))
	}

	return err
}

/*
parseArgs parses the arguments of a command as code. Without arguments the
last input of the session is parsed.
*/
func parseArgs(args []string, capi CommandConsoleAPI) (*parser.StatementList, error) {
	code := strings.Join(args, " ")

	if len(args) == 0 {
		history := capi.History()

		if len(history) == 0 {
			return nil, fmt.Errorf("No input to parse")
		}

		code = history[len(history)-1]
	}

	return parser.Parse(capi.Interpreter().Name, code)
}

// Command: history
// ================

/*
CommandHistory is a command name.
*/
const CommandHistory = "@history"

/*
CmdHistory shows the previous inputs of the session.
*/
type CmdHistory struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdHistory) Name() string {
	return CommandHistory
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdHistory) ShortDescription() string {
	return "Show previous inputs."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdHistory) LongDescription() string {
	return "Show the previous inputs of this session. The number of kept inputs is " +
		"limited by the HistoryLength config option."
}

/*
Run executes the command.
*/
func (c *CmdHistory) Run(args []string, capi CommandConsoleAPI) error {
	history := capi.History()

	if len(history) == 0 {
		fmt.Fprintln(capi.Out(), "No history")
		return nil
	}

	for i, input := range history {
		lines := strings.Split(input, "\n")

		fmt.Fprintln(capi.Out(), fmt.Sprintf("%3d  %v", i+1, lines[0]))

		for _, line := range lines[1:] {
			fmt.Fprintln(capi.Out(), "     "+line)
		}
	}

	return nil
}
