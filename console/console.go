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
Package console contains the interactive console of Leaf.

Lines which start with @ are console commands. All other lines are Leaf
code. Code is collected over several lines until it forms a complete
program or an empty line is entered.
*/
package console

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"devt.de/krotik/leaf/config"
	"devt.de/krotik/leaf/interpreter"
	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/value"
	"github.com/fatih/color"
	"github.com/krotik/common/datautil"
	"github.com/krotik/common/termutil"
)

/*
CommandPrefix is the prefix of all console commands.
*/
const CommandPrefix = "@"

/*
Prompts of the console
*/
const (
	PromptInput        = ">>> "
	PromptContinuation = "... "
)

/*
CommandConsole is the main interface for command processors.
*/
type CommandConsole interface {

	/*
		Run processes a line of input. It returns an error if the input had
		an unexpected result and a flag if the input was complete.
	*/
	Run(line string) (bool, error)

	/*
	   Commands returns a sorted list of all available commands.
	*/
	Commands() []Command
}

/*
CommandConsoleAPI is the console interface which commands can use.
*/
type CommandConsoleAPI interface {
	CommandConsole

	/*
		Out returns a writer which can be used to write to the console.
	*/
	Out() io.Writer

	/*
		Interpreter returns the interpreter of the console session.
	*/
	Interpreter() *interpreter.Interpreter

	/*
		History returns all complete inputs of the console session (oldest first).
	*/
	History() []string
}

/*
Command describes an available command.
*/
type Command interface {
	/*
	   Name returns the command name (as it should be typed).
	*/
	Name() string

	/*
	   ShortDescription returns a short description of the command (single line).
	*/
	ShortDescription() string

	/*
	   LongDescription returns an extensive description of the command (can be multiple lines).
	*/
	LongDescription() string

	/*
		Run executes the command.
	*/
	Run(args []string, capi CommandConsoleAPI) error
}

// Leaf Console
// ============

/*
LeafConsole is an interactive Leaf session.
*/
type LeafConsole struct {
	out     io.Writer                // Output for this console
	interp  *interpreter.Interpreter // Interpreter of this session
	history *datautil.RingBuffer     // Complete inputs of this session
	pending []string                 // Lines of an incomplete input

	resultColor *color.Color // Color of echoed results
	errorColor  *color.Color // Color of errors

	CommandMap map[string]Command // Map of registered commands
}

/*
NewConsole creates a new console session which writes to the given Writer.
*/
func NewConsole(out io.Writer, interp *interpreter.Interpreter) *LeafConsole {

	cmdMap := make(map[string]Command)

	for _, cmd := range []Command{&CmdHelp{}, &CmdVars{}, &CmdReset{}, &CmdLoad{},
		&CmdAST{}, &CmdFmt{}, &CmdHistory{}} {

		cmdMap[strings.TrimPrefix(cmd.Name(), CommandPrefix)] = cmd
	}

	c := &LeafConsole{out, interp, datautil.NewRingBuffer(int(config.Int(config.HistoryLength))),
		nil, color.New(color.FgCyan), color.New(color.FgRed), cmdMap}

	if !config.Bool(config.EnableColor) {
		c.resultColor.DisableColor()
		c.errorColor.DisableColor()
	}

	interp.Out = out
	interp.Echo = func(v value.Value) {
		c.resultColor.Fprintln(c.out, value.Repr(v))
	}
	interp.SetInteractive(true)

	return c
}

/*
Out returns a writer which can be used to write to the console.
*/
func (c *LeafConsole) Out() io.Writer {
	return c.out
}

/*
Interpreter returns the interpreter of the console session.
*/
func (c *LeafConsole) Interpreter() *interpreter.Interpreter {
	return c.interp
}

/*
History returns all complete inputs of the console session (oldest first).
*/
func (c *LeafConsole) History() []string {
	return c.history.StringSlice()
}

/*
Prompt returns the prompt for the next line of input.
*/
func (c *LeafConsole) Prompt() string {
	if len(c.pending) > 0 {
		return PromptContinuation
	}
	return PromptInput
}

/*
Run processes a line of input. It returns an error if the input had an
unexpected result and a flag if the input was complete. Incomplete code is
kept until a following line completes it. An empty line ends an incomplete
input.
*/
func (c *LeafConsole) Run(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)

	if len(c.pending) == 0 {

		if strings.HasPrefix(trimmed, CommandPrefix) {
			return true, c.RunCommand(trimmed)

		} else if trimmed == "" {

			return true, nil
		}
	}

	flush := trimmed == ""

	if !flush {
		c.pending = append(c.pending, line)
	}

	source := strings.Join(c.pending, "\n")

	ast, err := parser.Parse(c.interp.Name, source)

	var pe *parser.Error

	if errors.As(err, &pe) && pe.AtEnd() && !flush {
		return false, nil
	}

	c.pending = nil
	c.history.Add(source)

	if err == nil {
		_, err = c.interp.Run(ast)
	}

	if err != nil {
		c.interp.Logger.LogDebug(fmt.Sprintf("%v: %v", c.interp.Name, err))
	}

	return true, err
}

/*
RunCommand executes a single console command.
*/
func (c *LeafConsole) RunCommand(cmdString string) error {
	cmdSplit := strings.Fields(cmdString)

	if cmdObj, ok := c.CommandMap[strings.TrimPrefix(cmdSplit[0], CommandPrefix)]; ok {
		return cmdObj.Run(cmdSplit[1:], c)
	}

	return fmt.Errorf("Unknown command: %v (use %vhelp for a list of commands)",
		cmdSplit[0], CommandPrefix)
}

/*
Commands returns a sorted list of all available commands.
*/
func (c *LeafConsole) Commands() []Command {
	var res []Command

	for _, c := range c.CommandMap {
		res = append(res, c)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})

	return res
}

/*
WriteError writes an error to the console.
*/
func (c *LeafConsole) WriteError(err error) {
	c.errorColor.Fprintln(c.out, err.Error())
}

/*
Suggest returns completion suggestions for the last word of a given line.
Console commands are suggested at the start of a line and global names
everywhere else.
*/
func (c *LeafConsole) Suggest(line string) ([]string, error) {
	var words []string

	lineWords := strings.Split(line, " ")
	last := lineWords[len(lineWords)-1]

	if len(lineWords) == 1 && strings.HasPrefix(last, CommandPrefix) {
		for _, cmd := range c.Commands() {
			words = append(words, cmd.Name())
		}
	} else {
		words = c.interp.Names()
	}

	return termutil.NewWordListDict(words).Suggest(last)
}
