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
Leaf is a small dynamically typed scripting language with pipe indented
blocks, dynamic scoping and functions with modifiers and flags.

The leaf tool can:

- Run an interactive console session.

- Run Leaf files.

- Pretty print Leaf files or dump their syntax tree.

- Serve console sessions to websocket clients.
*/
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"devt.de/krotik/leaf/config"
	"devt.de/krotik/leaf/console"
	"devt.de/krotik/leaf/interpreter"
	"devt.de/krotik/leaf/parser"
	"devt.de/krotik/leaf/server"
	"devt.de/krotik/leaf/version"
	"github.com/krotik/common/errorutil"
	"github.com/krotik/common/termutil"
	"github.com/krotik/ecal/util"
	"gopkg.in/yaml.v3"
)

func main() {

	// Initialize the default command line parser

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	// Define default usage message

	flag.Usage = func() {

		// Print usage for tool selection

		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println("Leaf scripting language")
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    console   Interactive Leaf console")
		fmt.Println("    run       Run Leaf files")
		fmt.Println("    fmt       Pretty print a Leaf file")
		fmt.Println("    ast       Show the syntax tree of a Leaf file")
		fmt.Println("    server    Start Leaf websocket server")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	// Parse the command bit

	err := flag.CommandLine.Parse(os.Args[1:])

	if len(flag.Args()) > 0 {
		var cerr error

		arg := flag.Args()[0]

		config.LoadConfigFile(config.DefaultConfigFile)

		switch arg {
		case "console":
			RunCliConsole()
		case "run":
			cerr = handleCommand("run [options] <files>", 1, func(args []string) error {
				return runFiles(os.Stdout, args)
			})
		case "fmt":
			cerr = handleCommand("fmt [options] <file>", 1, func(args []string) error {
				return formatFile(os.Stdout, args[0])
			})
		case "ast":
			format := flag.String("format", "", "Output format of the syntax tree (json or yaml)")
			cerr = handleCommand("ast [options] <file>", 1, func(args []string) error {
				return dumpAST(os.Stdout, args[0], *format)
			})
		case "server":
			cerr = handleCommand("server [options]", 0, func(args []string) error {
				server.StartServer()
				return nil
			})
		default:
			flag.Usage()
		}

		if cerr != nil {
			fmt.Println(cerr.Error())
			os.Exit(1)
		}

	} else if err == nil {

		flag.Usage()
	}
}

/*
handleCommand parses the options of a file command and runs it. The command
requires at least minArgs arguments.
*/
func handleCommand(usage string, minArgs int, run func(args []string) error) error {
	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s %s", os.Args[0], usage))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	if err := flag.CommandLine.Parse(os.Args[2:]); err != nil {
		return nil
	}

	if *showHelp || flag.NArg() < minArgs {
		flag.Usage()
		return nil
	}

	return run(flag.Args())
}

/*
newLogger creates the logger for interpreters from the configured log level.
*/
func newLogger() util.Logger {
	logger, err := util.NewLogLevelLogger(util.NewStdOutLogger(), config.Str(config.LogLevel))

	if err != nil {
		fmt.Println(err.Error())
		return util.NewStdOutLogger()
	}

	return logger
}

/*
runFiles runs a list of files. Each file runs in its own interpreter. All
files are run even if some of them fail.
*/
func runFiles(out io.Writer, files []string) error {
	logger := newLogger()
	errs := errorutil.NewCompositeError()

	for _, file := range files {
		src, err := ioutil.ReadFile(file)

		if err == nil {
			i := interpreter.New(file)
			i.Out = out
			i.Logger = logger

			_, err = i.Interpret(string(src))
		}

		if err != nil {
			errs.Add(err)
		}
	}

	if errs.HasErrors() {
		return errs
	}

	return nil
}

/*
parseFile parses a given file.
*/
func parseFile(file string) (*parser.StatementList, error) {
	src, err := ioutil.ReadFile(file)

	if err != nil {
		return nil, err
	}

	return parser.Parse(file, string(src))
}

/*
formatFile writes the normal form of a file.
*/
func formatFile(out io.Writer, file string) error {
	ast, err := parseFile(file)

	if err == nil {
		fmt.Fprint(out, parser.PrettyPrint(ast))
	}

	return err
}

/*
dumpAST writes the syntax tree of a file. The format can be json, yaml or
empty for an indented text dump.
*/
func dumpAST(out io.Writer, file string, format string) error {
	var res []byte

	ast, err := parseFile(file)

	if err != nil {
		return err
	}

	switch format {
	case "":
		res = []byte(parser.Dump(ast))

	case "json":
		if res, err = json.MarshalIndent(parser.Plain(ast), "", "  "); err == nil {
			res = append(res, '\n')
		}

	case "yaml":
		res, err = yaml.Marshal(parser.Plain(ast))

	default:
		err = fmt.Errorf("Unknown output format: %v", format)
	}

	if err == nil {
		_, err = out.Write(res)
	}

	return err
}

/*
RunCliConsole runs the interactive console on the commandline.
*/
func RunCliConsole() {
	var err error

	cmdfile := flag.String("file", "", "Read input from a file and exit")
	cmdline := flag.String("exec", "", "Execute a single line and exit")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s console [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	if flag.CommandLine.Parse(os.Args[2:]) != nil {
		return
	}

	if *showHelp {
		flag.Usage()
		return
	}

	interactive := *cmdfile == "" && *cmdline == ""

	if interactive {
		fmt.Println(fmt.Sprintf("Leaf %v.%v - Console", version.VERSION, version.REV))
	}

	var clt termutil.ConsoleLineTerminal

	isExitLine := func(s string) bool {
		return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
	}

	clt, err = termutil.NewConsoleLineTerminal(os.Stdout)

	if *cmdfile != "" {
		var file *os.File

		// Read input from a file

		file, err = os.Open(*cmdfile)
		if err == nil {
			defer file.Close()

			clt, err = termutil.AddFileReadingWrapper(clt, file, true)
		}

	} else if *cmdline != "" {
		var buf bytes.Buffer

		buf.WriteString(fmt.Sprintln(*cmdline))

		// Read input from a single line

		clt, err = termutil.AddFileReadingWrapper(clt, &buf, true)

	} else {

		// Add history functionality

		clt, err = termutil.AddHistoryMixin(clt, config.Str(config.HistoryFile),
			func(s string) bool {
				return isExitLine(s)
			})
	}

	var con *console.LeafConsole

	if err == nil {
		i := interpreter.New("console")
		i.Logger = newLogger()

		con = console.NewConsole(clt, i)

		if interactive {
			clt, err = termutil.AddAutoCompleteMixin(clt, con)
		}
	}

	if err == nil {

		// Start the console

		if err = clt.StartTerm(); err == nil {
			var line string

			defer clt.StopTerm()

			if interactive {
				fmt.Println("Type 'q' or 'quit' to exit the shell and '@help' to get help")
			}

			line, err = nextLine(clt, con, interactive)
			for err == nil && !isExitLine(line) {

				if _, cerr := con.Run(line); cerr != nil {
					con.WriteError(cerr)
				}

				line, err = nextLine(clt, con, interactive)
			}

			// Incomplete input at the end of a file is run as it is

			if err == nil && con.Prompt() == console.PromptContinuation {
				if _, cerr := con.Run(""); cerr != nil {
					con.WriteError(cerr)
				}
			}
		}
	}

	if err != nil {
		fmt.Println(err.Error())
	}
}

/*
nextLine reads the next line of input. Continuation lines of an interactive
session are read with the continuation prompt.
*/
func nextLine(clt termutil.ConsoleLineTerminal, con *console.LeafConsole, interactive bool) (string, error) {
	if interactive && con.Prompt() == console.PromptContinuation {
		return clt.NextLinePrompt(console.PromptContinuation, 0x0)
	}
	return clt.NextLine()
}
