// Command propscript lexes, parses, runs, and caches PropScript source
// files from the command line.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobappleyard/readline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frozein/PropScript"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "propscript",
		Short: "Lex, parse, and run PropScript source files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newReplCmd())

	return cmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path>",
		Short: "Lex, parse, and execute a .ps source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := parseFile(args[0])
			if err != nil {
				return err
			}

			interp := propscript.NewInterpreter()
			return interp.Execute(ast)
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <path>",
		Short: "Lex and parse a .ps source file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := parseFile(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("ok: %d top-level statements, %d nodes\n", len(ast.Parents), len(ast.Pool))
			return nil
		},
	}
}

func newCompileCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Parse a .ps source file and save its binary ast alongside it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ast, err := parseFile(args[0])
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = args[0] + "obj"
			}

			return propscript.Save(dest, ast)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the compiled ast (defaults to <path>obj)")

	return cmd
}

// replCompletions is a static stand-in for the teacher's dynamic
// ListDefined()-backed completer: PropScript's Interpreter doesn't expose
// the names currently bound, so completion only covers the fixed language
// keywords and default builtin functions.
var replCompletions = []string{
	"func", "ret", "if", "else", "for", "break", "continue", "and", "or", "in",
	"range", "print", "rand", "int", "vec2", "vec3", "vec4", "quaternion",
	"pow", "sqrt", "sin", "cos", "tan", "asin", "acos", "atan",
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
}

// runRepl reads statements from stdin via readline, one line at a time,
// accumulating lines until every opened `{` has a matching `}`, then lexes,
// parses, and executes the accumulated source against a single long-lived
// Interpreter. Each accumulated unit runs as its own program: Execute
// removes the top-level variables and functions a unit declared when it
// returns, so they are not visible to the next unit. Mirrors the teacher's
// Repl: a readline-driven loop that adds
// each read line to history and prints (rather than aborting on) any
// error a line produces.
func runRepl() {
	interp := propscript.NewInterpreter()

	readline.Completer = func(query, ctx string) []string {
		var matches []string
		for _, c := range replCompletions {
			if strings.HasPrefix(c, query) {
				matches = append(matches, c)
			}
		}
		return matches
	}

	var pending string
	depth := 0

	for {
		prompt := "ps> "
		if depth > 0 {
			prompt = "... "
		}

		line, err := readline.String(prompt)
		if err == io.EOF {
			fmt.Println()
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		readline.AddHistory(line)

		pending += line + "\n"
		depth += strings.Count(line, "{") - strings.Count(line, "}")
		if depth > 0 {
			continue
		}

		src := pending
		pending, depth = "", 0

		ast, err := propscript.Parse(propscript.LexBytes([]byte(src)))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		if err := interp.Execute(ast); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func parseFile(path string) (*propscript.Ast, error) {
	tokens, err := propscript.Lex(path)
	if err != nil {
		return nil, err
	}

	return propscript.Parse(tokens)
}
