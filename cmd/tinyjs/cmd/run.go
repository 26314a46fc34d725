package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tinyjs-go/tinyjs/internal/errors"
	"github.com/tinyjs-go/tinyjs/internal/lexer"
	"github.com/tinyjs-go/tinyjs/internal/tokenizer"
	"github.com/tinyjs-go/tinyjs/pkg/tinyjs"
)

var (
	evalExpr   string
	dumpTokens bool
	doTrace    bool
	loopLimit  int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a TinyJS file or expression",
	Long: `Execute a TinyJS program from a file or inline expression.

Examples:
  # Run a script file
  tinyjs run script.js

  # Evaluate an inline expression
  tinyjs run -e "print('Hello, World!')"

  # Dump the annotated token vector before running (for debugging)
  tinyjs run --dump-tokens script.js

  # Print the value of 'result' after execution, and a trace of root
  tinyjs run --trace script.js`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "dump the annotated token vector (for debugging)")
	runCmd.Flags().BoolVar(&doTrace, "trace", false, "print a trace of the root scope's reachable value graph after running")
	runCmd.Flags().IntVar(&loopLimit, "loop-limit", 0, "override the loop-iteration cap (0 = engine default)")
}

func runScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	if dumpTokens {
		if err := dumpStream(input, filename); err != nil {
			return err
		}
	}

	opts := []tinyjs.Option{tinyjs.WithStdout(os.Stdout)}
	if loopLimit > 0 {
		opts = append(opts, tinyjs.WithLoopLimit(loopLimit))
	}
	engine := tinyjs.New(opts...)

	if verbose {
		fmt.Fprintf(os.Stderr, "[running %s]\n", filename)
	}

	if err := engine.Execute(input, filename); err != nil {
		printEngineError(err, input)
		return fmt.Errorf("execution failed")
	}

	if doTrace {
		fmt.Fprint(os.Stderr, engine.Trace())
	}

	return nil
}

func readSource(evalExpr string, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, readErr := os.ReadFile(args[0])
		if readErr != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], readErr)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}

func dumpStream(input, filename string) error {
	l := lexer.New(input, filename)
	stream, err := tokenizer.Tokenize(l)
	if err != nil {
		printEngineError(err, input)
		return err
	}
	fmt.Print(stream.String())
	return nil
}

// printEngineError renders err with source context, colorizing on a
// TTY via fatih/color (through internal/errors.CompilerError.Format),
// matching the teacher's "pretty" diagnostic output.
func printEngineError(err error, source string) {
	colorEnabled := isatty.IsTerminal(os.Stderr.Fd())
	if ce, ok := err.(*errors.CompilerError); ok {
		ce.Source = source
		fmt.Fprintln(os.Stderr, ce.Format(colorEnabled))
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
}
