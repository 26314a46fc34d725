package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Tokenize a TinyJS file and print the annotated token vector",
	Long: `Lex and tokenize a TinyJS program, printing the resulting token
vector (index and token) after hoisting and annotation. The skip
offsets are computed but not printed.

This command is useful for debugging the lexer/tokenizer pre-pass and
understanding how source is rewritten before the evaluator sees it.

Examples:
  tinyjs tokenize script.js
  tinyjs tokenize -e "var x = 1;"`,
	Args: cobra.MaximumNArgs(1),
	RunE: tokenizeScript,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func tokenizeScript(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Tokenizing: %s (%d bytes)\n", filename, len(input))
	}
	return dumpStream(input, filename)
}
