package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/tinyjs-go/tinyjs/pkg/tinyjs"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive TinyJS session",
	Long: `Start a read-eval-print loop: each line is evaluated in the same
Engine, so declarations made on one line are visible on the next.

This is the peripheral "interactive REPL driver" spec §1 describes as
an external collaborator of the core interpreter; it uses
AlecAivazis/survey for line editing rather than anything in the
engine itself.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// surveyPrompter implements tinyjs.ReplPrompter using survey for line
// editing with history and readline-style input.
type surveyPrompter struct{}

func (surveyPrompter) Prompt() (string, error) {
	var line string
	q := &survey.Question{
		Prompt: &survey.Input{Message: "tinyjs>"},
	}
	err := survey.Ask([]*survey.Question{q}, &line)
	if err != nil {
		if err == terminal.InterruptErr {
			return "", io.EOF
		}
		return "", err
	}
	return line, nil
}

func runRepl(_ *cobra.Command, _ []string) error {
	return repl(surveyPrompter{}, os.Stdout)
}

// repl drives one interactive session against prompter, writing
// printed output and results to out. It is a small, standalone loop so
// it can be exercised by tests with a fake ReplPrompter rather than a
// real terminal.
func repl(prompter tinyjs.ReplPrompter, out io.Writer) error {
	engine := tinyjs.New(tinyjs.WithStdout(out))
	fmt.Fprintln(out, "tinyjs REPL — Ctrl-D to exit")

	for {
		line, err := prompter.Prompt()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		v, err := engine.Evaluate(line, "<repl>")
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			continue
		}
		fmt.Fprintln(out, "=>", v)
	}
}
