package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tinyjs",
	Short: "TinyJS interpreter",
	Long: `tinyjs is an embeddable interpreter for a small dynamically-typed
scripting language in the ECMAScript family.

It executes a subset of ECMAScript: var/let declarations, control flow,
functions and closures, object/array literals with prototype-chain
property lookup, try/catch/finally, switch, and the usual operator set.
Objects are managed with a cycle-aware reference-counting scheme rather
than a tracing garbage collector.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
