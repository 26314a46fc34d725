// Command tinyjs is the CLI driver around pkg/tinyjs: it is an
// external collaborator per spec §1 (the "interactive REPL driver" and
// the ad-hoc test runner are both explicitly peripheral) that only
// ever talks to the core through the embedding API in pkg/tinyjs.
package main

import (
	"os"

	"github.com/tinyjs-go/tinyjs/cmd/tinyjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
