// Command diagcli is the offline diagnostics CLI (spec.md §6),
// wiring pkg/diagcli's subcommand dispatcher to the process's real
// stdio and exit code.
package main

import (
	"os"

	"github.com/funvibe/funxy/internal/config"
	"github.com/funvibe/funxy/pkg/diagcli"
)

func main() {
	config.IsLSPMode = false
	os.Exit(diagcli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
