// Command blobdiff compares two revisions of a text document.
package main

import (
	"os"

	"github.com/codalotl/blobdiff/internal/cli"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Run has already logged any error.
	code, _ := cli.Run(os.Args, cli.BuildInfo{Version: version, Commit: commit, Date: date}, nil)
	return code
}
