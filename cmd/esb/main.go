// Command esb runs and tests Advent of Code solutions that speak the
// Fireplace v1 protocol.
package main

import (
	"os"

	"github.com/elfscript/fireplace/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
