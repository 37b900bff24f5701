// Package main is the entry point for the feedlake CLI binary.
package main

import (
	"os"

	"feedlake/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
