// Package main is the entry point for the docsectiond CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/docsectiond/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
