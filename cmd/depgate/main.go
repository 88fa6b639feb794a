// Package main is the entry point for the depgate CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/depgate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
