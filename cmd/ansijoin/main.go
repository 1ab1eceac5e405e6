// Package main provides the ansijoin command.
package main

import (
	"os"

	"github.com/leapstack-labs/ansijoin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
