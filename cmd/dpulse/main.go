// Package main provides the dpulse CLI application.
// dpulse turns monthly identity-transaction CSV exports into a merged
// district-month table in PostgreSQL and runs analytical modules over it.
package main

import (
	"os"
)

var (
	// Version is set by build flags.
	Version = "dev"

	// Build is set by build flags.
	Build = "unknown"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
