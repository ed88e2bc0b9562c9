// Command cartctl manages a local iWingMobile cart stored in a SQLite file.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
