package main

import (
	"os"

	"github.com/swiftclouddbs/Alpha-Seeker/cmd/seeker/commands"
)

// main is the entry point for the Alpha-Seeker CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
