// Package main is the entry point for the tvm CLI.
package main

import (
	"os"

	"tvm/cmd/tvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
