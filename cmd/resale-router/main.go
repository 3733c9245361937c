// Package main is the entry point for the resale-router server.
package main

import (
	"os"

	"github.com/donaldgifford/resale-router/cmd/resale-router/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
