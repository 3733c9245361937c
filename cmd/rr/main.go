// Package main is the entry point for the rr CLI client.
package main

import (
	"github.com/donaldgifford/resale-router/cmd/rr/cmd"
)

func main() {
	cmd.Execute()
}
