// Package main generates CLI reference documentation for the rr client and
// the resale-router server binary.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	rr "github.com/donaldgifford/resale-router/cmd/rr/cmd"
	server "github.com/donaldgifford/resale-router/cmd/resale-router/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	for _, root := range []*cobra.Command{rr.Root(), server.Root()} {
		dir := filepath.Join(*output, root.Name())
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			log.Fatalf("generating docs for %s: %v", root.Name(), err)
		}
		fmt.Printf("CLI docs for %s generated in %s/\n", root.Name(), dir)
	}
}
