// Command prodcrawl is the CLI entry point for the product-URL crawl
// engine.
package main

import (
	"os"

	"github.com/jmylchreest/prodcrawl/cmd/prodcrawl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
