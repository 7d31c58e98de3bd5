// Package main provides the CLI entrypoint for typeshape.
//
// typeshape describes Go types as descriptors and classifies them:
//   - inspect loads Go packages and reports the shape of their types
//   - manifest builds descriptor tables from YAML declarations
//   - version prints build information
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
