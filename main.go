// =============================================================================
// Dyad Splitter - Main Entry Point
// =============================================================================
//
// splitter reads a file where each row holds a pair of partners and writes
// one row per partner.
//
// USAGE:
//   splitter -i in.csv -o out.csv   - Split a dyad file
//   splitter validate               - Check a mapping against an input header
//   splitter presets                - List the built-in mappings
//   splitter version                - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Mapping, splitting, readers, writers
//   - pkg/           : Shared file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/dyad-splitter/cmd"
)

func main() {
	cmd.Execute()
}
