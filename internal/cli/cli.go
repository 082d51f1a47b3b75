// Package cli implements the mathtype command-line interface.
//
// The CLI parses LaTeX math, typesets it into a display tree, renders the
// tree to PDF, draws the parsed atom tree with Graphviz and serves the same
// operations over HTTP. It is built with cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - parse: parse markup and print its normalized form
//   - layout: typeset markup and write the display tree as JSON
//   - render: typeset and render markup to PDF
//   - tree: write the atom tree as DOT or SVG
//   - symbols: list the commands of the symbol table
//   - serve: run the HTTP service
//   - cache: manage the rendered artifact cache
//
// # Configuration
//
// Defaults come from mathtype.toml (see Config). Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli
