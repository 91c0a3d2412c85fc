// Package cli implements the mgnify-dl command line: the fetch and list
// subcommands, logging setup and the end of run summaries.
package cli
