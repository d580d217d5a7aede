// Package cli wires together the Cobra command tree for the datecommit binary.
//
// The root command takes a working tree and an optional date range, reads
// configuration, and runs the scan, partition, and commit pipeline. The config
// and version subcommands manage settings and report the build. Every failure,
// including a request for help, exits with status 1.
package cli
