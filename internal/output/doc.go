// Package output renders the summary of a datecommit run.
//
// Three formats are supported:
//   - text: colored terminal summary with a table of committed files (default)
//   - json: the full [Report] as indented JSON, for scripting and audit logs
//   - markdown: a short summary suitable for pasting into a pull request or ticket
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReport] to render straight to a file path or stdout.
package output
