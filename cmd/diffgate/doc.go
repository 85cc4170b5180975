// Package diffgate provides the command-line interface for diffgate. It wires
// the subcommands (scan, commit, rules, baseline, config, ci, mcp), resolves
// flags against config files and DIFFGATE_* environment variables, and maps
// outcomes to exit codes: 0 pass, 1 gate failure, 2 operational error.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/diffgate/cmd/diffgate"
//	func main() { diffgate.Execute() }
package diffgate
