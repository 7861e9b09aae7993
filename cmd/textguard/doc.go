// Package textguard provides the command-line interface for textguard. It
// registers the subcommands (scan, detect, fix, baseline, patterns, watch,
// etc.), parses flags and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/textguard/textguard/cmd/textguard"
//	func main() { textguard.Execute() }
package textguard
