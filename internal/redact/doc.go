// Package redact produces masked copies of text. Mask rewrites detected
// spans with type-aware, format-preserving masks; Apply and WouldChange run a
// rewrite over a file on disk.
package redact
