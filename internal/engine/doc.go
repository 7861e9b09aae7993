// Package engine contains the core of textguard. Guard runs the pattern
// catalog over text, collapses duplicate spans and masks what it found;
// ScanWithStats applies a Guard to every eligible file under a root. This
// package is internal; external consumers should use the facade in pkg/core.
package engine
