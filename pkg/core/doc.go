// Package core provides a small, stable facade over textguard's internal
// engine for programs that embed it. Detection and masking are pure
// in-memory calls; Scan walks a directory tree.
//
// Example:
//
//	g := core.New()
//	res := g.Detect("mail test@example.com", core.DetectOptions{})
//	fmt.Println(res.MaskedText) // mail t**t@ex***le.***
package core
