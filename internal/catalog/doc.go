// Package catalog holds the detection rules used by textguard: a fixed set of
// built-in PII and injection patterns plus caller-registered custom patterns,
// exposed as a priority-ordered snapshot.
package catalog
