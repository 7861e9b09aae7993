// Package report renders scan findings as tables, plain text and SARIF, and
// manages baselines and the --fail-on threshold.
package report
