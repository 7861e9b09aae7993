// Package detectors runs catalog patterns over text and gates checksum-bearing
// matches through per-type validators.
package detectors
