package engine

import "strings"

// Inline suppression markers, matched anywhere on a line.
const (
	markIgnore     = "textguard:ignore"
	markIgnoreNext = "textguard:ignore-next-line"
	markRegionOpen = "textguard:ignore-start"
	markRegionEnd  = "textguard:ignore-end"
)

// suppressedLines returns the 1-based line numbers whose findings are
// dropped: lines carrying textguard:ignore, the line after
// textguard:ignore-next-line, and everything between ignore-start and
// ignore-end.
func suppressedLines(text string) map[int]bool {
	if !strings.Contains(text, markIgnore) {
		return nil
	}
	out := map[int]bool{}
	region := false
	skipNext := false
	for i, line := range strings.Split(text, "\n") {
		n := i + 1
		switch {
		case strings.Contains(line, markRegionOpen):
			region = true
			out[n] = true
			continue
		case strings.Contains(line, markRegionEnd):
			region = false
			out[n] = true
			continue
		}
		if region || skipNext {
			out[n] = true
			skipNext = false
			continue
		}
		if strings.Contains(line, markIgnoreNext) {
			skipNext = true
			out[n] = true
			continue
		}
		if strings.Contains(line, markIgnore) {
			out[n] = true
		}
	}
	return out
}
