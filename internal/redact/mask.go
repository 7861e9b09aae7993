package redact

import (
	"sort"
	"strings"
	"unicode"

	"github.com/textguard/textguard/internal/types"
)

const maskRune = '*'

// Mask returns original with every threat span replaced by its masked form.
// Spans are rewritten from the highest start offset down, so offsets of the
// spans still to be processed stay valid. threats itself is not reordered.
//
// When spans overlap, the later-starting (or, on equal starts, the longer)
// span is masked first and an earlier span is only starred up to where the
// already masked region begins. This departs from a literal splice, which
// would paste the earlier span's formatted mask over the masked region.
func Mask(original string, threats []types.ThreatInfo) string {
	if len(threats) == 0 {
		return original
	}
	ordered := make([]types.ThreatInfo, len(threats))
	copy(ordered, threats)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start > ordered[j].Start
		}
		return ordered[i].End > ordered[j].End
	})

	result := original
	limit := len(original)
	for _, t := range ordered {
		if t.Start < 0 || t.End < t.Start || t.End >= len(original) || t.Start >= limit {
			continue
		}
		end := t.End
		var rep string
		if end >= limit {
			end = limit - 1
			rep = stars(original[t.Start:limit])
		} else {
			rep = MaskValue(t.Type, original[t.Start:end+1])
		}
		result = result[:t.Start] + rep + result[end+1:]
		limit = t.Start
	}
	return result
}

// MaskValue applies the format-preserving mask for t to a single value.
func MaskValue(t types.ThreatType, value string) string {
	switch t {
	case types.SSN:
		return keepLeadingDigits(value, 7)
	case types.CreditCard:
		return keepLeadingDigits(value, 4)
	case types.Email:
		return maskEmail(value)
	case types.PhoneNumber:
		return maskPhone(value)
	case types.IPv4Address:
		return maskGroups(value, ".", unicode.IsDigit)
	case types.IPv6Address:
		return maskGroups(value, ":", isAlnum)
	}
	return stars(value)
}

func stars(s string) string {
	return strings.Repeat(string(maskRune), len([]rune(s)))
}

// keepLeadingDigits leaves the first n digits visible and stars the rest.
// Separators stay where they are. Fewer than n digits masks every digit.
func keepLeadingDigits(value string, n int) string {
	rs := []rune(value)
	total := 0
	for _, r := range rs {
		if unicode.IsDigit(r) {
			total++
		}
	}
	if total < n {
		n = 0
	}
	seen := 0
	for i, r := range rs {
		if !unicode.IsDigit(r) {
			continue
		}
		seen++
		if seen > n {
			rs[i] = maskRune
		}
	}
	return string(rs)
}

func maskEmail(value string) string {
	parts := strings.Split(value, "@")
	if len(parts) != 2 {
		return "***@***.***"
	}
	local := []rune(parts[0])
	if len(local) <= 3 {
		parts[0] = stars(parts[0])
	} else {
		parts[0] = string(local[0]) + strings.Repeat(string(maskRune), len(local)-2) + string(local[len(local)-1])
	}
	labels := strings.Split(parts[1], ".")
	for i, l := range labels {
		rs := []rune(l)
		if len(rs) <= 5 {
			labels[i] = stars(l)
			continue
		}
		labels[i] = string(rs[:2]) + strings.Repeat(string(maskRune), len(rs)-4) + string(rs[len(rs)-2:])
	}
	return parts[0] + "@" + strings.Join(labels, ".")
}

// maskPhone keeps the dialing prefix and the last four characters and stars
// every digit in between.
func maskPhone(value string) string {
	rs := []rune(value)
	prefix := 3
	switch {
	case strings.HasPrefix(value, "02"):
		prefix = 2
	case strings.HasPrefix(value, "+"):
		if i := strings.IndexRune(value, '-'); i >= 0 {
			prefix = len([]rune(value[:i])) + 1
		}
	}
	if prefix >= len(rs) {
		prefix = 0
	}
	tail := len(rs) - 4
	if tail <= prefix {
		tail = len(rs)
	}
	for i := prefix; i < tail; i++ {
		if unicode.IsDigit(rs[i]) {
			rs[i] = maskRune
		}
	}
	return string(rs)
}

// maskGroups keeps the first two sep-delimited groups and stars every rune
// matching hide in the remaining groups.
func maskGroups(value, sep string, hide func(rune) bool) string {
	groups := strings.Split(value, sep)
	for i := 2; i < len(groups); i++ {
		rs := []rune(groups[i])
		for j, r := range rs {
			if hide(r) {
				rs[j] = maskRune
			}
		}
		groups[i] = string(rs)
	}
	return strings.Join(groups, sep)
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
