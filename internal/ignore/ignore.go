// Package ignore reads .textguardignore files: one doublestar glob per line,
// '#' comments, a trailing '/' for directories and '!' to re-include.
package ignore

import (
	"bufio"
	"io"
	"os"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileName is the ignore file looked up in the scan root.
const FileName = ".textguardignore"

type rule struct {
	glob   string
	dir    bool
	negate bool
}

// Matcher decides whether a slash-separated relative path is ignored.
// The zero value ignores nothing.
type Matcher struct {
	rules []rule
}

// Load parses the ignore file at path. A missing file yields an empty
// matcher along with the open error.
func Load(path string) (Matcher, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads ignore rules from r.
func Parse(r io.Reader) (Matcher, error) {
	var m Matcher
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var rl rule
		if strings.HasPrefix(line, "!") {
			rl.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rl.dir = true
			line = strings.TrimSuffix(line, "/")
		}
		line = strings.TrimPrefix(line, "/")
		if line == "" || !doublestar.ValidatePattern(line) {
			continue
		}
		rl.glob = line
		m.rules = append(m.rules, rl)
	}
	return m, sc.Err()
}

// Match reports whether rel is ignored. The last matching rule wins.
func (m Matcher) Match(rel string) bool {
	if len(m.rules) == 0 {
		return false
	}
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "./")
	ignored := false
	for _, r := range m.rules {
		if r.matches(rel) {
			ignored = !r.negate
		}
	}
	return ignored
}

func (r rule) matches(rel string) bool {
	segs := strings.Split(rel, "/")
	if r.dir {
		// any leading directory of rel
		for i := 1; i < len(segs); i++ {
			if globMatch(r.glob, strings.Join(segs[:i], "/")) || globMatch(r.glob, segs[i-1]) {
				return true
			}
		}
		return false
	}
	if globMatch(r.glob, rel) {
		return true
	}
	if !strings.Contains(r.glob, "/") {
		for _, s := range segs {
			if globMatch(r.glob, s) {
				return true
			}
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	ok, _ := doublestar.Match(pattern, name)
	return ok
}
