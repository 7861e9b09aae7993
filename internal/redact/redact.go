package redact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Rewriter transforms the full contents of a file.
type Rewriter func(string) string

// Replacement is a literal regex substitution.
type Replacement struct {
	Pattern *regexp.Regexp
	Replace string
}

// Replacements turns a list of regex substitutions into a Rewriter that
// applies them in order.
func Replacements(reps []Replacement) Rewriter {
	return func(s string) string {
		for _, r := range reps {
			if r.Pattern == nil {
				continue
			}
			s = r.Pattern.ReplaceAllLiteralString(s, r.Replace)
		}
		return s
	}
}

// WouldChange reports whether rewriting path would alter its contents.
func WouldChange(path string, rw Rewriter) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	src := string(b)
	return rw(src) != src, nil
}

// Apply rewrites path in place. The new contents are written to a sibling
// temp file and renamed over the original, keeping its permissions.
func Apply(path string, rw Rewriter) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	src := string(b)
	out := rw(src)
	if out == src {
		return false, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".textguard-*")
	if err != nil {
		return false, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.WriteString(out); err != nil {
		_ = tmp.Close()
		cleanup()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return false, err
	}
	if err := os.Chmod(tmpName, fi.Mode().Perm()); err != nil {
		cleanup()
		return false, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return false, fmt.Errorf("replace %s: %w", path, err)
	}
	return true, nil
}
