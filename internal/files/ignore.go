// Package files edits the scan ignore file on behalf of `textguard ignore add`.
package files

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/textguard/textguard/internal/ignore"
)

// AppendIgnore ensures pattern is present in the ignore file at root,
// creating the file when missing. Calling it twice is a no-op.
func AppendIgnore(root, pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil
	}
	path := filepath.Join(root, ignore.FileName)
	existing := map[string]bool{}
	needsNewline := false
	if b, err := os.ReadFile(path); err == nil {
		sc := bufio.NewScanner(strings.NewReader(string(b)))
		for sc.Scan() {
			existing[strings.TrimSpace(sc.Text())] = true
		}
		needsNewline = len(b) > 0 && b[len(b)-1] != '\n'
	}
	if existing[pattern] {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if needsNewline {
		pattern = "\n" + pattern
	}
	_, err = f.WriteString(pattern + "\n")
	return err
}

// DefaultGeneratedIgnores returns generated or vendored patterns that rarely
// hold hand-written personal data.
func DefaultGeneratedIgnores() []string {
	return []string{
		"*.pb.go",
		"*.gen.*",
		"*.min.js",
		"*.snap",
	}
}
