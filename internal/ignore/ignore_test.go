package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, FileName)
	content := "node_modules/\n*.pem\n# comment\n\nsecret.env\nfixtures/**/*.txt\n!fixtures/keep/allowed.txt\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js": true,
		"web/node_modules/x.js":     true,
		"certs/key.pem":             true,
		"secret.env":                true,
		"src/app.go":                false,
		"fixtures/a/b/pii.txt":      true,
		"fixtures/keep/allowed.txt": false,
		"node_modules":              false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected error for missing ignore file")
	}
	if m.Match("anything.txt") {
		t.Fatal("empty matcher must not ignore")
	}
}

func TestParse_SkipsInvalidGlobs(t *testing.T) {
	m, err := Parse(strings.NewReader("[unclosed\n*.log\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !m.Match("app.log") {
		t.Fatal("expected *.log to match")
	}
}
