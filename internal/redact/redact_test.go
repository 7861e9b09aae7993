package redact

import (
	"os"
	"regexp"
	"strings"
	"testing"
)

func TestApplyAndWouldChange(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "redact-*.env")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	_ = f.Close()

	original := "PASSWORD=supersecret\nOTHER=value\n"
	if err := os.WriteFile(path, []byte(original), 0600); err != nil {
		t.Fatal(err)
	}

	rx := regexp.MustCompile(`PASSWORD=\S+`)
	rw := Replacements([]Replacement{{Pattern: rx, Replace: "PASSWORD=<redacted>"}})

	would, err := WouldChange(path, rw)
	if err != nil {
		t.Fatal(err)
	}
	if !would {
		t.Fatalf("expected WouldChange to be true")
	}

	changed, err := Apply(path, rw)
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatalf("expected Apply to modify the file")
	}

	b, _ := os.ReadFile(path)
	if got := string(b); got != "PASSWORD=<redacted>\nOTHER=value\n" {
		t.Fatalf("unexpected contents: %q", got)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Fatalf("expected permissions to be kept, got %v", fi.Mode().Perm())
	}

	// second apply should be no-op
	changed, err = Apply(path, rw)
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Fatalf("expected second Apply to be no change")
	}
}

func TestApply_MissingFile(t *testing.T) {
	if _, err := Apply(t.TempDir()+"/nope.txt", strings.ToUpper); err == nil {
		t.Fatal("expected error for missing file")
	}
}
