package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/textguard/textguard/internal/types"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load should return empty DB and error
	db, _ := Load(dir)
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	db.Entries["a.txt"] = "deadbeef"
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	db2, err := Load(dir)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if got := db2.Entries["a.txt"]; got != "deadbeef" {
		t.Fatalf("unexpected entry: %q", got)
	}
}

func TestLoadSave_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, DB{Entries: map[string]string{"x": "1"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git", "textguardcache.json")); err != nil {
		t.Fatalf("expected cache under .git: %v", err)
	}
	if err := Save(dir, DB{}); err == nil {
		t.Fatal("expected error saving nil entries")
	}
}

func TestSaveLoadResults(t *testing.T) {
	dir := t.TempDir()
	fs := []types.Finding{{Path: "a.txt", Line: 2, Match: "t**t@ex***le.***", Type: types.Email, Severity: types.SevMed}}
	if err := SaveResults(dir, fs); err != nil {
		t.Fatal(err)
	}
	got, err := LoadResults(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 1 || len(got.Findings) != 1 || got.Findings[0].Type != types.Email {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got.Root != dir {
		t.Fatalf("root = %q", got.Root)
	}
}

func TestRebind_DropsEntriesFromOtherSetup(t *testing.T) {
	dir := t.TempDir()
	db, _ := Load(dir)
	if db.Rebind("aaaa") {
		t.Fatal("fresh cache has nothing to drop")
	}
	db.Entries["a.txt"] = "h1"
	if err := Save(dir, db); err != nil {
		t.Fatal(err)
	}

	same, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if same.Rebind("aaaa") {
		t.Fatal("same fingerprint must keep entries")
	}
	if !same.Clean("a.txt", "h1") || same.Clean("a.txt", "h2") || same.Clean("b.txt", "h1") {
		t.Fatalf("unexpected Clean answers for %+v", same.Entries)
	}

	other, _ := Load(dir)
	if !other.Rebind("bbbb") {
		t.Fatal("expected entries dropped for a new fingerprint")
	}
	if other.Clean("a.txt", "h1") || other.Fingerprint != "bbbb" {
		t.Fatalf("stale entry survived rebind: %+v", other)
	}
}
