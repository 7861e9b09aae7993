package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// FileName is the cache file written to the scan root when there is no
// .git directory to hold it.
const FileName = ".textguardcache.json"

// DB remembers which files scanned clean. Entries maps a root-relative path
// to the xxhash of the content that produced no findings; Fingerprint
// identifies the pattern set, type filter and validators of that scan.
// Files with findings are never recorded.
type DB struct {
	Fingerprint string            `json:"fingerprint"`
	Entries     map[string]string `json:"entries"`
}

// Clean reports whether rel was last scanned clean with content hash h.
func (db DB) Clean(rel, h string) bool {
	prev, ok := db.Entries[rel]
	return ok && prev == h
}

// Rebind ties db to the scan setup fp. Entries recorded under another setup
// say nothing about the new one and are dropped; the result reports whether
// that happened.
func (db *DB) Rebind(fp string) bool {
	if db.Fingerprint == fp && db.Entries != nil {
		return false
	}
	dropped := len(db.Entries) > 0
	db.Fingerprint = fp
	db.Entries = map[string]string{}
	return dropped
}

// statePath keeps state files under .git when there is one, so they are not
// committed by accident.
func statePath(root, inGit, inRoot string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, inGit)
	}
	return filepath.Join(root, inRoot)
}

func readJSON(p string, v any) error {
	b, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

func writeJSON(p string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}

// Load reads the cache for root. On any error an empty DB comes back with it,
// so callers may ignore the error and scan everything.
func Load(root string) (DB, error) {
	var db DB
	if err := readJSON(statePath(root, "textguardcache.json", FileName), &db); err != nil {
		return DB{Entries: map[string]string{}}, err
	}
	if db.Entries == nil {
		db.Entries = map[string]string{}
	}
	return db, nil
}

// Save writes db for root. A DB that was never loaded or bound is refused.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("cache: nil entries")
	}
	return writeJSON(statePath(root, "textguardcache.json", FileName), db)
}
