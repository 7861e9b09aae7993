package engine

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/textguard/textguard/internal/ignore"
)

// Walk traverses cfg.Root and invokes handle for each eligible text file with
// its slash-separated relative path. It stops early when ctx is cancelled.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(path string, data []byte)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, ok := eligible(cfg, ign, p, d)
		if !ok {
			return nil
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return nil
		}
		if !scannable(rel, b) {
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// ReadTarget applies the same selection rules as Walk to a single file under
// cfg.Root. ok is false when the file would not be scanned.
func ReadTarget(cfg Config, ign ignore.Matcher, path string) (rel string, data []byte, ok bool) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cfg.Root, path)
	}
	info, err := os.Lstat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", nil, false
	}
	rel, ok = eligible(cfg, ign, abs, fs.FileInfoToDirEntry(info))
	if !ok {
		return "", nil, false
	}
	if cfg.DefaultExcludes {
		for _, seg := range strings.Split(filepath.Dir(rel), "/") {
			if seg != "." && isDefaultDirExcluded(seg) {
				return "", nil, false
			}
		}
	}
	b, err := os.ReadFile(abs)
	if err != nil || !scannable(rel, b) {
		return "", nil, false
	}
	return rel, b, true
}

func eligible(cfg Config, ign ignore.Matcher, p string, d fs.DirEntry) (string, bool) {
	rel, err := filepath.Rel(cfg.Root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !allowedByGlobs(rel, cfg) {
		return "", false
	}
	if ign.Match(rel) {
		return "", false
	}
	if cfg.MaxBytes > 0 {
		if info, _ := d.Info(); info != nil && info.Size() > cfg.MaxBytes {
			return "", false
		}
	}
	if isToolFile(rel) {
		return "", false
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(rel)) {
		return "", false
	}
	return rel, true
}

func scannable(rel string, b []byte) bool {
	if strings.Contains(string(b), "textguard:ignore-file") {
		return false
	}
	return !looksBinary(b) && !looksNonTextMIME(rel, b)
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// clearly non-text content (e.g., images) in addition to NUL-byte detection.
func looksNonTextMIME(path string, b []byte) bool {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "tar") || strings.Contains(ct, "gzip") {
			return true
		}
	}
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	if len(b) >= 4 && b[0] == 'P' && b[1] == 'K' {
		return true
	}
	return false
}

// CountTargets estimates the number of files a scan of cfg would read,
// without reading them.
func CountTargets(cfg Config) (int, error) {
	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	count := 0
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := eligible(cfg, ign, p, d); ok {
			count++
		}
		return nil
	})
	return count, err
}
