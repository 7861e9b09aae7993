package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/textguard/textguard/internal/ignore"
	"github.com/textguard/textguard/internal/types"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	// Ready, when set, is called once every directory is being watched.
	Ready func()
}

// Watch rescans files under cfg.Root as they are written or created and
// passes each file's findings (possibly none) to onScan. It blocks until ctx
// is cancelled. New directories are watched as they appear, and a file is
// only rescanned when its content differs from the last scan.
func Watch(ctx context.Context, g *Guard, cfg Config, opts WatchOptions, onScan func(path string, findings []types.Finding)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()

	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	if err := watchTree(w, cfg, cfg.Root); err != nil {
		return err
	}
	if opts.Ready != nil {
		opts.Ready()
	}

	last := map[string]string{}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.log.Warn("watch error", zap.Error(err))
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
				if ev.Op&fsnotify.Create != 0 {
					_ = watchTree(w, cfg, ev.Name)
				}
				continue
			}
			rel, data, ok := ReadTarget(cfg, ign, ev.Name)
			if !ok {
				continue
			}
			h := fastHash(data)
			if last[rel] == h {
				continue
			}
			last[rel] = h
			onScan(rel, ScanData(g, cfg, rel, data))
		}
	}
}

// watchTree adds dir and its subdirectories, honoring the default excludes.
func watchTree(w *fsnotify.Watcher, cfg Config, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if p != cfg.Root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
