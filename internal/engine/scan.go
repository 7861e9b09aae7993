package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/textguard/textguard/internal/cache"
	"github.com/textguard/textguard/internal/ctxparse"
	"github.com/textguard/textguard/internal/ignore"
	"github.com/textguard/textguard/internal/redact"
	"github.com/textguard/textguard/internal/types"
)

// Config controls file scanning: scope, limits and filters.
type Config struct {
	Root            string
	IncludeGlobs    string
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int
	Types           []types.ThreatType
	DefaultExcludes bool
	NoCache         bool
	Progress        func()
}

// Result contains findings and basic scan statistics.
type Result struct {
	Findings     []types.Finding
	FilesScanned int
	FilesCached  int
	Duration     time.Duration
}

type fileJob struct {
	path string
	data []byte
	hash string
}

type fileResult struct {
	job      fileJob
	findings []types.Finding
}

// Scan runs a scan and returns only findings (without stats).
func Scan(ctx context.Context, g *Guard, cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats walks cfg.Root and runs g over every eligible file with
// cfg.Threads workers. Findings carry masked values and are ordered by path,
// line and column. Files unchanged since they last scanned clean are skipped
// unless NoCache is set.
func ScanWithStats(ctx context.Context, g *Guard, cfg Config) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var result Result
	started := time.Now()

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	}
	if db.Rebind(setupFingerprint(g, cfg)) {
		g.log.Debug("scan setup changed, cache discarded", zap.String("root", cfg.Root))
	}

	ign, _ := ignore.Load(filepath.Join(cfg.Root, ignore.FileName))
	jobs := make(chan fileJob, determineQueueSize(cfg.Threads))
	results := make(chan fileResult, determineQueueSize(cfg.Threads))

	var wg sync.WaitGroup
	for i := 0; i < workerCount(cfg.Threads); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- fileResult{job: j, findings: scanFile(g, cfg, j.path, j.data)}
			}
		}()
	}

	var walkErr error
	go func() {
		defer close(jobs)
		walkErr = Walk(ctx, cfg, ign, func(p string, data []byte) {
			h := fastHash(data)
			if !cfg.NoCache && db.Clean(p, h) {
				result.FilesCached++
				return
			}
			select {
			case jobs <- fileJob{path: p, data: data, hash: h}:
			case <-ctx.Done():
			}
		})
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	clean := map[string]string{}
	var dirty []string
	for r := range results {
		result.FilesScanned++
		if cfg.Progress != nil {
			cfg.Progress()
		}
		result.Findings = append(result.Findings, r.findings...)
		if len(r.findings) == 0 {
			clean[r.job.path] = r.job.hash
		} else {
			dirty = append(dirty, r.job.path)
		}
	}
	// results is closed only after the walker closed jobs, so walkErr,
	// FilesCached and db are no longer touched by other goroutines.
	if walkErr != nil {
		return result, walkErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	sortFindings(result.Findings)
	result.Duration = time.Since(started)
	if !cfg.NoCache {
		for _, p := range dirty {
			delete(db.Entries, p)
		}
		for p, h := range clean {
			db.Entries[p] = h
		}
		if err := cache.Save(cfg.Root, db); err != nil {
			g.log.Warn("cache not saved", zap.Error(err))
		}
	}
	g.log.Debug("scan complete",
		zap.String("root", cfg.Root),
		zap.Int("files", result.FilesScanned),
		zap.Int("cached", result.FilesCached),
		zap.Int("findings", len(result.Findings)),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// ScanData runs g over a single in-memory file. path is only used to label
// findings.
func ScanData(g *Guard, cfg Config, path string, data []byte) []types.Finding {
	fs := scanFile(g, cfg, path, data)
	sortFindings(fs)
	return fs
}

// RedactData masks every threat in text except those on lines suppressed by
// inline markers. cfg.Types narrows what is masked.
func RedactData(g *Guard, cfg Config, text string) string {
	res := g.Detect(text, DetectOptions{Types: cfg.Types, DisableMasking: true})
	if !res.HasThreats() {
		return text
	}
	skip := suppressedLines(text)
	if len(skip) == 0 {
		return redact.Mask(text, res.Threats)
	}
	lines := newLineIndex(text)
	kept := res.Threats[:0]
	for _, th := range res.Threats {
		if line, _ := lines.position(th.Start); !skip[line] {
			kept = append(kept, th)
		}
	}
	return redact.Mask(text, kept)
}

func scanFile(g *Guard, cfg Config, path string, data []byte) []types.Finding {
	text := string(data)
	res := g.Detect(text, DetectOptions{Types: cfg.Types, DisableMasking: true})
	if !res.HasThreats() {
		return nil
	}
	lines := newLineIndex(text)
	skip := suppressedLines(text)
	keys := ctxparse.KeyLines(path, data)
	out := make([]types.Finding, 0, len(res.Threats))
	for _, th := range res.Threats {
		line, col := lines.position(th.Start)
		if skip[line] {
			continue
		}
		out = append(out, types.Finding{
			Path:        filepath.ToSlash(path),
			Line:        line,
			Column:      col,
			Match:       redact.MaskValue(th.Type, th.Value),
			Type:        th.Type,
			Severity:    th.Type.Severity(),
			Description: th.Description,
			Key:         keys[line],
		})
	}
	return out
}

func sortFindings(fs []types.Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// lineIndex maps byte offsets to 1-based line and rune column.
type lineIndex struct {
	text   string
	starts []int
}

func newLineIndex(text string) lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{text: text, starts: starts}
}

func (li lineIndex) position(off int) (line, col int) {
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > off }) - 1
	if i < 0 {
		i = 0
	}
	col = len([]rune(li.text[li.starts[i]:off])) + 1
	return i + 1, col
}

func workerCount(threads int) int {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > 32 {
		threads = 32
	}
	return threads
}

func determineQueueSize(threads int) int {
	n := workerCount(threads)
	if n < 2 {
		n = 2
	}
	return n * 4
}

// setupFingerprint identifies everything besides file content that decides
// whether a file comes out clean: the active patterns, the type filter and
// the registered validators.
func setupFingerprint(g *Guard, cfg Config) string {
	d := xxhash.New()
	for _, p := range g.catalog.All() {
		fmt.Fprintf(d, "p\x00%s\x00%s\x00%d\x00%t\n", p.Type, p.Regex.String(), p.Priority, p.NeedsValidation)
	}
	if cfg.Types == nil {
		_, _ = d.WriteString("t*\n")
	} else {
		tt := make([]string, 0, len(cfg.Types))
		for _, t := range cfg.Types {
			tt = append(tt, string(t))
		}
		sort.Strings(tt)
		fmt.Fprintf(d, "t\x00%s\n", strings.Join(tt, ","))
	}
	for _, t := range g.detector.ValidatedTypes() {
		fmt.Fprintf(d, "v\x00%s\n", t)
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs are comma-separated and, if provided, act as
// a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}
