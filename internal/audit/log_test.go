package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textguard/textguard/internal/types"
)

func TestNew_PrefersGitDir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, FileName), New(dir).Path())

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	assert.Equal(t, filepath.Join(dir, ".git", "textguard_audit.jsonl"), New(dir).Path())
}

func TestAppendAndHistory_NewestFirst(t *testing.T) {
	log := New(t.TempDir())
	first := NewRecord("/r", nil, nil, 1, time.Second, "")
	first.ScanID = "one"
	second := NewRecord("/r", nil, nil, 2, time.Second, "")
	second.ScanID = "two"
	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(second))

	got, err := log.History()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].ScanID)
	assert.Equal(t, "one", got[1].ScanID)
}

func TestNewRecord_CountsWithoutValues(t *testing.T) {
	all := []types.Finding{
		{Path: "a.txt", Line: 1, Type: types.Email, Severity: types.SevMed, Match: "t**t@ex***le.***"},
		{Path: "a.txt", Line: 2, Type: types.SSN, Severity: types.SevHigh, Match: "900101-1******"},
		{Path: "b.txt", Line: 9, Type: types.Email, Severity: types.SevMed, Match: "u**r@ex***le.***"},
	}
	rec := NewRecord("/r", all, all[1:], 2, 1500*time.Millisecond, "textguard.baseline.json")
	assert.Equal(t, 3, rec.TotalFindings)
	assert.Equal(t, 2, rec.NewFindings)
	assert.Equal(t, 1, rec.BaselinedCount)
	assert.Equal(t, map[string]int{"EMAIL": 2, "SSN": 1}, rec.TypeCounts)
	assert.Equal(t, map[string]int{"medium": 2, "high": 1}, rec.SeverityCounts)
	require.Len(t, rec.TopFindings, 2)
	assert.Equal(t, "SSN", rec.TopFindings[0].Type)

	log := New(t.TempDir())
	require.NoError(t, log.Append(rec))
	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "@"), "audit log must not carry matched values")
}
