package textguard

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	var out, errb bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errb)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errb.String(), err
}

func requireExit(t *testing.T, err error, code int) {
	t.Helper()
	var ec exitCode
	require.True(t, errors.As(err, &ec), "expected exit code error, got %v", err)
	assert.Equal(t, code, int(ec))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestDetect_MasksArgumentAndFails(t *testing.T) {
	out, _, err := runCLI(t, "", "detect", "contact test@example.com")
	requireExit(t, err, 1)
	assert.Equal(t, "contact t**t@ex***le.***\n", out)
}

func TestDetect_JSONFromStdin(t *testing.T) {
	out, _, err := runCLI(t, "contact test@example.com", "detect", "--json", "--fail-on", "high")
	require.NoError(t, err)

	var doc struct {
		Threats []struct {
			Type  string `json:"type"`
			Start int    `json:"start"`
			End   int    `json:"end"`
			Value string `json:"value"`
		} `json:"threats"`
		MaskedText string `json:"masked_text"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	require.Len(t, doc.Threats, 1)
	assert.Equal(t, "EMAIL", doc.Threats[0].Type)
	assert.Equal(t, 8, doc.Threats[0].Start)
	assert.Equal(t, 23, doc.Threats[0].End)
	assert.Equal(t, "t**t@ex***le.***", doc.Threats[0].Value)
	assert.Equal(t, "contact t**t@ex***le.***", doc.MaskedText)
}

func TestDetect_TypesAndNoMask(t *testing.T) {
	out, _, err := runCLI(t, "", "detect", "--types", "ip-v4-address", "--fail-on", "high", "test@example.com 10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com 10.0.*.*\n", out)

	out, _, err = runCLI(t, "", "detect", "--no-mask", "--fail-on", "high", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1\n", out)
}

func TestDetect_CleanTextSucceeds(t *testing.T) {
	out, _, err := runCLI(t, "", "detect", "--fail-on", "low", "nothing to see here")
	require.NoError(t, err)
	assert.Equal(t, "nothing to see here\n", out)
}

func TestRoot_InvalidFailOn(t *testing.T) {
	_, _, err := runCLI(t, "", "detect", "--fail-on", "critical", "x")
	require.Error(t, err)
	var ec exitCode
	assert.False(t, errors.As(err, &ec))
}

func TestScan_JSONAndExitCodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.csv", "name,email\nkim,test@example.com\n")

	out, _, err := runCLI(t, "", "scan", "--json", "-p", dir)
	requireExit(t, err, 1)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &arr), out)
	require.Len(t, arr, 1)
	assert.Equal(t, "users.csv", arr[0]["path"])
	assert.Equal(t, "EMAIL", arr[0]["type"])
	assert.Equal(t, "medium", arr[0]["severity"])
	assert.Equal(t, "t**t@ex***le.***", arr[0]["match"])

	_, _, err = runCLI(t, "", "scan", "--json", "--fail-on", "high", "-p", dir)
	require.NoError(t, err)
}

func TestScan_SARIF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "q.sql", "1 UNION SELECT password FROM users\n")
	out, _, err := runCLI(t, "", "scan", "--sarif", "--fail-on", "high", "-p", dir)
	requireExit(t, err, 1)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestScan_TableDefault(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "ssn 900101-1234567\n")
	out, errOut, err := runCLI(t, "", "scan", "-p", dir)
	requireExit(t, err, 1)
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "900101-1******")
	assert.Contains(t, errOut, "Scanning")
}

func TestBaseline_FromLastSilencesKnownFindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.csv", "kim,test@example.com\n")

	_, _, err := runCLI(t, "", "scan", "--json", "-p", dir)
	requireExit(t, err, 1)

	out, _, err := runCLI(t, "", "baseline", "update", "--from-last", "-p", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Baseline updated")

	out, _, err = runCLI(t, "", "scan", "--json", "-p", dir)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestIgnoreAdd_ExcludesFromScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.csv", "kim,test@example.com\n")
	_, _, err := runCLI(t, "", "ignore", "add", "-p", dir, "*.csv")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "scan", "--json", "-p", dir)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestConfigInit_Preset(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tg.yml")
	_, _, err := runCLI(t, "", "config", "init", "--preset", "attacks", "--output", p)
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "types: SQL_INJECTION,XSS_ATTACK,SCRIPT_INJECTION,COMMAND_INJECTION,PROMPT_INJECTION")
	assert.Contains(t, string(b), "fail_on: medium")

	_, _, err = runCLI(t, "", "config", "init", "--output", p)
	assert.Error(t, err, "existing file is not overwritten without --force")
}

func TestScan_LocalConfigPatternsAndTypes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".textguard.yml", "types: CUSTOM\npatterns:\n  - pattern: 'EMP-\\d{6}'\n    description: Employee ID\n")
	writeFile(t, dir, "staff.txt", "emp-123456 test@example.com\n")

	out, _, err := runCLI(t, "", "scan", "--json", "-p", dir)
	requireExit(t, err, 1)
	var arr []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &arr), out)
	require.Len(t, arr, 1)
	assert.Equal(t, "CUSTOM", arr[0]["type"])
	assert.Equal(t, "**********", arr[0]["match"])
	assert.Equal(t, "Employee ID", arr[0]["description"])
}

func TestFixRedact_MasksFileInPlace(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "notes.txt", "call 010-1234-5678\nkeep test@example.com // textguard:ignore\n")

	out, _, err := runCLI(t, "", "fix", "redact", "--dry-run", p)
	require.NoError(t, err)
	assert.NotContains(t, out, "No changes needed")
	b, _ := os.ReadFile(p)
	assert.Contains(t, string(b), "010-1234-5678", "dry run must not write")

	_, _, err = runCLI(t, "", "fix", "redact", p)
	require.NoError(t, err)
	b, _ = os.ReadFile(p)
	assert.Equal(t, "call 010-****-5678\nkeep test@example.com // textguard:ignore\n", string(b))

	out, _, err = runCLI(t, "", "fix", "redact", p)
	require.NoError(t, err)
	assert.Contains(t, out, "No changes needed")
}

func TestFixRedact_Pattern(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", "token=abc123\n")
	_, _, err := runCLI(t, "", "fix", "redact", "--pattern", `abc\d+`, "--replace", "<gone>", p)
	require.NoError(t, err)
	b, _ := os.ReadFile(p)
	assert.Equal(t, "token=<gone>\n", string(b))
}

func TestPatterns_ListAndTest(t *testing.T) {
	out, _, err := runCLI(t, "", "patterns", "list", "--type", "credit_card")
	require.NoError(t, err)
	assert.Contains(t, out, "CREDIT_CARD")
	assert.Contains(t, out, "(checksum)")

	out, _, err = runCLI(t, "", "patterns", "test", "--pattern", `EMP-\d{6}`, "id emp-123456")
	require.NoError(t, err)
	assert.Contains(t, out, "CUSTOM 3-12")
	assert.Contains(t, out, "id **********")

	_, _, err = runCLI(t, "", "patterns", "test", "--pattern", `(?<=x)y`, "xy")
	assert.Error(t, err)
}

func TestScan_MalformedLocalConfigIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello\n")
	writeFile(t, dir, ".textguard.yml", "threads: [\n")
	_, _, err := runCLI(t, "", "scan", "-p", dir, "--json")
	require.Error(t, err)
	var ec exitCode
	assert.False(t, errors.As(err, &ec), "a broken config is not a findings exit")
	assert.Contains(t, err.Error(), "parse config file")
}

func TestWriteFixSummary(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "summary.json")
	require.NoError(t, writeFixSummary(p, map[string]any{"action": "fix.redact", "files": []string{"a.txt"}}))

	var doc map[string]any
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Equal(t, "fix.redact", doc["action"])

	assert.Error(t, writeFixSummary(filepath.Join(dir, "missing", "summary.json"), map[string]any{}))
	assert.Error(t, writeFixSummary(p, map[string]any{"bad": make(chan int)}), "encode errors are returned")
}
