package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func useConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if body != "" {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	prev := configPath
	configPath = func() string { return path }
	t.Cleanup(func() { configPath = prev })
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func challengeLog(n string, scores ...string) string {
	lines := []string{"0001: -- BEGIN CHALLENGE #" + n + "--"}
	for i, s := range scores {
		lines = append(lines, "2719:  - player "+strconv.Itoa(i)+": "+s)
	}
	return strings.Join(lines, "\n") + "\n"
}

func TestTallyList(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", challengeLog("16", "5", "9"))
	b := writeFile(t, dir, "b.log", challengeLog("16", "2", "8", "1"))

	out, _, err := execute(t, "tally", a, b)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if out != "[0, 2]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestTallyTableWithJobs(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", challengeLog("16", "9", "5"))
	b := writeFile(t, dir, "b.log", challengeLog("16", "2", "8"))

	out, _, err := execute(t, "tally", "--format", "table", "--jobs", "2", a, b)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if !strings.Contains(out, "player 0    1 50.00%") || !strings.Contains(out, "Total: 2") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestTallySkipsUnreadableFile(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	a := writeFile(t, dir, "a.log", challengeLog("16", "1", "4"))
	missing := filepath.Join(dir, "missing.log")

	out, errOut, err := execute(t, "tally", a, missing)
	if err == nil {
		t.Fatalf("expected error for unreadable file")
	}
	if out != "[0, 1]\n" {
		t.Fatalf("expected counts from readable files, got %q", out)
	}
	if !strings.Contains(errOut, "warning: skipped "+missing) {
		t.Fatalf("expected warning on stderr, got %q", errOut)
	}

	out, _, err = execute(t, "tally", "--strict", a, missing)
	if err == nil || out != "" {
		t.Fatalf("expected strict mode to abort without output, got %q (%v)", out, err)
	}
}

func TestTallyConfigPrecedence(t *testing.T) {
	useConfig(t, "[tally]\nchallenge = 3\n")
	dir := t.TempDir()
	log := challengeLog("16", "9", "2") + challengeLog("3", "1", "7")
	path := writeFile(t, dir, "a.log", log)

	out, _, err := execute(t, "tally", path)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if out != "[0, 1]\n" {
		t.Fatalf("expected config challenge to apply, got %q", out)
	}

	out, _, err = execute(t, "tally", "--challenge", "16", path)
	if err != nil {
		t.Fatalf("tally: %v", err)
	}
	if out != "[1]\n" {
		t.Fatalf("expected flag to win over config, got %q", out)
	}
}

func TestTallyValidation(t *testing.T) {
	useConfig(t, "")
	cases := [][]string{
		{"tally"},
		{"tally", "--jobs", "0", "a.log"},
		{"tally", "--format", "csv", "a.log"},
		{"tally", "--challenge", "-1", "a.log"},
	}
	for _, args := range cases {
		if _, _, err := execute(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

const traceLog = `Players:
- 0: alice
- 1: bob
0100: state p0=3 p1=5
0101: state p0=7 p1=5
0200: score:
2719:  - player 0: 10
2719:  - player 1: 20
`

func TestTraceWritesDocument(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	logPath := writeFile(t, dir, "game.log", traceLog)

	_, errOut, err := execute(t, "trace", "--width", "20", "--height", "4", logPath)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	docPath := filepath.Join(dir, "game.chart")
	if !strings.Contains(errOut, "Wrote "+docPath) {
		t.Fatalf("expected written path on stderr, got %q", errOut)
	}
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if !strings.HasPrefix(string(data), "Overview\n") || !strings.Contains(string(data), "Challenge 1\n") {
		t.Fatalf("unexpected document:\n%s", data)
	}
}

func TestTraceExtFromConfig(t *testing.T) {
	useConfig(t, "[trace]\next = \"txt\"\n")
	dir := t.TempDir()
	logPath := writeFile(t, dir, "game.log", traceLog)

	if _, _, err := execute(t, "trace", "--width", "20", logPath); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "game.txt")); err != nil {
		t.Fatalf("expected document with configured extension: %v", err)
	}
}

func TestTraceViewMode(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	logPath := writeFile(t, dir, "game.log", traceLog)

	viewed := ""
	prev := viewDocument
	viewDocument = func(_ context.Context, path string) error {
		viewed = path
		return nil
	}
	t.Cleanup(func() { viewDocument = prev })

	if _, _, err := execute(t, "trace", "--open", "view", "--width", "20", logPath); err != nil {
		t.Fatalf("trace: %v", err)
	}
	if viewed != filepath.Join(dir, "game.chart") {
		t.Fatalf("expected viewer to receive the document, got %q", viewed)
	}
}

func TestTraceErrors(t *testing.T) {
	useConfig(t, "")
	dir := t.TempDir()
	noHeader := writeFile(t, dir, "bad.log", "0100: state p0=3\n")
	good := writeFile(t, dir, "game.log", traceLog)

	cases := [][]string{
		{"trace"},
		{"trace", noHeader},
		{"trace", "--open", "browser", good},
		{"trace", "--height", "1", good},
		{"trace", "--ext", "", good},
		{"trace", "--ext", ".log", good},
	}
	for _, args := range cases {
		if _, _, err := execute(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.chart")); !os.IsNotExist(err) {
		t.Fatalf("expected no document for a failed parse")
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	useConfig(t, defaultConfigTemplate())
	dir := t.TempDir()
	path := writeFile(t, dir, "a.log", challengeLog("16", "1", "2"))
	if _, _, err := execute(t, "tally", path); err != nil {
		t.Fatalf("expected template to load cleanly: %v", err)
	}
}
