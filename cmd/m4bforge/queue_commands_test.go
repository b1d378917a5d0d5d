package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	cfgPath := filepath.Join(base, "config.toml")
	contents := fmt.Sprintf(`[paths]
staging_dir = %q
output_dir = %q
log_dir = %q
`,
		filepath.Join(base, "staging"),
		filepath.Join(base, "output"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(cfgPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

func writeBookDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "the test book")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueueAddAndList(t *testing.T) {
	cfgPath := writeTestConfig(t)
	bookDir := writeBookDir(t, "01.m4a", "02.m4a")

	out, err := runCLI(t, "--config", cfgPath, "queue", "add", bookDir, "--no-lookup")
	if err != nil {
		t.Fatalf("queue add: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Queued #1 The Test Book") {
		t.Fatalf("unexpected add output: %q", out)
	}

	out, err = runCLI(t, "--config", cfgPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "The Test Book") || !strings.Contains(out, "pending") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestQueueAddRejectsEmptyDirectory(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfgPath, "queue", "add", t.TempDir(), "--no-lookup"); err == nil {
		t.Fatal("expected error for directory without audio files")
	}
}

func TestQueueListEmpty(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "--config", cfgPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestQueueHealthCounts(t *testing.T) {
	cfgPath := writeTestConfig(t)
	bookDir := writeBookDir(t, "01.m4a")
	if out, err := runCLI(t, "--config", cfgPath, "queue", "add", bookDir, "--no-lookup"); err != nil {
		t.Fatalf("queue add: %v\n%s", err, out)
	}

	out, err := runCLI(t, "--config", cfgPath, "queue", "health", "--json")
	if err != nil {
		t.Fatalf("queue health: %v", err)
	}
	if !strings.Contains(out, `"Pending": 1`) {
		t.Fatalf("unexpected health output: %q", out)
	}
}

func TestQueueRetryRejectsBadID(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCLI(t, "--config", cfgPath, "queue", "retry", "not-a-number"); err == nil {
		t.Fatal("expected error for malformed id")
	}
}

func TestQueueClearAll(t *testing.T) {
	cfgPath := writeTestConfig(t)
	bookDir := writeBookDir(t, "01.m4a")
	if out, err := runCLI(t, "--config", cfgPath, "queue", "add", bookDir, "--no-lookup"); err != nil {
		t.Fatalf("queue add: %v\n%s", err, out)
	}

	out, err := runCLI(t, "--config", cfgPath, "queue", "clear", "--all")
	if err != nil {
		t.Fatalf("queue clear: %v", err)
	}
	if !strings.Contains(out, "Removed 1 job(s)") {
		t.Fatalf("unexpected clear output: %q", out)
	}
}
