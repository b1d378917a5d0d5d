package deps_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"m4bforge/internal/deps"
)

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := deps.CheckBinaries([]deps.Requirement{
		{Name: "Nope", Command: "definitely-not-a-binary-m4bforge"},
		{Name: "Blank", Command: "  "},
	})
	if len(statuses) != 2 {
		t.Fatalf("expected two statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("missing binary reported available")
	}
	if statuses[0].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
	if statuses[1].Detail != "command not configured" {
		t.Fatalf("unexpected blank detail: %q", statuses[1].Detail)
	}
}

func TestCheckBinariesFindsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "fakefmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}
	t.Setenv("PATH", dir)

	statuses := deps.CheckBinaries([]deps.Requirement{{Name: "Fake", Command: "fakefmpeg"}})
	if !statuses[0].Available {
		t.Fatalf("expected available, got %+v", statuses[0])
	}
}

func TestMissingRequired(t *testing.T) {
	missing := deps.MissingRequired([]deps.Status{
		{Name: "A", Available: false},
		{Name: "B", Available: false, Optional: true},
		{Name: "C", Available: true},
	})
	if len(missing) != 1 || missing[0] != "A" {
		t.Fatalf("unexpected missing: %v", missing)
	}
}
