package rename_test

import (
	"strings"
	"testing"

	"m4bforge/internal/rename"
)

func TestPipelineAppliesRulesInOrder(t *testing.T) {
	p := rename.NewPipeline([]rename.Rule{
		{Pattern: `^Track \d+`, Replacement: "Chapter {nn}"},
		{Pattern: `\s+-\s+$`, Replacement: ""},
	})
	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	got := p.Apply("Track 12 - ", 4)
	if got != "Chapter 05" {
		t.Fatalf("Apply = %q, want %q", got, "Chapter 05")
	}
}

func TestPipelineKeepsCaptureGroups(t *testing.T) {
	p := rename.NewPipeline([]rename.Rule{
		{Pattern: `^(?:\d+)\s*-\s*(.+)$`, Replacement: "{nn}. $1"},
	})
	got := p.Apply("03 - The Long Road", 2)
	if got != "03. The Long Road" {
		t.Fatalf("Apply = %q", got)
	}
}

func TestPipelineSkipsInvalidRegex(t *testing.T) {
	p := rename.NewPipeline([]rename.Rule{
		{Pattern: `([`, Replacement: "broken"},
		{Pattern: `Track`, Replacement: "Chapter"},
	})

	diags := p.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if diags[0].Rule != 0 || diags[0].Pattern != "([" {
		t.Fatalf("unexpected diagnostic: %+v", diags[0])
	}
	if !strings.Contains(diags[0].String(), "([") {
		t.Fatalf("diagnostic string should quote pattern: %s", diags[0])
	}

	if got := p.Apply("Track 1", 0); got != "Chapter 1" {
		t.Fatalf("later rules should still apply, got %q", got)
	}
}

func TestPipelineLeavesNonMatchingTitles(t *testing.T) {
	p := rename.NewPipeline([]rename.Rule{
		{Pattern: `^Episode`, Replacement: "Chapter {n}"},
	})
	if got := p.Apply("Prologue", 0); got != "Prologue" {
		t.Fatalf("Apply = %q, want unchanged title", got)
	}
}

func TestPipelineIgnoresBlankPatterns(t *testing.T) {
	p := rename.NewPipeline([]rename.Rule{
		{Pattern: "  ", Replacement: "x"},
	})
	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Fatalf("blank patterns should be dropped silently, got %v", diags)
	}
	if got := p.Apply("Title", 0); got != "Title" {
		t.Fatalf("Apply = %q", got)
	}
}
