package rename_test

import (
	"testing"

	"m4bforge/internal/rename"
)

func TestRenderPadsAndIncrements(t *testing.T) {
	cases := []struct {
		pattern string
		index   int
		want    string
	}{
		{"Chapter {nn}", 0, "Chapter 01"},
		{"Chapter {nn}", 9, "Chapter 10"},
		{"Chapter {nnn}", 0, "Chapter 001"},
		{"Chapter {n+5}", 0, "Chapter 5"},
		{"Chapter {n+5}", 1, "Chapter 6"},
		{"Chapter {nnn+10}", 0, "Chapter 010"},
		{"Chapter {nnn+10}", 1, "Chapter 011"},
		{"{nn} - Intro", 3, "04 - Intro"},
		{"Part {n} of {n}", 2, "Part 3 of {n}"},
	}
	for _, tc := range cases {
		if got := rename.Render(tc.pattern, tc.index); got != tc.want {
			t.Errorf("Render(%q, %d) = %q, want %q", tc.pattern, tc.index, got, tc.want)
		}
	}
}

func TestRenderPaddingNeverTruncates(t *testing.T) {
	if got := rename.Render("Chapter {nn}", 99); got != "Chapter 100" {
		t.Fatalf("expected full width for overflowing value, got %q", got)
	}
	if got := rename.Render("Chapter {n+1000}", 0); got != "Chapter 1000" {
		t.Fatalf("expected untruncated offset, got %q", got)
	}
}

func TestRenderLiteralWhenNoPlaceholder(t *testing.T) {
	patterns := []string{
		"Chapter",
		"Chapter {x}",
		"Chapter {}",
		"Chapter {n",
		"Chapter n}",
		"Chapter {n+}",
		"Chapter {n+x}",
		"Chapter {nn+99999999999999999999}",
	}
	for _, pattern := range patterns {
		for _, idx := range []int{0, 1, 42} {
			if got := rename.Render(pattern, idx); got != pattern {
				t.Errorf("Render(%q, %d) = %q, want pattern unchanged", pattern, idx, got)
			}
		}
	}
}

func TestRenderSkipsMalformedGroupThenExpandsFirstWellFormed(t *testing.T) {
	if got := rename.Render("{x} {nn} {nnn}", 0); got != "{x} 01 {nnn}" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestParseIdempotent(t *testing.T) {
	first, ok1 := rename.Parse("Chapter {nnn+10}")
	second, ok2 := rename.Parse("Chapter {nnn+10}")
	if !ok1 || !ok2 {
		t.Fatal("expected placeholder to parse")
	}
	if first != second {
		t.Fatalf("parse not idempotent: %+v vs %+v", first, second)
	}
	if first.DigitCount != 3 || first.StartOffset != 10 {
		t.Fatalf("unexpected spec: %+v", first)
	}
}

func TestRenderAll(t *testing.T) {
	titles, err := rename.RenderAll("Chapter {nn}", 3)
	if err != nil {
		t.Fatalf("RenderAll returned error: %v", err)
	}
	want := []string{"Chapter 01", "Chapter 02", "Chapter 03"}
	if len(titles) != len(want) {
		t.Fatalf("unexpected length: %d", len(titles))
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestRenderAllZeroCount(t *testing.T) {
	titles, err := rename.RenderAll("Chapter {nn}", 0)
	if err != nil {
		t.Fatalf("RenderAll returned error: %v", err)
	}
	if len(titles) != 0 {
		t.Fatalf("expected empty sequence, got %v", titles)
	}
}

func TestRenderAllRejectsNegativeCount(t *testing.T) {
	if _, err := rename.RenderAll("Chapter {nn}", -1); err == nil {
		t.Fatal("expected error for negative count")
	}
}

func TestRenderNegativeValueKeepsSignBeforePadding(t *testing.T) {
	if got := rename.Render("{nnn+0}", -5); got != "-005" {
		t.Fatalf("unexpected negative render: %q", got)
	}
}
