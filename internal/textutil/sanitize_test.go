package textutil_test

import (
	"testing"

	"m4bforge/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"Dune: Messiah":      "Dune- Messiah",
		"a/b\\c":             "a-b-c",
		`what? "why" <no>`:   "what why no",
		"  spaced  ":         "spaced",
		"":                   "",
		"plain title.m4b":    "plain title.m4b",
		"stars * and pipes|": "stars - and pipes",
	}
	for input, want := range cases {
		if got := textutil.SanitizeFileName(input); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"Dune Messiah": "dune_messiah",
		"  ":           "unknown",
		"***":          "unknown",
		"Already-ok_1": "already-ok_1",
	}
	for input, want := range cases {
		if got := textutil.SanitizeToken(input); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	cases := map[string]string{
		`"Chapter One"`:      "Chapter One",
		"'quoted'":           "quoted",
		"  many    spaces  ": "many spaces",
		"plain":              "plain",
	}
	for input, want := range cases {
		if got := textutil.CleanTitle(input); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", input, got, want)
		}
	}
}
