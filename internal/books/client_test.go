package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"m4bforge/internal/config"
	"m4bforge/internal/services"
)

const sampleResponse = `{
  "items": [
    {
      "id": "vol-sequel",
      "volumeInfo": {
        "title": "Dune Messiah",
        "authors": ["Frank Herbert"],
        "publishedDate": "1969"
      }
    },
    {
      "id": "vol-exact",
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert"],
        "publisher": "Chilton Books",
        "publishedDate": "1965-08-01",
        "description": "A desert planet saga.",
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0441013597"},
          {"type": "ISBN_13", "identifier": "9780441013593"}
        ],
        "imageLinks": {"thumbnail": "http://books.example/dune.jpg"}
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &config.Config{}
	cfg.Books.BaseURL = server.URL
	cfg.Books.MaxResults = 5
	return NewClient(cfg, WithHTTPClient(server.Client()))
}

func TestSearchRanksExactTitleFirst(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	})

	results, err := client.Search(context.Background(), "Dune", "Frank Herbert")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "intitle:Dune+inauthor:Frank Herbert" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	best := results[0]
	if best.ID != "vol-exact" {
		t.Fatalf("expected exact match first, got %+v", best)
	}
	if best.ISBN != "9780441013593" {
		t.Fatalf("ISBN-13 should win: %q", best.ISBN)
	}
	if best.CoverURL != "https://books.example/dune.jpg" {
		t.Fatalf("cover URL not upgraded to https: %q", best.CoverURL)
	}
	if best.Year() != "1965" {
		t.Fatalf("Year() = %q, want 1965", best.Year())
	}
}

func TestSearchStripsFillerWords(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{}`))
	})

	if _, err := client.Search(context.Background(), "Dune Unabridged Audiobook", ""); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "intitle:Dune" {
		t.Fatalf("filler words should be stripped from query, got %q", gotQuery)
	}
}

func TestBestMatchEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	})
	match, err := client.BestMatch(context.Background(), "Unknown Title", "")
	if err != nil {
		t.Fatalf("BestMatch: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match, got %+v", match)
	}
}

func TestSearchRequiresTitle(t *testing.T) {
	client := NewClient(nil)
	_, err := client.Search(context.Background(), "  ", "")
	if !services.IsInvalidInput(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSearchServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	_, err := client.Search(context.Background(), "Dune", "")
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestMetadataAuthorAndYear(t *testing.T) {
	meta := Metadata{Authors: []string{"First", "Second"}, PublishedDate: "2001-05"}
	if meta.Author() != "First" {
		t.Fatalf("Author() = %q", meta.Author())
	}
	if meta.Year() != "2001" {
		t.Fatalf("Year() = %q", meta.Year())
	}
	if (Metadata{}).Author() != "" {
		t.Fatal("empty metadata should have empty author")
	}
}
