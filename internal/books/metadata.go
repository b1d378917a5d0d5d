package books

import (
	"sort"
	"strings"
)

// Metadata is the normalized result of a volume lookup.
type Metadata struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
}

// Author returns the first listed author, or empty.
func (m Metadata) Author() string {
	if len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0]
}

// Year extracts the leading year from the published date.
func (m Metadata) Year() string {
	date := strings.TrimSpace(m.PublishedDate)
	if len(date) >= 4 {
		return date[:4]
	}
	return date
}

type volumesResponse struct {
	Items []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string `json:"id"`
	VolumeInfo struct {
		Title               string   `json:"title"`
		Subtitle            string   `json:"subtitle"`
		Authors             []string `json:"authors"`
		Publisher           string   `json:"publisher"`
		PublishedDate       string   `json:"publishedDate"`
		Description         string   `json:"description"`
		Categories          []string `json:"categories"`
		IndustryIdentifiers []struct {
			Type       string `json:"type"`
			Identifier string `json:"identifier"`
		} `json:"industryIdentifiers"`
		ImageLinks struct {
			Thumbnail      string `json:"thumbnail"`
			SmallThumbnail string `json:"smallThumbnail"`
		} `json:"imageLinks"`
	} `json:"volumeInfo"`
}

func (v volumeItem) metadata() Metadata {
	info := v.VolumeInfo
	meta := Metadata{
		ID:            v.ID,
		Title:         strings.TrimSpace(info.Title),
		Subtitle:      strings.TrimSpace(info.Subtitle),
		Authors:       info.Authors,
		Publisher:     strings.TrimSpace(info.Publisher),
		PublishedDate: strings.TrimSpace(info.PublishedDate),
		Description:   strings.TrimSpace(info.Description),
		Categories:    info.Categories,
	}
	for _, ident := range info.IndustryIdentifiers {
		if ident.Type == "ISBN_13" {
			meta.ISBN = ident.Identifier
			break
		}
		if meta.ISBN == "" && ident.Type == "ISBN_10" {
			meta.ISBN = ident.Identifier
		}
	}
	cover := info.ImageLinks.Thumbnail
	if cover == "" {
		cover = info.ImageLinks.SmallThumbnail
	}
	// The API hands out http:// thumbnail links even though the host
	// serves TLS.
	meta.CoverURL = strings.Replace(cover, "http://", "https://", 1)
	return meta
}

// score rates how well a candidate matches the requested title and author.
// Higher is better.
func (m Metadata) score(wantTitle, wantAuthor string) int {
	score := 0
	gotTitle := normalizeMatch(m.Title)
	wantTitle = normalizeMatch(wantTitle)
	switch {
	case gotTitle == wantTitle:
		score += 4
	case strings.Contains(gotTitle, wantTitle) || strings.Contains(wantTitle, gotTitle):
		score += 2
	}
	if wantAuthor = normalizeMatch(wantAuthor); wantAuthor != "" {
		for _, author := range m.Authors {
			if normalizeMatch(author) == wantAuthor {
				score += 3
				break
			}
		}
	}
	if m.CoverURL != "" {
		score++
	}
	if m.Description != "" {
		score++
	}
	if m.ISBN != "" {
		score++
	}
	return score
}

func normalizeMatch(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// sortByScore orders candidates best-first, keeping API order for ties.
func sortByScore(candidates []Metadata, title, author string) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score(title, author) > candidates[j].score(title, author)
	})
}
