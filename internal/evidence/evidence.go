// Package evidence gathers pro/con text chunks for a factor from an
// external search/scrape collaborator.
package evidence

import "context"

// Orientation is the framing applied to an evidence query.
type Orientation string

const (
	Pro Orientation = "pro"
	Con Orientation = "con"
)

// Chunk is one bounded piece of evidence text with its provenance.
type Chunk struct {
	Text        string      `json:"text"`
	Source      string      `json:"source"`
	Title       string      `json:"title"`
	Orientation Orientation `json:"orientation"`
}

// Set holds both orientations of evidence for a single factor. A Set is
// never mutated after Collect returns; empty slices are a valid (if
// weak) debate input.
type Set struct {
	Pro []Chunk `json:"pro"`
	Con []Chunk `json:"con"`
}

// SearchResult is one hit from the external search collaborator.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher is the external web-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Scraper is the external page-retrieval collaborator. Fetch returns
// cleaned page text.
type Scraper interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NopSearcher returns no results; used when evidence collection is
// disabled.
type NopSearcher struct{}

func (NopSearcher) Search(context.Context, string, int) ([]SearchResult, error) { return nil, nil }

// NopScraper returns no content.
type NopScraper struct{}

func (NopScraper) Fetch(context.Context, string) (string, error) { return "", nil }
