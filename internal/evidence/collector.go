package evidence

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	chunkWords     = 500
	chunksPerPage  = 3
	minPageContent = 100
)

// Collector builds an orientation-specific query per side, fans out to
// the search/scrape collaborators, and chunks what comes back. Failures
// degrade to fewer chunks; they never abort the factor.
type Collector struct {
	searcher   Searcher
	scraper    Scraper
	maxResults int
	maxPages   int
	log        *logrus.Logger
}

// NewCollector creates a Collector. maxResults bounds search hits per
// query, maxPages bounds scraped pages per orientation.
func NewCollector(searcher Searcher, scraper Scraper, maxResults, maxPages int, log *logrus.Logger) *Collector {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Collector{
		searcher:   searcher,
		scraper:    scraper,
		maxResults: maxResults,
		maxPages:   maxPages,
		log:        log,
	}
}

func query(factor string, orientation Orientation) string {
	if orientation == Pro {
		return fmt.Sprintf("%s benefits advantages success cases validation", factor)
	}
	return fmt.Sprintf("%s risks failures criticisms problems disadvantages", factor)
}

// Collect gathers both orientations of evidence for a factor.
func (c *Collector) Collect(ctx context.Context, factor string) Set {
	return Set{
		Pro: c.collect(ctx, factor, Pro),
		Con: c.collect(ctx, factor, Con),
	}
}

func (c *Collector) collect(ctx context.Context, factor string, orientation Orientation) []Chunk {
	q := query(factor, orientation)
	log := c.log.WithFields(logrus.Fields{"factor": factor, "orientation": orientation})
	log.WithField("query", q).Debug("searching")

	results, err := c.searcher.Search(ctx, q, c.maxResults)
	if err != nil {
		log.WithError(err).Warn("search failed, continuing without evidence")
		return nil
	}

	var chunks []Chunk
	pages := 0
	for _, result := range results {
		if pages >= c.maxPages {
			break
		}
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("evidence collection cancelled")
			break
		}
		content, err := c.scraper.Fetch(ctx, result.URL)
		if err != nil || len(content) < minPageContent {
			log.WithField("url", result.URL).Debug("page skipped")
			continue
		}
		pieces := chunkText(content, chunkWords)
		if len(pieces) > chunksPerPage {
			pieces = pieces[:chunksPerPage]
		}
		for _, piece := range pieces {
			chunks = append(chunks, Chunk{
				Text:        piece,
				Source:      result.URL,
				Title:       result.Title,
				Orientation: orientation,
			})
		}
		pages++
	}
	log.WithField("chunks", len(chunks)).Info("evidence collected")
	return chunks
}
