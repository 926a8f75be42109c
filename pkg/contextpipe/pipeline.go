// Package contextpipe turns the user's foreground window title into a set of
// deduplicated web search results: capture, clean, derive queries, fan the
// queries out to the region's search engine, merge.
package contextpipe

import (
	"context"
	"log/slog"
	"sync"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/assistant"
	"github.com/feedscope/feedscope/pkg/search"
)

// Enricher is the optional abstract-filling step applied after dedup.
type Enricher interface {
	Enrich(ctx context.Context, items []models.SearchItem)
}

type Pipeline struct {
	Region    models.Region
	Title     func() (string, error) // window title source, injectable
	Generator assistant.Generator    // nil means cleaned-title queries only
	Engine    search.Engine
	Enrich    Enricher // nil disables abstract enrichment
	Limit     int      // per-query result limit
	Log       *slog.Logger
}

func (p *Pipeline) Run(ctx context.Context) models.WindowContext {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}
	wc := models.WindowContext{Region: p.Region}

	title, err := p.Title()
	if err != nil {
		wc.Error = "could not read the active window title: " + err.Error()
		return wc
	}
	wc.Title = title

	cleaned := assistant.CleanTitle(title)
	if len([]rune(cleaned)) < 3 {
		wc.Error = "window title too short to search after cleaning"
		return wc
	}

	wc.Queries = p.deriveQueries(ctx, cleaned, log)
	if len(wc.Queries) == 0 {
		wc.Error = "no usable search queries could be derived from the window title"
		return wc
	}

	results := p.searchAll(ctx, wc.Queries, log)
	if len(results) == 0 {
		wc.Error = "no results from any query"
		return wc
	}

	results = dedup(results, 2*p.Limit)
	if p.Enrich != nil {
		p.Enrich.Enrich(ctx, results)
	}
	wc.OK = true
	wc.Results = results
	return wc
}

// deriveQueries asks the generator for three diverse queries and pads with
// the cleaned title; without a generator (or on any failure) the cleaned
// title stands in for all three.
func (p *Pipeline) deriveQueries(ctx context.Context, cleaned string, log *slog.Logger) []string {
	if p.Generator == nil {
		return assistant.PadQueries(nil, cleaned)
	}
	queries, err := p.Generator.Queries(ctx, cleaned)
	if err != nil {
		log.Warn("query generation failed, falling back to the cleaned title", "error", err)
		queries = nil
	}
	return assistant.PadQueries(queries, cleaned)
}

// searchAll runs one goroutine per valid query and collects results in
// completion order. A panicking engine call only loses its own branch.
func (p *Pipeline) searchAll(ctx context.Context, queries []string, log *slog.Logger) []models.SearchItem {
	resultCh := make(chan models.SearchResult, len(queries))
	var wg sync.WaitGroup
	for _, query := range queries {
		if len([]rune(query)) < 2 {
			continue
		}
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("search branch panicked", "query", q, "panic", r)
				}
			}()
			resultCh <- p.Engine.Search(ctx, q, p.Limit)
		}(query)
	}
	wg.Wait()
	close(resultCh)

	var merged []models.SearchItem
	for result := range resultCh {
		if !result.OK {
			log.Warn("search query failed", "query", result.Query, "error", result.Error)
			continue
		}
		merged = append(merged, result.Items...)
	}
	return merged
}

// dedup keeps the first occurrence of each result, keyed by URL when present
// and by title otherwise, capped at max entries.
func dedup(items []models.SearchItem, max int) []models.SearchItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.SearchItem, 0, len(items))
	for _, item := range items {
		key := item.URL
		if key == "" {
			key = item.Title
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}
