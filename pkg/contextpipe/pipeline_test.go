package contextpipe

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/feedscope/feedscope/models"
)

type stubEngine struct {
	results map[string]models.SearchResult
	calls   atomic.Int64
	panics  bool
}

func (s *stubEngine) Name() string { return "stub" }

func (s *stubEngine) Search(ctx context.Context, query string, limit int) models.SearchResult {
	s.calls.Add(1)
	if s.panics {
		panic("engine down")
	}
	if r, ok := s.results[query]; ok {
		return r
	}
	return models.SearchResult{Query: query, Error: "no fixture"}
}

type stubGenerator struct {
	queries []string
	err     error
}

func (s *stubGenerator) Queries(ctx context.Context, title string) ([]string, error) {
	return s.queries, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func fixedTitle(title string) func() (string, error) {
	return func() (string, error) { return title, nil }
}

func hits(query string, urls ...string) models.SearchResult {
	var items []models.SearchItem
	for _, u := range urls {
		items = append(items, models.SearchItem{Title: "about " + u, URL: u})
	}
	return models.SearchResult{OK: true, Query: query, Items: items}
}

func TestRunMergesAndDeduplicates(t *testing.T) {
	engine := &stubEngine{results: map[string]models.SearchResult{
		"alpha": hits("alpha", "https://a.example", "https://shared.example"),
		"beta":  hits("beta", "https://shared.example", "https://b.example"),
		"gamma": hits("gamma", "https://c.example"),
	}}
	p := &Pipeline{
		Region:    models.RegionInternational,
		Title:     fixedTitle("some research topic"),
		Generator: &stubGenerator{queries: []string{"alpha", "beta", "gamma"}},
		Engine:    engine,
		Limit:     5,
		Log:       testLogger(),
	}

	wc := p.Run(context.Background())
	if !wc.OK {
		t.Fatalf("Run() failed: %s", wc.Error)
	}
	if n := engine.calls.Load(); n != 3 {
		t.Errorf("engine calls = %d, want 3", n)
	}

	seen := make(map[string]int)
	for _, item := range wc.Results {
		seen[item.URL]++
	}
	if seen["https://shared.example"] != 1 {
		t.Errorf("shared URL appears %d times, want 1", seen["https://shared.example"])
	}
	if len(wc.Results) != 4 {
		t.Errorf("len(Results) = %d, want 4", len(wc.Results))
	}
}

func TestRunCapsResults(t *testing.T) {
	var urls []string
	for i := 0; i < 30; i++ {
		urls = append(urls, "https://example.com/"+string(rune('a'+i)))
	}
	engine := &stubEngine{results: map[string]models.SearchResult{
		"only": hits("only", urls...),
	}}
	p := &Pipeline{
		Title:     fixedTitle("big subject"),
		Generator: &stubGenerator{queries: []string{"only"}},
		Engine:    engine,
		Limit:     5,
		Log:       testLogger(),
	}

	wc := p.Run(context.Background())
	if !wc.OK {
		t.Fatalf("Run() failed: %s", wc.Error)
	}
	if len(wc.Results) != 10 {
		t.Errorf("len(Results) = %d, want 2*limit = 10", len(wc.Results))
	}
}

func TestRunTitleCaptureFailure(t *testing.T) {
	p := &Pipeline{
		Title:  func() (string, error) { return "", errors.New("no window") },
		Engine: &stubEngine{},
		Limit:  5,
		Log:    testLogger(),
	}
	wc := p.Run(context.Background())
	if wc.OK {
		t.Fatal("Run() should fail without a title")
	}
	if wc.Error == "" {
		t.Error("Error is empty")
	}
}

func TestRunTitleTooShortAfterCleaning(t *testing.T) {
	p := &Pipeline{
		Title:  fixedTitle("x"),
		Engine: &stubEngine{},
		Limit:  5,
		Log:    testLogger(),
	}
	wc := p.Run(context.Background())
	if wc.OK {
		t.Fatal("Run() should fail on an uncleanable title")
	}
}

func TestRunGeneratorFailureFallsBackToCleanedTitle(t *testing.T) {
	engine := &stubEngine{results: map[string]models.SearchResult{
		"Important Document": hits("Important Document", "https://doc.example"),
	}}
	p := &Pipeline{
		Title:     fixedTitle("Important Document - Google Chrome"),
		Generator: &stubGenerator{err: errors.New("model timeout")},
		Engine:    engine,
		Limit:     5,
		Log:       testLogger(),
	}

	wc := p.Run(context.Background())
	if !wc.OK {
		t.Fatalf("Run() failed: %s", wc.Error)
	}
	if len(wc.Queries) != 3 {
		t.Fatalf("len(Queries) = %d, want 3 copies of the cleaned title", len(wc.Queries))
	}
	for _, q := range wc.Queries {
		if q != "Important Document" {
			t.Errorf("query = %q, want the cleaned title", q)
		}
	}
}

func TestRunAllQueriesEmpty(t *testing.T) {
	engine := &stubEngine{results: map[string]models.SearchResult{}}
	p := &Pipeline{
		Title:     fixedTitle("valid topic here"),
		Generator: &stubGenerator{queries: []string{"q1", "q2", "q3"}},
		Engine:    engine,
		Limit:     5,
		Log:       testLogger(),
	}

	wc := p.Run(context.Background())
	if wc.OK {
		t.Fatal("Run() should fail when every query returns nothing")
	}
	if wc.Error != "no results from any query" {
		t.Errorf("Error = %q", wc.Error)
	}
}

func TestRunPanickingEngineDoesNotCrash(t *testing.T) {
	p := &Pipeline{
		Title:     fixedTitle("valid topic here"),
		Generator: &stubGenerator{queries: []string{"q1", "q2", "q3"}},
		Engine:    &stubEngine{panics: true},
		Limit:     5,
		Log:       testLogger(),
	}

	wc := p.Run(context.Background())
	if wc.OK {
		t.Fatal("Run() should fail when every branch panicked")
	}
}

func TestDedupKeyFallsBackToTitle(t *testing.T) {
	items := []models.SearchItem{
		{Title: "same headline"},
		{Title: "same headline"},
		{Title: "other headline"},
	}
	out := dedup(items, 0)
	if len(out) != 2 {
		t.Errorf("len(dedup()) = %d, want 2", len(out))
	}
}

func TestDedupFirstOccurrenceWins(t *testing.T) {
	items := []models.SearchItem{
		{Title: "first", URL: "https://same.example", Abstract: "kept"},
		{Title: "second", URL: "https://same.example", Abstract: "dropped"},
	}
	out := dedup(items, 0)
	if len(out) != 1 || out[0].Abstract != "kept" {
		t.Errorf("dedup() = %+v, want the first occurrence", out)
	}
}
