package search

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/httpx"
	readability "github.com/go-shiori/go-readability"
)

const maxAbstractLen = 280

// Enricher fills empty abstracts by fetching the result page and distilling
// its article text. Strictly best effort: any failure leaves the item as-is.
type Enricher struct {
	client *httpx.Client
	log    *slog.Logger
}

func NewEnricher(client *httpx.Client, log *slog.Logger) *Enricher {
	return &Enricher{client: client, log: log}
}

// Enrich mutates items in place. Only items whose abstract is empty are
// fetched; everything else is left untouched.
func (e *Enricher) Enrich(ctx context.Context, items []models.SearchItem) {
	for i := range items {
		if items[i].Abstract != "" {
			continue
		}
		if excerpt := e.excerpt(ctx, items[i].URL); excerpt != "" {
			items[i].Abstract = excerpt
		}
	}
}

func (e *Enricher) excerpt(ctx context.Context, rawURL string) string {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	resp, err := e.client.Get(ctx, httpx.Request{URL: rawURL})
	if err != nil {
		e.log.Debug("abstract enrichment fetch failed", "url", rawURL, "error", err)
		return ""
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(string(resp.Body)), parsedURL)
	if err != nil {
		e.log.Debug("abstract enrichment parse failed", "url", rawURL, "error", err)
		return ""
	}

	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = strings.TrimSpace(article.TextContent)
	}
	excerpt = collapseWhitespace(excerpt)
	if runes := []rune(excerpt); len(runes) > maxAbstractLen {
		excerpt = string(runes[:maxAbstractLen])
	}
	return excerpt
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
