package search

import (
	"context"

	"github.com/feedscope/feedscope/models"
)

// Engine is a single web search backend. Implementations must be safe for
// concurrent use: the pipeline runs one goroutine per query.
type Engine interface {
	Name() string
	Search(ctx context.Context, query string, limit int) models.SearchResult
}
