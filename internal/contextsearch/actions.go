// Package contextsearch implements the context command: search the web for
// whatever the user's foreground window is about.
package contextsearch

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/feedscope/feedscope/internal/feed"
	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/assistant"
	"github.com/feedscope/feedscope/pkg/contextpipe"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/region"
	"github.com/feedscope/feedscope/pkg/render"
	"github.com/feedscope/feedscope/pkg/search"
	"github.com/feedscope/feedscope/pkg/wintitle"
)

func ContextAction(c *cli.Context) error {
	logger := feed.NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	activeRegion := region.Select()
	client := httpx.New(httpx.WithTimeout(8 * time.Second))

	var engine search.Engine
	if activeRegion == models.RegionDomestic {
		engine = search.NewBaidu(client, logger)
	} else {
		engine = search.NewGoogle(client, logger)
	}

	// Without an API key the pipeline simply searches the cleaned title.
	var generator assistant.Generator
	if gen, genErr := assistant.NewOpenAIGenerator(cfg.Assistant, activeRegion, logger); genErr != nil {
		logger.Warn("query assistant unavailable, using the cleaned title", "error", genErr)
	} else {
		generator = gen
	}

	var enricher contextpipe.Enricher
	if cfg.Search.EnrichAbstracts {
		enricher = search.NewEnricher(client, logger)
	}

	title := func() (string, error) {
		if c.IsSet("title") {
			return c.String("title"), nil
		}
		return wintitle.Capture()
	}

	pipeline := &contextpipe.Pipeline{
		Region:    activeRegion,
		Title:     title,
		Generator: generator,
		Engine:    engine,
		Enrich:    enricher,
		Limit:     limit(c, cfg.Limits.Search),
		Log:       logger,
	}

	wc := pipeline.Run(c.Context)
	fmt.Println(render.Context(wc))
	return nil
}

func limit(c *cli.Context, configured int) int {
	if c.IsSet("limit") {
		return c.Int("limit")
	}
	return configured
}
