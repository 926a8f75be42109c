// Package feed implements the aggregation CLI commands: trending, personal,
// video and news.
package feed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/aggregate"
	"github.com/feedscope/feedscope/pkg/creds"
	"github.com/feedscope/feedscope/pkg/history"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/platforms"
	"github.com/feedscope/feedscope/pkg/region"
	"github.com/feedscope/feedscope/pkg/render"
)

// Runtime is the shared wiring every feed command needs.
type Runtime struct {
	Config       *models.Config
	Region       models.Region
	Orchestrator *aggregate.Orchestrator
	History      *history.DB
	Log          *slog.Logger
}

func (rt *Runtime) Close() {
	if rt.History != nil {
		_ = rt.History.Close()
	}
}

// NewLogger builds the shared JSON logger; --quiet raises the level so only
// errors reach stderr.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// NewRuntime loads config, resolves the region and wires the region's
// fetcher set into an orchestrator. History being unavailable is not fatal:
// runs simply go unrecorded.
func NewRuntime(c *cli.Context, logger *slog.Logger) (*Runtime, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	activeRegion := region.Select()
	logger.Info("region selected", "region", activeRegion.String())

	client := httpx.New(
		httpx.WithTimeout(8*time.Second),
		httpx.WithRateLimit(200*time.Millisecond),
	)
	provider := creds.NewProvider(nil, cfg.Cookies.ExtraPaths, logger)

	var recorder aggregate.Recorder
	var historyDB *history.DB
	if cfg.History.Path != "" {
		historyDB, err = history.Open(cfg.History.Path)
		if err != nil {
			logger.Warn("run history unavailable", "error", err)
		} else {
			recorder = historyDB
		}
	}

	orch := aggregate.New(aggregate.Options{
		Region:   activeRegion,
		Bilibili: pickDomestic(c, client, provider, logger, activeRegion, "bilibili"),
		Weibo:    pickDomestic(c, client, provider, logger, activeRegion, "weibo"),
		Reddit:   pickInternational(c, client, provider, logger, activeRegion, "reddit"),
		Twitter:  pickInternational(c, client, provider, logger, activeRegion, "twitter"),
		Video:    videoFetcher(client, provider, logger, activeRegion),
		News:     newsFetcher(client, provider, logger, activeRegion),
		Recorder: recorder,
		Log:      logger,
	})

	return &Runtime{
		Config:       cfg,
		Region:       activeRegion,
		Orchestrator: orch,
		History:      historyDB,
		Log:          logger,
	}, nil
}

func pickDomestic(c *cli.Context, client *httpx.Client, provider *creds.Provider, logger *slog.Logger, r models.Region, name string) platforms.Fetcher {
	if r != models.RegionDomestic {
		return nil
	}
	personal := c.Command.Name == "personal"
	switch name {
	case "bilibili":
		if personal {
			return platforms.NewBilibiliPersonal(client, provider, logger)
		}
		return platforms.NewBilibiliTrending(client, provider, logger)
	case "weibo":
		if personal {
			return platforms.NewWeiboPersonal(client, provider, logger)
		}
		return platforms.NewWeiboTrending(client, provider, logger)
	}
	return nil
}

func pickInternational(c *cli.Context, client *httpx.Client, provider *creds.Provider, logger *slog.Logger, r models.Region, name string) platforms.Fetcher {
	if r == models.RegionDomestic {
		return nil
	}
	personal := c.Command.Name == "personal"
	switch name {
	case "reddit":
		if personal {
			return platforms.NewRedditPersonal(client, provider, logger)
		}
		return platforms.NewRedditTrending(client, logger)
	case "twitter":
		if personal {
			return platforms.NewTwitterPersonal(client, provider, logger)
		}
		return platforms.NewTwitterTrending(client, logger)
	}
	return nil
}

func videoFetcher(client *httpx.Client, provider *creds.Provider, logger *slog.Logger, r models.Region) platforms.Fetcher {
	if r == models.RegionDomestic {
		return platforms.NewBilibiliTrending(client, provider, logger)
	}
	return platforms.NewRedditSubreddit(client, "videos", logger)
}

func newsFetcher(client *httpx.Client, provider *creds.Provider, logger *slog.Logger, r models.Region) platforms.Fetcher {
	if r == models.RegionDomestic {
		return platforms.NewWeiboTrending(client, provider, logger)
	}
	return platforms.NewRedditSubreddit(client, "news", logger)
}

func limitFor(c *cli.Context, configured int) int {
	if c.IsSet("limit") {
		return c.Int("limit")
	}
	return configured
}

func TrendingAction(c *cli.Context) error {
	logger := NewLogger(c)
	rt, err := NewRuntime(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer rt.Close()

	env := rt.Orchestrator.Trending(c.Context, limitFor(c, rt.Config.Limits.Trending))
	fmt.Println(render.Trending(env))
	return nil
}

func PersonalAction(c *cli.Context) error {
	logger := NewLogger(c)
	rt, err := NewRuntime(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer rt.Close()

	env := rt.Orchestrator.Personal(c.Context, limitFor(c, rt.Config.Limits.Personal))
	fmt.Println(render.Personal(env))
	return nil
}

func VideoAction(c *cli.Context) error {
	logger := NewLogger(c)
	rt, err := NewRuntime(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer rt.Close()

	env := rt.Orchestrator.Video(c.Context, limitFor(c, rt.Config.Limits.Video))
	fmt.Println(render.Video(env))
	return nil
}

func NewsAction(c *cli.Context) error {
	logger := NewLogger(c)
	rt, err := NewRuntime(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer rt.Close()

	env := rt.Orchestrator.News(c.Context, limitFor(c, rt.Config.Limits.News))
	fmt.Println(render.News(env))
	return nil
}
