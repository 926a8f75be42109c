package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/feedscope/feedscope/internal/contextsearch"
	"github.com/feedscope/feedscope/internal/dashboard"
	"github.com/feedscope/feedscope/internal/feed"
	"github.com/feedscope/feedscope/pkg/help"
)

func main() {
	// A missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	sharedFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to the YAML config file",
			Value: "config.yaml",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "max items to fetch per platform",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "only log errors",
		},
	}

	app := &cli.App{
		Name:  "feedscope",
		Usage: "region-aware aggregator for trending and personal feeds",
		Commands: []*cli.Command{
			{
				Name:   "trending",
				Usage:  "fetch the trending boards for your region",
				Flags:  sharedFlags,
				Action: feed.TrendingAction,
			},
			{
				Name:   "personal",
				Usage:  "fetch your followed feeds (requires cookies)",
				Flags:  sharedFlags,
				Action: feed.PersonalAction,
			},
			{
				Name:   "video",
				Usage:  "fetch the video recommendation feed",
				Flags:  sharedFlags,
				Action: feed.VideoAction,
			},
			{
				Name:   "news",
				Usage:  "fetch the news feed",
				Flags:  sharedFlags,
				Action: feed.NewsAction,
			},
			{
				Name:  "context",
				Usage: "search the web for what your active window is about",
				Flags: append(sharedFlags, &cli.StringFlag{
					Name:  "title",
					Usage: "use this title instead of the foreground window",
				}),
				Action: contextsearch.ContextAction,
			},
			{
				Name:  "dashboard",
				Usage: "serve charts over the run history",
				Flags: append(sharedFlags, &cli.IntFlag{
					Name:  "port",
					Usage: "HTTP port to listen on",
				}),
				Action: dashboard.DashboardAction,
			},
			{
				Name:  "guide",
				Usage: "print the machine-readable quick start guide",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
