package dashboard

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/feedscope/feedscope/internal/feed"
	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/history"
)

func DashboardAction(c *cli.Context) error {
	logger := feed.NewLogger(c)

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	db, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Error("failed to open run history", "error", err)
		os.Exit(2)
	}
	defer db.Close()

	port := cfg.Dashboard.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}
	if err := StartServer(db, port, logger); err != nil {
		logger.Error("dashboard server failed", "error", err)
		os.Exit(2)
	}
	return nil
}
