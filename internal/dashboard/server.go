// Package dashboard serves charts over the run-history database: which
// platforms succeed, and how many items each delivers.
package dashboard

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/feedscope/feedscope/pkg/history"
)

func StartServer(db *history.DB, port int, log *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		counts, err := db.PlatformCounts()
		if err != nil {
			log.Error("failed to load platform counts", "error", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}

		// 1. Success share per platform
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Successful Runs per Platform"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)
		var pieItems []opts.PieData
		for _, c := range counts {
			pieItems = append(pieItems, opts.PieData{Name: c.Platform, Value: c.OKRuns})
		}
		pie.AddSeries("Successes", pieItems)

		// 2. Items delivered per platform
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Items Fetched per Platform"}))
		var barX []string
		var barY []opts.BarData
		for _, c := range counts {
			barX = append(barX, c.Platform)
			barY = append(barY, opts.BarData{Value: c.Items})
		}
		bar.SetXAxis(barX).AddSeries("Items", barY)

		pie.Render(w)
		bar.Render(w)
	})

	log.Info("dashboard listening", "port", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
