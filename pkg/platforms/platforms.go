// Package platforms implements one Fetcher per (platform, content-class)
// pair. Each fetcher owns its primary request strategy and, for brittle
// platforms, one ordered fallback strategy invoked transparently when the
// primary is denied or empty.
package platforms

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/feedscope/feedscope/models"
)

// Fetcher retrieves and normalizes one platform's content for one content
// class. Fetch never panics and never raises: every failure is carried in
// the FetchResult.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, limit int) models.FetchResult
}

// Platform keys, used as envelope map keys and render anchors.
const (
	KeyBilibili = "bilibili"
	KeyWeibo    = "weibo"
	KeyReddit   = "reddit"
	KeyTwitter  = "twitter"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	shortLinkRe  = regexp.MustCompile(`https://t\.co/\w+`)
)

// stripHTML removes markup and collapses whitespace in a post body.
func stripHTML(s string) string {
	return collapseSpace(htmlTagRe.ReplaceAllString(s, ""))
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// formatScore renders a vote count the way Reddit clients do: 1.2K, 3.4M.
func formatScore(count int) string {
	switch {
	case count >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(count)/1_000_000)
	case count >= 1_000:
		return fmt.Sprintf("%.1fK", float64(count)/1_000)
	case count > 0:
		return fmt.Sprintf("%d", count)
	}
	return "0"
}
