package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/httpx"
)

const googleSearchURL = "https://www.google.com/search"

// Google scrapes the standard desktop results page. Organic results live in
// div.g containers; everything marked as an ad or sponsored is skipped.
type Google struct {
	client *httpx.Client
	log    *slog.Logger
}

func NewGoogle(client *httpx.Client, log *slog.Logger) *Google {
	return &Google{client: client, log: log}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, query string, limit int) models.SearchResult {
	u := fmt.Sprintf("%s?q=%s&num=%d&hl=en", googleSearchURL, url.QueryEscape(query), limit+5)
	resp, err := g.client.Get(ctx, httpx.Request{
		URL:     u,
		Headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"},
	})
	if err != nil {
		return models.SearchResult{Query: query, Error: fmt.Sprintf("google request failed: %v", err)}
	}
	doc, err := resp.Document()
	if err != nil {
		return models.SearchResult{Query: query, Error: fmt.Sprintf("google page unparseable: %v", err)}
	}

	var items []models.SearchItem
	doc.Find("div.g").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		item, ok := parseGoogleResult(s)
		if !ok {
			return true
		}
		items = append(items, item)
		return true
	})

	if len(items) == 0 {
		return models.SearchResult{Query: query, Error: "google returned no organic results"}
	}
	g.log.Debug("google search complete", "query", query, "count", len(items))
	return models.SearchResult{OK: true, Query: query, Items: items}
}

func parseGoogleResult(s *goquery.Selection) (models.SearchItem, bool) {
	title := strings.TrimSpace(s.Find("h3").First().Text())
	if len(title) <= 3 || len(title) > 200 {
		return models.SearchItem{}, false
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "sponsored") || strings.HasPrefix(lower, "ad") && len(lower) < 5 {
		return models.SearchItem{}, false
	}

	href, _ := s.Find("a").First().Attr("href")
	href = unwrapGoogleHref(href)
	if href == "" {
		return models.SearchItem{}, false
	}

	abstract := strings.TrimSpace(s.Find(".VwiC3b").First().Text())
	if abstract == "" {
		// Older layout keeps the snippet in the longest span.
		s.Find("span").Each(func(_ int, sp *goquery.Selection) {
			text := strings.TrimSpace(sp.Text())
			if len(text) > len(abstract) && len(text) > 40 {
				abstract = text
			}
		})
	}

	return models.SearchItem{Title: title, Abstract: abstract, URL: href}, true
}

// unwrapGoogleHref resolves the /url?q= redirect wrapper and rejects
// anything that is not a plain http(s) link.
func unwrapGoogleHref(href string) string {
	if strings.HasPrefix(href, "/url?") {
		if parsed, err := url.Parse(href); err == nil {
			if q := parsed.Query().Get("q"); q != "" {
				href = q
			}
		}
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return ""
	}
	if strings.Contains(href, "google.com/aclk") {
		return ""
	}
	return href
}
