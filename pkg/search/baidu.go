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

const baiduBase = "https://www.baidu.com"

// Baidu scrapes the desktop results page. Organic results are the
// div.c-container blocks; promoted blocks carry a 广告 marker and are skipped.
type Baidu struct {
	client *httpx.Client
	log    *slog.Logger
}

func NewBaidu(client *httpx.Client, log *slog.Logger) *Baidu {
	return &Baidu{client: client, log: log}
}

func (b *Baidu) Name() string { return "baidu" }

func (b *Baidu) Search(ctx context.Context, query string, limit int) models.SearchResult {
	u := fmt.Sprintf("%s/s?wd=%s&rn=%d", baiduBase, url.QueryEscape(query), limit+5)
	resp, err := b.client.Get(ctx, httpx.Request{URL: u})
	if err != nil {
		return models.SearchResult{Query: query, Error: fmt.Sprintf("baidu request failed: %v", err)}
	}
	doc, err := resp.Document()
	if err != nil {
		return models.SearchResult{Query: query, Error: fmt.Sprintf("baidu page unparseable: %v", err)}
	}

	var items []models.SearchItem
	doc.Find("div.c-container").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		item, ok := parseBaiduResult(s)
		if !ok {
			return true
		}
		items = append(items, item)
		return true
	})

	if len(items) == 0 {
		return models.SearchResult{Query: query, Error: "baidu returned no organic results"}
	}
	b.log.Debug("baidu search complete", "query", query, "count", len(items))
	return models.SearchResult{OK: true, Query: query, Items: items}
}

func parseBaiduResult(s *goquery.Selection) (models.SearchItem, bool) {
	if strings.Contains(s.Text(), "广告") {
		return models.SearchItem{}, false
	}

	link := s.Find("h3 a").First()
	title := strings.TrimSpace(link.Text())
	if len(title) <= 5 || len(title) > 200 {
		return models.SearchItem{}, false
	}
	if strings.HasPrefix(title, "百度") {
		return models.SearchItem{}, false
	}

	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript") {
		return models.SearchItem{}, false
	}
	if strings.HasPrefix(href, "/") {
		href = baiduBase + href
	}
	if !strings.HasPrefix(href, "http") {
		return models.SearchItem{}, false
	}

	abstract := strings.TrimSpace(s.Find("div.c-abstract, span.content-right_8Zs40, div.content-right").First().Text())

	return models.SearchItem{Title: title, Abstract: abstract, URL: href}, true
}
