package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/creds"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/jsonx"
)

const (
	weiboHotPageURL  = "https://s.weibo.com/top/summary?cate=realtimehot"
	weiboHotAjaxURL  = "https://weibo.com/ajax/side/hotSearch"
	weiboMobileFeed  = "https://m.weibo.cn/api/container/getIndex?containerid=102803"
	weiboSearchBase  = "https://s.weibo.com"
	weiboDetailBase  = "https://m.weibo.cn/detail/"
)

var digitsRe = regexp.MustCompile(`\d+`)

// WeiboTrending scrapes the desktop hot-search board. The desktop page is
// brittle: a verification wall redirects to a passport domain and the row
// markup changes without notice, so a denied or empty primary response falls
// back transparently to the public AJAX endpoint, which needs no credential.
type WeiboTrending struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewWeiboTrending(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *WeiboTrending {
	return &WeiboTrending{client: client, creds: provider, log: log}
}

func (f *WeiboTrending) Name() string { return KeyWeibo }

func (f *WeiboTrending) Fetch(ctx context.Context, limit int) models.FetchResult {
	req := httpx.Request{
		URL: weiboHotPageURL,
		Headers: map[string]string{
			"Referer":         "https://s.weibo.com/",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		},
		Cookies: f.creds.Cookies(KeyWeibo),
	}

	resp, err := f.client.Get(ctx, req)
	if err != nil {
		f.log.Warn("weibo hot-search page unreachable, using public API", "error", err)
		return f.fetchFallback(ctx, limit)
	}
	if strings.Contains(resp.FinalURL, "passport") {
		f.log.Warn("weibo redirected to verification wall, using public API")
		return f.fetchFallback(ctx, limit)
	}

	doc, err := resp.Document()
	if err != nil {
		f.log.Warn("weibo hot-search page unparseable, using public API", "error", err)
		return f.fetchFallback(ctx, limit)
	}

	items := parseWeiboHotRows(doc, limit)
	if len(items) == 0 {
		f.log.Warn("weibo hot-search page had no rows, using public API")
		return f.fetchFallback(ctx, limit)
	}

	f.log.Info("fetched weibo hot search from desktop page", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

func parseWeiboHotRows(doc *goquery.Document, limit int) []models.ContentItem {
	var items []models.ContentItem
	doc.Find("td.td-02").EachWithBreak(func(i int, td *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		a := td.Find("a").First()
		word := strings.TrimSpace(a.Text())
		if word == "" {
			return true
		}

		href, _ := a.Attr("href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = weiboSearchBase + href
		}

		hotText := strings.TrimSpace(td.Find("span").First().Text())
		metric := ""
		if m := digitsRe.FindString(hotText); m != "" {
			metric = m
		}
		note := strings.TrimSpace(digitsRe.ReplaceAllString(hotText, ""))

		items = append(items, models.ContentItem{
			Title:  word,
			URL:    href,
			Metric: metric,
			Note:   note,
		})
		return true
	})
	return items
}

// fetchFallback hits the public AJAX hot-search endpoint.
func (f *WeiboTrending) fetchFallback(ctx context.Context, limit int) models.FetchResult {
	req := httpx.Request{
		URL: weiboHotAjaxURL,
		Headers: map[string]string{
			"Referer":         "https://weibo.com",
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
		},
	}

	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("weibo public API request failed: %v", err))
	}
	if resp.StatusCode != 200 {
		return models.Fail(fmt.Sprintf("weibo public API returned status %d", resp.StatusCode))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("weibo public API returned malformed payload: %v", err))
	}
	if jsonx.Num(data, "ok") != 1 {
		return models.Fail("weibo public API returned an error")
	}

	var items []models.ContentItem
	for _, raw := range jsonx.Arr(jsonx.Obj(data, "data"), "realtime") {
		if len(items) >= limit {
			break
		}
		if jsonx.Bool(raw, "is_ad") || jsonx.Num(raw, "is_ad") == 1 {
			continue
		}
		word := jsonx.Str(raw, "word")
		if word == "" {
			continue
		}
		items = append(items, models.ContentItem{
			Title:  word,
			URL:    weiboSearchBase + "/weibo?q=" + url.QueryEscape(word),
			Metric: strconv.Itoa(int(jsonx.Num(raw, "raw_hot"))),
			Note:   jsonx.Str(raw, "note"),
		})
	}
	return models.FetchResult{OK: true, Items: items}
}

// WeiboPersonal fetches the followed-accounts stream through the mobile
// container API. Only the SUB token matters; once present, every other
// cookie field is unnecessary because the mobile surface keys on it alone.
type WeiboPersonal struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewWeiboPersonal(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *WeiboPersonal {
	return &WeiboPersonal{client: client, creds: provider, log: log}
}

func (f *WeiboPersonal) Name() string { return KeyWeibo }

func (f *WeiboPersonal) Fetch(ctx context.Context, limit int) models.FetchResult {
	cookies := f.creds.Cookies(KeyWeibo)
	if len(cookies) == 0 {
		return models.Fail("weibo credentials not configured")
	}
	sub := cookies["SUB"]
	if sub == "" {
		sub = cookies["sub"]
	}
	if sub == "" {
		return models.Fail("weibo credentials missing the SUB token")
	}

	req := httpx.Request{
		URL: weiboMobileFeed,
		Headers: map[string]string{
			"User-Agent":       httpx.MobileUserAgent,
			"Referer":          "https://m.weibo.cn/",
			"Accept":           "application/json, text/plain, */*",
			"X-Requested-With": "XMLHttpRequest",
			"MWeibo-Pwa":       "1",
		},
		Cookies: map[string]string{"SUB": sub},
	}

	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("weibo mobile API request failed: %v", err))
	}
	if resp.StatusCode != 200 {
		return models.Fail(fmt.Sprintf("weibo mobile API returned status %d", resp.StatusCode))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("weibo mobile API returned malformed payload: %v", err))
	}
	if jsonx.Num(data, "ok") != 1 {
		return models.Fail("weibo SUB token expired or rejected")
	}

	var items []models.ContentItem
	for _, raw := range jsonx.Arr(jsonx.Obj(data, "data"), "cards") {
		if len(items) >= limit {
			break
		}
		// card_type 9 is an ordinary post card; everything else is chrome.
		if jsonx.Num(raw, "card_type") != 9 {
			continue
		}
		mblog := jsonx.Obj(raw, "mblog")
		if len(mblog) == 0 {
			continue
		}

		author := jsonx.Str(jsonx.Obj(mblog, "user"), "screen_name")
		if author == "" {
			author = "未知博主"
		}
		text := stripHTML(jsonx.Str(mblog, "text"))

		if retweet := jsonx.Obj(mblog, "retweeted_status"); len(retweet) > 0 {
			rtAuthor := jsonx.Str(jsonx.Obj(retweet, "user"), "screen_name")
			if rtAuthor == "" {
				rtAuthor = "原博主"
			}
			rtText := stripHTML(jsonx.Str(retweet, "text"))
			text = fmt.Sprintf("%s // [转发动态] @%s: %s", text, rtAuthor, rtText)
		}
		if text == "" {
			text = "[分享了图片/动态]"
		}

		mid := jsonx.Str(mblog, "mid")
		if mid == "" {
			mid = jsonx.Str(mblog, "id")
		}
		if mid == "" {
			continue
		}

		items = append(items, models.ContentItem{
			Title:     text,
			Author:    author,
			URL:       weiboDetailBase + mid,
			Timestamp: jsonx.Str(mblog, "created_at"),
		})
	}

	if len(items) == 0 {
		return models.Fail("weibo mobile API returned no parseable posts")
	}
	f.log.Info("fetched weibo personal stream", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}
