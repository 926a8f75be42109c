package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/creds"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/jsonx"
)

const (
	trends24URL      = "https://trends24.in/"
	twitterHomeURL   = "https://twitter.com/home"
	twitterAPITmpl   = "https://api.twitter.com/1.1/statuses/home_timeline.json?tweet_mode=extended&count=%d"
	twitterSearchFmt = "https://twitter.com/search?q=%s"

	// Fixed bearer used by the official web client; not a secret.
	twitterWebBearer = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIyU2%2FGoa3FmBNYDPz%2FzGz%2F2Rnc%2F2bGBDH%2Fc"
)

// TwitterTrending scrapes the trends24 aggregator, which mirrors the Twitter
// trending board without authentication.
type TwitterTrending struct {
	client *httpx.Client
	log    *slog.Logger
}

func NewTwitterTrending(client *httpx.Client, log *slog.Logger) *TwitterTrending {
	return &TwitterTrending{client: client, log: log}
}

func (f *TwitterTrending) Name() string { return KeyTwitter }

func (f *TwitterTrending) Fetch(ctx context.Context, limit int) models.FetchResult {
	resp, err := f.client.Get(ctx, httpx.Request{URL: trends24URL})
	if err != nil {
		return models.Fail(fmt.Sprintf("twitter trends request failed: %v", err))
	}
	doc, err := resp.Document()
	if err != nil {
		return models.Fail(fmt.Sprintf("twitter trends page unparseable: %v", err))
	}

	var items []models.ContentItem
	doc.Find(".trend-card__list li a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if len(items) >= limit {
			return false
		}
		trend := strings.TrimSpace(a.Text())
		if trend == "" {
			return true
		}
		items = append(items, models.ContentItem{
			Title: trend,
			URL:   fmt.Sprintf(twitterSearchFmt, url.QueryEscape(trend)),
		})
		return true
	})

	if len(items) == 0 {
		return models.Fail("twitter trends page had no parseable entries")
	}
	f.log.Info("fetched twitter trends", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

var (
	tweetTextRe  = regexp.MustCompile(`"tweet":\{[^}]*"full_text":"([^"]+)"`)
	screenNameRe = regexp.MustCompile(`"screen_name":"([^"]+)"`)
)

// TwitterPersonal fetches the home timeline. Session cookies are required;
// the ct0 anti-forgery token is strongly recommended but its absence is only
// a soft warning since the request may still partially succeed. A non-200
// from the API degrades transparently to scraping the home page HTML.
type TwitterPersonal struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewTwitterPersonal(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *TwitterPersonal {
	return &TwitterPersonal{client: client, creds: provider, log: log}
}

func (f *TwitterPersonal) Name() string { return KeyTwitter }

func (f *TwitterPersonal) Fetch(ctx context.Context, limit int) models.FetchResult {
	cookies := f.creds.Cookies(KeyTwitter)
	if len(cookies) == 0 {
		return models.Fail("twitter credentials not configured")
	}

	ct0 := cookies["ct0"]
	if ct0 == "" {
		ct0 = cookies["CT0"]
	}
	if ct0 == "" {
		f.log.Warn("twitter cookies missing the ct0 anti-forgery token; the API will likely refuse the request")
	}

	headers := map[string]string{
		"Accept":                    "application/json",
		"Authorization":             "Bearer " + twitterWebBearer,
		"x-csrf-token":              ct0,
		"x-twitter-active-user":     "yes",
		"x-twitter-client-language": "en",
	}
	if cookies["auth_token"] != "" {
		headers["x-twitter-auth-type"] = "OAuth2Session"
	}

	resp, err := f.client.Get(ctx, httpx.Request{
		URL:     fmt.Sprintf(twitterAPITmpl, limit),
		Headers: headers,
		Cookies: cookies,
	})
	if err != nil {
		return models.Fail(fmt.Sprintf("twitter API request failed: %v", err))
	}
	if resp.StatusCode != 200 {
		f.log.Warn("twitter API refused the request, scraping the web timeline", "status", resp.StatusCode)
		return f.fetchWebFallback(ctx, limit, cookies)
	}

	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("twitter API returned malformed payload: %v", err))
	}
	tweets, ok := data.([]any)
	if !ok {
		return models.Fail("twitter API returned an unexpected payload shape")
	}

	var items []models.ContentItem
	for _, raw := range tweets {
		if len(items) >= limit {
			break
		}
		item, itemOK := parseTweet(raw)
		if !itemOK {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return models.Fail("twitter timeline had no parseable tweets")
	}
	f.log.Info("fetched twitter timeline", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

func parseTweet(raw any) (models.ContentItem, bool) {
	id := jsonx.Str(raw, "id_str")
	if id == "" {
		return models.ContentItem{}, false
	}
	author := jsonx.Str(jsonx.Obj(raw, "user"), "screen_name")
	if author == "" {
		author = "Unknown"
	}

	text := jsonx.Str(raw, "full_text")
	if text == "" {
		text = jsonx.Str(raw, "text")
	}
	text = strings.TrimSpace(shortLinkRe.ReplaceAllString(text, ""))

	if retweet := jsonx.Obj(raw, "retweeted_status"); len(retweet) > 0 {
		rtUser := jsonx.Str(jsonx.Obj(retweet, "user"), "screen_name")
		rtText := strings.TrimSpace(shortLinkRe.ReplaceAllString(jsonx.Str(retweet, "full_text"), ""))
		text = fmt.Sprintf("RT @%s: %s", rtUser, rtText)
	}
	if text == "" {
		return models.ContentItem{}, false
	}

	return models.ContentItem{
		Title:     text,
		Author:    "@" + author,
		URL:       fmt.Sprintf("https://twitter.com/%s/status/%s", author, id),
		Timestamp: jsonx.Str(raw, "created_at"),
	}, true
}

// fetchWebFallback regex-scrapes the embedded timeline JSON out of the home
// page. A redirect to the login or logout page means the cookies are dead.
func (f *TwitterPersonal) fetchWebFallback(ctx context.Context, limit int, cookies map[string]string) models.FetchResult {
	resp, err := f.client.Get(ctx, httpx.Request{URL: twitterHomeURL, Cookies: cookies})
	if err != nil {
		return models.Fail(fmt.Sprintf("twitter web fallback failed: %v", err))
	}
	if strings.Contains(resp.FinalURL, "login") || strings.Contains(resp.FinalURL, "logout") {
		return models.Fail("twitter cookies expired: the web timeline refused access")
	}

	body := string(resp.Body)
	texts := tweetTextRe.FindAllStringSubmatch(body, -1)
	names := screenNameRe.FindAllStringSubmatch(body, -1)

	var items []models.ContentItem
	for i, m := range texts {
		if len(items) >= limit {
			break
		}
		text := strings.TrimSpace(shortLinkRe.ReplaceAllString(m[1], ""))
		if text == "" {
			continue
		}
		author := "Unknown"
		if i < len(names) {
			author = names[i][1]
		}
		items = append(items, models.ContentItem{
			Title:  text,
			Author: "@" + author,
			URL:    twitterHomeURL,
		})
	}
	if len(items) == 0 {
		return models.Fail("twitter web scrape found no tweets; the page structure may have changed")
	}
	return models.FetchResult{OK: true, Items: items}
}
