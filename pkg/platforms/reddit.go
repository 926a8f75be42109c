package platforms

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/creds"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/jsonx"
	"github.com/loganintech/go-reddit/v2/reddit"
)

const redditBase = "https://www.reddit.com"

// RedditTrending fetches r/popular. When API credentials are configured in
// the environment it goes through the authenticated API first; the public
// JSON listing is the fallback and the default.
type RedditTrending struct {
	client *httpx.Client
	api    *reddit.Client // nil when no API credentials are configured
	log    *slog.Logger
}

func NewRedditTrending(client *httpx.Client, log *slog.Logger) *RedditTrending {
	f := &RedditTrending{client: client, log: log}

	id, secret := os.Getenv("REDDIT_CLIENT_ID"), os.Getenv("REDDIT_CLIENT_SECRET")
	if id != "" && secret != "" {
		userAgent := os.Getenv("REDDIT_USER_AGENT")
		if userAgent == "" {
			userAgent = httpx.RandomUserAgent()
		}
		api, err := reddit.NewClient(reddit.Credentials{
			ID:       id,
			Secret:   secret,
			Username: os.Getenv("REDDIT_USERNAME"),
			Password: os.Getenv("REDDIT_PASSWORD"),
		}, reddit.WithUserAgent(userAgent))
		if err != nil {
			log.Warn("reddit API client unavailable, using public listing", "error", err)
		} else {
			f.api = api
		}
	}
	return f
}

func (f *RedditTrending) Name() string { return KeyReddit }

func (f *RedditTrending) Fetch(ctx context.Context, limit int) models.FetchResult {
	if f.api != nil {
		if result, ok := f.fetchAPI(ctx, limit); ok {
			return result
		}
		// API denial degrades to the public listing, same as no creds.
	}
	return f.fetchPublic(ctx, limit)
}

func (f *RedditTrending) fetchAPI(ctx context.Context, limit int) (models.FetchResult, bool) {
	posts, _, err := f.api.Subreddit.HotPosts(ctx, "popular", &reddit.ListOptions{Limit: limit})
	if err != nil {
		f.log.Warn("reddit API request failed, using public listing", "error", err)
		return models.FetchResult{}, false
	}

	var items []models.ContentItem
	for _, p := range posts {
		if len(items) >= limit {
			break
		}
		if p.NSFW {
			continue
		}
		items = append(items, models.ContentItem{
			Title:  p.Title,
			Author: p.Author,
			URL:    redditBase + p.Permalink,
			Metric: formatScore(p.Score),
			Note:   p.SubredditNamePrefixed,
		})
	}
	f.log.Info("fetched reddit popular via API", "count", len(items))
	return models.FetchResult{OK: true, Items: items}, true
}

func (f *RedditTrending) fetchPublic(ctx context.Context, limit int) models.FetchResult {
	req := httpx.Request{
		URL:     fmt.Sprintf("%s/r/popular/hot.json?limit=%d", redditBase, limit),
		Headers: map[string]string{"Accept": "application/json"},
	}
	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit request failed: %v", err))
	}
	if resp.StatusCode != 200 {
		return models.Fail(fmt.Sprintf("reddit returned status %d", resp.StatusCode))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit returned malformed payload: %v", err))
	}

	items := parseRedditListing(data, limit)
	if len(items) == 0 {
		return models.Fail("reddit returned no posts")
	}
	f.log.Info("fetched reddit popular", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

// parseRedditListing walks the t3 listing shape shared by every Reddit
// listing endpoint. NSFW posts are dropped; a post without a permalink is
// skipped because it has no canonical URL.
func parseRedditListing(data any, limit int) []models.ContentItem {
	var items []models.ContentItem
	for _, child := range jsonx.Arr(jsonx.Obj(data, "data"), "children") {
		if len(items) >= limit {
			break
		}
		post := jsonx.Obj(child, "data")
		if jsonx.Bool(post, "over_18") {
			continue
		}
		permalink := jsonx.Str(post, "permalink")
		if permalink == "" {
			continue
		}
		items = append(items, models.ContentItem{
			Title:  jsonx.Str(post, "title"),
			Author: jsonx.Str(post, "author"),
			URL:    redditBase + permalink,
			Metric: formatScore(int(jsonx.Num(post, "score"))),
			Note:   "r/" + jsonx.Str(post, "subreddit"),
		})
	}
	return items
}

// RedditSubreddit fetches the hot listing of a single subreddit. It backs
// the topical feeds (videos, news) for the international region.
type RedditSubreddit struct {
	client    *httpx.Client
	subreddit string
	log       *slog.Logger
}

func NewRedditSubreddit(client *httpx.Client, subreddit string, log *slog.Logger) *RedditSubreddit {
	return &RedditSubreddit{client: client, subreddit: subreddit, log: log}
}

func (f *RedditSubreddit) Name() string { return KeyReddit }

func (f *RedditSubreddit) Fetch(ctx context.Context, limit int) models.FetchResult {
	req := httpx.Request{
		URL:     fmt.Sprintf("%s/r/%s/hot.json?limit=%d", redditBase, f.subreddit, limit),
		Headers: map[string]string{"Accept": "application/json"},
	}
	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit request failed: %v", err))
	}
	if resp.StatusCode != 200 {
		return models.Fail(fmt.Sprintf("reddit returned status %d for r/%s", resp.StatusCode, f.subreddit))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit returned malformed payload: %v", err))
	}

	items := parseRedditListing(data, limit)
	if len(items) == 0 {
		return models.Fail(fmt.Sprintf("r/%s returned no posts", f.subreddit))
	}
	f.log.Info("fetched subreddit hot posts", "subreddit", f.subreddit, "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

// RedditPersonal fetches the logged-in front page. It requires the
// reddit_session cookie and fails fast without it.
type RedditPersonal struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewRedditPersonal(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *RedditPersonal {
	return &RedditPersonal{client: client, creds: provider, log: log}
}

func (f *RedditPersonal) Name() string { return KeyReddit }

func (f *RedditPersonal) Fetch(ctx context.Context, limit int) models.FetchResult {
	cookies := f.creds.Cookies(KeyReddit)
	if len(cookies) == 0 {
		return models.Fail("reddit credentials not configured")
	}

	req := httpx.Request{
		URL:     fmt.Sprintf("%s/hot.json?limit=%d", redditBase, limit),
		Headers: map[string]string{"Accept": "application/json"},
		Cookies: cookies,
	}
	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit request failed: %v", err))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("reddit returned malformed payload: %v", err))
	}

	items := parseRedditListing(data, limit)
	if len(items) == 0 {
		return models.Fail("reddit returned no subscribed posts")
	}
	f.log.Info("fetched reddit subscribed posts", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}
