package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/creds"
	"github.com/feedscope/feedscope/pkg/httpx"
	"github.com/feedscope/feedscope/pkg/jsonx"
)

const (
	bilibiliRcmdURL = "https://api.bilibili.com/x/web-interface/index/top/feed/rcmd"
	bilibiliFeedURL = "https://api.bilibili.com/x/polymer/web-dynamic/v1/feed/all"
)

// BilibiliTrending fetches the homepage recommendation feed. Cookies improve
// ranking quality when present but are not required.
type BilibiliTrending struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewBilibiliTrending(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *BilibiliTrending {
	return &BilibiliTrending{client: client, creds: provider, log: log}
}

func (f *BilibiliTrending) Name() string { return KeyBilibili }

func (f *BilibiliTrending) Fetch(ctx context.Context, limit int) models.FetchResult {
	req := httpx.Request{
		URL:     fmt.Sprintf("%s?ps=%d", bilibiliRcmdURL, limit),
		Headers: map[string]string{"Referer": "https://www.bilibili.com/"},
		Cookies: f.creds.Cookies(KeyBilibili),
	}

	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("bilibili request failed: %v", err))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("bilibili returned malformed payload: %v", err))
	}
	if code := jsonx.Num(data, "code"); code != 0 {
		return models.Fail(fmt.Sprintf("bilibili API rejected the request (code %.0f)", code))
	}

	var items []models.ContentItem
	for _, raw := range jsonx.Arr(jsonx.Obj(data, "data"), "item") {
		if len(items) >= limit {
			break
		}
		// A video without a bvid has no canonical page; skip it.
		bvid := jsonx.Str(raw, "bvid")
		if bvid == "" {
			continue
		}

		stat := jsonx.Obj(raw, "stat")
		item := models.ContentItem{
			Title:  jsonx.Str(raw, "title"),
			Author: jsonx.Str(jsonx.Obj(raw, "owner"), "name"),
			URL:    "https://www.bilibili.com/video/" + bvid,
			Metric: formatScore(int(jsonx.Num(stat, "view"))),
			Note:   recommendReason(raw),
		}
		items = append(items, item)
	}

	f.log.Info("fetched bilibili recommendations", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

// recommendReason tolerates both the object form {content: "..."} and a
// plain string, which the API has served at different times.
func recommendReason(raw any) string {
	m, ok := raw.(map[string]any)
	if !ok {
		return ""
	}
	switch v := m["rcmd_reason"].(type) {
	case map[string]any:
		return jsonx.Str(v, "content")
	case string:
		return v
	}
	return ""
}

// dynKind is the closed set of dynamic-feed categories. The mapping from
// category to canonical URL and synopsis prefix is total over this enum.
type dynKind int

const (
	dynVideo dynKind = iota
	dynDraw
	dynArticle
	dynLive
	dynForward
	dynOther
)

func classifyDynamic(majorType, dynamicType string) dynKind {
	switch majorType {
	case "MAJOR_TYPE_ARCHIVE":
		return dynVideo
	case "MAJOR_TYPE_DRAW":
		return dynDraw
	case "MAJOR_TYPE_ARTICLE":
		return dynArticle
	case "MAJOR_TYPE_LIVE_RCMD":
		return dynLive
	}
	switch dynamicType {
	case "DYNAMIC_TYPE_LIVE_RCMD":
		return dynLive
	case "DYNAMIC_TYPE_FORWARD":
		return dynForward
	}
	return dynOther
}

// skippedDynamicTypes are ads and applet cards that carry no feed content.
var skippedDynamicTypes = map[string]bool{
	"DYNAMIC_TYPE_AD":     true,
	"DYNAMIC_TYPE_APPLET": true,
	"DYNAMIC_TYPE_NONE":   true,
}

var liveRoomRe = regexp.MustCompile(`直播间：(\d+)`)

// BilibiliPersonal fetches the followed-creators dynamic feed. It requires
// the SESSDATA session credential and fails fast without one.
type BilibiliPersonal struct {
	client *httpx.Client
	creds  *creds.Provider
	log    *slog.Logger
}

func NewBilibiliPersonal(client *httpx.Client, provider *creds.Provider, log *slog.Logger) *BilibiliPersonal {
	return &BilibiliPersonal{client: client, creds: provider, log: log}
}

func (f *BilibiliPersonal) Name() string { return KeyBilibili }

func (f *BilibiliPersonal) Fetch(ctx context.Context, limit int) models.FetchResult {
	cookies := f.creds.Cookies(KeyBilibili)
	if cookies["SESSDATA"] == "" {
		return models.Fail("bilibili credentials not configured (missing SESSDATA)")
	}

	req := httpx.Request{
		URL:     bilibiliFeedURL,
		Headers: map[string]string{"Referer": "https://t.bilibili.com/"},
		Cookies: cookies,
	}
	resp, err := f.client.Get(ctx, req)
	if err != nil {
		return models.Fail(fmt.Sprintf("bilibili feed request failed: %v", err))
	}
	data, err := resp.JSON()
	if err != nil {
		return models.Fail(fmt.Sprintf("bilibili feed returned malformed payload: %v", err))
	}
	if code := jsonx.Num(data, "code"); code != 0 {
		return models.Fail(fmt.Sprintf("bilibili feed API rejected the request (code %.0f)", code))
	}

	var items []models.ContentItem
	for _, raw := range jsonx.Arr(jsonx.Obj(data, "data"), "items") {
		if len(items) >= limit {
			break
		}
		item, ok := f.parseDynamic(raw)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	f.log.Info("fetched bilibili personal dynamics", "count", len(items))
	return models.FetchResult{OK: true, Items: items}
}

// parseDynamic normalizes one dynamic card. A card missing its id is
// skipped; any other malformed field degrades to an empty value.
func (f *BilibiliPersonal) parseDynamic(raw any) (models.ContentItem, bool) {
	id := jsonx.Str(raw, "id_str")
	if id == "" {
		return models.ContentItem{}, false
	}
	dynamicType := jsonx.Str(raw, "type")
	if skippedDynamicTypes[dynamicType] {
		return models.ContentItem{}, false
	}

	modules := jsonx.Obj(raw, "modules")
	author := jsonx.Str(jsonx.Obj(modules, "module_author"), "name")
	if author == "" {
		author = "未知UP主"
	}
	pubTime := jsonx.Str(jsonx.Obj(modules, "module_author"), "pub_time")

	moduleDynamic := jsonx.Obj(modules, "module_dynamic")
	major := jsonx.Obj(moduleDynamic, "major")
	rawText := jsonx.Str(jsonx.Obj(moduleDynamic, "desc"), "text")

	// The generic feed-item page is the default; specific categories link
	// to the video, article or live room instead.
	url := "https://t.bilibili.com/" + id
	var synopsis string

	switch classifyDynamic(jsonx.Str(major, "type"), dynamicType) {
	case dynVideo:
		archive := jsonx.Obj(major, "archive")
		if bvid := jsonx.Str(archive, "bvid"); bvid != "" {
			url = "https://www.bilibili.com/video/" + bvid
		}
		synopsis = "[发布了新视频] " + jsonx.Str(archive, "title")
	case dynDraw:
		if rawText != "" {
			synopsis = "[图文动态] " + rawText
		} else {
			synopsis = "[分享了图片]"
		}
	case dynArticle:
		article := jsonx.Obj(major, "article")
		if articleID := jsonx.Num(article, "id"); articleID > 0 {
			url = fmt.Sprintf("https://www.bilibili.com/read/cv%.0f", articleID)
		}
		synopsis = "[发布了专栏文章] " + jsonx.Str(article, "title")
	case dynLive:
		title, roomURL := parseLiveDynamic(major, rawText)
		if roomURL != "" {
			url = roomURL
		} else if m := liveRoomRe.FindStringSubmatch(rawText); m != nil {
			url = "https://live.bilibili.com/" + m[1]
		}
		if title == "" {
			title = "快来我的直播间看看吧！"
		}
		synopsis = "[正在直播] " + title
	case dynForward:
		if rawText != "" {
			synopsis = "[转发动态] " + rawText
		} else {
			synopsis = "[转发了动态]"
		}
	default:
		if rawText != "" {
			synopsis = rawText
		} else {
			synopsis = "发布了新动态"
		}
	}

	synopsis = collapseSpace(synopsis)
	if synopsis == "" {
		synopsis = "分享了新动态"
	}

	return models.ContentItem{
		Title:     synopsis,
		Author:    author,
		URL:       url,
		Timestamp: pubTime,
	}, true
}

// parseLiveDynamic digs the livestream title and room id out of the nested
// JSON-encoded content field, falling back to the outer description text on
// any parse error.
func parseLiveDynamic(major map[string]any, fallbackTitle string) (title, roomURL string) {
	title = fallbackTitle

	liveRcmd, ok := major["live_rcmd"].(map[string]any)
	if !ok {
		liveRcmd, ok = major["live"].(map[string]any)
		if !ok {
			return title, ""
		}
	}

	playInfo := jsonx.Obj(liveRcmd, "live_play_info")
	if content, isStr := liveRcmd["content"].(string); isStr && strings.HasPrefix(content, "{") {
		var decoded any
		if err := json.Unmarshal([]byte(content), &decoded); err == nil {
			if inner := jsonx.Obj(decoded, "live_play_info"); len(inner) > 0 {
				playInfo = inner
			}
		}
	}
	if len(playInfo) == 0 {
		return title, ""
	}

	if t := jsonx.Str(playInfo, "title"); t != "" {
		title = t
	}
	if room := jsonx.Num(playInfo, "room_id"); room > 0 {
		roomURL = fmt.Sprintf("https://live.bilibili.com/%.0f", room)
	}
	return title, roomURL
}
