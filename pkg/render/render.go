// Package render turns envelopes into the human-readable text the CLI
// prints. Output language follows the envelope's region.
package render

import (
	"fmt"
	"strings"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/platforms"
)

const maxDisplayItems = 5

// Trending renders the two trending branches in fixed platform order.
// Failed branches are skipped silently; when nothing rendered, a localized
// placeholder sentence comes back instead.
func Trending(env models.Envelope) string {
	var b strings.Builder
	if env.Region == models.RegionDomestic {
		writeBilibili(&b, env.Platforms[platforms.KeyBilibili])
		writeWeibo(&b, env.Platforms[platforms.KeyWeibo])
		return orPlaceholder(&b, "暂时无法获取推荐内容")
	}
	writeReddit(&b, env.Platforms[platforms.KeyReddit])
	writeTwitter(&b, env.Platforms[platforms.KeyTwitter])
	return orPlaceholder(&b, "Unable to fetch trending content at the moment")
}

// Personal renders the followed-feed branches.
func Personal(env models.Envelope) string {
	var b strings.Builder
	if env.Region == models.RegionDomestic {
		writeDynamics(&b, "B站关注UP主动态", env.Platforms[platforms.KeyBilibili])
		writeDynamics(&b, "微博个人关注动态", env.Platforms[platforms.KeyWeibo])
		return orPlaceholder(&b, "暂时无法获取关注动态")
	}
	writeRedditPersonal(&b, env.Platforms[platforms.KeyReddit])
	writeTwitterPersonal(&b, env.Platforms[platforms.KeyTwitter])
	return orPlaceholder(&b, "No personal timeline available")
}

// Video renders the single video branch.
func Video(env models.Envelope) string {
	var b strings.Builder
	if env.Region == models.RegionDomestic {
		writeBilibili(&b, env.Platforms[platforms.KeyBilibili])
		return orPlaceholder(&b, "暂时无法获取视频推荐内容")
	}
	writeReddit(&b, env.Platforms[platforms.KeyReddit])
	return orPlaceholder(&b, "Unable to fetch trending posts at the moment")
}

// News renders the single news branch.
func News(env models.Envelope) string {
	var b strings.Builder
	if env.Region == models.RegionDomestic {
		writeWeibo(&b, env.Platforms[platforms.KeyWeibo])
		return orPlaceholder(&b, "暂时无法获取热议话题")
	}
	writeTwitter(&b, env.Platforms[platforms.KeyTwitter])
	return orPlaceholder(&b, "Unable to fetch trending topics at the moment")
}

// Context renders the window-context search outcome.
func Context(wc models.WindowContext) string {
	domestic := wc.Region == models.RegionDomestic
	if !wc.OK {
		if domestic {
			return "获取窗口上下文失败: " + wc.Error
		}
		return "Failed to fetch window context: " + wc.Error
	}

	var lines []string
	if domestic {
		lines = append(lines, "【当前活跃窗口】"+wc.Title)
		if len(wc.Queries) > 0 {
			lines = append(lines, "【搜索关键词】"+strings.Join(wc.Queries, ", "))
		}
		lines = append(lines, "", "【相关信息】")
	} else {
		lines = append(lines, "【Active Window】"+wc.Title)
		if len(wc.Queries) > 0 {
			lines = append(lines, "【Search Keywords】"+strings.Join(wc.Queries, ", "))
		}
		lines = append(lines, "", "【Related Information】")
	}

	for i, item := range wc.Results {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item.Title))
		if item.Abstract != "" {
			lines = append(lines, "   "+truncate(item.Abstract, 150)+"...")
		}
		if item.URL != "" {
			if domestic {
				lines = append(lines, "   链接: "+item.URL)
			} else {
				lines = append(lines, "   Link: "+item.URL)
			}
		}
	}
	if len(wc.Results) == 0 {
		if domestic {
			lines = append(lines, "未找到相关信息")
		} else {
			lines = append(lines, "No related information found")
		}
	}
	return strings.Join(lines, "\n")
}

func writeBilibili(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【B站首页推荐】\n")
	for i, item := range cap5(r.Items) {
		fmt.Fprintf(b, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(b, "   UP主: %s\n", item.Author)
		if item.Note != "" {
			fmt.Fprintf(b, "   推荐理由: %s\n", item.Note)
		}
	}
	b.WriteString("\n")
}

func writeWeibo(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【微博热议话题】\n")
	for i, item := range cap5(r.Items) {
		line := fmt.Sprintf("%d. %s", i+1, item.Title)
		if item.Note != "" {
			line += fmt.Sprintf(" [%s]", item.Note)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeReddit(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【Reddit Hot Posts】\n")
	for i, item := range cap5(r.Items) {
		fmt.Fprintf(b, "%d. %s\n", i+1, item.Title)
		if item.Note != "" {
			fmt.Fprintf(b, "   %s | %s upvotes\n", item.Note, item.Metric)
		}
	}
	b.WriteString("\n")
}

func writeTwitter(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【Twitter Trending Topics】\n")
	for i, item := range cap5(r.Items) {
		line := fmt.Sprintf("%d. %s", i+1, item.Title)
		if item.Metric != "" {
			line += fmt.Sprintf(" (%s tweets)", item.Metric)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeDynamics(b *strings.Builder, header string, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	fmt.Fprintf(b, "【%s】\n", header)
	for i, item := range cap5(r.Items) {
		fmt.Fprintf(b, "%d. %s (%s)\n", i+1, item.Author, item.Timestamp)
		fmt.Fprintf(b, "   内容: %s\n", item.Title)
	}
	b.WriteString("\n")
}

func writeRedditPersonal(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【Reddit Subscribed Posts】\n")
	for i, item := range cap5(r.Items) {
		fmt.Fprintf(b, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(b, "   Subreddit: %s | Score: %s upvotes\n", item.Note, item.Metric)
	}
	b.WriteString("\n")
}

func writeTwitterPersonal(b *strings.Builder, r models.FetchResult) {
	if !r.OK || len(r.Items) == 0 {
		return
	}
	b.WriteString("【Twitter Timeline】\n")
	for i, item := range cap5(r.Items) {
		fmt.Fprintf(b, "%d. %s: %s\n", i+1, item.Author, item.Title)
	}
	b.WriteString("\n")
}

func cap5(items []models.ContentItem) []models.ContentItem {
	if len(items) > maxDisplayItems {
		return items[:maxDisplayItems]
	}
	return items
}

func orPlaceholder(b *strings.Builder, placeholder string) string {
	out := strings.TrimSpace(b.String())
	if out == "" {
		return placeholder
	}
	return out
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
