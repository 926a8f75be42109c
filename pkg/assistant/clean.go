package assistant

import (
	"regexp"
	"strings"
)

const maxCleanLen = 100

// cleanRules are applied in order. The tail rules strip application chrome
// that window managers append after a dash; the rest remove annotations and
// artifacts that make bad search input.
var cleanRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[-–—]\s*(Google Chrome|Mozilla Firefox|Microsoft Edge|Opera|Safari|Brave).*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(Visual Studio Code|VS Code|VSCode).*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(记事本|Notepad\+*|Sublime Text|Atom).*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(Microsoft Word|Excel|PowerPoint).*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(QQ音乐|网易云音乐|酷狗音乐|Spotify).*$`),
	regexp.MustCompile(`(?i)\s*[-–—]\s*(哔哩哔哩|bilibili|YouTube|优酷|爱奇艺|腾讯视频).*$`),
	regexp.MustCompile(`\s*[-–—]\s*\d+\s*$`),
	regexp.MustCompile(`^\*\s*`),
	regexp.MustCompile(`\s*\[.*?\]\s*$`),
	regexp.MustCompile(`\s*\(.*?\)\s*$`),
	regexp.MustCompile(`https?://\S+`),
	regexp.MustCompile(`www\.\S+`),
	regexp.MustCompile(`(?i)\.(py|js|html?|css|md|txt|json)\s*$`),
}

var titleSepRe = regexp.MustCompile(`\s*[-–—|]\s*`)

// CleanTitle strips window-manager and application chrome from a window
// title so that what remains is usable as a search query. If stripping
// leaves fewer than 3 characters, the first dash- or pipe-separated segment
// of the raw title is used instead. Output is capped at 100 runes.
func CleanTitle(title string) string {
	if title == "" {
		return ""
	}
	cleaned := title
	for _, rule := range cleanRules {
		cleaned = rule.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if len(cleaned) < 3 {
		parts := titleSepRe.Split(title, -1)
		if len(parts) > 0 {
			first := strings.TrimSpace(parts[0])
			if len(first) >= 3 {
				cleaned = first
			}
		}
	}
	if runes := []rune(cleaned); len(runes) > maxCleanLen {
		cleaned = string(runes[:maxCleanLen])
	}
	return cleaned
}
