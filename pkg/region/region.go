// Package region classifies the caller's environment as Domestic (mainland
// China) or International. The classification gates which platform set is
// queried and which language labels are rendered in.
package region

import (
	"os"
	"strings"
	"sync"

	"github.com/feedscope/feedscope/models"
	"github.com/pemistahl/lingua-go"
)

var mainlandLocales = map[string]bool{
	"zh_cn":                    true,
	"chinese_china":            true,
	"chinese_simplified_china": true,
}

// localeEnvVars in resolution order, mirroring libc locale precedence.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Select inspects the process locale environment and classifies it. An
// explicit FEEDSCOPE_REGION=domestic|international wins over the locale.
// Only mainland-China variants count as Domestic; Hong Kong, Taiwan and
// Macau variants, malformed values and an unset locale all fail open to
// International. Select never panics.
func Select() models.Region {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FEEDSCOPE_REGION"))) {
	case "domestic":
		return models.RegionDomestic
	case "international":
		return models.RegionInternational
	}
	for _, key := range localeEnvVars {
		loc := os.Getenv(key)
		if loc == "" {
			continue
		}
		// The first set variable decides; later variables never override it.
		if classifyLocale(loc) {
			return models.RegionDomestic
		}
		return models.RegionInternational
	}
	return models.RegionInternational
}

// classifyLocale reports whether a raw locale string denotes mainland China.
func classifyLocale(loc string) bool {
	normalized := normalizeLocale(loc)
	if normalized == "" {
		return false
	}
	if mainlandLocales[normalized] {
		return true
	}
	if strings.HasPrefix(normalized, "zh_cn") {
		return true
	}
	return strings.Contains(normalized, "chinese") && strings.Contains(normalized, "china")
}

// normalizeLocale lowercases, maps hyphens to underscores and strips the
// encoding suffix ("zh-CN.UTF-8" -> "zh_cn").
func normalizeLocale(loc string) string {
	loc = strings.ToLower(strings.TrimSpace(loc))
	loc = strings.ReplaceAll(loc, "-", "_")
	if i := strings.IndexByte(loc, '.'); i >= 0 {
		loc = loc[:i]
	}
	return loc
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// DetectText classifies a piece of free text, used by the context-search
// pipeline as a secondary hint when the locale gives no Domestic signal but
// the active window title is Chinese. It only ever influences the prompt
// language and search-engine choice, never the platform set.
func DetectText(s string) models.Region {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.RegionInternational
	}
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Chinese, lingua.English, lingua.Japanese, lingua.Korean).
			Build()
	})
	if lang, ok := detector.DetectLanguageOf(s); ok && lang == lingua.Chinese {
		return models.RegionDomestic
	}
	return models.RegionInternational
}
