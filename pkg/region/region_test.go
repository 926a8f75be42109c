package region

import (
	"testing"

	"github.com/feedscope/feedscope/models"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		lcAll  string
		lang   string
		want   models.Region
	}{
		{"zh_CN locale", "zh_CN.UTF-8", "", models.RegionDomestic},
		{"zh_CN via LANG", "", "zh_CN.UTF-8", models.RegionDomestic},
		{"dashed variant", "zh-CN", "", models.RegionDomestic},
		{"chinese word form", "Chinese (Simplified)_China.936", "", models.RegionDomestic},
		{"taiwan is not mainland", "zh_TW.UTF-8", "", models.RegionInternational},
		{"english", "en_US.UTF-8", "", models.RegionInternational},
		{"empty environment fails open", "", "", models.RegionInternational},
		{"garbage fails open", "!!not-a-locale!!", "", models.RegionInternational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEEDSCOPE_REGION", "")
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", "")
			t.Setenv("LANG", tt.lang)

			if got := Select(); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPrecedence(t *testing.T) {
	// The first set variable decides; later ones never override it.
	tests := []struct {
		name       string
		lcAll      string
		lcMessages string
		lang       string
		want       models.Region
	}{
		{"LC_ALL outranks LANG", "en_US.UTF-8", "", "zh_CN.UTF-8", models.RegionInternational},
		{"LC_MESSAGES outranks LANG", "", "en_US.UTF-8", "zh_CN.UTF-8", models.RegionInternational},
		{"LC_ALL outranks LC_MESSAGES", "zh_CN.UTF-8", "en_US.UTF-8", "", models.RegionDomestic},
		{"unset variables are skipped", "", "", "zh_CN.UTF-8", models.RegionDomestic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEEDSCOPE_REGION", "")
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", tt.lcMessages)
			t.Setenv("LANG", tt.lang)

			if got := Select(); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectExplicitOverride(t *testing.T) {
	tests := []struct {
		name     string
		override string
		lcAll    string
		want     models.Region
	}{
		{"domestic beats an English locale", "domestic", "en_US.UTF-8", models.RegionDomestic},
		{"international beats a Chinese locale", "international", "zh_CN.UTF-8", models.RegionInternational},
		{"case and padding tolerated", " Domestic ", "en_US.UTF-8", models.RegionDomestic},
		{"unknown value falls through to the locale", "mars", "zh_CN.UTF-8", models.RegionDomestic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FEEDSCOPE_REGION", tt.override)
			t.Setenv("LC_ALL", tt.lcAll)
			t.Setenv("LC_MESSAGES", "")
			t.Setenv("LANG", "")

			if got := Select(); got != tt.want {
				t.Errorf("Select() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Region
	}{
		{"chinese text", "今天天气真好，我们去公园吧", models.RegionDomestic},
		{"english text", "the weather is lovely today", models.RegionInternational},
		{"empty text", "", models.RegionInternational},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectText(tt.text); got != tt.want {
				t.Errorf("DetectText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
