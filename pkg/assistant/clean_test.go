package assistant

import "testing"

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"browser suffix", "Go Concurrency Patterns - Google Chrome", "Go Concurrency Patterns"},
		{"editor suffix", "main.go - feedscope - Visual Studio Code", "main.go - feedscope"},
		{"video site suffix", "【编程教学】Go语言入门 - 哔哩哔哩", "【编程教学】Go语言入门"},
		{"trailing brackets", "Release notes [draft]", "Release notes"},
		{"trailing parens", "Weekly sync (recording)", "Weekly sync"},
		{"embedded url", "Check https://example.com/a/b today", "Check today"},
		{"file extension", "notes.txt", "notes"},
		{"leading star", "* unsaved document", "unsaved document"},
		{"empty", "", ""},
		{"whitespace collapse", "hello    world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanTitle(tt.title); got != tt.want {
				t.Errorf("CleanTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestCleanTitleFallsBackToFirstSegment(t *testing.T) {
	// Cleaning strips everything, so the first dash segment of the raw
	// title is used instead.
	got := CleanTitle("notes.txt - Notepad++")
	if got != "notes" {
		t.Errorf("CleanTitle() = %q, want %q", got, "notes")
	}

	// A one-char first segment cannot rescue the title; the short
	// remainder is returned as-is.
	if got := CleanTitle("x - Google Chrome"); got != "x" {
		t.Errorf("CleanTitle() = %q, want %q", got, "x")
	}
}

func TestCleanTitleCapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdefgh "
	}
	if got := CleanTitle(long); len([]rune(got)) > 100 {
		t.Errorf("CleanTitle() length = %d, want <= 100", len([]rune(got)))
	}
}

func TestCleanTitleIdempotent(t *testing.T) {
	inputs := []string{
		"Go Concurrency Patterns - Google Chrome",
		"【编程教学】Go语言入门 - 哔哩哔哩",
		"plain title",
	}
	for _, in := range inputs {
		once := CleanTitle(in)
		twice := CleanTitle(once)
		if once != twice {
			t.Errorf("CleanTitle not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestParseQueryLines(t *testing.T) {
	content := "1. golang channels\n2) goroutine pool，\n- worker queues\nextra line beyond three"
	got := ParseQueryLines(content)

	want := []string{"golang channels", "goroutine pool", "worker queues"}
	if len(got) != len(want) {
		t.Fatalf("ParseQueryLines() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseQueryLines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseQueryLinesDropsShortLines(t *testing.T) {
	got := ParseQueryLines("a\n\nreal query\nb")
	if len(got) != 1 || got[0] != "real query" {
		t.Errorf("ParseQueryLines() = %v, want [real query]", got)
	}
}

func TestPadQueries(t *testing.T) {
	got := PadQueries([]string{"one"}, "fallback")
	if len(got) != 3 || got[1] != "fallback" || got[2] != "fallback" {
		t.Errorf("PadQueries() = %v, want one + two fallbacks", got)
	}

	got = PadQueries(nil, "fallback")
	if len(got) != 3 {
		t.Errorf("PadQueries(nil) length = %d, want 3", len(got))
	}

	got = PadQueries([]string{"a", "b", "c", "d"}, "fallback")
	if len(got) != 3 {
		t.Errorf("PadQueries(4 entries) length = %d, want 3", len(got))
	}

	if got := PadQueries(nil, ""); len(got) != 0 {
		t.Errorf("PadQueries(nil, empty fallback) = %v, want empty", got)
	}
}
