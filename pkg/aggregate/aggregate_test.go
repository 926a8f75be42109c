package aggregate

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/feedscope/feedscope/models"
)

type stubFetcher struct {
	name   string
	result models.FetchResult
	panics bool
	calls  int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) Fetch(ctx context.Context, limit int) models.FetchResult {
	s.calls++
	if s.panics {
		panic("boom")
	}
	return s.result
}

func okFetcher(name string, titles ...string) *stubFetcher {
	var items []models.ContentItem
	for _, title := range titles {
		items = append(items, models.ContentItem{Title: title, URL: "https://example.com/" + title})
	}
	return &stubFetcher{name: name, result: models.FetchResult{OK: true, Items: items}}
}

func failFetcher(name, msg string) *stubFetcher {
	return &stubFetcher{name: name, result: models.Fail(msg)}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func domesticOrchestrator(bilibili, weibo *stubFetcher) *Orchestrator {
	return New(Options{
		Region:   models.RegionDomestic,
		Bilibili: bilibili,
		Weibo:    weibo,
		Log:      testLogger(),
	})
}

func TestTrendingBothSucceed(t *testing.T) {
	bilibili := okFetcher("bilibili", "v1")
	weibo := okFetcher("weibo", "w1")
	env := domesticOrchestrator(bilibili, weibo).Trending(context.Background(), 5)

	if !env.Success {
		t.Fatal("Success = false, want true")
	}
	if env.Kind != "trending" || env.Region != models.RegionDomestic {
		t.Errorf("envelope = %+v", env)
	}
	if len(env.Platforms) != 2 {
		t.Fatalf("len(Platforms) = %d, want 2", len(env.Platforms))
	}
	if !env.Platforms["bilibili"].OK || !env.Platforms["weibo"].OK {
		t.Errorf("branches = %+v", env.Platforms)
	}
	if bilibili.calls != 1 || weibo.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", bilibili.calls, weibo.calls)
	}
}

func TestTrendingOneBranchFailureIsIsolated(t *testing.T) {
	env := domesticOrchestrator(okFetcher("bilibili", "v1"), failFetcher("weibo", "wall")).
		Trending(context.Background(), 5)

	if !env.Success {
		t.Fatal("Success = false, want true when one branch succeeds")
	}
	if env.Platforms["weibo"].OK {
		t.Error("failed branch reported OK")
	}
	if env.Platforms["weibo"].Error != "wall" {
		t.Errorf("failed branch error = %q", env.Platforms["weibo"].Error)
	}
}

func TestTrendingPanicIsContained(t *testing.T) {
	panicky := &stubFetcher{name: "weibo", panics: true}
	env := domesticOrchestrator(okFetcher("bilibili", "v1"), panicky).
		Trending(context.Background(), 5)

	if !env.Success {
		t.Fatal("Success = false, want true: the sibling succeeded")
	}
	branch := env.Platforms["weibo"]
	if branch.OK {
		t.Error("panicking branch reported OK")
	}
	if !strings.Contains(branch.Error, "panicked") {
		t.Errorf("panicking branch error = %q", branch.Error)
	}
}

func TestTrendingAllFailed(t *testing.T) {
	env := domesticOrchestrator(failFetcher("bilibili", "a"), failFetcher("weibo", "b")).
		Trending(context.Background(), 5)

	if env.Success {
		t.Fatal("Success = true, want false")
	}
	if env.Error == "" {
		t.Error("Error is empty, want an all-failed message")
	}
	if len(env.Platforms) != 2 {
		t.Errorf("len(Platforms) = %d, want 2 (failed branches still present)", len(env.Platforms))
	}
}

func TestPersonalSuccessIsAlsoOrOfBranches(t *testing.T) {
	env := domesticOrchestrator(failFetcher("bilibili", "no creds"), okFetcher("weibo", "w1")).
		Personal(context.Background(), 5)

	if !env.Success {
		t.Fatal("Personal Success = false, want true when one branch succeeds")
	}
	if env.Kind != "personal" {
		t.Errorf("Kind = %q", env.Kind)
	}
}

func TestRegionGatesFetcherPair(t *testing.T) {
	bilibili := okFetcher("bilibili", "v1")
	reddit := okFetcher("reddit", "r1")
	twitter := okFetcher("twitter", "t1")

	o := New(Options{
		Region:   models.RegionInternational,
		Bilibili: bilibili,
		Reddit:   reddit,
		Twitter:  twitter,
		Log:      testLogger(),
	})
	env := o.Trending(context.Background(), 5)

	if bilibili.calls != 0 {
		t.Errorf("bilibili called %d times in international region", bilibili.calls)
	}
	if reddit.calls != 1 || twitter.calls != 1 {
		t.Errorf("reddit/twitter calls = %d/%d, want 1/1", reddit.calls, twitter.calls)
	}
	if _, present := env.Platforms["bilibili"]; present {
		t.Error("bilibili branch present in international envelope")
	}
}

func TestVideoSingleFetcher(t *testing.T) {
	o := New(Options{
		Region: models.RegionInternational,
		Video:  okFetcher("reddit", "clip"),
		Log:    testLogger(),
	})
	env := o.Video(context.Background(), 5)

	if !env.Success || env.Kind != "video" {
		t.Fatalf("envelope = %+v", env)
	}
	if len(env.Platforms) != 1 {
		t.Errorf("len(Platforms) = %d, want 1", len(env.Platforms))
	}
}

func TestNewsFetcherFailure(t *testing.T) {
	o := New(Options{
		Region: models.RegionDomestic,
		News:   failFetcher("weibo", "down"),
		Log:    testLogger(),
	})
	env := o.News(context.Background(), 5)

	if env.Success {
		t.Fatal("Success = true, want false")
	}
	if env.Error == "" {
		t.Error("Error is empty")
	}
}

type memRecorder struct {
	kinds []string
}

func (m *memRecorder) RecordRun(kind string, env models.Envelope) error {
	m.kinds = append(m.kinds, kind)
	return nil
}

func TestRunsAreRecorded(t *testing.T) {
	rec := &memRecorder{}
	o := New(Options{
		Region:   models.RegionDomestic,
		Bilibili: okFetcher("bilibili", "v1"),
		Weibo:    okFetcher("weibo", "w1"),
		Recorder: rec,
		Log:      testLogger(),
	})

	o.Trending(context.Background(), 5)
	o.Personal(context.Background(), 5)

	if len(rec.kinds) != 2 || rec.kinds[0] != "trending" || rec.kinds[1] != "personal" {
		t.Errorf("recorded kinds = %v", rec.kinds)
	}
}
