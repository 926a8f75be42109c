package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/platforms"
)

// Recorder persists the outcome of an aggregation run. Recording is
// best-effort: failures are logged and never affect the envelope.
type Recorder interface {
	RecordRun(kind string, env models.Envelope) error
}

// Orchestrator fans aggregation requests out to the platform fetchers that
// match the active region and merges their results into a single envelope.
type Orchestrator struct {
	region   models.Region
	bilibili platforms.Fetcher
	weibo    platforms.Fetcher
	reddit   platforms.Fetcher
	twitter  platforms.Fetcher
	video    platforms.Fetcher
	news     platforms.Fetcher
	recorder Recorder
	log      *slog.Logger
}

type Options struct {
	Region   models.Region
	Bilibili platforms.Fetcher
	Weibo    platforms.Fetcher
	Reddit   platforms.Fetcher
	Twitter  platforms.Fetcher
	Video    platforms.Fetcher
	News     platforms.Fetcher
	Recorder Recorder
	Log      *slog.Logger
}

func New(opts Options) *Orchestrator {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		region:   opts.Region,
		bilibili: opts.Bilibili,
		weibo:    opts.Weibo,
		reddit:   opts.Reddit,
		twitter:  opts.Twitter,
		video:    opts.Video,
		news:     opts.News,
		recorder: opts.Recorder,
		log:      log,
	}
}

// Trending fetches the two trending boards for the active region
// concurrently and merges the outcomes.
func (o *Orchestrator) Trending(ctx context.Context, limit int) models.Envelope {
	return o.fanOut(ctx, "trending", limit, o.pair())
}

// Personal fetches the two personalized feeds for the active region. Each
// fetcher decides on its own whether it has usable credentials.
func (o *Orchestrator) Personal(ctx context.Context, limit int) models.Envelope {
	return o.fanOut(ctx, "personal", limit, o.pair())
}

// Video fetches the region's video recommendation feed.
func (o *Orchestrator) Video(ctx context.Context, limit int) models.Envelope {
	return o.single(ctx, "video", limit, o.video)
}

// News fetches the region's news feed.
func (o *Orchestrator) News(ctx context.Context, limit int) models.Envelope {
	return o.single(ctx, "news", limit, o.news)
}

func (o *Orchestrator) pair() []platforms.Fetcher {
	if o.region == models.RegionDomestic {
		return []platforms.Fetcher{o.bilibili, o.weibo}
	}
	return []platforms.Fetcher{o.reddit, o.twitter}
}

func (o *Orchestrator) fanOut(ctx context.Context, kind string, limit int, fetchers []platforms.Fetcher) models.Envelope {
	env := models.Envelope{
		Region:    o.region,
		Kind:      kind,
		Platforms: make(map[string]models.FetchResult, len(fetchers)),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, fetcher := range fetchers {
		if fetcher == nil {
			continue
		}
		wg.Add(1)
		go func(f platforms.Fetcher) {
			defer wg.Done()
			result := o.safeFetch(ctx, f, limit)
			mu.Lock()
			env.Platforms[f.Name()] = result
			mu.Unlock()
		}(fetcher)
	}
	wg.Wait()

	for _, result := range env.Platforms {
		if result.OK {
			env.Success = true
			break
		}
	}
	if !env.Success {
		env.Error = fmt.Sprintf("all %s sources failed for region %s", kind, o.region)
	}

	o.record(kind, env)
	return env
}

func (o *Orchestrator) single(ctx context.Context, kind string, limit int, fetcher platforms.Fetcher) models.Envelope {
	env := models.Envelope{
		Region:    o.region,
		Kind:      kind,
		Platforms: make(map[string]models.FetchResult, 1),
	}
	if fetcher == nil {
		env.Error = fmt.Sprintf("no %s source is configured for region %s", kind, o.region)
		o.record(kind, env)
		return env
	}

	result := o.safeFetch(ctx, fetcher, limit)
	env.Platforms[fetcher.Name()] = result
	env.Success = result.OK
	if !env.Success {
		env.Error = fmt.Sprintf("%s source %s failed", kind, fetcher.Name())
	}

	o.record(kind, env)
	return env
}

// safeFetch shields the merge from a panicking fetcher: a panic in one
// branch is converted to a failed result instead of taking the run down.
func (o *Orchestrator) safeFetch(ctx context.Context, f platforms.Fetcher, limit int) (result models.FetchResult) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("fetcher panicked", "platform", f.Name(), "panic", r)
			result = models.Fail(fmt.Sprintf("%s fetcher panicked: %v", f.Name(), r))
		}
	}()
	return f.Fetch(ctx, limit)
}

func (o *Orchestrator) record(kind string, env models.Envelope) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordRun(kind, env); err != nil {
		o.log.Warn("failed to record run history", "kind", kind, "error", err)
	}
}
