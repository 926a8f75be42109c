// Package models defines the shared data structures exchanged between the
// platform fetchers, the orchestrator and the formatters.
package models

// Region is the coarse locale classification that gates which platform set
// and which display language a response uses.
type Region int

const (
	// RegionInternational is the fail-open default: public, unauthenticated
	// platform surfaces (Reddit, Twitter) and English labels.
	RegionInternational Region = iota
	// RegionDomestic selects the mainland-China platform set (Bilibili,
	// Weibo) and Chinese labels.
	RegionDomestic
)

func (r Region) String() string {
	if r == RegionDomestic {
		return "domestic"
	}
	return "international"
}

// ContentItem is the normalized shape every platform's results are reduced
// to. Title and URL are always set; the remaining fields vary per platform.
type ContentItem struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	URL       string `json:"url"`
	Metric    string `json:"metric,omitempty"`    // score, view count, hot value
	Note      string `json:"note,omitempty"`      // hot tag, recommendation reason, subreddit
	Timestamp string `json:"timestamp,omitempty"`
}

// FetchResult is the only shape a fetcher may return. A fetcher never panics
// and never returns a bare error; failures are carried in Error with OK=false.
type FetchResult struct {
	OK    bool          `json:"ok"`
	Items []ContentItem `json:"items,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Fail builds a failed FetchResult from an error message.
func Fail(msg string) FetchResult {
	return FetchResult{OK: false, Error: msg}
}

// Envelope is the uniform per-call wrapper returned by every aggregation
// entry point. Success is true when at least one platform branch succeeded.
type Envelope struct {
	Success   bool                   `json:"success"`
	Region    Region                 `json:"region"`
	Kind      string                 `json:"kind"`
	Platforms map[string]FetchResult `json:"platforms"`
	Error     string                 `json:"error,omitempty"`
}

// SearchItem is a single search-engine hit.
type SearchItem struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract,omitempty"`
	URL      string `json:"url"`
}

// SearchResult wraps one engine query's outcome.
type SearchResult struct {
	OK    bool         `json:"ok"`
	Query string       `json:"query"`
	Items []SearchItem `json:"items,omitempty"`
	Error string       `json:"error,omitempty"`
}

// WindowContext is the context-search pipeline's result: the active window
// title, the queries derived from it and the deduplicated merged hits.
type WindowContext struct {
	OK      bool         `json:"ok"`
	Title   string       `json:"title,omitempty"`
	Queries []string     `json:"queries,omitempty"`
	Results []SearchItem `json:"results,omitempty"`
	Region  Region       `json:"region"`
	Error   string       `json:"error,omitempty"`
}
