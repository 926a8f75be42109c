// Package httpx is the shared HTTP layer for all platform fetchers and
// search engines: bounded timeouts, jittered pacing, user-agent rotation,
// token-bucket rate limiting and cookie injection.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// userAgents is a fixed pool sampled uniformly per request. Rotation is a
// disguise measure against fingerprinting, not a security control.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// MobileUserAgent is used where a platform's mobile API surface requires a
// phone browser identity.
const MobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1"

// RandomUserAgent picks one user-agent string from the pool.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Client wraps net/http with the shared fetch discipline.
type Client struct {
	hc        *http.Client
	limiter   *rate.Limiter
	jitterMin time.Duration
	jitterMax time.Duration
}

type Option func(*Client)

// WithTimeout bounds each outbound call. A timeout is a normal failure, not
// a fatal one.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithTransport substitutes the round tripper, used by tests to stub the
// network and count calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.hc.Transport = rt }
}

// WithRateLimit installs a token-bucket limiter shared by all requests
// through this client.
func WithRateLimit(every time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(every), 1) }
}

// WithJitter sets the random pre-request delay window. Zero max disables
// jitter (tests).
func WithJitter(min, max time.Duration) Option {
	return func(c *Client) { c.jitterMin, c.jitterMax = min, max }
}

func New(opts ...Option) *Client {
	c := &Client{
		hc:        &http.Client{Timeout: 5 * time.Second},
		jitterMin: 100 * time.Millisecond,
		jitterMax: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one outbound GET.
type Request struct {
	URL     string
	Headers map[string]string
	// Cookies is a read-only borrow of a platform credential set; it is
	// serialized into the Cookie header and never stored.
	Cookies map[string]string
}

// Response carries the body plus the final URL after redirects, which the
// fetchers inspect for login/verification walls.
type Response struct {
	StatusCode int
	FinalURL   string
	Body       []byte
}

// Get performs a GET with jitter, rate limiting, UA rotation and cookie
// injection. Redirects are followed; the final URL is reported.
func (c *Client) Get(ctx context.Context, req Request) (*Response, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("User-Agent", RandomUserAgent())
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if len(req.Cookies) > 0 {
		pairs := make([]string, 0, len(req.Cookies))
		for name, value := range req.Cookies {
			pairs = append(pairs, name+"="+value)
		}
		httpReq.Header.Set("Cookie", strings.Join(pairs, "; "))
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return &Response{StatusCode: resp.StatusCode, FinalURL: finalURL, Body: body}, nil
}

// pace waits for the limiter token and the jittered delay, honoring ctx.
func (c *Client) pace(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if c.jitterMax > 0 {
		delay := c.jitterMin
		if span := c.jitterMax - c.jitterMin; span > 0 {
			delay += time.Duration(rand.Int63n(int64(span)))
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Document parses the body as HTML.
func (r *Response) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(r.Body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// JSON decodes the body dynamically; callers walk the result with jsonx.
func (r *Response) JSON() (any, error) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return v, nil
}
