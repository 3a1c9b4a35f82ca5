// Package affluences provides a client for the Affluences location-directory API.
package affluences

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/maraisdata/seatmap/internal/resilience"
)

// DefaultBaseURL is the public Affluences API endpoint.
const DefaultBaseURL = "https://api.affluences.com"

// Client defines the directory API operations.
type Client interface {
	// ListSites fetches all site summaries for the given categories,
	// walking the paginated listing until exhausted. Order is preserved.
	ListSites(ctx context.Context, opts ListOptions) ([]SiteSummary, error)
	// GetSite fetches the detail record for one site by slug.
	GetSite(ctx context.Context, slug string) (*SiteDetail, error)
}

// ListOptions configures a listing request.
type ListOptions struct {
	// Categories to request; category 1 is libraries.
	Categories []int
	// MaxPages caps pagination; 0 means no cap.
	MaxPages int
}

// Option configures the Affluences client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithRateLimit sets the requests-per-second pacing for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetryConfig overrides the default retry behavior.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// NewClient creates a new Affluences API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: "seatmap/1.0",
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(8, 8),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("affluences", "request")
	}
	return c
}

func (c *httpClient) ListSites(ctx context.Context, opts ListOptions) ([]SiteSummary, error) {
	categories := opts.Categories
	if len(categories) == 0 {
		categories = []int{1}
	}

	var all []SiteSummary
	for page := 0; ; page++ {
		if opts.MaxPages > 0 && page >= opts.MaxPages {
			break
		}

		body, err := json.Marshal(listRequest{SelectedCategories: categories, Page: page})
		if err != nil {
			return nil, eris.Wrap(err, "affluences: marshal list request")
		}

		data, err := c.do(ctx, http.MethodPost, "/app/v3/sites", body)
		if err != nil {
			return nil, eris.Wrapf(err, "affluences: list page %d", page)
		}

		var resp listResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, eris.Wrapf(err, "affluences: parse list page %d", page)
		}
		if len(resp.Data.Results) == 0 {
			break
		}
		all = append(all, resp.Data.Results...)
	}

	return all, nil
}

func (c *httpClient) GetSite(ctx context.Context, slug string) (*SiteDetail, error) {
	if slug == "" {
		return nil, eris.New("affluences: empty site slug")
	}

	data, err := c.do(ctx, http.MethodGet, "/app/v3/sites/"+slug, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "affluences: get site %s", slug)
	}

	var resp detailResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, eris.Wrapf(err, "affluences: parse site %s", slug)
	}
	return &resp.Data, nil
}

// do performs one rate-limited, retried request and returns the response body.
func (c *httpClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "affluences: rate limit")
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, eris.Wrap(err, "affluences: build request")
		}
		req.Header.Set("Accept", "application/json, text/plain, */*")
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", "https://affluences.com")
		req.Header.Set("Referer", "https://affluences.com/")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "affluences: request")
		}
		defer resp.Body.Close() //nolint:errcheck

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "affluences: read body")
		}

		if resp.StatusCode != http.StatusOK {
			err := eris.Errorf("affluences: status %d: %s", resp.StatusCode, truncate(data, 200))
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return nil, resilience.NewTransientError(err, resp.StatusCode)
			}
			return nil, err
		}

		return data, nil
	})
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return fmt.Sprintf("%s…", b[:n])
}
