package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultBaseURL           = "https://api.artic.edu/api/v1"
	DefaultUserAgent         = "artsel"
	DefaultRequestsPerSecond = 5.0

	artworksPath = "artworks"

	// maxResponseBytes caps how much of a response body is decoded.
	maxResponseBytes = 8 << 20

	// maxSharedRetries bounds how often a caller restarts a fetch it joined
	// just as every other waiter gave up on it.
	maxSharedRetries = 2
)

// DefaultFields is the field projection requested for every page.
//
//nolint:gochecknoglobals // read-only projection list
var DefaultFields = []string{"id", "title", "artist_display", "place_of_origin", "date_start", "date_end"}

// PageSource serves whole pages, including pagination metadata, and also
// satisfies PageFetcher.
type PageSource interface {
	PageFetcher
	Page(ctx context.Context, pageIndex, pageSize int) (*Page, error)
}

// StatusError is returned when the collection endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d from %s", ErrUnexpectedStatus, e.StatusCode, e.URL)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// Client fetches pages from the collection endpoint over HTTP.
// It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	hasTimeout bool
	userAgent  string
	fields     []string
	limiter    *rate.Limiter
	logger     zerolog.Logger

	// inflight collapses identical page requests issued at the same time.
	// flights holds the context each shared request runs under, keyed like
	// inflight.
	inflight singleflight.Group
	mu       sync.Mutex
	flights  map[string]*flight
}

// flight is the context of one shared request. It is cancelled once no
// caller is waiting on the request any more.
type flight struct {
	ctx     context.Context //nolint:containedctx // outlives any single caller
	cancel  context.CancelFunc
	waiters int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout. It is
// applied to a copy of the http.Client, so a client passed to WithHTTPClient
// is never modified.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

// WithUserAgent sets the User-Agent and AIC-User-Agent headers.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit throttles requests to rps per second. Zero or less disables throttling.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithFields overrides the requested field projection.
func WithFields(fields []string) ClientOption {
	return func(c *Client) {
		if len(fields) > 0 {
			c.fields = fields
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the collection rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		userAgent:  DefaultUserAgent,
		fields:     DefaultFields,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		logger:     zerolog.Nop(),
		flights:    make(map[string]*flight),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// FetchPage implements PageFetcher, returning only the page's records.
func (c *Client) FetchPage(ctx context.Context, pageIndex, pageSize int) ([]Record, error) {
	page, err := c.Page(ctx, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}
	return page.Records, nil
}

// Page fetches one page with its pagination metadata.
func (c *Client) Page(ctx context.Context, pageIndex, pageSize int) (*Page, error) {
	if err := ValidatePageRequest(pageIndex, pageSize); err != nil {
		return nil, err
	}

	reqURL := c.pageURL(pageIndex, pageSize)
	for attempt := 0; ; attempt++ {
		page, err := c.sharedPage(ctx, reqURL)
		if err == nil {
			return page, nil
		}
		// A request whose other waiters all left is cancelled even though
		// this caller still wants the page.
		if ctx.Err() == nil && errors.Is(err, context.Canceled) && attempt < maxSharedRetries {
			continue
		}
		return nil, err
	}
}

// sharedPage joins or starts the request for reqURL. The request runs until
// its last waiter returns, so one caller's cancellation does not fail the
// others.
func (c *Client) sharedPage(ctx context.Context, reqURL string) (*Page, error) {
	f := c.joinFlight(ctx, reqURL)
	defer c.leaveFlight(reqURL, f)

	ch := c.inflight.DoChan(reqURL, func() (interface{}, error) {
		return c.doPage(f.ctx, reqURL)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared, _ := res.Val.(*Page)
		page := &Page{
			Records:    append([]Record(nil), shared.Records...),
			Pagination: shared.Pagination,
		}
		return page, nil
	}
}

func (c *Client) joinFlight(ctx context.Context, key string) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.flights[key]; ok {
		f.waiters++
		return f
	}
	// Keep ctx values such as the logger and trace ID, drop its cancellation.
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	f := &flight{ctx: fctx, cancel: cancel, waiters: 1}
	c.flights[key] = f
	return f
}

func (c *Client) leaveFlight(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[key] == f {
		delete(c.flights, key)
	}
}

func (c *Client) doPage(ctx context.Context, reqURL string) (*Page, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("AIC-User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Ctx(ctx).
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	return decodePage(io.LimitReader(resp.Body, maxResponseBytes))
}

// pageBody mirrors the response envelope. Data is a pointer so a missing
// "data" key can be told apart from an empty array.
type pageBody struct {
	Data       *[]Record  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func decodePage(r io.Reader) (*Page, error) {
	var body pageBody
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("%w: missing data array", ErrMalformedResponse)
	}
	return &Page{Records: *body.Data, Pagination: body.Pagination}, nil
}

func (c *Client) pageURL(pageIndex, pageSize int) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + artworksPath
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageIndex))
	q.Set("limit", strconv.Itoa(pageSize))
	q.Set("fields", strings.Join(c.fields, ","))
	u.RawQuery = q.Encode()
	return u.String()
}
