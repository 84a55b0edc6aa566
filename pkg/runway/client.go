// Package runway provides a client for the Runway tender API: the active
// tender listing, tender details and extracted BOQ items.
package runway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/runway/tender-boq/internal/model"
	"github.com/runway/tender-boq/internal/resilience"
)

// DefaultBaseURL is the staging API root.
const DefaultBaseURL = "https://staging.runway.org.in/api"

// Operation names reported to the observer.
const (
	OpListActive = "list_active"
	OpGetTender  = "get_tender"
	OpGetBOQ     = "get_boq"
)

// Client defines the Runway tender API operations.
type Client interface {
	// ListActive returns one window of active tenders that have extracted BOQs.
	ListActive(ctx context.Context, limit, offset int) (*model.TenderPage, error)
	// GetTender returns the tender details, or nil when the tender does not exist.
	GetTender(ctx context.Context, id string) (*model.TenderDetails, error)
	// GetBOQ returns the raw BOQ items of a tender. Missing items yield an empty slice.
	GetBOQ(ctx context.Context, id string) ([]model.BOQItem, error)
}

// Observer receives the outcome of every API call.
type Observer func(op string, elapsed time.Duration, err error)

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets the API root (for testing or other environments).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithToken sets the token sent to the BOQ endpoint.
func WithToken(token string) Option {
	return func(c *httpClient) {
		c.token = token
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, int(perSecond)))
	}
}

// WithRetry sets the attempt budget. The default makes one attempt.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

// WithBreaker guards every request with b. Requests fail fast with
// resilience.ErrCircuitOpen while it is open.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *httpClient) {
		c.breaker = b
	}
}

// WithObserver registers a callback invoked after each API call.
func WithObserver(o Observer) Option {
	return func(c *httpClient) {
		c.observe = o
	}
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
	observe Observer
}

// NewClient creates a Runway API client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(5, 5),
		retry:   resilience.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("runway", "get")
	}
	return c
}

// errNotFound is returned by get when the API answers 404.
var errNotFound = eris.New("runway: not found")

func (c *httpClient) ListActive(ctx context.Context, limit, offset int) (page *model.TenderPage, err error) {
	defer c.track(OpListActive, time.Now(), &err)

	q := url.Values{}
	q.Set("has_extracted_boq", "true")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var out model.TenderPage
	if err := c.get(ctx, "/tender/active", q, false, &out); err != nil {
		return nil, eris.Wrapf(err, "runway: list active tenders (limit=%d offset=%d)", limit, offset)
	}
	if out.Results == nil {
		out.Results = []model.TenderSummary{}
	}
	return &out, nil
}

func (c *httpClient) GetTender(ctx context.Context, id string) (details *model.TenderDetails, err error) {
	defer c.track(OpGetTender, time.Now(), &err)

	var out model.TenderDetails
	err = c.get(ctx, "/tender/active/"+EscapeID(id), nil, false, &out)
	if eris.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "runway: get tender %s", id)
	}
	// An object without an id is not a usable tender.
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *httpClient) GetBOQ(ctx context.Context, id string) (items []model.BOQItem, err error) {
	defer c.track(OpGetBOQ, time.Now(), &err)

	var out model.BOQResponse
	if err := c.get(ctx, "/tender/active/"+EscapeID(id)+"/boq", nil, true, &out); err != nil {
		return nil, eris.Wrapf(err, "runway: get boq %s", id)
	}
	if out.Items == nil {
		return []model.BOQItem{}, nil
	}
	return out.Items, nil
}

func (c *httpClient) track(op string, start time.Time, err *error) {
	if c.observe != nil {
		c.observe(op, time.Since(start), *err)
	}
}

// get performs a GET against the API and decodes a 200 JSON body into out.
func (c *httpClient) get(ctx context.Context, path string, q url.Values, auth bool, out any) error {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	body, err := resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) ([]byte, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
			return c.do(ctx, reqURL, auth)
		})
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

// do performs one attempt and classifies the response status.
func (c *httpClient) do(ctx context.Context, reqURL string, auth bool) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limiter wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if auth && c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response body")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return data, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resilience.IsTransientHTTPStatus(resp.StatusCode):
		return nil, resilience.NewTransientError(
			eris.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(data)), resp.StatusCode)
	default:
		return nil, eris.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(data))
	}
}

// EscapeID encodes a decoded tender id as a single path segment.
func EscapeID(id string) string {
	return url.PathEscape(id)
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
