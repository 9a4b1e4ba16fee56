package httputil

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
)

// Defaults for [Client].
const (
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultDelay    = time.Second

	// MaxBodySize caps the size of a fetched document.
	MaxBodySize = 64 << 20
)

const cacheNamespace = "doc"

// Client fetches remote organization documents.
type Client struct {
	HTTP     *http.Client
	Cache    cache.Cache
	Keyer    cache.Keyer
	TTL      time.Duration
	Attempts int
	Delay    time.Duration
	Logger   *log.Logger
}

// NewClient returns a Client that caches bodies in c. A nil c disables
// caching.
func NewClient(c cache.Cache) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		HTTP:     &http.Client{Timeout: DefaultTimeout},
		Cache:    c,
		Keyer:    cache.NewDefaultKeyer(),
		TTL:      cache.TTLHTTP,
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
		Logger:   log.New(io.Discard),
	}
}

// Fetch returns the body at rawURL and whether it came from the cache.
// Network failures, 429 and 5xx responses are retried with backoff; other
// non-2xx statuses fail immediately. With refresh set, the cache is
// bypassed for the read but still updated.
func (c *Client) Fetch(ctx context.Context, rawURL string, refresh bool) ([]byte, bool, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, false, err
	}
	key := c.Keyer.HTTPKey(cacheNamespace, rawURL)

	if !refresh {
		data, ok, err := c.Cache.Get(ctx, key)
		if err != nil {
			c.Logger.Warn("cache read failed", "url", rawURL, "err", err)
		} else if ok {
			c.Logger.Debug("document cache hit", "url", rawURL)
			return data, true, nil
		}
	}

	var body []byte
	err := cache.Retry(ctx, max(c.Attempts, 1), c.Delay, func() error {
		var err error
		body, err = c.get(ctx, rawURL)
		return err
	})
	if err != nil {
		return nil, false, classify(ctx, rawURL, err)
	}

	if err := c.Cache.Set(ctx, key, body, c.TTL); err != nil {
		c.Logger.Warn("cache write failed", "url", rawURL, "err", err)
	}
	return body, false, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(fmt.Errorf("%w: %w", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	c.Logger.Debug("fetched", "url", rawURL, "status", resp.StatusCode, "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, cache.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, cache.Retryable(fmt.Errorf("%w: %s", cache.ErrNetwork, resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: %s", cache.ErrNetwork, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	if len(data) > MaxBodySize {
		return nil, fmt.Errorf("document exceeds %d bytes", MaxBodySize)
	}
	return data, nil
}

func classify(ctx context.Context, rawURL string, err error) error {
	switch {
	case ctx.Err() == context.DeadlineExceeded, isTimeout(err):
		return errors.Wrap(errors.ErrCodeTimeout, err, "timed out fetching %s", rawURL)
	case ctx.Err() != nil:
		return ctx.Err()
	case stderrors.As(err, new(*errors.Error)):
		return err
	case isNotFound(err):
		return errors.Wrap(errors.ErrCodeNotFound, err, "document not found: %s", rawURL)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
}

func isNotFound(err error) bool {
	return stderrors.Is(err, cache.ErrNotFound)
}

func isTimeout(err error) bool {
	var ue *url.Error
	return stderrors.As(err, &ue) && ue.Timeout()
}
