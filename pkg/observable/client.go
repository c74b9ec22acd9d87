package observable

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/obsexport/pkg/cache"
	"github.com/matzehuels/obsexport/pkg/errors"
	"github.com/matzehuels/obsexport/pkg/notebook"
	"github.com/matzehuels/obsexport/pkg/observability"
)

const (
	// DefaultBaseURL is the ObservableHQ API root.
	DefaultBaseURL = "https://api.observablehq.com"

	// APIKeyEnv is the environment variable holding the API key.
	APIKeyEnv = "OBSERVABLE_API_KEY"

	// DefaultTTL is how long fetched exports stay cached.
	DefaultTTL = 24 * time.Hour

	httpTimeout   = 30 * time.Second
	retryAttempts = 3
	cacheNS       = "observable"
)

// Config configures a [Client].
type Config struct {
	BaseURL string        // API root; defaults to DefaultBaseURL
	APIKey  string        // required for private notebooks
	TTL     time.Duration // cache lifetime; defaults to DefaultTTL, negative disables expiry
	Keyer   cache.Keyer   // defaults to cache.NewDefaultKeyer()
	// UserAgent is sent with every request when set.
	UserAgent string
	// RetryDelay is the wait before the first retry; defaults to one second.
	RetryDelay time.Duration
}

// Client fetches notebook exports. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	ttl     time.Duration
	delay   time.Duration
	baseURL string
	apiKey  string
	headers map[string]string
}

// NewClient creates a Client storing responses in c.
func NewClient(c cache.Cache, cfg Config) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	switch {
	case cfg.TTL == 0:
		cfg.TTL = DefaultTTL
	case cfg.TTL < 0:
		cfg.TTL = 0
	}

	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	headers := map[string]string{}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		headers["Authorization"] = "ApiKey " + key
	}
	if cfg.UserAgent != "" {
		headers["User-Agent"] = cfg.UserAgent
	}

	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		keyer:   cfg.Keyer,
		ttl:     cfg.TTL,
		delay:   cfg.RetryDelay,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		headers: headers,
	}
}

// HasAPIKey reports whether the client authenticates its requests.
func (c *Client) HasAPIKey() bool { return c.apiKey != "" }

// FetchNotebook returns the export of the notebook called name. If refresh is
// true the cache is bypassed, and the fresh response replaces the cached one.
func (c *Client) FetchNotebook(ctx context.Context, name string, refresh bool) ([]byte, error) {
	n, err := notebook.ParseName(name)
	if err != nil {
		return nil, err
	}
	if n.IsPrivate() && c.apiKey == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized,
			"notebook %s is private: set %s or pass an API key (see https://observablehq.com/settings/api-keys)", n, APIKeyEnv)
	}

	path := n.Path()
	var data []byte
	err = c.Cached(ctx, c.keyer.HTTPKey(cacheNS, path), refresh, &data, func() error {
		body, err := c.GetText(ctx, c.baseURL+"/"+path)
		if err != nil {
			return err
		}
		data = body
		return nil
	})
	if err != nil {
		return nil, describe(err, n)
	}
	return data, nil
}

// Cached returns the cached entry for key in *v, or calls fetch (with
// retries) to fill *v and stores the result. If refresh is true the cache
// is not read.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v *[]byte, fetch func() error) error {
	if !refresh {
		data, ok, err := c.cache.Get(ctx, key)
		if err == nil && ok {
			observability.Cache().OnCacheHit(ctx, cacheNS)
			*v = data
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, cacheNS)
	}
	if err := cache.Retry(ctx, retryAttempts, c.delay, fetch); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, key, *v, c.ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheNS, len(*v))
	}
	return nil
}

// GetText performs a GET request and returns the response body.
func (c *Client) GetText(ctx context.Context, rawURL string) ([]byte, error) {
	body, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

var (
	// errUnauthorized marks a 401 or 403 answer.
	errUnauthorized = stderrors.New("unauthorized")
	// errRateLimited marks a 429 answer.
	errRateLimited = stderrors.New("rate limited")
)

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", errUnauthorized, code)
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code == http.StatusTooManyRequests:
		return cache.Retryable(fmt.Errorf("%w: status %d", errRateLimited, code))
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

// describe converts a fetch error into a coded error naming the notebook.
func describe(err error, n notebook.Name) error {
	switch {
	case errors.As(err, new(*errors.Error)):
		return err
	case stderrors.Is(err, errUnauthorized):
		return errors.Wrap(errors.ErrCodeUnauthorized, err, "access to notebook %s denied (check the API key)", n)
	case stderrors.Is(err, cache.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, "notebook %s not found", n)
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, errRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "rate limited while fetching %s", n)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "fetch notebook %s", n)
	}
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
