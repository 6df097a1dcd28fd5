package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depexport/pkg/buildinfo"
	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/httputil"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/observability"
)

const (
	supportedGroupsPath = "/rest/api/2/components-registry/service/supported-groups"
	findByArtifactsPath = "/rest/api/2/components/find-by-artifacts"

	DefaultTimeout = 30 * time.Second
)

var (
	// ErrNotFound is returned when the registry answers 404.
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New(errors.ErrCodeNetwork, "network error")
)

// Options configures a Client.
type Options struct {
	Timeout time.Duration     // Per-request timeout (default: 30s)
	Retry   *httputil.Policy  // Retry policy (default: httputil.DefaultPolicy)
	Headers map[string]string // Extra headers sent with every request
	Logger  *log.Logger       // Logger (default: log.Default())
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry == nil {
		p := httputil.DefaultPolicy
		opts.Retry = &p
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// Client talks to the components registry REST API.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	headers map[string]string
	retry   httputil.Policy
	logger  *log.Logger

	mu     sync.Mutex
	groups []string // memoised SupportedGroups result
}

// NewClient creates a Client for the registry at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	if err := errors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: opts.Timeout},
		headers: opts.Headers,
		retry:   *opts.Retry,
		logger:  opts.Logger,
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = func(attempt int, err error, wait time.Duration) {
			c.logger.Warn("registry request failed, retrying", "attempt", attempt, "wait", wait, "err", err)
		}
	}
	return c, nil
}

// URL returns the registry base URL.
func (c *Client) URL() string { return c.baseURL }

// Close releases idle connections held by the client.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// SupportedGroups returns the group prefixes the registry tracks.
// The first successful answer is kept for the lifetime of the Client.
func (c *Client) SupportedGroups(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.groups != nil {
		return c.groups, nil
	}

	var groups []string
	err := c.retry.Do(ctx, func() error {
		return c.do(ctx, http.MethodGet, supportedGroupsPath, nil, &groups)
	})
	if err != nil {
		return nil, c.wrap(err)
	}
	if groups == nil {
		groups = []string{}
	}
	c.logger.Info("components registry supported groups", "url", c.baseURL, "groups", strings.Join(groups, ","))
	c.groups = groups
	return groups, nil
}

// FindComponents maps coords to components in a single registry call.
func (c *Client) FindComponents(ctx context.Context, coords []model.Coordinate) ([]ArtifactComponent, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(toDTOs(coords))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode artifacts")
	}

	var resp findResponse
	err = c.retry.Do(ctx, func() error {
		resp = findResponse{}
		return c.do(ctx, http.MethodPost, findByArtifactsPath, body, &resp)
	})
	if err != nil {
		return nil, c.wrap(err)
	}
	return resp.results(), nil
}

func (c *Client) wrap(err error) error {
	return errors.Wrap(errors.ErrCodeRegistry, err, "failed to query components registry at '%s'", c.baseURL)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, v any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}

	hooks := observability.HTTP()
	host := hostOf(c.baseURL)
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, time.Since(start))
	c.logger.Debug("registry response", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrNetwork, path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d%s", ErrNetwork, code, snippet(resp.Body))}
	default:
		return fmt.Errorf("%w: status %d%s", ErrNetwork, code, snippet(resp.Body))
	}
}

// snippet returns the start of an error body for diagnostics.
func snippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	s := strings.TrimSpace(string(b))
	if s == "" {
		return ""
	}
	return ": " + s
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		return u.Host
	}
	return raw
}
