// ABOUTME: Shared HTTP client for every API module: bearer auth, envelope promotion, single refresh-and-retry
// ABOUTME: All resource services go through Do so auth, errors, logging and metrics behave identically
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout applies when neither the request nor the options set one.
	DefaultTimeout = 30 * time.Second
	// RefreshPath exchanges the refresh cookie for a new access token.
	RefreshPath = "/auth/refresh"

	maxBodyBytes = 32 << 20
)

// TokenStore is the injected holder of the bearer token.
// The client reads it per request and rewrites it after a refresh or a terminal 401.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

// Observer receives per-request telemetry. metrics.Collector implements it.
type Observer interface {
	ObserveRequest(method, route string, status int, d time.Duration)
	ObserveRefresh(result string)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenStore
	Logger     *zap.Logger
	Observer   Observer
	HTTPClient *http.Client
	// RateLimit caps requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
	UserAgent string
	// OnSessionExpired runs after the session is cleared by an unrecoverable 401.
	OnSessionExpired func()
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeout   time.Duration
	tokens    TokenStore
	logger    *zap.Logger
	observer  Observer
	limiter   *rate.Limiter
	userAgent string
	onExpired func()
}

// Response is a completed HTTP exchange with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// authBootstrap paths are called before a token exists and are exempt from the missing-token warning.
var authBootstrap = []string{
	"/auth/google/code",
	"/auth/google/id-token",
	"/auth/email/",
	RefreshPath,
}

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Tokens == nil {
		opts.Tokens = &MemoryTokens{}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tripnara-go"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	c := &Client{
		baseURL:   base,
		http:      httpClient,
		timeout:   opts.Timeout,
		tokens:    opts.Tokens,
		logger:    opts.Logger,
		observer:  opts.Observer,
		userAgent: opts.UserAgent,
		onExpired: opts.OnSessionExpired,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Tokens exposes the token store, e.g. for login flows that persist the issued token.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Do sends req and returns the response of a successful exchange.
// Any non-2xx status, success:false envelope or transport failure becomes an *APIError,
// except cancellation which is returned as the context error itself.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, err
		}
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.unauthorized(resp, req) {
		return c.recover(ctx, req)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newStatusError(req.Method, req.Path, resp.StatusCode, resp.Header, errorBodyFrom(resp.Body))
		c.logFailure(apiErr)
		return nil, apiErr
	}

	if !req.Bare {
		if env := parseEnvelope(resp.Body); env != nil && !*env.Success {
			apiErr := newEnvelopeError(req.Method, req.Path, resp.StatusCode, env.failure())
			c.logFailure(apiErr)
			return nil, apiErr
		}
	}
	return resp, nil
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	body, contentType, err := req.body()
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	c.setHeaders(httpReq, req, contentType)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	duration := time.Since(start)
	route := routeLabel(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		kind := KindNetwork
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		c.observe(req.Method, route, 0, duration)
		apiErr := newTransportError(req.Method, req.Path, kind, timeout, err)
		c.logFailure(apiErr)
		return nil, apiErr
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		kind := KindNetwork
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			kind = KindTimeout
		}
		return nil, newTransportError(req.Method, req.Path, kind, timeout, err)
	}
	c.observe(req.Method, route, httpResp.StatusCode, duration)
	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", duration),
		zap.Bool("retried", req.retried),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		Duration:   duration,
	}, nil
}

// unauthorized reports an HTTP 401 or an envelope whose error code is UNAUTHORIZED.
func (c *Client) unauthorized(resp *Response, req *Request) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if req.Bare {
		return false
	}
	env := parseEnvelope(resp.Body)
	if env == nil || *env.Success {
		return false
	}
	return strings.EqualFold(env.failure().code(), CodeUnauthorized)
}

// recover performs the one permitted refresh and replays req with the new token.
func (c *Client) recover(ctx context.Context, req *Request) (*Response, error) {
	if req.Path == RefreshPath || req.retried {
		c.expire("refresh rejected or retry unauthorized")
		return nil, ErrSessionExpired
	}
	if c.tokens.Token() == "" {
		c.expire("no token")
		return nil, ErrSessionExpired
	}

	if _, err := c.Refresh(ctx); err != nil {
		switch {
		case IsCanceled(err):
			return nil, err
		case errors.Is(err, ErrSessionExpired):
			// the refresh call itself was rejected and already cleared the session
			return nil, ErrSessionExpired
		}
		c.expire("refresh failed")
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	c.logger.Debug("access token refreshed", zap.String("path", req.Path))

	replay := *req
	replay.retried = true
	return c.Do(ctx, &replay)
}

// Refresh exchanges the refresh cookie for a new access token and stores it.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	req := Post(RefreshPath, nil)
	req.retried = true
	resp, err := c.Do(ctx, req)
	if err != nil {
		c.observeRefresh("failure")
		return "", err
	}
	out, err := UnwrapFlexible[struct {
		AccessToken string `json:"accessToken"`
	}](resp.Body)
	if err != nil {
		c.observeRefresh("failure")
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	if out.AccessToken == "" {
		c.observeRefresh("failure")
		return "", errors.New("refresh response carried no access token")
	}
	if err := c.tokens.SetToken(out.AccessToken); err != nil {
		c.observeRefresh("failure")
		return "", fmt.Errorf("storing refreshed token: %w", err)
	}
	c.observeRefresh("success")
	return out.AccessToken, nil
}

func (c *Client) expire(reason string) {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("clearing session failed", zap.Error(err))
	}
	c.logger.Info("session expired", zap.String("reason", reason))
	if c.onExpired != nil {
		c.onExpired()
	}
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL.String() + path)
	if err != nil {
		return "", err
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (c *Client) setHeaders(httpReq *http.Request, req *Request, contentType string) {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	} else if !isAuthBootstrap(req.Path) {
		c.logger.Warn("no access token for authenticated request", zap.String("path", req.Path))
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
}

func isAuthBootstrap(path string) bool {
	for _, p := range authBootstrap {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

func (c *Client) logFailure(e *APIError) {
	fields := []zap.Field{
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.String("kind", string(e.Kind)),
		zap.Int("status", e.Status),
		zap.String("code", e.Code),
	}
	if e.Kind == KindNotFound {
		c.logger.Debug("api resource not found", fields...)
		return
	}
	c.logger.Warn("api request failed", append(fields, zap.String("message", e.Message))...)
}

func (c *Client) observe(method, route string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, d)
	}
}

func (c *Client) observeRefresh(result string) {
	if c.observer != nil {
		c.observer.ObserveRefresh(result)
	}
}

var idSegment = regexp.MustCompile(`^([0-9]+|[0-9a-fA-F-]{16,}|[A-Za-z0-9_-]*[0-9][A-Za-z0-9_-]{5,})$`)

// routeLabel keeps metric cardinality bounded by collapsing id-like path segments.
func routeLabel(req *Request) string {
	if req.Route != "" {
		return req.Route
	}
	parts := strings.Split(req.Path, "/")
	for i, p := range parts {
		if p != "" && idSegment.MatchString(p) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}
