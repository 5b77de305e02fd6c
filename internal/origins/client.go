package origins

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"advohub/pkg/platform/circuit"
	"advohub/pkg/requestcontext"
)

const maxResponseBytes = 8 << 20

// Client is the HTTP adapter for one origin's collection endpoint.
type Client struct {
	name       string
	baseURL    string
	path       string
	httpClient *http.Client
	token      string
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sends a bearer token on every call.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithFailureThreshold sets how many consecutive failures mark the origin degraded.
func WithFailureThreshold(n int) Option {
	return func(c *Client) {
		c.breaker = circuit.New("origin:"+c.name, circuit.WithFailureThreshold(n))
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds an adapter for the collection at baseURL+path.
func NewClient(name, baseURL, path string, opts ...Option) *Client {
	c := &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       path,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	c.breaker = circuit.New("origin:" + name)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewCommunityClient(baseURL string, opts ...Option) *Client {
	return NewClient(NameCommunity, baseURL, PathCommunityMembers, opts...)
}

func NewVolunteerClient(baseURL string, opts ...Option) *Client {
	return NewClient(NameVolunteer, baseURL, PathVolunteers, opts...)
}

func NewContactClient(baseURL string, opts ...Option) *Client {
	return NewClient(NameContact, baseURL, PathContacts, opts...)
}

// AdminClient adds the dedicated toggle endpoint admins expose.
type AdminClient struct {
	*Client
}

func NewAdminClient(baseURL string, opts ...Option) *AdminClient {
	return &AdminClient{Client: NewClient(NameAdmin, baseURL, PathAdmins, opts...)}
}

// ToggleStatus flips the admin's isActive flag.
func (a *AdminClient) ToggleStatus(ctx context.Context, id string) (*MutationResponse, error) {
	var resp MutationResponse
	if err := a.do(ctx, http.MethodPatch, a.itemURL(id)+"/toggle-status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Name() string { return c.name }

// Degraded reports whether recent calls failed often enough to open the breaker.
func (c *Client) Degraded() bool { return c.breaker.IsOpen() }

// List fetches the origin's collection. An envelope with success=false is
// returned as-is; callers decide what an unsuccessful list means.
func (c *Client) List(ctx context.Context, params ListParams) (*ListResponse, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	endpoint := c.baseURL + c.path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var resp ListResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update sends a partial update for one record.
func (c *Client) Update(ctx context.Context, id string, patch map[string]any) (*MutationResponse, error) {
	var resp MutationResponse
	if err := c.do(ctx, http.MethodPut, c.itemURL(id), patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes one record.
func (c *Client) Delete(ctx context.Context, id string) (*MutationResponse, error) {
	var resp MutationResponse
	if err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + c.path + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	err := c.roundTrip(ctx, method, endpoint, body, out)
	c.recordOutcome(ctx, err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewOriginError(ErrorInternal, c.name, "encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return NewOriginError(ErrorInternal, c.name, "build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return NewOriginError(ErrorBadData, c.name, "read response body", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		oe := NewOriginError(categoryForStatus(res.StatusCode), c.name, envelopeMessage(raw, res.StatusCode), nil)
		oe.StatusCode = res.StatusCode
		return oe
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		// 204 and other bodiless 2xx replies acknowledge a mutation.
		if mr, ok := out.(*MutationResponse); ok {
			*mr = MutationResponse{Success: true}
			return nil
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return NewOriginError(ErrorBadData, c.name, "decode response envelope", err)
	}
	return nil
}

func (c *Client) transportError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return NewOriginError(ErrorCanceled, c.name, "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewOriginError(ErrorTimeout, c.name, "request timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewOriginError(ErrorTimeout, c.name, "request timed out", err)
	}
	return NewOriginError(ErrorOutage, c.name, "origin unreachable", err)
}

func (c *Client) recordOutcome(ctx context.Context, err error) {
	if err == nil {
		if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
			c.logger.InfoContext(ctx, "origin recovered", "origin", c.name)
		}
		return
	}
	if !countsAgainstHealth(CategoryOf(err)) {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened && c.logger != nil {
		c.logger.WarnContext(ctx, "origin degraded",
			"origin", c.name,
			"error", err,
		)
	}
}

func categoryForStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorAuthentication
	case status == http.StatusNotFound:
		return ErrorNotFound
	case status == http.StatusTooManyRequests:
		return ErrorRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrorTimeout
	case status >= 500:
		return ErrorOutage
	default:
		return ErrorRejected
	}
}

// envelopeMessage pulls the origin's message out of an error body, falling back
// to the status text.
func envelopeMessage(raw []byte, status int) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &env) == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return fmt.Sprintf("%d %s", status, http.StatusText(status))
}
