package api

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

	"distream/internal/models"
	"distream/internal/shared"
)

// CredentialSource provides the bearer token for outbound requests and the
// clear operation the 401 handler needs. Implemented by
// [distream/internal/credentials.Store].
type CredentialSource interface {
	Token() string
	Clear()
}

// Envelope is the response wrapper every API endpoint uses.
type Envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: status %d", e.StatusCode)
}

// Unwrap maps the status code onto the shared sentinel errors so callers can
// use [errors.Is] without inspecting status codes.
func (e *Error) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusForbidden:
		return shared.ErrForbidden
	default:
		return shared.ErrAPIRequest
	}
}

// Client is the single egress point for API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient creates a client for the API rooted at baseURL. A nil http
// client falls back to [http.DefaultClient]; a nil credential source sends
// unauthenticated requests.
func NewClient(baseURL string, httpClient *http.Client, creds CredentialSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		creds:      creds,
	}
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHandler registers the function invoked after a 401 response
// has cleared the credential store. The handler runs synchronously on the
// calling goroutine, once per 401 response; concurrent 401s may therefore
// deliver it more than once and the handler must tolerate redundant calls.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Do performs an API request and decodes the envelope's data payload into
// result when result is non-nil. The returned envelope carries the
// pagination metadata for list endpoints.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) (*Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.prepare(req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env Envelope
	envOK := json.Unmarshal(respBody, &env) == nil

	if apiErr := c.checkStatus(resp.StatusCode, &env, envOK); apiErr != nil {
		return nil, apiErr
	}

	if envOK && !env.Success {
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if result != nil && envOK && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return &env, nil
}

// Response represents a raw API response with status and body, used by the
// passthrough debugging commands.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Raw performs a request and returns the response as-is, without envelope
// handling. Non-2xx statuses are not errors here, with one exception: a 401
// still clears the credential store and notifies the unauthorized handler
// before the response is returned.
func (c *Client) Raw(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.prepare(req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.invalidate()
	}

	raw := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	var jsonData any
	if err := json.Unmarshal(respBody, &jsonData); err == nil {
		raw.IsJSON = true
		raw.JSONData = jsonData
	}

	return raw, nil
}

// Get performs a GET request and returns the raw response.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Raw(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (c *Client) Post(ctx context.Context, path string, data []byte) (*Response, error) {
	return c.Raw(ctx, http.MethodPost, path, data)
}

// prepare sets the standard headers on an outbound request. The bearer token
// is attached when the credential store holds one; no other mutation is
// performed.
func (c *Client) prepare(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// checkStatus turns a non-2xx status into an *Error, running the 401
// invalidation side effect first.
func (c *Client) checkStatus(status int, env *Envelope, envOK bool) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := ""
	if envOK {
		message = env.Message
	}

	if status == http.StatusUnauthorized {
		c.invalidate()
	}

	return &Error{StatusCode: status, Message: message}
}

// invalidate clears the persisted credentials and notifies the unauthorized
// handler. Clearing an already-cleared store is a no-op, so concurrent 401s
// settle on the same final state regardless of ordering.
func (c *Client) invalidate() {
	if c.creds != nil {
		c.creds.Clear()
	}

	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
