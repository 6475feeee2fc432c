package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/rorycl/endpoint/internal/logging"
)

// AuthTokenHeader carries the caller's auth token on every request.
const AuthTokenHeader = "X-PA-AUTH-TOKEN"

// DefaultUserAgent is sent when the caller does not name itself.
const DefaultUserAgent = "hw"

// CommunicationError reports that the API could not be reached, or that the
// exchange failed before a complete response was read. The underlying cause
// (refused connection, DNS failure, timeout) is not distinguished further.
type CommunicationError struct {
	Op  string
	URL string
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("could not reach the API (%s %s): %v", e.Op, e.URL, e.Err)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// Response is the raw result of one API exchange.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode decodes the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return ErrEmptyBody
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// DecodeCreated decodes a create response, which must name the runner.
func (r *Response) DecodeCreated() (CreateResponse, error) {
	var cr CreateResponse
	if err := r.Decode(&cr); err != nil {
		return cr, err
	}
	if cr.RunnerName == "" {
		return cr, fmt.Errorf("response has no runner-name")
	}
	return cr, nil
}

// DecodeList decodes a list response.
func (r *Response) DecodeList() (ListResponse, error) {
	var lr ListResponse
	err := r.Decode(&lr)
	return lr, err
}

// DecodeStatus decodes an endpoint status response.
func (r *Response) DecodeStatus() (StatusResponse, error) {
	var sr StatusResponse
	err := r.Decode(&sr)
	return sr, err
}

// RequestOption adjusts the headers of a single request.
type RequestOption func(http.Header)

// WithHeader sets a header on a single request, replacing any default value
// for the same key.
func WithHeader(key, value string) RequestOption {
	return func(h http.Header) {
		h.Set(key, value)
	}
}

// Client is a wrapper for making authenticated calls to the endpoint API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    http.Header
	log        *slog.Logger
}

// NewClient creates a new endpoint API client for the api at apiHost. If no
// httpClient is provided http.DefaultClient is used.
func NewClient(
	apiHost string,
	authToken string,
	userAgent string,
	httpClient *http.Client,
	logger *slog.Logger,
) *Client {

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	headers := http.Header{}
	headers.Set(AuthTokenHeader, authToken)
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", userAgent)

	return &Client{
		httpClient: httpClient,
		baseURL:    fmt.Sprintf("http://%s/endpoints", apiHost),
		headers:    headers,
		log:        logger,
	}
}

// Create requests a new endpoint running the given image.
func (c *Client) Create(ctx context.Context, cr CreateRequest, opts ...RequestOption) (*Response, error) {
	env, err := cr.Env.Encode()
	if err != nil {
		return nil, err
	}
	form, err := query.Values(createForm{
		Image:   cr.Image,
		Env:     env,
		Command: cr.Command,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode create form: %w", err)
	}

	c.log.Debug(fmt.Sprintf("Create: image %s env %s", cr.Image, env))

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()), opts)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// List requests all endpoints belonging to the caller.
func (c *Client) List(ctx context.Context, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL, nil, opts)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// GetStatus requests the status of the named endpoint.
func (c *Client) GetStatus(ctx context.Context, name string, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpointURL(name), nil, opts)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Delete requests removal of the named endpoint.
func (c *Client) Delete(ctx context.Context, name string, opts ...RequestOption) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, c.endpointURL(name), nil, opts)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) endpointURL(name string) string {
	return c.baseURL + "/" + url.PathEscape(name)
}

// newRequest is a helper to create a new HTTP request with the default
// headers merged with any per-request overrides.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader, opts []RequestOption) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.headers.Clone()
	for _, opt := range opts {
		opt(req.Header)
	}
	return req, nil
}

// do executes an HTTP request and reads the full response. Any status code is
// returned to the caller; only transport failures are errors.
func (c *Client) do(req *http.Request) (*Response, error) {
	c.log.Debug(fmt.Sprintf("%s %s", req.Method, req.URL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(fmt.Sprintf("%s %s: request failed: %v", req.Method, req.URL, err))
		return nil, &CommunicationError{Op: req.Method, URL: req.URL.String(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error(fmt.Sprintf("%s %s: reading body failed: %v", req.Method, req.URL, err))
		return nil, &CommunicationError{Op: req.Method, URL: req.URL.String(), Err: err}
	}

	c.log.Debug(fmt.Sprintf("%s %s: status %d, %d bytes", req.Method, req.URL, resp.StatusCode, len(body)))
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
