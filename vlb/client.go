package vlb

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client represents a VLB API client
type Client struct {
	baseURL     string
	token       string
	userAgent   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	concurrency int
	logger      zerolog.Logger
}

// response is a raw API response that passed the status check
type response struct {
	body        []byte
	contentType string
}

// NewClient logs in with username and password and returns an authenticated client
func NewClient(ctx context.Context, username, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if username == "" {
		return nil, argumentError("login", "username is required")
	}
	if password == "" {
		return nil, argumentError("login", "password is required")
	}

	client := newClient(logger, opts)

	token, err := client.login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	client.token = token

	return client, nil
}

// NewClientWithToken creates a client from a pre-issued bearer token
func NewClientWithToken(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, argumentError("login", "token is required")
	}

	client := newClient(logger, opts)
	client.token = token
	return client, nil
}

func newClient(logger zerolog.Logger, opts []Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:     o.baseURL,
		userAgent:   o.userAgent,
		httpClient:  httpClient,
		limiter:     o.limiter,
		concurrency: o.concurrency,
		logger:      logger,
	}
}

// Token returns the bearer token the client authenticates with
func (c *Client) Token() string {
	return c.token
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// login exchanges credentials for a bearer token
func (c *Client) login(ctx context.Context, username, password string) (string, error) {
	creds, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", &Error{Kind: KindArgument, Op: "login", Message: "failed to encode credentials", Err: err}
	}

	resp, err := c.doRequest(ctx, "login", http.MethodPost, "/login", nil, creds, "")
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(resp.body))
	if token == "" {
		return "", &Error{Kind: KindAPI, Op: "login", Message: "login returned an empty token"}
	}

	c.logger.Debug().Msg("Authenticated with VLB")
	return token, nil
}

// doRequest performs an HTTP request with authentication
func (c *Client) doRequest(ctx context.Context, op, method, endpoint string, params url.Values, body []byte, accept string) (*response, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindTransport, Op: op, Message: "rate limiter", Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, &Error{Kind: KindArgument, Op: op, Message: "failed to create request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("query", params.Encode()).
		Msg("Making VLB API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Op: op, Message: "failed to read response body", Err: err}
	}

	if isProtocolStatus(resp.StatusCode) {
		return nil, &Error{
			Kind:       KindProtocol,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    protocolMessage(resp.StatusCode, respBody),
		}
	}

	return &response{
		body:        respBody,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

// getJSON fetches endpoint and decodes the body into out
func (c *Client) getJSON(ctx context.Context, op, endpoint string, params url.Values, format Format, out any) error {
	resp, err := c.doRequest(ctx, op, http.MethodGet, endpoint, params, nil, format.Accept())
	if err != nil {
		return err
	}

	if err := checkEmbeddedError(op, resp.body); err != nil {
		return err
	}

	if err := json.Unmarshal(resp.body, out); err != nil {
		return &Error{Kind: KindAPI, Op: op, Message: "unexpected response shape", Err: err}
	}

	return nil
}

// checkEmbeddedError returns an API error if a JSON object body carries an
// error or error_description key, whatever its value
func checkEmbeddedError(op string, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil
	}
	rawErr, hasErr := fields["error"]
	rawDesc, hasDesc := fields["error_description"]
	if !hasErr && !hasDesc {
		return nil
	}

	msg := embeddedText(rawDesc)
	if msg == "" {
		msg = embeddedText(rawErr)
	}
	if msg == "" {
		msg = "response carries an error descriptor"
	}
	return &Error{Kind: KindAPI, Op: op, Message: msg}
}

// embeddedText renders an error field as text. Strings are unquoted, other
// non-null values are kept as raw JSON.
func embeddedText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return string(raw)
}

// protocolMessage extracts a readable message from an error response
func protocolMessage(status int, body []byte) string {
	var desc errorResponse
	if err := json.Unmarshal(body, &desc); err == nil {
		if desc.ErrorDescription != "" {
			return desc.ErrorDescription
		}
		if desc.Error != "" {
			return desc.Error
		}
	}
	return http.StatusText(status)
}
