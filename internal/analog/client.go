package analog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ChoicesFetcher defines the interface for fetching log choices.
// This interface is implemented by *Client and can be used for testing.
type ChoicesFetcher interface {
	FetchChoices(ctx context.Context) ([]Choice, error)
}

// Ensure Client implements ChoicesFetcher at compile time.
var _ ChoicesFetcher = (*Client)(nil)

// Client talks to the AnaLog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultServer    = "http://127.0.0.1:8083"
	defaultUserAgent = "analogtail/0.1"
	requestTimeout   = 5 * time.Second
)

// RequestError describes a failed API call in the form shown to the user,
// e.g. "HTTP 500 (Internal Server Error): IOException - disk is gone".
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// NewClient builds a Client for the server base URL (host:port is accepted too).
func NewClient(server string) (*Client, error) {
	base, err := ParseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns a copy of the server base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// FetchChoices retrieves the list of logs the server offers.
func (c *Client) FetchChoices(ctx context.Context) ([]Choice, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Choice
	if err := c.do(ctx, http.MethodGet, "/choices", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newRequestError(resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func newRequestError(resp *http.Response) *RequestError {
	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if text := http.StatusText(resp.StatusCode); text != "" {
		msg += " (" + text + ")"
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var body choicesErrorBody
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			msg += ": " + body.Error
		}
		if body.Message != "" {
			msg += " - " + body.Message
		}
	}
	return &RequestError{Status: resp.StatusCode, Message: msg}
}

// Describe renders any fetch error as a one-line user-facing message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}

// ParseBaseURL normalizes a server address into a scheme://host base URL.
func ParseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse server %q: missing host", server)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
