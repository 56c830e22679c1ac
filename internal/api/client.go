// Package api is the HTTP client for the travel-booking REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/paradisepeak/ppadmin/internal/session"
)

// Error is the normalised failure of an API call. Status is 0 for transport errors.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// UserMessage is the text shown to the user for a failed call: the server's
// message when the server answered, otherwise generic.
func UserMessage(err error, generic string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return generic
}

// Client issues authenticated requests against a fixed base URL.
// Calls are never retried and carry no client-side timeout.
type Client struct {
	baseURL    string
	session    session.View
	httpClient *http.Client
	logger     *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client rooted at baseURL that reads its token from s.
func New(baseURL string, s session.View, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		session:    s,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// request is a prepared body plus its content type.
type request struct {
	body        io.Reader
	contentType string
}

func jsonRequest(v any) (request, error) {
	if v == nil {
		return request{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("marshalling request: %w", err)
	}
	return request{body: bytes.NewReader(data), contentType: "application/json"}, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, r request) ([]byte, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r.body)
	if err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	c.logger.Debug("api request", "method", method, "path", path, "request_id", reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Message: "server not reachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("api error", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID)
		return nil, &Error{Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
	}
	return body, nil
}

// errorMessage pulls the server's message out of the common error body shapes:
// {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}.
func errorMessage(body []byte, status int) string {
	var shape struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &shape) == nil {
		if shape.Message != "" {
			return shape.Message
		}
		var s string
		if json.Unmarshal(shape.Error, &s) == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(shape.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// decodeList accepts either a bare array or a {"data": [...]} envelope.
// Any other shape decodes to an empty list.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return items, nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decoding list envelope: %w", err)
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || data[0] != '[' {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return items, nil
}

// decodeItem accepts either a bare object or a {"data": {...}} envelope.
func decodeItem[T any](body []byte) (T, error) {
	var zero T
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		data := bytes.TrimSpace(env.Data)
		if len(data) > 0 && data[0] == '{' {
			var item T
			if err := json.Unmarshal(data, &item); err != nil {
				return zero, fmt.Errorf("decoding item: %w", err)
			}
			return item, nil
		}
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return zero, fmt.Errorf("decoding item: %w", err)
	}
	return item, nil
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, request{})
	if err != nil {
		return nil, err
	}
	return decodeList[T](body)
}

func sendJSON[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var zero T
	r, err := jsonRequest(in)
	if err != nil {
		return zero, err
	}
	body, err := c.do(ctx, method, path, nil, r)
	if err != nil {
		return zero, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, nil
	}
	return decodeItem[T](body)
}

func sendForm[T any](ctx context.Context, c *Client, method, path string, fd FormData) (T, error) {
	var zero T
	r, err := fd.request()
	if err != nil {
		return zero, err
	}
	body, err := c.do(ctx, method, path, nil, r)
	if err != nil {
		return zero, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, nil
	}
	return decodeItem[T](body)
}

func (c *Client) remove(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, request{})
	return err
}
