// Package api talks to a Gramps Web API server.
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
	"strings"
	"time"

	"gramps-cli/internal/model"
)

// Response is the outcome of a GET. Exactly one of Data / Error is meaningful:
// fetch failures are reported as state, never as a Go error.
type Response struct {
	Data  []model.Record
	Error string
}

func (r Response) OK() bool { return r.Error == "" }

type Client struct {
	BaseURL string
	Token   string

	HTTP    *http.Client
	Logger  *slog.Logger
	Metrics *Metrics
}

type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Token:   strings.TrimSpace(token),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Get fetches path and decodes the body as a list of records.
// A single JSON object is treated as a one-element list, unless it carries a
// top-level "error", which is reported as a failure whatever the status code.
func (c *Client) Get(ctx context.Context, path string) Response {
	start := time.Now()
	body, err := c.do(ctx, http.MethodGet, path, nil)
	var data []model.Record
	if err == nil {
		data, err = decodeRecords(body)
	}
	c.Metrics.observe(http.MethodGet, err, time.Since(start))
	if err != nil {
		c.logger().Debug("api get failed", "path", path, "err", err)
		return Response{Error: errorMessage(err)}
	}
	c.logger().Debug("api get", "path", path, "records", len(data), "dur", time.Since(start))
	return Response{Data: data}
}

// Put writes rec as JSON to path.
func (c *Client) Put(ctx context.Context, path string, rec model.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	start := time.Now()
	_, err = c.do(ctx, http.MethodPut, path, b)
	c.Metrics.observe(http.MethodPut, err, time.Since(start))
	if err != nil {
		c.logger().Debug("api put failed", "path", path, "err", err)
		return err
	}
	c.logger().Debug("api put", "path", path, "bytes", len(b), "dur", time.Since(start))
	return nil
}

// Login exchanges user credentials for access/refresh tokens.
func (c *Client) Login(ctx context.Context, user, password string) (Tokens, error) {
	b, err := json.Marshal(map[string]string{"username": user, "password": password})
	if err != nil {
		return Tokens{}, err
	}
	start := time.Now()
	body, err := c.do(ctx, http.MethodPost, "/api/token/", b)
	c.Metrics.observe(http.MethodPost, err, time.Since(start))
	if err != nil {
		return Tokens{}, err
	}
	var tok Tokens
	if err := json.Unmarshal(body, &tok); err != nil {
		return Tokens{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return Tokens{}, errors.New("token response has no access_token")
	}
	return tok, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, ErrNoServer
	}
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:  method,
			Path:    path,
			Code:    resp.StatusCode,
			Message: serverMessage(out),
		}
	}
	return out, nil
}

func decodeRecords(body []byte) ([]model.Record, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []model.Record{}, nil
	}
	if trimmed[0] == '{' {
		var one model.Record
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		if e, ok := one["error"]; ok && e != nil {
			return nil, errors.New(serverMessage(trimmed))
		}
		return []model.Record{one}, nil
	}
	var many []model.Record
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if many == nil {
		many = []model.Record{}
	}
	return many, nil
}

// errorMessage prefers the server-provided message over the full error text.
func errorMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

// serverMessage extracts {"error": {"message": ...}} (or a plain string error) from a body.
func serverMessage(body []byte) string {
	var env struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
