package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource menyediakan session token yang dipersist; kosong berarti absent.
type TokenSource interface {
	SessionToken() string
}

// APIClient adalah dasar semua request/response call ke backend restoran.
// Setiap request membawa token sesi (bila ada) lewat header Table-Token,
// sesuai AuthTokenFilter di backend.
type APIClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
}

func NewAPIClient(baseURL string, timeout time.Duration, tokens TokenSource) *APIClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APIClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Tokens:     tokens,
	}
}

// envelope mengikuti format respons backend: {status, message, data}.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do menjalankan satu request dan meng-decode field data ke out (boleh nil).
func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Tokens != nil {
		if token := c.Tokens.SessionToken(); token != "" {
			req.Header.Set("Table-Token", token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (HTTP %d)", method, path, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
