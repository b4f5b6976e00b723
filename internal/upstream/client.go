// Package upstream is the typed client for the 33kotidham platform API.
// The gateway owns no entity data; every collection and record here is
// fetched from, and mutated through, this client.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/33kotidham/admin-gateway/internal/apperr"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "upstream").Logger(),
	}
}

// List fetches a collection endpoint. The platform answers either a bare
// JSON array or an envelope with a "data" array; both are accepted.
func (c *Client) List(ctx context.Context, path string, query url.Values) ([]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil, apperr.KindFetch)
	if err != nil {
		return nil, err
	}
	return decodeCollection(body)
}

// Get fetches a single record by path (e.g. /api/v1/pujas/42).
func (c *Client) Get(ctx context.Context, path string) (map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil, nil, apperr.KindFetch)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Post submits a create call and returns the created record when the
// platform echoes one back.
func (c *Client) Post(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload, apperr.KindMutation)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Put submits a full-record update.
func (c *Client) Put(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodPut, path, nil, payload, apperr.KindMutation)
	if err != nil {
		return nil, err
	}
	return decodeRecord(body)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, apperr.KindMutation)
	return err
}

// Ping reports upstream reachability for the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/", nil, nil, apperr.KindFetch)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}, failKind apperr.Kind) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, apperr.Wrap(failKind, "encode request", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, apperr.Wrap(failKind, "build request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("upstream call failed")
		return nil, apperr.Wrap(failKind, fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(failKind, "read response", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("upstream call")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperr.New(apperr.KindNotFound, fmt.Sprintf("%s not found", path))
	case resp.StatusCode >= 400:
		return nil, apperr.New(failKind, fmt.Sprintf("%s %s: upstream returned %d: %s",
			method, path, resp.StatusCode, truncate(string(body), 200)))
	}
	return body, nil
}

func decodeCollection(body []byte) ([]interface{}, error) {
	var arr []interface{}
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}
	var envelope map[string]interface{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "decode collection", err)
	}
	for _, key := range []string{"data", "items", "results"} {
		if arr, ok := envelope[key].([]interface{}); ok {
			return arr, nil
		}
	}
	// an envelope without a recognizable list is treated as empty, not fatal
	return []interface{}{}, nil
}

func decodeRecord(body []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, "decode record", err)
	}
	if data, ok := obj["data"].(map[string]interface{}); ok {
		return data, nil
	}
	return obj, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
