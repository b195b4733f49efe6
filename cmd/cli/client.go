package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRequest is returned for non-2xx responses.
var ErrRequest = errors.New("request failed")

const pollInterval = 100 * time.Millisecond

type client struct {
	host string
	http *http.Client
}

func newClient(opts *options) *client {
	return &client{
		host: strings.TrimRight(opts.host, "/"),
		http: &http.Client{Timeout: opts.timeout},
	}
}

// do sends the request and returns the body of a 2xx response.
func (c *client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var r io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.host+endpoint, r)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(out, &e) == nil && e.Message != "" {
			return nil, fmt.Errorf("%w: %d: %s", ErrRequest, resp.StatusCode, e.Message)
		}
		return nil, fmt.Errorf("%w: %d", ErrRequest, resp.StatusCode)
	}
	return out, nil
}

type editStatus struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Version uint64 `json:"version"`
	Error   string `json:"error"`
}

// submit posts an edit and optionally waits for its outcome.
func (c *client) submit(ctx context.Context, endpoint string, body any, wait bool) (editStatus, error) {
	out, err := c.do(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return editStatus{}, err
	}
	var ack struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(out, &ack); err != nil {
		return editStatus{}, fmt.Errorf("failed to decode response: %w", err)
	}
	st := editStatus{ID: ack.ID, State: "pending"}
	if !wait {
		return st, nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for st.State == "pending" {
		out, err := c.do(ctx, http.MethodGet, "/api/v1/edits/"+ack.ID, nil)
		if err != nil {
			return st, err
		}
		if err := json.Unmarshal(out, &st); err != nil {
			return st, fmt.Errorf("failed to decode edit status: %w", err)
		}
		if st.State != "pending" {
			break
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ticker.C:
		}
	}
	return st, nil
}
