// Package resource provides an HTTP client for the support desk resource API
// (customers, tickets and employee analytics).
package resource

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
)

// Request is one call against the resource API.
type Request struct {
	Method string
	Path   string
	Token  string
	Query  url.Values
	Body   any
}

// Client is an HTTP client for the resource API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new resource API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends req and returns the decoded JSON body. Application failures are
// returned as data: the API answers them with {"detail": ...}, and a non-2xx
// answer without a detail gets one synthesized from the status code. Only
// transport and decoding problems are returned as errors.
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if len(bytes.TrimSpace(respBody)) == 0 {
		if ok {
			return nil, nil
		}
		return statusDetail(resp.StatusCode), nil
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		if ok {
			return nil, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return map[string]any{"detail": fmt.Sprintf("resource API error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))}, nil
	}

	if !ok {
		if obj, isObj := result.(map[string]any); !isObj || obj["detail"] == nil {
			return statusDetail(resp.StatusCode), nil
		}
	}
	return result, nil
}

func statusDetail(code int) map[string]any {
	return map[string]any{"detail": fmt.Sprintf("resource API error [%d]: %s", code, http.StatusText(code))}
}
