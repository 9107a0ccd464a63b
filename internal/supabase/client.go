// Package supabase is a thin HTTP client for a hosted Supabase-compatible
// identity provider: the GoTrue auth API plus the PostgREST data API that
// holds profile rows. Two capability tiers exist: the restricted Client,
// whose operations are scoped by a per-request session token, and the
// privileged Admin, which holds the service-role key. They are distinct
// types on purpose; there is no runtime flag that escalates one into the
// other.
package supabase

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

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
)

const defaultHTTPTimeout = 10 * time.Second

// Config carries the restricted tier's connection parameters.
type Config struct {
	// URL is the project endpoint, e.g. https://abcdefgh.supabase.co.
	URL string
	// AnonKey is the public anonymous API key.
	AnonKey string
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client is the restricted-tier handle. It is stateless aside from its
// connection configuration and safe for concurrent use; per-request session
// tokens are passed to each operation rather than stored.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New validates the connection parameters and returns a restricted client.
// Construction performs no I/O.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" || cfg.AnonKey == "" {
		return nil, apperrors.Configuration("identity provider is not configured: project URL and anon key are required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.AnonKey,
		http:    httpClient,
	}, nil
}

// Ping probes the provider's auth health endpoint with the anon key.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, _, err := c.request(ctx, http.MethodGet, "/auth/v1/health", nil, nil, "", nil, nil)
	return err
}

// request is the shared HTTP plumbing for both tiers. token authenticates
// the call (session token, anon key, or service key); out, when non-nil,
// receives the decoded JSON body. The response status and headers are
// returned so callers can map 401/404 to not-found and read pagination
// headers; status is 0 when the request never reached the provider.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, headers map[string]string, token string, body, out any) (int, http.Header, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("apikey", c.apiKey)
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, apperrors.UpstreamStore("Identity provider is unreachable", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, resp.Header, apperrors.UpstreamStore("Failed to read identity provider response", err)
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, resp.Header, decodeAPIError(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, resp.Header, apperrors.UpstreamStore("Failed to decode identity provider response", err)
		}
	}
	return resp.StatusCode, resp.Header, nil
}
