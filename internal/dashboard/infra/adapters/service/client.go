package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/dashboard/core/domain/entity"
	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/interceptors"
)

// maxErrorBodyBytes bounds the text kept from a non-2xx reply. Success
// bodies are streamed into the decoder without a cap: the notification feed
// only ever grows.
const maxErrorBodyBytes = 1 << 20

// NewHTTPClient returns the client shared by every backend adapter. All
// requests go through the request-id and tracing interceptors.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: interceptors.NewTransport(nil),
	}
}

// restClient is the JSON-over-HTTP plumbing shared by the adapters.
type restClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func newRestClient(baseURL string, hc *http.Client, token string) restClient {
	if hc == nil {
		hc = NewHTTPClient(10 * time.Second)
	}
	return restClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc, token: token}
}

// do sends body (if any) as JSON and returns the open response of a 2xx
// reply; the caller closes it. Any other status becomes an
// *entity.ServerError carrying the raw body text.
func (c restClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read error response: %w", err)
		}
		return nil, &entity.ServerError{Status: resp.StatusCode, Body: string(raw)}
	}
	return resp, nil
}

func (c restClient) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, out)
}

func (c restClient) postJSON(ctx context.Context, path string, in, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp.Body, out)
}

func decode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
