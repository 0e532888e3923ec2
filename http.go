package mdfancy

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchRequest configures ConvertURL.
type FetchRequest struct {
	URL     string
	Client  *http.Client
	Options []Option
}

// ConvertURL fetches markdown over HTTP(S) and converts it.
func ConvertURL(ctx context.Context, req FetchRequest) (string, error) {
	src, err := Fetch(ctx, req.URL, req.Client)
	if err != nil {
		return "", err
	}
	return NewConverter(req.Options...).Convert(string(src))
}

// Fetch downloads a markdown document, enforcing MaxInputBytes and the
// ValidateInput checks.
func Fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("fetch: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: status %s", resp.Status)
	}
	if resp.ContentLength > MaxInputBytes {
		return nil, fmt.Errorf("fetch: %w", ErrInputTooLarge)
	}
	src, err := io.ReadAll(io.LimitReader(resp.Body, MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if len(src) > MaxInputBytes {
		return nil, fmt.Errorf("fetch: %w", ErrInputTooLarge)
	}
	if err := ValidateInput(src); err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return src, nil
}
