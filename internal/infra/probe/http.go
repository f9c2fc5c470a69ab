// Where: internal/infra/probe/http.go
// What: HTTP verification probe for a freshly deployed API.
// Why: The deploy workflow checks each base URL answers before reporting success.
package probe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const maxBodyBytes = 4096

// Response is the observed answer of one probe request.
type Response struct {
	URL        string
	StatusCode int
	Body       string
}

// OK reports whether the endpoint answered with a 2xx status.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPOptions tunes the probe retry loop.
type HTTPOptions struct {
	Header       string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Timeout      time.Duration
	Logger       *slog.Logger
}

// HTTPProbe issues authenticated GET requests with bounded retries.
type HTTPProbe struct {
	header string
	client *retryablehttp.Client
}

func NewHTTPProbe(opts HTTPOptions) *HTTPProbe {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	client.ErrorHandler = keepLastResponse
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}
	return &HTTPProbe{header: opts.Header, client: client}
}

// keepLastResponse returns the final response once retries are exhausted so
// a persistent 5xx is reported with its status instead of as a transport error.
func keepLastResponse(resp *http.Response, err error, attempts int) (*http.Response, error) {
	if resp != nil {
		return resp, nil
	}
	return nil, fmt.Errorf("giving up after %d attempt(s): %w", attempts, err)
}

// Get requests url with the API key header set to key.
func (p *HTTPProbe) Get(ctx context.Context, url, key string) (Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build probe request: %w", err)
	}
	if p.header != "" {
		req.Header.Set(p.header, key)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Response{URL: url}, fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{URL: url, StatusCode: resp.StatusCode}, fmt.Errorf("read probe body: %w", err)
	}
	return Response{
		URL:        url,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}, nil
}
