package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBody bounds how much of a provider response is read.
const maxResponseBody = 1 << 20

// DefaultHTTPClient wraps net/http.Client to implement the provider.HTTPClient interface.
type DefaultHTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a DefaultHTTPClient with the given timeout.
func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes req under ctx and returns the status, headers and body.
func (c *DefaultHTTPClient) Do(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       body,
	}, nil
}

// callAPI performs req for the named provider. Transport failures are
// returned wrapped and unclassified (transient); non-2xx replies come back
// as a *ProviderError from ClassifyHTTPError.
func callAPI(ctx context.Context, client HTTPClient, name, op string, req *HTTPRequest) (*HTTPResponse, error) {
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", name, op, err)
	}
	if pe := ClassifyHTTPError(name, resp.StatusCode, string(resp.Body)); pe != nil {
		return nil, pe
	}
	return resp, nil
}
