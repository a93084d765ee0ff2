// Package http provides a fluent, retry-aware HTTP client used by the
// storefront client runtime for talking to the REST API.
//
// Usage:
//
//	resp, err := http.Get(base + "/products").
//	    Header("Authorization", "Bearer "+token).
//	    Timeout(5 * time.Second).
//	    Retry(3, time.Second).
//	    Send()
//
//	var out ProductList
//	err = resp.JSON(&out)
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"time"

	"github.com/fashionhub/storefront/pkg/logger"
)

// defaultTransport is the connection-pooled transport used in production.
// Tests can replace DefaultClient.Transport to inject mocks.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        200,
	MaxIdleConnsPerHost: 100,
	IdleConnTimeout:     90 * time.Second,
	DisableCompression:  false,
}

// DefaultClient is the shared HTTP client used by all outgoing requests.
// Tests can swap DefaultClient.Transport to intercept calls.
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
// Call via defer after injecting a test transport.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ------------------- Request -------------------

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

func newRequest(method, url string) *Request {
	return &Request{
		method:  method,
		url:     url,
		headers: map[string]string{},
		timeout: 30 * time.Second,
		ctx:     context.Background(),
	}
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

// Post starts a POST request.
func Post(url string) *Request { return newRequest(gohttp.MethodPost, url) }

// Put starts a PUT request.
func Put(url string) *Request { return newRequest(gohttp.MethodPut, url) }

// Delete starts a DELETE request.
func Delete(url string) *Request { return newRequest(gohttp.MethodDelete, url) }

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets the JSON request body.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures n retries with exponential backoff starting at wait.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// Context attaches a context; cancellation aborts in-flight attempts and
// pending backoff waits.
func (r *Request) Context(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request, retrying on network errors and 5xx responses.
func (r *Request) Send() (*Response, error) {
	var lastErr error

	attempts := r.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff: wait, 2*wait, 4*wait, ...
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(backoff):
			case <-r.ctx.Done():
				return nil, r.ctx.Err()
			}
			logger.Debug("http: retrying request", "url", r.url, "attempt", attempt+1)
		}

		resp, err := r.attempt()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode() >= 500 && attempt < attempts-1 {
			lastErr = fmt.Errorf("http: server error %d from %s", resp.StatusCode(), r.url)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("http: %s %s failed after %d attempts: %w", r.method, r.url, attempts, lastErr)
}

func (r *Request) attempt() (*Response, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	var bodyReader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("http: marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// ------------------- Response -------------------

// Response holds a fully-read HTTP response.
type Response struct {
	status int
	header gohttp.Header
	body   []byte
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.status }

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool { return r.status >= 200 && r.status < 300 }

// Header returns the response headers.
func (r *Response) Header() gohttp.Header { return r.header }

// Bytes returns the raw response body.
func (r *Response) Bytes() []byte { return r.body }

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.body, dest); err != nil {
		return fmt.Errorf("http: decode response: %w", err)
	}
	return nil
}
