package http

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds connect, write and read of a single call.
const DefaultTimeout = 60 * time.Second

// Client represents an HTTP client with customizable options
type Client struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		headers: make(map[string]string),
		timeout: DefaultTimeout,
	}

	for _, option := range options {
		option(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Transport: newTransport(client.timeout)}
	}
	client.httpClient.Timeout = client.timeout

	return client
}

func newTransport(timeout time.Duration) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.TLSHandshakeTimeout = timeout
	transport.ResponseHeaderTimeout = timeout
	return transport
}

// WithBaseURL sets the base URL for the client
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-call timeout for the client
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHeader adds a header to the client
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithHTTPClient replaces the underlying *http.Client. The client's timeout
// is still applied.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// URL returns the absolute URL req would be sent to.
func (c *Client) URL(req *Request) (string, error) {
	return req.URL(c.baseURL)
}

// Do executes an HTTP request and returns the response. A timed out call is
// reported as an error like any other transport failure.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := req.Build(c.baseURL)
	if err != nil {
		return nil, err
	}
	httpReq = httpReq.WithContext(ctx)

	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:   httpResp.StatusCode,
		Status:       httpResp.Status,
		Headers:      httpResp.Header,
		ResponseTime: time.Since(start),
		body:         body,
	}, nil
}

// Callback receives the outcome of an asynchronous call.
type Callback func(resp *Response, err error)

// Go executes req on its own goroutine and delivers the outcome to done. It
// returns immediately.
func (c *Client) Go(ctx context.Context, req *Request, done Callback) {
	go func() {
		resp, err := c.Do(ctx, req)
		done(resp, err)
	}()
}
