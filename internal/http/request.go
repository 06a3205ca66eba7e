package http

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request represents an HTTP request
type Request struct {
	Method      string
	Path        string
	QueryParams url.Values
	Headers     map[string]string
	Body        []byte
}

// NewRequest creates a new HTTP request
func NewRequest(method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		QueryParams: make(url.Values),
		Headers:     make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithQueryParam adds a query parameter to the request. Values are escaped
// when the request is built.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams.Add(key, value)
	return r
}

// WithBody sets the body of the request
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}

// URL resolves the request against baseURL.
func (r *Request) URL(baseURL string) (string, error) {
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	// Join the base URL path with the request path
	if reqURL.Path == "" {
		reqURL.Path = r.Path
	} else {
		reqURL.Path = strings.TrimRight(reqURL.Path, "/") + "/" + strings.TrimLeft(r.Path, "/")
	}

	query := reqURL.Query()
	for key, values := range r.QueryParams {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	reqURL.RawQuery = query.Encode()

	return reqURL.String(), nil
}

// Build constructs an http.Request from the Request
func (r *Request) Build(baseURL string) (*http.Request, error) {
	reqURL, err := r.URL(baseURL)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if r.Body != nil {
		bodyReader = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequest(r.Method, reqURL, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
