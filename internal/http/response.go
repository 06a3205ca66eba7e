package http

import (
	"mime"
	"net/http"
	"time"
)

// Response represents an HTTP response whose body has been read in full
type Response struct {
	StatusCode   int
	Status       string
	Headers      http.Header
	ResponseTime time.Duration
	body         []byte
}

// Body returns the response body
func (r *Response) Body() []byte {
	return r.body
}

// BodyString returns the response body as a string
func (r *Response) BodyString() string {
	return string(r.body)
}

// GetHeader returns the value of the specified header
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// MediaType returns the media type of the Content-Type header without
// parameters, lower-cased.
func (r *Response) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(r.GetHeader("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
