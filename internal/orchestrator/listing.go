package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/wesleyorama2/campload/internal/ctxlog"
	"github.com/wesleyorama2/campload/internal/http"
	"github.com/wesleyorama2/campload/internal/notify"
	"github.com/wesleyorama2/campload/pkg/jsonpath"
)

// DefaultListingPath selects test names from a JSON listing.
const DefaultListingPath = "#.name"

const listingTerminator = "<!DOCTYPE"

// Lister fetches the names of the test plans known to the remote runner.
type Lister struct {
	client    *http.Client
	accountID string
	fail      notify.FailureHandler
	logger    *slog.Logger
	jsonPath  string

	mu    sync.Mutex
	names []string
}

// ListerOption configures a Lister.
type ListerOption func(*Lister)

// WithListingPath sets the path of the test names when the listing is JSON.
func WithListingPath(path string) ListerOption {
	return func(l *Lister) {
		if path != "" {
			l.jsonPath = path
		}
	}
}

// WithListingLogger sets the durable logger.
func WithListingLogger(logger *slog.Logger) ListerOption {
	return func(l *Lister) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLister creates a Lister for accountID that reports failures to sink.
func NewLister(client *http.Client, accountID string, sink notify.Sink, options ...ListerOption) *Lister {
	l := &Lister{
		client:    client,
		accountID: accountID,
		fail:      notify.Handler(sink),
		logger:    ctxlog.Discard(),
		jsonPath:  DefaultListingPath,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

// Refresh fetches the listing. On failure the sink is told once, the error is
// returned, and the previous listing is kept.
func (l *Lister) Refresh(ctx context.Context) ([]string, error) {
	if l.client == nil {
		err := &RemoteRunError{Err: errors.New("remote server is not configured")}
		l.fail("Cannot list remote tests", err)
		return l.Names(), err
	}

	req := http.NewRequest("GET", ListingPath).
		WithQueryParam("tool", "JMeter").
		WithQueryParam("a", l.accountID)
	target, err := l.client.URL(req)
	if err != nil {
		err = &RemoteRunError{URL: l.client.BaseURL(), Err: err}
		l.fail("Cannot list remote tests", err)
		return l.Names(), err
	}
	l.logger.Info("Requesting", "url", target)

	resp, err := l.client.Do(ctx, req)
	if err == nil && !resp.IsSuccess() {
		err = &RemoteRunError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}
	} else if err != nil {
		err = &RemoteRunError{URL: target, Err: err}
	}

	var names []string
	if err == nil {
		if resp.MediaType() == "application/json" {
			names, err = ParseJSONListing(resp.Body(), l.jsonPath)
		} else {
			names = ParseListing(resp.BodyString())
		}
	}
	if err != nil {
		l.fail("Cannot get data from "+target, err)
		return l.Names(), err
	}

	l.mu.Lock()
	l.names = names
	l.mu.Unlock()
	l.logger.Info("Listing refreshed", "count", len(names))
	return append([]string(nil), names...), nil
}

// Names returns the last listing fetched successfully.
func (l *Lister) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

// ParseListing extracts test names from the runner's plain listing: the text
// before the first "<!DOCTYPE" is a comma-separated sequence of (key, name)
// pairs. A trailing key without a name is ignored.
func ParseListing(body string) []string {
	if i := strings.Index(body, listingTerminator); i >= 0 {
		body = body[:i]
	}
	body = strings.TrimRight(body, "\r\n")

	tokens := strings.Split(body, ",")
	names := make([]string, 0, len(tokens)/2)
	for i := 0; i < len(tokens)/2; i++ {
		names = append(names, strings.TrimSpace(tokens[2*i+1]))
	}
	return names
}

// ParseJSONListing extracts test names from a JSON listing. path is a
// JSONPath or gjson path selecting the names.
func ParseJSONListing(body []byte, path string) ([]string, error) {
	names, err := jsonpath.ExtractAll(body, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read listing: %w", err)
	}
	return names, nil
}
