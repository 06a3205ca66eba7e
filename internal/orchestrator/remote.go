package orchestrator

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/wesleyorama2/campload/internal/http"
)

// Remote runner endpoints, relative to the server base URL.
const (
	SubmitPath  = "/internal/RunJMeterTest.aspx"
	StatusPath  = "/internal/ViewTestStatus.aspx"
	ListingPath = "/internal/ViewTestList.aspx"
)

// StatusURL returns the remote page that shows submitted runs.
func StatusURL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + StatusPath + "?cancel=no"
}

func (o *Orchestrator) startRemote(ctx context.Context, run *Run) {
	o.transition(run, StatePreparing)

	if o.client == nil {
		o.fail(run, "Cannot submit test", &RemoteRunError{Err: errors.New("remote server is not configured")}, 0)
		return
	}

	req := http.NewRequest("GET", SubmitPath).
		WithQueryParam("name", run.Request.TestName).
		WithQueryParam("accountID", o.accountID)
	target, err := o.client.URL(req)
	if err != nil {
		o.fail(run, "Cannot submit test", &RemoteRunError{URL: o.client.BaseURL(), Err: err}, 0)
		return
	}
	o.logger.Info("Requesting", "run", run.ID, "url", target, "name", url.QueryEscape(run.Request.TestName))

	o.transition(run, StateSubmitted)
	// Once submitted the request runs to completion; only the client timeout
	// bounds it.
	o.client.Go(context.WithoutCancel(ctx), req, func(resp *http.Response, err error) {
		if err != nil {
			o.fail(run, "Cannot run test "+run.Request.TestName, &RemoteRunError{URL: target, Err: err}, 0)
			return
		}
		if !resp.IsSuccess() {
			o.fail(run, "Cannot run test "+run.Request.TestName, &RemoteRunError{URL: target, StatusCode: resp.StatusCode, Status: resp.Status}, 0)
			return
		}

		statusURL := StatusURL(o.client.BaseURL())
		o.sink.OpenStatusPage(statusURL)
		o.finish(run, StatePending, Result{Status: StatusSubmittedPending, StatusURL: statusURL})
	})
}
