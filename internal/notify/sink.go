// Package notify is the side channel between the fixture and run machinery and
// whatever front end is attached: failures, subprocess output, browser
// navigation, and published events.
package notify

// Sink surfaces failures, subprocess output and status pages to the operator.
type Sink interface {
	// Failure delivers one human-readable failure. Implementations also record
	// it to a durable log.
	Failure(message string, cause error)
	// Log streams one line of subprocess output.
	Log(line string)
	// OpenStatusPage navigates to url. It is best effort and never fails.
	OpenStatusPage(url string)
}

// FailureHandler receives the failure of an asynchronous call.
type FailureHandler func(message string, cause error)

// Handler adapts a Sink to a FailureHandler.
func Handler(s Sink) FailureHandler {
	return s.Failure
}
