package clients

import "net/http"

// retryState is the lifecycle of one request against the 401 protocol:
//
//	Sent -> Done
//	Sent -> RetryMarked -> Resent -> Done
//	Sent -> RetryMarked -> Failed
//
// Resent has no path back to RetryMarked, so a request is retried at most once.
type retryState int

const (
	stateSent retryState = iota
	stateRetryMarked
	stateResent
	stateDone
	stateFailed
)

func (s retryState) String() string {
	switch s {
	case stateSent:
		return "sent"
	case stateRetryMarked:
		return "retry_marked"
	case stateResent:
		return "resent"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// nextState is the transition taken when a response with status arrives in state s.
func nextState(s retryState, status int, canRetry bool) retryState {
	if s == stateSent && status == http.StatusUnauthorized && canRetry {
		return stateRetryMarked
	}
	return stateDone
}
