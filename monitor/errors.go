package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/google/go-github/v39/github"
)

// ErrInvalidURL is returned by ParseURL for input that is not shaped like
// a GitHub pull request URL. It fails before any network call.
var ErrInvalidURL = errors.New("invalid pull request URL, expected https://github.com/<owner>/<repo>/pull/<number>")

// NotFoundError indicates the pull request or its repository does not
// exist, or is private and not visible to the client.
type NotFoundError struct {
	Ref PullRequestRef
}

func (e *NotFoundError) Error() string {
	return "pull request not found: " + e.Ref.String()
}

// RateLimitedError indicates the API quota is exhausted. ResetAt is the
// time the quota replenishes, when the server reported one.
type RateLimitedError struct {
	ResetAt time.Time
}

func (e *RateLimitedError) Error() string {
	if e.ResetAt.IsZero() {
		return "api rate limit exceeded"
	}
	return "api rate limit exceeded, resets at " + e.ResetAt.Format(time.Kitchen)
}

// NetworkError wraps connection, DNS and timeout failures.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError covers any other non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected api response: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected api response: %d %s", e.StatusCode, e.Message)
}

// classify maps a go-github call failure onto the monitor error taxonomy.
func classify(err error, ref PullRequestRef) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitedError{ResetAt: rateErr.Rate.Reset.Time}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Time{}
		if abuseErr.RetryAfter != nil {
			reset = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &RateLimitedError{ResetAt: reset}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case 404:
			return &NotFoundError{Ref: ref}
		default:
			return &APIError{
				StatusCode: respErr.Response.StatusCode,
				Message:    respErr.Message,
			}
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Err: err}
	}

	return err
}
