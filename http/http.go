package http

import (
	"net/http"
	"time"
)

// NewClient returns an http.Client with the given timeout and a
// User-Agent applied to every request. An empty userAgent leaves the
// default transport untouched.
func NewClient(timeout time.Duration, userAgent string) http.Client {
	c := http.Client{Timeout: timeout}
	if userAgent != "" {
		c.Transport = &userAgentTransport{
			userAgent: userAgent,
			base:      http.DefaultTransport,
		}
	}
	return c
}

type userAgentTransport struct {
	userAgent string
	base      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(req)
}
