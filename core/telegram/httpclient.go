package telegram

import (
	"net"
	"net/http"
	"time"

	"github.com/m3rciful/skeddybot/core/telegram/netutil"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultTLSHandshake    = 5 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultRetryAttempts   = 2
	defaultRetryBackoff    = 500 * time.Millisecond
	// long polling holds the request open for the poll timeout, so the client
	// timeout must stay well above it
	pollSlack = 15 * time.Second
)

// BuildHTTPClient returns an HTTP client tuned for Telegram API calls.
// pollTimeout is the long-poll timeout the client has to outlast.
func BuildHTTPClient(pollTimeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshake,
		ExpectContinueTimeout: time.Second,
	}
	if pollTimeout <= 0 {
		pollTimeout = defaultLongPollTimeout
	}
	return &http.Client{
		Timeout: pollTimeout + pollSlack,
		Transport: &retryTransport{
			base:       transport,
			maxRetries: defaultRetryAttempts,
			backoff:    defaultRetryBackoff,
		},
	}
}

// retryTransport repeats a request whose connection failed before any
// response arrived. Requests with a body that cannot be replayed go once.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		curr := req
		if attempt > 0 {
			if req.Body != nil && req.GetBody == nil {
				return nil, lastErr
			}
			curr = req.Clone(req.Context())
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, err
				}
				curr.Body = body
			}

			timer := time.NewTimer(t.backoff * time.Duration(attempt))
			select {
			case <-req.Context().Done():
				timer.Stop()
				return nil, req.Context().Err()
			case <-timer.C:
			}
		}

		resp, err := base.RoundTrip(curr)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !netutil.ShouldRetry(err) {
			break
		}
	}
	return nil, lastErr
}
