package netutil

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"

	tele "gopkg.in/telebot.v4"
)

// ShouldRetry reports whether err is a transient transport failure worth
// another attempt. Errors returned by the Telegram API itself (bad request,
// flood control, blocked by user) are never retried.
func ShouldRetry(err error) bool {
	if err == nil || IsAPIError(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && (opErr.Timeout() || opErr.Op == "dial") {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || (urlErr.Err != nil && ShouldRetry(urlErr.Err))
	}
	return false
}

// IsAPIError reports whether err was produced by the Bot API rather than the network.
func IsAPIError(err error) bool {
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		return true
	}
	var flood tele.FloodError
	if errors.As(err, &flood) {
		return true
	}
	var group tele.GroupError
	return errors.As(err, &group)
}
