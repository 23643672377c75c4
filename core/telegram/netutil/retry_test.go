package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"timeout", fmt.Errorf("send: %w", timeoutErr{}), true},
		{"reset", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: syscall.ECONNRESET}, true},
		{"cancelled", &url.Error{Op: "Post", Err: context.Canceled}, false},
		{"api", tele.ErrBlockedByUser, false},
		{"flood", tele.FloodError{RetryAfter: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRetry(tc.err); got != tc.want {
				t.Fatalf("ShouldRetry(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
