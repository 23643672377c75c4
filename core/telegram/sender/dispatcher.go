package sender

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m3rciful/skeddybot/core/logger"
	"github.com/m3rciful/skeddybot/core/telegram/netutil"

	tele "gopkg.in/telebot.v4"
)

var (
	// ErrQueueClosed is returned when enqueue is attempted after dispatcher stop.
	ErrQueueClosed = errors.New("telegram sender: queue closed")
	// ErrQueueFull indicates the queue is saturated and the job was not accepted.
	ErrQueueFull = errors.New("telegram sender: queue full")

	errNilRun = errors.New("telegram sender: nil run function")

	tokenRe = regexp.MustCompile(`bot[0-9]+:[A-Za-z0-9_-]+`)
)

// Options controls the behaviour of the outbound dispatcher.
type Options struct {
	// QueueSize is the per-worker queue length.
	QueueSize    int
	Workers      int
	MaxRetries   int
	RetryBackoff time.Duration
	// MaxDuration bounds the time spent retrying a single job.
	MaxDuration time.Duration
}

type job struct {
	ctx      context.Context
	action   string
	endpoint string
	run      func() error
}

// Dispatcher executes outbound Telegram calls asynchronously. Jobs of one chat
// always land on the same worker, so messages of a chat keep their order.
// Only transient network failures are retried; API errors are logged once.
type Dispatcher struct {
	opts   Options
	shards []chan job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	errs atomic.Uint64
	sent atomic.Uint64
}

// NewDispatcher starts a dispatcher with sane defaults if options are zeroed.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.MaxDuration <= 0 {
		opts.MaxDuration = 12 * time.Second
	}

	d := &Dispatcher{opts: opts, shards: make([]chan job, opts.Workers)}
	d.wg.Add(opts.Workers)
	for i := range d.shards {
		d.shards[i] = make(chan job, opts.QueueSize)
		go d.worker(d.shards[i])
	}
	return d
}

// Enqueue schedules run on the worker owning the chat found in ctx.
// The run closure must be idempotent if retries are desired.
func (d *Dispatcher) Enqueue(ctx context.Context, action, endpoint string, run func() error) error {
	if run == nil {
		return errNilRun
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrQueueClosed
	}
	select {
	case d.shards[d.shardFor(logger.ChatIDFrom(ctx))] <- job{ctx: ctx, action: action, endpoint: endpoint, run: run}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) shardFor(chatID int64) int {
	n := int64(len(d.shards))
	idx := chatID % n
	if idx < 0 {
		idx += n
	}
	return int(idx)
}

// ErrorCount returns the number of failed jobs.
func (d *Dispatcher) ErrorCount() uint64 {
	return d.errs.Load()
}

// SentCount returns the number of jobs that completed successfully.
func (d *Dispatcher) SentCount() uint64 {
	return d.sent.Load()
}

// Close stops accepting jobs and waits until queued jobs are processed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.shards {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) worker(jobs <-chan job) {
	defer d.wg.Done()
	for j := range jobs {
		d.handleJob(j)
	}
}

func (d *Dispatcher) handleJob(j job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(j.ctx), d.opts.MaxDuration)
	defer cancel()

	start := time.Now()
	attempts := d.opts.MaxRetries + 1
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = j.run(); err == nil {
			d.sent.Add(1)
			if attempt > 1 {
				logger.Info(j.ctx, "tg.sender", "send.retry.success", d.attrs(j,
					slog.Int("attempts", attempt),
					slog.Duration("duration", logger.Took(start)),
				)...)
			}
			return
		}
		if !netutil.ShouldRetry(err) || attempt == attempts {
			break
		}

		delay := d.opts.RetryBackoff * time.Duration(attempt)
		logger.Debug(j.ctx, "tg.sender", "send.retry", d.attrs(j,
			slog.String("status", "retry"),
			slog.Int("attempts", attempt),
			slog.Duration("backoff", delay),
		)...)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			err = errors.Join(err, ctx.Err())
			attempt = attempts
		case <-timer.C:
		}
	}

	d.errs.Add(1)
	logger.Error(j.ctx, "tg.sender", "send.fail", d.attrs(j,
		slog.String("status", "fail"),
		slog.String("err", sanitizeErrorMessage(err)),
		slog.String("cause", classifyError(err)),
		slog.Bool("retryable", netutil.ShouldRetry(err)),
		slog.Duration("duration", logger.Took(start)),
	)...)
}

func (d *Dispatcher) attrs(j job, extra ...slog.Attr) []slog.Attr {
	attrs := make([]slog.Attr, 0, 2+len(extra))
	attrs = append(attrs, slog.String("action", j.action))
	if j.endpoint != "" {
		attrs = append(attrs, slog.String("endpoint", j.endpoint))
	}
	return append(attrs, extra...)
}

// classifyError names the failure family for the cause field.
func classifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return "flood"
	}
	var apiErr *tele.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code >= http.StatusInternalServerError {
			return "http_5xx"
		}
		return "http_4xx"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "timeout"
		}
		return "dns"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "dial"
	}
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return "tls"
	}
	return "unknown"
}

// sanitizeErrorMessage keeps bot tokens embedded in request URLs out of logs.
func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return tokenRe.ReplaceAllString(err.Error(), "bot<redacted>")
}
