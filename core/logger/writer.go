package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// asyncWriter moves log output off the caller goroutine. Lines are queued
// and fanned out to every sink by a single loop, preserving order.
type asyncWriter struct {
	lines   chan []byte
	flushes chan chan error
	done    chan struct{}
	stop    sync.Once

	mu    sync.Mutex
	sinks []*bufio.Writer
	err   error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	w := &asyncWriter{
		lines:   make(chan []byte, 256),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
	}
	for _, out := range writers {
		if out != nil {
			w.sinks = append(w.sinks, bufio.NewWriterSize(out, bufSize))
		}
	}
	go w.run()
	return w
}

func (w *asyncWriter) run() {
	defer close(w.done)
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				w.flushSinks()
				return
			}
			w.writeLine(line)
		case ack := <-w.flushes:
			// drain what is already queued so Flush observes earlier writes
			for drained := false; !drained; {
				select {
				case line, ok := <-w.lines:
					if !ok {
						drained = true
						break
					}
					w.writeLine(line)
				default:
					drained = true
				}
			}
			ack <- w.flushSinks()
		}
	}
}

// Write queues a copy of p. It blocks when the queue is full rather than drop lines.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.firstErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	w.lines <- append([]byte(nil), p...)
	return nil
}

// Flush waits until queued lines reach the sinks.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case w.flushes <- ack:
		return <-ack
	case <-w.done:
		return w.firstErr()
	}
}

// Close drains the queue and returns the first write error.
func (w *asyncWriter) Close() error {
	w.stop.Do(func() { close(w.lines) })
	<-w.done
	return w.firstErr()
}

func (w *asyncWriter) writeLine(p []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			w.keepErr(err)
			continue
		}
		if err := s.Flush(); err != nil {
			w.keepErr(err)
		}
	}
}

func (w *asyncWriter) flushSinks() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, s := range w.sinks {
		if err := s.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// keepErr must be called with mu held.
func (w *asyncWriter) keepErr(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *asyncWriter) firstErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}
