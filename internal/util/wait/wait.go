// Package wait provides a blocking poll primitive for long-running cloud
// operations. A condition is evaluated on a fixed interval in a background
// goroutine while the calling goroutine renders progress and watches for
// cancellation.
package wait

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Condition is evaluated repeatedly until it reports done or returns an
// error. Errors are terminal: they stop the wait and propagate to the
// caller unchanged.
type Condition func() (bool, error)

type options struct {
	interval    time.Duration
	timeout     time.Duration
	message     string
	doneMessage string
	out         io.Writer
}

// Option configures a call to For.
type Option func(*options)

// WithInterval sets the evaluation interval. Default is 500ms.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithTimeout bounds the total wait. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithMessage sets the in-progress line rendered while waiting.
func WithMessage(msg string) Option {
	return func(o *options) { o.message = msg }
}

// WithDoneMessage sets the line emitted after the wait completes
// successfully.
func WithDoneMessage(msg string) Option {
	return func(o *options) { o.doneMessage = msg }
}

// WithOutput redirects progress output. Default is stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// For blocks until cond reports done, cond returns an error, the context is
// cancelled, or the configured timeout elapses.
//
// The condition runs in its own goroutine so a slow evaluation never blocks
// the cancellation check. Results travel over a single-slot channel; the
// first result wins. On cancellation the condition goroutine is signalled to
// stop and abandoned mid-evaluation if necessary.
func For(ctx context.Context, cond Condition, opts ...Option) error {
	o := options{
		interval: 500 * time.Millisecond,
		out:      os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	result := make(chan error, 1)
	go func() {
		for {
			done, err := cond()
			if err != nil {
				result <- err
				return
			}
			if done {
				result <- nil
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(o.interval):
			}
		}
	}()

	p := newProgress(o.out, o.message)
	defer p.clear()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-result:
			if err != nil {
				return err
			}
			p.clear()
			if o.doneMessage != "" {
				fmt.Fprintln(o.out, o.doneMessage)
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick()
		}
	}
}

// progress renders an animated "message..." line, overwriting in place.
// Animation only happens on a terminal; otherwise the message is printed
// once so logs stay readable.
type progress struct {
	out     io.Writer
	message string
	animate bool
	frame   int
	width   int
}

func newProgress(out io.Writer, message string) *progress {
	p := &progress{out: out, message: message}
	if message == "" {
		return p
	}
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		p.animate = true
	} else {
		fmt.Fprintln(out, message)
	}
	return p
}

func (p *progress) tick() {
	if !p.animate {
		return
	}
	dots := p.frame%3 + 1
	line := p.message + strings.Repeat(".", dots) + strings.Repeat(" ", 3-dots)
	if len(line) > p.width {
		p.width = len(line)
	}
	fmt.Fprintf(p.out, "%s\r", line)
	p.frame++
}

func (p *progress) clear() {
	if !p.animate || p.width == 0 {
		return
	}
	fmt.Fprintf(p.out, "%s\r", strings.Repeat(" ", p.width))
	p.width = 0
}
