package notification

import (
	"time"

	"go.uber.org/zap"

	"github.com/bububa/atomic-sms/components/segmenter"
)

const (
	// DefaultInterval is the pause between two parts sent to one recipient
	DefaultInterval = time.Second
	// DefaultConcurrency is the number of recipients served in parallel
	DefaultConcurrency = 4
)

// Options holds the configuration of a Dispatcher
type Options struct {
	segmenter   *segmenter.Segmenter
	segmenterFn SegmenterFunc
	interval    time.Duration
	concurrency int
	retries     int
	history     *History
	logger      *zap.Logger
}

// Option is a function type for configuring a Dispatcher.
type Option func(*Options)

// SegmenterFunc builds the segmenter for one message body
type SegmenterFunc func(body string) (*segmenter.Segmenter, error)

func WithSegmenter(s *segmenter.Segmenter) Option {
	return func(o *Options) {
		o.segmenter = s
	}
}

// WithSegmenterFunc resolves the segmenter for every message from its body,
// so the encoding and part limit follow the message. It takes precedence
// over WithSegmenter.
func WithSegmenterFunc(fn SegmenterFunc) Option {
	return func(o *Options) {
		o.segmenterFn = fn
	}
}

// WithInterval sets the pause between parts to the same recipient. Zero
// disables pacing.
func WithInterval(d time.Duration) Option {
	return func(o *Options) {
		o.interval = d
	}
}

func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.concurrency = n
	}
}

// WithPartRetry sets how many times a failed part is retried before the
// message is given up
func WithPartRetry(n int) Option {
	return func(o *Options) {
		o.retries = n
	}
}

// WithHistory records the receipt of every dispatched message in h
func WithHistory(h *History) Option {
	return func(o *Options) {
		o.history = h
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) {
		o.logger = logger
	}
}
