// Package notification delivers text messages part by part through a
// Transport. Parts of one message reach a recipient in order, paced, and
// never interleaved with the parts of another message to the same recipient.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bububa/atomic-sms/components/segmenter"
)

var (
	// ErrInvalidMessage is returned for a message that fails validation
	ErrInvalidMessage = errors.New("notification: invalid message")
	// ErrNoTransport is returned by New without a transport
	ErrNoTransport = errors.New("notification: no transport")
)

// Stats are the running totals of a Dispatcher
type Stats struct {
	Messages    int64 `json:"messages"`
	PartsSent   int64 `json:"parts_sent"`
	PartsFailed int64 `json:"parts_failed"`
}

// recipientLine serialises and paces the deliveries to one recipient
type recipientLine struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

type Dispatcher struct {
	Options
	transport  Transport
	validate   *validator.Validate
	mu         sync.Mutex
	recipients map[string]*recipientLine
	messages   *atomic.Int64
	sent       *atomic.Int64
	failed     *atomic.Int64
}

// New creates a Dispatcher sending through transport
func New(transport Transport, opts ...Option) (*Dispatcher, error) {
	if transport == nil {
		return nil, ErrNoTransport
	}
	ret := &Dispatcher{
		Options: Options{
			interval:    DefaultInterval,
			concurrency: DefaultConcurrency,
		},
		transport:  transport,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		recipients: make(map[string]*recipientLine),
		messages:   atomic.NewInt64(0),
		sent:       atomic.NewInt64(0),
		failed:     atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if ret.segmenter == nil {
		s, err := segmenter.New()
		if err != nil {
			return nil, err
		}
		ret.segmenter = s
	}
	if ret.logger == nil {
		ret.logger = zap.NewNop()
	}
	if ret.concurrency <= 0 {
		ret.concurrency = 1
	}
	if ret.retries < 0 {
		ret.retries = 0
	}
	return ret, nil
}

// History returns the receipt history set with WithHistory, if any
func (d *Dispatcher) History() *History {
	return d.history
}

// Stats returns the running totals
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Messages:    d.messages.Load(),
		PartsSent:   d.sent.Load(),
		PartsFailed: d.failed.Load(),
	}
}

func (d *Dispatcher) line(recipient string) *recipientLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	if l, ok := d.recipients[recipient]; ok {
		return l
	}
	limit := rate.Inf
	if d.interval > 0 {
		limit = rate.Every(d.interval)
	}
	l := &recipientLine{limiter: rate.NewLimiter(limit, 1)}
	d.recipients[recipient] = l
	return l
}

// Dispatch segments msg and sends its parts in order. It stops at the first
// part that still fails after retries, so a recipient never receives a later
// part without the earlier ones; the returned receipt shows what was sent.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (*Receipt, error) {
	if err := d.validate.Struct(msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.ID == "" {
		msg.ID = NewMessageID()
	}
	s, err := d.segmenterFor(msg.Body)
	if err != nil {
		return nil, err
	}
	parts, err := s.Split(msg.Body)
	if err != nil {
		return nil, err
	}
	d.messages.Inc()
	logger := d.logger.With(zap.String("message_id", msg.ID), zap.String("recipient", msg.Recipient))
	logger.Debug("dispatching message", zap.Int("parts", len(parts)), zap.Int("limit", s.Limit()))

	line := d.line(msg.Recipient)
	line.mu.Lock()
	defer line.mu.Unlock()

	receipt := &Receipt{
		MessageID: msg.ID,
		Recipient: msg.Recipient,
		Parts:     make([]PartResult, 0, len(parts)),
	}
	if d.history != nil {
		defer func() { d.history.Add(*receipt) }()
	}
	for idx, text := range parts {
		result := PartResult{
			ID:    PartID(msg.ID, idx),
			Index: idx,
			Text:  text,
		}
		err := d.sendPart(ctx, line, msg.Recipient, &result)
		receipt.Parts = append(receipt.Parts, result)
		if err != nil {
			receipt.Failed++
			d.failed.Inc()
			logger.Error("part delivery failed", zap.Int("part", idx), zap.Int("attempts", result.Attempts), zap.Error(err))
			return receipt, fmt.Errorf("part %d/%d of message %s: %w", idx+1, len(parts), msg.ID, err)
		}
		receipt.Sent++
		d.sent.Inc()
		logger.Debug("part delivered", zap.Int("part", idx), zap.Int("attempts", result.Attempts))
	}
	return receipt, nil
}

func (d *Dispatcher) segmenterFor(body string) (*segmenter.Segmenter, error) {
	if d.segmenterFn == nil {
		return d.segmenter, nil
	}
	return d.segmenterFn(body)
}

func (d *Dispatcher) sendPart(ctx context.Context, line *recipientLine, recipient string, result *PartResult) error {
	var err error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if err = line.limiter.Wait(ctx); err != nil {
			break
		}
		result.Attempts++
		if err = d.transport.Send(ctx, recipient, result.Text); err == nil {
			now := time.Now()
			result.SentAt = &now
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		d.logger.Warn("part delivery attempt failed", zap.String("recipient", recipient), zap.Int("part", result.Index), zap.Int("attempt", result.Attempts), zap.Error(err))
	}
	result.Error = err.Error()
	return err
}

// DispatchAll sends msgs with up to the configured number of recipients
// served in parallel. Every message is attempted; the receipts line up with
// msgs and the errors of all failed messages are joined.
func (d *Dispatcher) DispatchAll(ctx context.Context, msgs []Message) ([]*Receipt, error) {
	receipts := make([]*Receipt, len(msgs))
	errs := make([]error, len(msgs))
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for idx := range msgs {
		g.Go(func() error {
			receipts[idx], errs[idx] = d.Dispatch(ctx, msgs[idx])
			return nil
		})
	}
	_ = g.Wait()
	return receipts, errors.Join(errs...)
}
