package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Transport delivers one text to one recipient. Implementations report
// failure per call; the Dispatcher owns ordering, pacing and retries.
type Transport interface {
	Send(ctx context.Context, recipient string, text string) error
}

// TransportFunc adapts an ordinary function to a Transport
type TransportFunc func(context.Context, string, string) error

func (fn TransportFunc) Send(ctx context.Context, recipient string, text string) error {
	return fn(ctx, recipient, text)
}

// LogTransport only logs what would be sent. It is the dry-run transport
// of the CLI.
type LogTransport struct {
	logger *zap.Logger
}

var _ Transport = (*LogTransport)(nil)

func NewLogTransport(logger *zap.Logger) *LogTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(ctx context.Context, recipient string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("sms part delivered", zap.String("recipient", recipient), zap.Int("bytes", len(text)))
	t.logger.Debug("sms part text", zap.String("recipient", recipient), zap.String("text", text))
	return nil
}

// Delivery is one Send call seen by a Recorder
type Delivery struct {
	Recipient string
	Text      string
	At        time.Time
}

// Recorder keeps every delivery in memory. Fail, when set, decides the
// outcome of each call before it is recorded.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	Fail       func(recipient string, text string) error
}

var _ Transport = (*Recorder)(nil)

func (r *Recorder) Send(ctx context.Context, recipient string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(recipient, text); err != nil {
			return err
		}
	}
	r.deliveries = append(r.deliveries, Delivery{
		Recipient: recipient,
		Text:      text,
		At:        time.Now(),
	})
	return nil
}

// Deliveries returns a copy of every successful delivery in order
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := make([]Delivery, len(r.deliveries))
	copy(ret, r.deliveries)
	return ret
}

// Texts returns the texts delivered to recipient in order
func (r *Recorder) Texts(recipient string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []string
	for _, v := range r.deliveries {
		if v.Recipient == recipient {
			ret = append(ret, v.Text)
		}
	}
	return ret
}
