package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/atomic-sms/components/segmenter"
)

const recipient = "+15551234567"

func newSegmenter(t *testing.T, limit int) *segmenter.Segmenter {
	t.Helper()
	s, err := segmenter.New(segmenter.WithLimit(limit))
	require.NoError(t, err)
	return s
}

func TestDispatchInOrder(t *testing.T) {
	rec := new(Recorder)
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(0))
	require.NoError(t, err)

	receipt, err := d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "A1. A2. A3."})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1. ", "A2. ", "A3."}, rec.Texts(recipient))
	assert.Equal(t, 3, receipt.Total())
	assert.Equal(t, 3, receipt.Sent)
	assert.Equal(t, 0, receipt.Failed)
	assert.NotEmpty(t, receipt.MessageID)
	for idx, part := range receipt.Parts {
		assert.Equal(t, idx, part.Index)
		assert.Equal(t, PartID(receipt.MessageID, idx), part.ID)
		assert.Equal(t, 1, part.Attempts)
		require.NotNil(t, part.SentAt)
		assert.False(t, part.SentAt.IsZero())
	}
	assert.Equal(t, Stats{Messages: 1, PartsSent: 3}, d.Stats())
}

func TestDispatchPacing(t *testing.T) {
	rec := new(Recorder)
	interval := 30 * time.Millisecond
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(interval))
	require.NoError(t, err)

	start := time.Now()
	_, err = d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "A1. A2. A3."})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-5*time.Millisecond)

	deliveries := rec.Deliveries()
	require.Len(t, deliveries, 3)
	for i := 1; i < len(deliveries); i++ {
		assert.GreaterOrEqual(t, deliveries[i].At.Sub(deliveries[i-1].At), interval-5*time.Millisecond)
	}
}

func TestDispatchNoInterleaving(t *testing.T) {
	rec := new(Recorder)
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(time.Millisecond))
	require.NoError(t, err)

	bodies := []string{"A1. A2. A3. A4.", "B1. B2. B3. B4.", "C1. C2. C3. C4."}
	var wg sync.WaitGroup
	for _, body := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Dispatch(context.Background(), Message{Recipient: recipient, Body: body})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	texts := rec.Texts(recipient)
	require.Len(t, texts, 12)
	for i := 0; i < len(texts); i += 4 {
		prefix := texts[i][:1]
		for j := 0; j < 4; j++ {
			assert.Equal(t, prefix, texts[i+j][:1], "parts of one message must be contiguous: %q", texts)
			assert.True(t, strings.HasPrefix(texts[i+j], prefix+string(rune('1'+j))), "parts out of order: %q", texts)
		}
	}
}

func TestDispatchRetry(t *testing.T) {
	var calls int
	rec := &Recorder{
		Fail: func(_ string, text string) error {
			calls++
			if text == "A2. " && calls == 2 {
				return errors.New("gateway timeout")
			}
			return nil
		},
	}
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(0), WithPartRetry(1))
	require.NoError(t, err)

	receipt, err := d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "A1. A2. A3."})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1. ", "A2. ", "A3."}, rec.Texts(recipient))
	assert.Equal(t, 2, receipt.Parts[1].Attempts)
	assert.Empty(t, receipt.Parts[1].Error)
}

func TestDispatchStopsOnFailure(t *testing.T) {
	errGateway := errors.New("gateway down")
	rec := &Recorder{
		Fail: func(_ string, text string) error {
			if text == "A2. " {
				return errGateway
			}
			return nil
		},
	}
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(0), WithPartRetry(2))
	require.NoError(t, err)

	receipt, err := d.Dispatch(context.Background(), Message{ID: "msg-1", Recipient: recipient, Body: "A1. A2. A3."})
	require.ErrorIs(t, err, errGateway)
	assert.Contains(t, err.Error(), "part 2/3 of message msg-1")
	require.NotNil(t, receipt)
	assert.Equal(t, []string{"A1. "}, rec.Texts(recipient))
	assert.Equal(t, 1, receipt.Sent)
	assert.Equal(t, 1, receipt.Failed)
	require.Len(t, receipt.Parts, 2)
	assert.Equal(t, 3, receipt.Parts[1].Attempts)
	assert.Equal(t, errGateway.Error(), receipt.Parts[1].Error)
	assert.Equal(t, Stats{Messages: 1, PartsSent: 1, PartsFailed: 1}, d.Stats())
}

func TestDispatchValidation(t *testing.T) {
	d, err := New(new(Recorder))
	require.NoError(t, err)

	tests := []struct {
		name string
		msg  Message
	}{
		{name: "missing recipient", msg: Message{Body: "Hi."}},
		{name: "not e164", msg: Message{Recipient: "555-1234", Body: "Hi."}},
		{name: "empty body", msg: Message{Recipient: recipient}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), tt.msg)
			assert.ErrorIs(t, err, ErrInvalidMessage)
		})
	}
	assert.Equal(t, Stats{}, d.Stats())
}

func TestDispatchCanceled(t *testing.T) {
	rec := new(Recorder)
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(time.Hour))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	receipt, err := d.Dispatch(ctx, Message{Recipient: recipient, Body: "A1. A2."})
	require.Error(t, err)
	assert.Equal(t, []string{"A1. "}, rec.Texts(recipient))
	assert.Equal(t, 1, receipt.Sent)
	assert.Equal(t, 1, receipt.Failed)
}

func TestDispatchAll(t *testing.T) {
	rec := &Recorder{
		Fail: func(to string, _ string) error {
			if to == "+15550000002" {
				return errors.New("unreachable")
			}
			return nil
		},
	}
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(0), WithConcurrency(2))
	require.NoError(t, err)

	msgs := []Message{
		{Recipient: "+15550000001", Body: "A1. A2."},
		{Recipient: "+15550000002", Body: "B1. B2."},
		{Recipient: "+15550000003", Body: "C1. C2."},
	}
	receipts, err := d.DispatchAll(context.Background(), msgs)
	require.Error(t, err)
	require.Len(t, receipts, 3)
	assert.Equal(t, "+15550000002", receipts[1].Recipient)
	assert.Equal(t, 1, receipts[1].Failed)
	assert.Equal(t, []string{"A1. ", "A2."}, rec.Texts("+15550000001"))
	assert.Equal(t, []string{"C1. ", "C2."}, rec.Texts("+15550000003"))
	assert.Empty(t, rec.Texts("+15550000002"))
}

func TestNewWithoutTransport(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoTransport)
}

func TestPartID(t *testing.T) {
	assert.Equal(t, PartID("m", 0), PartID("m", 0))
	assert.NotEqual(t, PartID("m", 0), PartID("m", 1))
	assert.NotEqual(t, NewMessageID(), NewMessageID())
}

func TestDispatchSegmenterFunc(t *testing.T) {
	rec := new(Recorder)
	var bodies []string
	fn := func(body string) (*segmenter.Segmenter, error) {
		bodies = append(bodies, body)
		if strings.HasPrefix(body, "B") {
			return segmenter.New(segmenter.WithLimit(8))
		}
		return segmenter.New(segmenter.WithLimit(4))
	}
	d, err := New(rec, WithSegmenter(newSegmenter(t, 100)), WithSegmenterFunc(fn), WithInterval(0))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "A1. A2."})
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "B1. B2. B3. B4."})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1. ", "A2.", "B1. B2. ", "B3. B4."}, rec.Texts(recipient))
	assert.Equal(t, []string{"A1. A2.", "B1. B2. B3. B4."}, bodies)

	failing := func(string) (*segmenter.Segmenter, error) { return nil, errors.New("no segmenter") }
	d, err = New(rec, WithSegmenterFunc(failing), WithInterval(0))
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "C1."})
	require.EqualError(t, err, "no segmenter")
	assert.Equal(t, Stats{}, d.Stats())
}

func TestReceiptJSONOmitsUnsentTime(t *testing.T) {
	rec := &Recorder{
		Fail: func(_ string, text string) error {
			if text == "A2." {
				return errors.New("rejected")
			}
			return nil
		},
	}
	d, err := New(rec, WithSegmenter(newSegmenter(t, 4)), WithInterval(0))
	require.NoError(t, err)

	receipt, err := d.Dispatch(context.Background(), Message{Recipient: recipient, Body: "A1. A2."})
	require.Error(t, err)
	require.Len(t, receipt.Parts, 2)

	sent, err := json.Marshal(receipt.Parts[0])
	require.NoError(t, err)
	assert.Contains(t, string(sent), `"sent_at"`)

	failed, err := json.Marshal(receipt.Parts[1])
	require.NoError(t, err)
	assert.NotContains(t, string(failed), `"sent_at"`)
	assert.Contains(t, string(failed), `"error":"rejected"`)
}
