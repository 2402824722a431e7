package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryOverflow(t *testing.T) {
	h := NewHistory(2)
	for _, id := range []string{"a", "b", "c"} {
		h.Add(Receipt{MessageID: id, Recipient: "+14155550100"})
	}
	require.Equal(t, 2, h.Len())
	receipts := h.Receipts()
	assert.Equal(t, "b", receipts[0].MessageID)
	assert.Equal(t, "c", receipts[1].MessageID)
	_, ok := h.Get("a")
	assert.False(t, ok)
}

func TestHistoryForget(t *testing.T) {
	h := NewHistory(0)
	h.Add(Receipt{MessageID: "a", Recipient: "+14155550100"})
	h.Add(Receipt{MessageID: "b", Recipient: "+14155550101"})
	h.Add(Receipt{MessageID: "c", Recipient: "+14155550100"})
	assert.Len(t, h.Recipient("+14155550100"), 2)

	require.NoError(t, h.Forget("a"))
	assert.Error(t, h.Forget("a"))
	assert.Len(t, h.Recipient("+14155550100"), 1)

	h.Reset()
	assert.Zero(t, h.Len())
}

func TestDispatchRecordsHistory(t *testing.T) {
	history := NewHistory(10)
	recorder := &Recorder{
		Fail: func(recipient string, text string) error {
			if recipient == "+14155550101" {
				return errors.New("carrier down")
			}
			return nil
		},
	}
	d, err := New(recorder, WithSegmenter(newSegmenter(t, 10)), WithInterval(0), WithHistory(history))
	require.NoError(t, err)

	receipt, err := d.Dispatch(context.Background(), Message{Recipient: "+14155550100", Body: "One. Two. Three."})
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), Message{Recipient: "+14155550101", Body: "One. Two. Three."})
	require.Error(t, err)

	require.Equal(t, 2, history.Len())
	got, ok := history.Get(receipt.MessageID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Sent)
	failed := history.Recipient("+14155550101")
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Failed)
	assert.Equal(t, "carrier down", failed[0].Parts[0].Error)
}
