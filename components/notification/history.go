package notification

import (
	"fmt"
	"sync"
)

// History keeps the receipts of the most recent messages of a Dispatcher.
// threadsafe
type History struct {
	// receipts in dispatch order, oldest first
	receipts []Receipt
	// maxReceipts is the maximum number of receipts to keep.
	// When exceeded, oldest receipts are removed first.
	maxReceipts int
	mtx         sync.RWMutex
}

// NewHistory initializes a History keeping up to maxReceipts receipts; zero
// keeps all of them.
func NewHistory(maxReceipts int) *History {
	return &History{
		maxReceipts: maxReceipts,
		receipts:    make([]Receipt, 0, maxReceipts+1),
	}
}

// MaxReceipts returns the max number of receipts
func (h *History) MaxReceipts() int {
	return h.maxReceipts
}

// Add records a copy of receipt and manages overflow
func (h *History) Add(receipt Receipt) {
	receipt.Parts = append([]PartResult(nil), receipt.Parts...)
	h.mtx.Lock()
	h.receipts = append(h.receipts, receipt)
	if l := len(h.receipts); h.maxReceipts > 0 && l > h.maxReceipts {
		h.receipts = h.receipts[l-h.maxReceipts:]
	}
	h.mtx.Unlock()
}

// Receipts returns a copy of the recorded receipts, oldest first
func (h *History) Receipts() []Receipt {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	ret := make([]Receipt, len(h.receipts))
	copy(ret, h.receipts)
	return ret
}

// Recipient returns the recorded receipts of one recipient, oldest first
func (h *History) Recipient(recipient string) []Receipt {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	var ret []Receipt
	for _, v := range h.receipts {
		if v.Recipient == recipient {
			ret = append(ret, v)
		}
	}
	return ret
}

// Get returns the receipt of a message
func (h *History) Get(messageID string) (Receipt, bool) {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	for _, v := range h.receipts {
		if v.MessageID == messageID {
			return v, true
		}
	}
	return Receipt{}, false
}

// Forget removes the receipt of a message.
// returns Error if the message is not in the history
func (h *History) Forget(messageID string) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	list := make([]Receipt, 0, len(h.receipts))
	for _, v := range h.receipts {
		if v.MessageID == messageID {
			continue
		}
		list = append(list, v)
	}
	if len(list) == len(h.receipts) {
		return fmt.Errorf("message %s not found in history", messageID)
	}
	h.receipts = list
	return nil
}

func (h *History) Reset() {
	h.mtx.Lock()
	h.receipts = make([]Receipt, 0, h.maxReceipts+1)
	h.mtx.Unlock()
}

// Len returns the number of recorded receipts
func (h *History) Len() int {
	h.mtx.RLock()
	defer h.mtx.RUnlock()
	return len(h.receipts)
}
