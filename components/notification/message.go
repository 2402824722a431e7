package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

// NewMessageID returns a new message ID.
func NewMessageID() string {
	return xid.New().String()
}

// PartID returns the deterministic ID of part index of a message
func PartID(messageID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s:%d", messageID, index))).String()
}

// Message is a text notification for a single recipient
type Message struct {
	// ID identifies the message; generated when empty
	ID string `json:"id,omitempty"`
	// Recipient is the E.164 phone number of the recipient
	Recipient string `json:"recipient" validate:"required,e164"`
	// Body is the full text, before segmentation
	Body string `json:"body" validate:"required"`
}

// PartResult is the delivery outcome of one part
type PartResult struct {
	ID       string     `json:"id"`
	Index    int        `json:"index"`
	Text     string     `json:"text"`
	Attempts int        `json:"attempts"`
	SentAt   *time.Time `json:"sent_at,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Receipt reports the delivery of a message part by part
type Receipt struct {
	MessageID string       `json:"message_id"`
	Recipient string       `json:"recipient"`
	Parts     []PartResult `json:"parts"`
	Sent      int          `json:"sent"`
	Failed    int          `json:"failed"`
}

// Total returns the number of parts the message was split into
func (r Receipt) Total() int {
	return len(r.Parts)
}
