package messaging

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReadState tracks whether the receiver has seen a message.
// The only legal transition is unread -> read.
type ReadState string

const (
	ReadStateUnread ReadState = "unread"
	ReadStateRead   ReadState = "read"
)

// Domain-level errors for direct-message behaviors
var (
	ErrMissingFields    = errors.New("messaging: contact_id, sender_id, receiver_id, message_text and temp_id are required")
	ErrInvalidID        = errors.New("messaging: contact_id, sender_id and receiver_id must be valid UUIDs")
	ErrInvalidReadState = errors.New("messaging: read_checker must be \"unread\" or \"read\"")
)

// Message is an immutable log entry in a 1:1 conversation.
// ContactID groups all messages exchanged between the same two users;
// TempID is the client-side correlation token echoed back on acknowledgement.
type Message struct {
	ID         string    `db:"message_id"`
	TempID     string    `db:"temp_id"`
	ContactID  string    `db:"contact_id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID string    `db:"receiver_id"`
	Text       string    `db:"message_text"`
	Timestamp  time.Time `db:"timestamp"`
	ReadState  ReadState `db:"read_checker"`
}

// NewMessage validates a send request and fills defaults.
// The server-assigned ID is left empty; the persistence layer owns it.
func NewMessage(m Message) (*Message, error) {
	m.Text = strings.TrimSpace(m.Text)

	if m.ContactID == "" || m.SenderID == "" || m.ReceiverID == "" || m.Text == "" || m.TempID == "" {
		return nil, ErrMissingFields
	}
	for _, id := range []string{m.ContactID, m.SenderID, m.ReceiverID} {
		if uuid.Validate(id) != nil {
			return nil, ErrInvalidID
		}
	}

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	switch m.ReadState {
	case "":
		m.ReadState = ReadStateUnread
	case ReadStateUnread, ReadStateRead:
	default:
		return nil, ErrInvalidReadState
	}

	return &m, nil
}
