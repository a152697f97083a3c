package repository

import (
	"context"
	"time"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
)

// ConversationQuery selects a page of messages exchanged between two users,
// in either direction. Before, when set, restricts to strictly older messages.
type ConversationQuery struct {
	UserA  string
	UserB  string
	Before *time.Time
	Limit  int
	Offset int
}

// MessageRepository defines persistence operations for the message log.
type MessageRepository interface {
	// AppendMessage inserts the message in a single transaction and returns the
	// stored row. Partial writes are never observable.
	AppendMessage(ctx context.Context, m messaging.Message) (messaging.Message, error)

	// ListConversation returns the newest page first (descending timestamp);
	// callers reverse for display order.
	ListConversation(ctx context.Context, q ConversationQuery) ([]messaging.Message, error)

	// MarkRead transitions the given messages to read. Already-read rows are
	// left untouched (the transition is one-way).
	MarkRead(ctx context.Context, messageIDs []string) error
}

// ContactRepository maintains the derived contact and preview rows.
type ContactRepository interface {
	// EnsureContact returns the contact row id for (owner, counterpart),
	// creating it with the given name snapshot when absent.
	EnsureContact(ctx context.Context, ownerID, counterpartID, name string) (string, error)

	// UpsertPreview overwrites the preview row keyed by ContactID, last write wins.
	UpsertPreview(ctx context.Context, p messaging.ChatPreview) error
}

// UserDirectory is the read-only lookup into the account subsystem.
type UserDirectory interface {
	GetProfile(ctx context.Context, userID string) (messaging.Profile, error)
}
