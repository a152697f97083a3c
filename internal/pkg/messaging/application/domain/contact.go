package messaging

import "time"

// Contact is a directed relation "owner knows counterpart", created lazily the
// first time two users exchange a message. Name is a snapshot of the
// counterpart's display name at creation time and is not kept live.
type Contact struct {
	ID            string `db:"contact_id"`
	OwnerID       string `db:"user_id"`
	CounterpartID string `db:"receiver_id"`
	Name          string `db:"contact_name"`
}

// ChatPreview is the denormalized latest-message summary backing list views.
// One row per conversation per owning user; SenderID/ReceiverID encode which
// side of the conversation is "self" from this row's perspective.
type ChatPreview struct {
	ContactID      string    `db:"contact_id"`
	ProfilePicture *string   `db:"profile_picture"`
	ContactName    string    `db:"contact_name"`
	LastText       string    `db:"last_text"`
	TextTimestamp  time.Time `db:"text_timestamp"`
	OwnerID        string    `db:"user_id"`
	SenderID       string    `db:"sender_id"`
	ReceiverID     string    `db:"receiver_id"`
}
