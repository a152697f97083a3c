package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Core tables owned by the messaging relay. The users table belongs to the
// account subsystem and is only read here, so it is not created.
//
// messages.seq breaks timestamp ties so pagination within a conversation is
// deterministic. chat_previews is keyed by contact_id and updated last-write-wins.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS messages (
	message_id   UUID PRIMARY KEY,
	seq          BIGSERIAL,
	temp_id      TEXT NOT NULL,
	contact_id   UUID NOT NULL,
	sender_id    UUID NOT NULL,
	receiver_id  UUID NOT NULL,
	message_text TEXT NOT NULL,
	timestamp    TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	read_checker TEXT NOT NULL DEFAULT 'unread'
);
CREATE INDEX IF NOT EXISTS idx_messages_contact ON messages(contact_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_messages_pair ON messages(sender_id, receiver_id, timestamp);

CREATE TABLE IF NOT EXISTS contacts (
	contact_id   UUID PRIMARY KEY,
	user_id      UUID NOT NULL,
	sender_id    UUID NOT NULL,
	receiver_id  UUID NOT NULL,
	contact_name TEXT NOT NULL,
	UNIQUE (user_id, receiver_id)
);

CREATE TABLE IF NOT EXISTS chat_previews (
	contact_id      UUID PRIMARY KEY,
	profile_picture TEXT,
	contact_name    TEXT NOT NULL,
	last_text       TEXT NOT NULL,
	text_timestamp  TIMESTAMPTZ NOT NULL,
	user_id         UUID NOT NULL,
	sender_id       UUID NOT NULL,
	receiver_id     UUID NOT NULL
);
`

// EnsureSchema creates the core tables idempotently, retrying a few times to
// ride out a database that is still coming up.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const retries = 3
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		if _, err = pool.Exec(ctx, schemaSQL); err == nil {
			return nil
		}
		if attempt < retries {
			log.Printf("schema: attempt %d/%d failed: %v", attempt, retries, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
		}
	}
	return fmt.Errorf("postgres: ensure schema: %w", err)
}
