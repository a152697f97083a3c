package adapter

import (
	"context"
	"errors"
	"strconv"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

// AppendMessage inserts the message inside a transaction and returns the row
// as stored. Sender, receiver and contact ids are checked against their owning
// tables by foreign keys; any failure rolls the whole write back.
func (r *PgMessageRepository) AppendMessage(ctx context.Context, m messaging.Message) (messaging.Message, error) {
	if r == nil || r.pool == nil {
		return messaging.Message{}, errors.New("PgMessageRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return messaging.Message{}, err
	}
	defer tx.Rollback(ctx)

	var stored messaging.Message
	err = tx.QueryRow(ctx, `
		INSERT INTO messages (
			message_id, temp_id, contact_id,
			sender_id, receiver_id, message_text,
			timestamp, read_checker
		) VALUES ($1::uuid, $2, $3::uuid, $4::uuid, $5::uuid, $6, $7, $8)
		RETURNING message_id::text, temp_id, contact_id::text, sender_id::text, receiver_id::text,
		          message_text, timestamp, read_checker
	`, m.ID, m.TempID, m.ContactID, m.SenderID, m.ReceiverID, m.Text, m.Timestamp, m.ReadState).Scan(
		&stored.ID, &stored.TempID, &stored.ContactID, &stored.SenderID, &stored.ReceiverID,
		&stored.Text, &stored.Timestamp, &stored.ReadState,
	)
	if err != nil {
		return messaging.Message{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return messaging.Message{}, err
	}
	return stored, nil
}

// ListConversation pages through the unordered pair's messages, newest first.
// Ties on timestamp fall back to insertion order via the seq column so
// pagination stays deterministic.
func (r *PgMessageRepository) ListConversation(ctx context.Context, q repository.ConversationQuery) ([]messaging.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	query, args := buildConversationQuery(q)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []messaging.Message
	for rows.Next() {
		var m messaging.Message
		if err := rows.Scan(&m.ID, &m.TempID, &m.ContactID, &m.SenderID, &m.ReceiverID,
			&m.Text, &m.Timestamp, &m.ReadState); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

// buildConversationQuery assembles the paged conversation SELECT. The pair
// predicate is parenthesized so the optional cursor applies to both directions.
func buildConversationQuery(q repository.ConversationQuery) (string, []any) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT message_id::text, temp_id, contact_id::text, sender_id::text, receiver_id::text,
		       message_text, timestamp, read_checker
		FROM messages
		WHERE ((sender_id = $1::uuid AND receiver_id = $2::uuid)
		    OR (sender_id = $2::uuid AND receiver_id = $1::uuid))`
	args := []any{q.UserA, q.UserB}

	if q.Before != nil {
		query += ` AND timestamp < $3`
		args = append(args, *q.Before)
	}
	query += ` ORDER BY timestamp DESC, seq DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	return query, args
}

// MarkRead flips the given messages to read. Rows already read are skipped so
// the transition stays one-way.
func (r *PgMessageRepository) MarkRead(ctx context.Context, messageIDs []string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgMessageRepository: nil pool")
	}
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE messages SET read_checker = 'read'
		WHERE message_id = ANY($1::uuid[]) AND read_checker <> 'read'
	`, messageIDs)
	return err
}
