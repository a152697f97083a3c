package adapter

import (
	"context"
	"errors"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgContactRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

var _ repository.ContactRepository = (*PgContactRepository)(nil)

// EnsureContact returns the existing contact row id for (owner, counterpart)
// or inserts a fresh one, snapshotting the counterpart's name at this moment.
func (r *PgContactRepository) EnsureContact(ctx context.Context, ownerID, counterpartID, name string) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgContactRepository: nil pool")
	}

	var id string
	err := r.pool.QueryRow(ctx, `
		SELECT contact_id::text FROM contacts
		WHERE user_id = $1::uuid AND receiver_id = $2::uuid
	`, ownerID, counterpartID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	id = uuid.NewString()
	_, err = r.pool.Exec(ctx, `
		INSERT INTO contacts (contact_id, user_id, sender_id, receiver_id, contact_name)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4::uuid, $5)
	`, id, ownerID, ownerID, counterpartID, name)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpsertPreview overwrites the preview row for the conversation unconditionally.
// Concurrent sends in both directions race last-write-wins on purpose.
func (r *PgContactRepository) UpsertPreview(ctx context.Context, p messaging.ChatPreview) error {
	if r == nil || r.pool == nil {
		return errors.New("PgContactRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_previews (
			contact_id, profile_picture, contact_name,
			last_text, text_timestamp, user_id, sender_id, receiver_id
		) VALUES ($1::uuid, $2, $3, $4, $5, $6::uuid, $7::uuid, $8::uuid)
		ON CONFLICT (contact_id) DO UPDATE SET
			profile_picture = EXCLUDED.profile_picture,
			contact_name = EXCLUDED.contact_name,
			last_text = EXCLUDED.last_text,
			text_timestamp = EXCLUDED.text_timestamp,
			sender_id = EXCLUDED.sender_id,
			receiver_id = EXCLUDED.receiver_id
	`, p.ContactID, p.ProfilePicture, p.ContactName, p.LastText, p.TextTimestamp, p.OwnerID, p.SenderID, p.ReceiverID)
	return err
}
