package adapter

import (
	"context"
	"errors"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgUserDirectory reads display data from the account subsystem's users table.
type PgUserDirectory struct {
	pool *pgxpool.Pool
}

func NewPgUserDirectory(pool *pgxpool.Pool) *PgUserDirectory {
	return &PgUserDirectory{pool: pool}
}

var _ repository.UserDirectory = (*PgUserDirectory)(nil)

// GetProfile returns the user's display name and avatar. Unknown users resolve
// to a placeholder profile rather than an error.
func (d *PgUserDirectory) GetProfile(ctx context.Context, userID string) (messaging.Profile, error) {
	if d == nil || d.pool == nil {
		return messaging.Profile{}, errors.New("PgUserDirectory: nil pool")
	}

	var p messaging.Profile
	err := d.pool.QueryRow(ctx, `
		SELECT username, profile_picture FROM users WHERE user_id = $1::uuid
	`, userID).Scan(&p.Username, &p.ProfilePicture)
	if errors.Is(err, pgx.ErrNoRows) {
		return messaging.Profile{Username: "Unknown"}, nil
	}
	if err != nil {
		return messaging.Profile{}, err
	}
	return p, nil
}
