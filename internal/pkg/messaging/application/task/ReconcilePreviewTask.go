package task

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	qport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/port"
	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/adapter"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconcilePreviewTaskType is the queue task name for contact/preview reconciliation.
const ReconcilePreviewTaskType = "chat:reconcile_preview"

// ReconcilePreviewTaskPayload is the JSON payload transported via the queue.
// Field names follow the wire protocol rather than the domain struct.
type ReconcilePreviewTaskPayload struct {
	MessageID   string    `json:"message_id"`
	TempID      string    `json:"temp_id"`
	ContactID   string    `json:"contact_id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	MessageText string    `json:"message_text"`
	Timestamp   time.Time `json:"timestamp"`
	ReadChecker string    `json:"read_checker"`
}

// RegisterReconcilePreviewTask binds the reconcile handler to the queue server.
// cache may be nil; profile lookups then hit the users table directly.
func RegisterReconcilePreviewTask(srv qport.Server, pool *pgxpool.Pool, cache cacheport.Cache) {
	srv.Register(ReconcilePreviewTaskType, func(ctx context.Context, t qport.Task) error {
		var p ReconcilePreviewTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			return err
		}

		uc := newReconcileUseCase(pool, cache)

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		return uc.Execute(ctx, messaging.Message{
			ID:         p.MessageID,
			TempID:     p.TempID,
			ContactID:  p.ContactID,
			SenderID:   p.SenderID,
			ReceiverID: p.ReceiverID,
			Text:       p.MessageText,
			Timestamp:  p.Timestamp,
			ReadState:  messaging.ReadState(p.ReadChecker),
		})
	})
}

func newReconcileUseCase(pool *pgxpool.Pool, cache cacheport.Cache) *usecase.ReconcilePreviewUseCase {
	directory := repoAdapter.NewPgUserDirectory(pool)
	contacts := repoAdapter.NewPgContactRepository(pool)
	if cache != nil {
		return usecase.NewReconcilePreviewUseCase(contacts, repoAdapter.NewCachedUserDirectory(directory, cache))
	}
	return usecase.NewReconcilePreviewUseCase(contacts, directory)
}
