package usecase

import (
	"context"
	"fmt"
	"time"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/google/uuid"
)

// SendMessageInput carries a validated-or-rejected send request.
// Timestamp and ReadState are optional; the server fills canonical defaults.
type SendMessageInput struct {
	ContactID  string
	SenderID   string
	ReceiverID string
	Text       string
	TempID     string
	Timestamp  *time.Time
	ReadState  messaging.ReadState
}

// SendMessageUseCase persists one message atomically.
// Hexagonal: depends on the repository port, returns the stored domain entity.
type SendMessageUseCase struct {
	Repo repository.MessageRepository
}

func NewSendMessageUseCase(repo repository.MessageRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates the request, assigns the server id, and appends the message.
// A validation failure leaves the store untouched.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*messaging.Message, error) {
	draft := messaging.Message{
		TempID:     in.TempID,
		ContactID:  in.ContactID,
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Text:       in.Text,
		ReadState:  in.ReadState,
	}
	if in.Timestamp != nil {
		draft.Timestamp = *in.Timestamp
	}

	msg, err := messaging.NewMessage(draft)
	if err != nil {
		return nil, err
	}
	msg.ID = uuid.NewString()

	stored, err := uc.Repo.AppendMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &stored, nil
}
