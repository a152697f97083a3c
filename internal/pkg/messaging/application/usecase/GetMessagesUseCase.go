package usecase

import (
	"context"
	"fmt"
	"time"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"
)

// GetMessagesInput pages through the conversation between requester and
// counterpart. The requester is the side whose unread messages get flipped.
type GetMessagesInput struct {
	RequesterID   string
	CounterpartID string
	Before        *time.Time
	Limit         int
	Offset        int
}

// GetMessagesOutput returns the page in display order plus the ids that
// transitioned unread -> read during this fetch.
type GetMessagesOutput struct {
	Messages []messaging.Message
	ReadIDs  []string
}

// GetMessagesUseCase fetches a conversation page and applies the read-state
// side effect for messages addressed to the requester.
type GetMessagesUseCase struct {
	Repo repository.MessageRepository
}

func NewGetMessagesUseCase(repo repository.MessageRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, in GetMessagesInput) (*GetMessagesOutput, error) {
	if in.RequesterID == "" || in.CounterpartID == "" {
		return nil, fmt.Errorf("sender_id and receiver_id are required")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	page, err := uc.Repo.ListConversation(ctx, repository.ConversationQuery{
		UserA:  in.RequesterID,
		UserB:  in.CounterpartID,
		Before: in.Before,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	var readIDs []string
	for i := range page {
		if page[i].ReceiverID == in.RequesterID && page[i].ReadState != messaging.ReadStateRead {
			readIDs = append(readIDs, page[i].ID)
			page[i].ReadState = messaging.ReadStateRead
		}
	}
	if len(readIDs) > 0 {
		if err := uc.Repo.MarkRead(ctx, readIDs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	// repo pages newest-first; reverse for ascending display order
	for i, j := 0, len(page)-1; i < j; i, j = i+1, j-1 {
		page[i], page[j] = page[j], page[i]
	}

	return &GetMessagesOutput{Messages: page, ReadIDs: readIDs}, nil
}
