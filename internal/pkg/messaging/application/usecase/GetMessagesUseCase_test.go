package usecase

import (
	"context"
	"testing"
	"time"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func conversationPage() []messaging.Message {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// newest first, as the repository returns it
	return []messaging.Message{
		{ID: "m3", SenderID: testReceiverID, ReceiverID: testSenderID, Text: "three", Timestamp: base.Add(2 * time.Minute), ReadState: messaging.ReadStateUnread},
		{ID: "m2", SenderID: testSenderID, ReceiverID: testReceiverID, Text: "two", Timestamp: base.Add(time.Minute), ReadState: messaging.ReadStateUnread},
		{ID: "m1", SenderID: testReceiverID, ReceiverID: testSenderID, Text: "one", Timestamp: base, ReadState: messaging.ReadStateRead},
	}
}

func TestGetMessagesAscendingOrder(t *testing.T) {
	repo := &fakeMessageRepo{page: conversationPage()}
	uc := NewGetMessagesUseCase(repo)

	out, err := uc.Execute(context.Background(), GetMessagesInput{
		RequesterID:   testSenderID,
		CounterpartID: testReceiverID,
	})
	require.NoError(t, err)

	require.Len(t, out.Messages, 3)
	assert.Equal(t, "m1", out.Messages[0].ID)
	assert.Equal(t, "m2", out.Messages[1].ID)
	assert.Equal(t, "m3", out.Messages[2].ID)
}

func TestGetMessagesFlipsUnreadAddressedToRequester(t *testing.T) {
	repo := &fakeMessageRepo{page: conversationPage()}
	uc := NewGetMessagesUseCase(repo)

	out, err := uc.Execute(context.Background(), GetMessagesInput{
		RequesterID:   testSenderID,
		CounterpartID: testReceiverID,
	})
	require.NoError(t, err)

	// m3 is unread and addressed to the requester; m2 belongs to the other
	// side and m1 was already read.
	assert.Equal(t, []string{"m3"}, out.ReadIDs)
	require.Len(t, repo.readIDs, 1)
	assert.Equal(t, []string{"m3"}, repo.readIDs[0])

	for _, m := range out.Messages {
		if m.ID == "m3" {
			assert.Equal(t, messaging.ReadStateRead, m.ReadState, "returned copy reflects the transition")
		}
		if m.ID == "m2" {
			assert.Equal(t, messaging.ReadStateUnread, m.ReadState, "counterpart's unread stays untouched")
		}
	}
}

func TestGetMessagesNoUnreadSkipsMarkRead(t *testing.T) {
	page := conversationPage()
	for i := range page {
		page[i].ReadState = messaging.ReadStateRead
	}
	repo := &fakeMessageRepo{page: page}
	uc := NewGetMessagesUseCase(repo)

	out, err := uc.Execute(context.Background(), GetMessagesInput{
		RequesterID:   testSenderID,
		CounterpartID: testReceiverID,
	})
	require.NoError(t, err)
	assert.Empty(t, out.ReadIDs)
	assert.Empty(t, repo.readIDs, "MarkRead must not be called")
}

func TestGetMessagesDefaultsAndPassthrough(t *testing.T) {
	repo := &fakeMessageRepo{}
	uc := NewGetMessagesUseCase(repo)

	before := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), GetMessagesInput{
		RequesterID:   testSenderID,
		CounterpartID: testReceiverID,
		Before:        &before,
		Offset:        -3,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, repo.lastQuery.Limit, "limit defaults to 50")
	assert.Equal(t, 0, repo.lastQuery.Offset, "negative offset clamps to 0")
	require.NotNil(t, repo.lastQuery.Before)
	assert.True(t, repo.lastQuery.Before.Equal(before))
}

func TestGetMessagesRequiresBothParties(t *testing.T) {
	uc := NewGetMessagesUseCase(&fakeMessageRepo{})

	_, err := uc.Execute(context.Background(), GetMessagesInput{RequesterID: testSenderID})
	require.Error(t, err)
}

func TestGetMessagesStorageFailure(t *testing.T) {
	uc := NewGetMessagesUseCase(&fakeMessageRepo{listErr: errBoom})

	_, err := uc.Execute(context.Background(), GetMessagesInput{
		RequesterID:   testSenderID,
		CounterpartID: testReceiverID,
	})
	require.ErrorIs(t, err, ErrPersistence)
}
