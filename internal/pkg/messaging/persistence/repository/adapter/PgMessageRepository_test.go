package adapter

import (
	"testing"
	"time"

	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationQueryDefaults(t *testing.T) {
	query, args := buildConversationQuery(repository.ConversationQuery{
		UserA: "a", UserB: "b",
	})

	require.Len(t, args, 4)
	assert.Equal(t, "a", args[0])
	assert.Equal(t, "b", args[1])
	assert.Equal(t, 50, args[2], "limit defaults to 50")
	assert.Equal(t, 0, args[3])
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Contains(t, query, "ORDER BY timestamp DESC, seq DESC")
}

func TestConversationQueryCursorCoversBothDirections(t *testing.T) {
	before := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	query, args := buildConversationQuery(repository.ConversationQuery{
		UserA: "a", UserB: "b", Before: &before, Limit: 10, Offset: 20,
	})

	// the pair predicate stays parenthesized so the cursor is ANDed with the
	// whole OR, not just the second direction
	assert.Contains(t, query, ")) AND timestamp < $3")

	require.Len(t, args, 5)
	assert.Equal(t, before, args[2])
	assert.Equal(t, 10, args[3])
	assert.Equal(t, 20, args[4])
	assert.Contains(t, query, "LIMIT $4 OFFSET $5")
}

func TestConversationQueryClampsNegativeOffset(t *testing.T) {
	_, args := buildConversationQuery(repository.ConversationQuery{
		UserA: "a", UserB: "b", Offset: -7,
	})

	require.Len(t, args, 4)
	assert.Equal(t, 0, args[3])
}
