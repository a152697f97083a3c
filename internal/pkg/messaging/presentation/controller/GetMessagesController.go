package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// GetMessagesController serves the pull-style history endpoint for clients
// without an active socket. Same contract as the get_messages frame, including
// the read-state side effect and the receipt push through the registry.
type GetMessagesController struct {
	UC       *usecase.GetMessagesUseCase
	registry *realtime.Registry
}

func NewGetMessagesController(repo repository.MessageRepository, registry *realtime.Registry) *GetMessagesController {
	return &GetMessagesController{
		UC:       usecase.NewGetMessagesUseCase(repo),
		registry: registry,
	}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		senderID := c.Query("sender_id")
		receiverID := c.Query("receiver_id")
		if senderID == "" || receiverID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sender_id and receiver_id are required"})
			return
		}

		in := usecase.GetMessagesInput{
			RequesterID:   senderID,
			CounterpartID: receiverID,
			Limit:         50,
		}
		if v := c.Query("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				in.Limit = n
			}
		}
		if v := c.Query("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				in.Offset = n
			}
		}
		if v := c.Query("before"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "before must be an RFC3339 timestamp"})
				return
			}
			in.Before = &t
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		out, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if len(out.ReadIDs) > 0 {
			var receipt readReceiptFrame
			receipt.Type = "read_receipt"
			receipt.Payload.ReaderID = senderID
			receipt.Payload.MessageIDs = out.ReadIDs
			if push, err := json.Marshal(receipt); err == nil {
				h.registry.NotifyUser(receiverID, push)
			}
		}

		msgs := make([]messagePayload, 0, len(out.Messages))
		for _, m := range out.Messages {
			msgs = append(msgs, toMessagePayload(m))
		}
		c.JSON(http.StatusOK, gin.H{
			"messages": msgs,
			"limit":    in.Limit,
			"offset":   in.Offset,
			"count":    len(msgs),
		})
	}
}
