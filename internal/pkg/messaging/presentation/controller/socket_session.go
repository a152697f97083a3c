package controller

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/task"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"

	"github.com/google/uuid"
)

// inboundFrame is the union of all client frame shapes.
type inboundFrame struct {
	Type        string     `json:"type"`
	UserID      string     `json:"user_id,omitempty"`
	ContactID   string     `json:"contact_id,omitempty"`
	SenderID    string     `json:"sender_id,omitempty"`
	ReceiverID  string     `json:"receiver_id,omitempty"`
	MessageText string     `json:"message_text,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	ReadChecker string     `json:"read_checker,omitempty"`
	TempID      string     `json:"temp_id,omitempty"`
	Before      *time.Time `json:"before,omitempty"`
	Limit       *int       `json:"limit,omitempty"`
	Offset      *int       `json:"offset,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Payload string `json:"payload"`
}

type identifiedFrame struct {
	Type    string `json:"type"`
	Payload struct {
		UserID string `json:"user_id"`
	} `json:"payload"`
}

type messagePayload struct {
	MessageID   string    `json:"message_id"`
	TempID      string    `json:"temp_id"`
	ContactID   string    `json:"contact_id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	MessageText string    `json:"message_text"`
	Timestamp   time.Time `json:"timestamp"`
	ReadChecker string    `json:"read_checker"`
}

type messageSentFrame struct {
	Type    string `json:"type"`
	Payload struct {
		MessageID    string         `json:"message_id"`
		TempID       string         `json:"temp_id"`
		SavedMessage messagePayload `json:"savedMessage"`
	} `json:"payload"`
}

type newMessageFrame struct {
	Type    string         `json:"type"`
	Payload messagePayload `json:"payload"`
}

type messagesFrame struct {
	Type    string `json:"type"`
	Payload struct {
		Messages []messagePayload `json:"messages"`
	} `json:"payload"`
}

type readReceiptFrame struct {
	Type    string `json:"type"`
	Payload struct {
		ReaderID   string   `json:"reader_id"`
		MessageIDs []string `json:"message_ids"`
	} `json:"payload"`
}

// socketSession is the per-connection protocol state machine. It starts
// unidentified; the only accepted frame in that state is identify, which
// registers the user and is terminal for the session (no logout transition).
type socketSession struct {
	conn     realtime.Handle
	registry *realtime.Registry

	sendUC     *usecase.SendMessageUseCase
	getUC      *usecase.GetMessagesUseCase
	dispatcher task.Dispatcher

	userID  string // empty until identified
	timeout time.Duration
}

func newSocketSession(conn realtime.Handle, registry *realtime.Registry,
	sendUC *usecase.SendMessageUseCase, getUC *usecase.GetMessagesUseCase,
	dispatcher task.Dispatcher, timeout time.Duration) *socketSession {
	return &socketSession{
		conn:       conn,
		registry:   registry,
		sendUC:     sendUC,
		getUC:      getUC,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

// handleFrame interprets one inbound frame. It never closes the connection
// except on an identify validation failure.
func (s *socketSession) handleFrame(ctx context.Context, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		s.replyError("Invalid message format")
		return
	}

	if frame.Type == "identify" {
		s.handleIdentify(frame)
		return
	}

	if s.userID == "" {
		s.replyError("Identify before sending frames")
		return
	}

	switch frame.Type {
	case "ping":
		s.reply(map[string]string{"type": "pong"})
	case "send_message":
		s.handleSendMessage(ctx, frame)
	case "get_messages":
		s.handleGetMessages(ctx, frame)
	default:
		s.replyError("Unknown frame type")
	}
}

// handleIdentify validates the claimed identity. An invalid id is fatal for
// the connection; a second identify on an identified session is a no-op error.
func (s *socketSession) handleIdentify(frame inboundFrame) {
	if s.userID != "" {
		s.replyError("Session already identified")
		return
	}
	if frame.UserID == "" || uuid.Validate(frame.UserID) != nil {
		s.replyError("Invalid or missing user_id")
		s.conn.Close(1008, "Invalid user_id")
		return
	}

	s.userID = frame.UserID
	if c, ok := s.conn.(*realtime.Connection); ok {
		c.UserID = frame.UserID
	}
	s.registry.Register(frame.UserID, s.conn)

	var out identifiedFrame
	out.Type = "identified"
	out.Payload.UserID = frame.UserID
	s.reply(out)
}

func (s *socketSession) handleSendMessage(ctx context.Context, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.sendUC.Execute(ctx, usecase.SendMessageInput{
		ContactID:  frame.ContactID,
		SenderID:   frame.SenderID,
		ReceiverID: frame.ReceiverID,
		Text:       frame.MessageText,
		TempID:     frame.TempID,
		Timestamp:  frame.Timestamp,
		ReadState:  messaging.ReadState(frame.ReadChecker),
	})
	if err != nil {
		s.replySendError(err)
		return
	}

	payload := toMessagePayload(*stored)

	// The push to the receiver is unsolicited and unacknowledged; its failure
	// is never surfaced to the sender.
	if stored.ReceiverID != stored.SenderID {
		if push, err := json.Marshal(newMessageFrame{Type: "new_message", Payload: payload}); err == nil {
			s.registry.NotifyUser(stored.ReceiverID, push)
		}
	}

	var ack messageSentFrame
	ack.Type = "message_sent"
	ack.Payload.MessageID = stored.ID
	ack.Payload.TempID = stored.TempID
	ack.Payload.SavedMessage = payload
	s.reply(ack)

	s.dispatcher.Dispatch(ctx, *stored)
}

func (s *socketSession) handleGetMessages(ctx context.Context, frame inboundFrame) {
	if frame.SenderID == "" || frame.ReceiverID == "" {
		s.replyError("Missing sender_id or receiver_id")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	in := usecase.GetMessagesInput{
		RequesterID:   frame.SenderID,
		CounterpartID: frame.ReceiverID,
		Before:        frame.Before,
	}
	if frame.Limit != nil {
		in.Limit = *frame.Limit
	}
	if frame.Offset != nil {
		in.Offset = *frame.Offset
	}

	out, err := s.getUC.Execute(ctx, in)
	if err != nil {
		s.replyError("Failed to fetch messages")
		return
	}

	// Read receipt goes to the counterpart: every message that just flipped was
	// addressed to the requester, so the counterpart is its original sender.
	if len(out.ReadIDs) > 0 {
		var receipt readReceiptFrame
		receipt.Type = "read_receipt"
		receipt.Payload.ReaderID = frame.SenderID
		receipt.Payload.MessageIDs = out.ReadIDs
		if push, err := json.Marshal(receipt); err == nil {
			s.registry.NotifyUser(frame.ReceiverID, push)
		}
	}

	var reply messagesFrame
	reply.Type = "messages"
	reply.Payload.Messages = make([]messagePayload, 0, len(out.Messages))
	for _, m := range out.Messages {
		reply.Payload.Messages = append(reply.Payload.Messages, toMessagePayload(m))
	}
	s.reply(reply)
}

// unregister releases the registry entry on disconnect. Safe to call for
// sessions that never identified.
func (s *socketSession) unregister() {
	if s.userID != "" {
		s.registry.Unregister(s.conn)
	}
}

func (s *socketSession) replySendError(err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		s.replyError("Internal server error")
	case errors.Is(err, messaging.ErrMissingFields):
		s.replyError("Missing required fields")
	case errors.Is(err, messaging.ErrInvalidID):
		s.replyError("Invalid UUID format")
	default:
		s.replyError(err.Error())
	}
}

func (s *socketSession) replyError(msg string) {
	s.reply(errorFrame{Type: "error", Payload: msg})
}

func (s *socketSession) reply(v any) {
	if payload, err := json.Marshal(v); err == nil {
		_ = s.conn.Send(payload)
	}
}

func toMessagePayload(m messaging.Message) messagePayload {
	return messagePayload{
		MessageID:   m.ID,
		TempID:      m.TempID,
		ContactID:   m.ContactID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		MessageText: m.Text,
		Timestamp:   m.Timestamp,
		ReadChecker: string(m.ReadState),
	}
}
