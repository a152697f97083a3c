package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/task"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// MessageSocketController owns the websocket endpoint for realtime messaging.
// Each accepted connection gets its own socketSession state machine.
type MessageSocketController struct {
	registry        *realtime.Registry
	sendUC          *usecase.SendMessageUseCase
	getUC           *usecase.GetMessagesUseCase
	dispatcher      task.Dispatcher
	inflightTimeout time.Duration
}

func NewMessageSocketController(repo repository.MessageRepository, registry *realtime.Registry, dispatcher task.Dispatcher) *MessageSocketController {
	return &MessageSocketController{
		registry:        registry,
		sendUC:          usecase.NewSendMessageUseCase(repo),
		getUC:           usecase.NewGetMessagesUseCase(repo),
		dispatcher:      dispatcher,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the
// client disconnects. Liveness is transport-level: ping ticker on the write
// side, read deadline refreshed by pongs on the read side.
func (ctl *MessageSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()

		session := newSocketSession(conn, ctl.registry, ctl.sendUC, ctl.getUC, ctl.dispatcher, ctl.inflightTimeout)
		defer func() {
			session.unregister()
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}
			session.handleFrame(c.Request.Context(), data)
		}
	}
}
