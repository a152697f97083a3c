package http

import (
	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	qport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/port"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/task"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/usecase"
	repoAdapter "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/adapter"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/presentation/controller"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the messaging endpoints under the given router group.
// queueClient may be nil; reconciliation then runs on detached goroutines
// instead of the background queue. cache may be nil as well.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, queueClient qport.Client, cache cacheport.Cache, registry *realtime.Registry) {
	messages := repoAdapter.NewPgMessageRepository(pool)
	dispatcher := newDispatcher(pool, queueClient, cache)

	socketCtl := controller.NewMessageSocketController(messages, registry, dispatcher)
	getMsgCtl := controller.NewGetMessagesController(messages, registry)

	// GET /api/v1/messages -> pull-style history for clients without a socket
	g.GET("/messages", getMsgCtl.Handle())

	// GET /api/v1/ws -> websocket endpoint for realtime messaging
	g.GET("/ws", socketCtl.Handle())
}

func newDispatcher(pool *pgxpool.Pool, queueClient qport.Client, cache cacheport.Cache) task.Dispatcher {
	if queueClient != nil {
		return task.NewQueueDispatcher(queueClient)
	}

	contacts := repoAdapter.NewPgContactRepository(pool)
	var directory repository.UserDirectory = repoAdapter.NewPgUserDirectory(pool)
	if cache != nil {
		directory = repoAdapter.NewCachedUserDirectory(directory, cache)
	}
	return task.NewGoDispatcher(usecase.NewReconcilePreviewUseCase(contacts, directory))
}
