package v1

import (
	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	qport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/port"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	httpHandler "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/presentation/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client, cache cacheport.Cache, registry *realtime.Registry) {
	v1 := r.Group("/api/v1")
	// Pass the DB connection, queue client and registry down to the HTTP layer
	httpHandler.RegisterRoutes(v1, pool, client, cache, registry)
}
