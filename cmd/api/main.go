package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheAdapter "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/adapter"
	cacheport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/cache/port"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/database"
	queueAdapter "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/adapter"
	qport "github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/queue/port"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/infrastructure/realtime"
	"github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/task"

	v1 "github.com/Huzaim-Bin-Asad/echoo-backend/cmd/api/router/v1"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Redis-backed pieces are optional: without REDIS_URL the profile cache is
	// skipped and reconciliation falls back to detached goroutines.
	var cache cacheport.Cache
	if c, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: redis cache disabled: %v", err)
	} else {
		cache = c
		defer cache.Close()
	}

	var queueClient qport.Client
	if qc, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Printf("Warning: background queue disabled: %v", err)
	} else {
		queueClient = qc
		defer queueClient.Close()
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run the queue worker in-process so reconcile tasks are picked up when
	// running the API directly.
	if queueClient != nil {
		srv, err := queueAdapter.NewAsynqServer()
		if err != nil {
			log.Fatalf("failed to start queue server: %v", err)
		}
		task.RegisterReconcilePreviewTask(srv, pool, cache)
		go func() {
			if err := srv.Run(runCtx); err != nil {
				log.Printf("queue server stopped: %v", err)
			}
		}()
	}

	registry := realtime.NewRegistry()
	defer registry.Close()

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, pool, queueClient, cache, registry)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
