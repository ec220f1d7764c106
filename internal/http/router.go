// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging, panic recovery, metrics, CORS,
// compression, and API docs.
//
// Design goals:
//   - Observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggofiles "github.com/swaggo/files"
	ginswagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-chat-system/docs"
	"github.com/tbourn/go-chat-system/internal/config"
	"github.com/tbourn/go-chat-system/internal/http/handlers"
	"github.com/tbourn/go-chat-system/internal/http/middleware"
	"github.com/tbourn/go-chat-system/internal/services"
)

// Enqueuer is the full task-scheduling surface the API needs. Satisfied by
// *jobs.Client.
type Enqueuer interface {
	services.ApplicationEnqueuer
	services.ChatEnqueuer
	services.MessageEnqueuer
}

// Deps carries the externally constructed collaborators the API needs. The
// binaries build these from config; router tests substitute stubs.
type Deps struct {
	DB       *gorm.DB
	Seq      services.Sequencer
	Tokens   services.TokenIssuer
	Queue    Enqueuer
	Searcher services.Searcher
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability (tracing, metrics), CORS, compression, health and
// metrics endpoints, optional Swagger UI, and the versioned public API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. CORS, gzip
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB; the largest legal message body plus
	//    envelope fits comfortably)
	r.Use(limitBody(1 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS (allow all when no allowlist configured) and gzip
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		corsCfg.ExposeHeaders = []string{"X-Request-ID", "Content-Length"}
		r.Use(cors.New(corsCfg))
	} else {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
		corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		corsCfg.ExposeHeaders = []string{"X-Request-ID", "Content-Length"}
		r.Use(cors.New(corsCfg))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginswagger.WrapHandler(swaggofiles.Handler))
	}

	// Dependency injection: services ← db/seq/tokens/queue/search
	appSvc := &services.ApplicationService{DB: deps.DB, Tokens: deps.Tokens, Queue: deps.Queue}
	chatSvc := &services.ChatService{DB: deps.DB, Seq: deps.Seq, Queue: deps.Queue}
	msgSvc := &services.MessageService{DB: deps.DB, Seq: deps.Seq, Queue: deps.Queue, Searcher: deps.Searcher}
	h := handlers.New(appSvc, chatSvc, msgSvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath) // e.g. "/v1"
	{
		// Applications
		api.POST("/applications", h.CreateApplication)
		api.GET("/applications", h.ListApplications)

		// Chats
		api.POST("/applications/:token/chats", h.CreateChat)
		api.GET("/applications/:token/chats", h.ListChats)

		// Messages
		api.POST("/applications/:token/chats/:chat_number/messages", h.CreateMessage)
		api.GET("/applications/:token/chats/:chat_number/messages", h.ListMessages)
		api.GET("/applications/:token/chats/:chat_number/messages/search", h.SearchMessages)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; downstream body reads error past the cap.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
