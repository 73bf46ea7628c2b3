// Package http serves the chat application's API: the streaming chat proxy,
// recalled history with render directives, and the thread sidebar RPC.
package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"glycall/internal/agentrt"
	"glycall/internal/chat"
	"glycall/internal/config"
	"glycall/internal/genui"
	"glycall/internal/logging"
	"glycall/internal/pending"
	"glycall/internal/thread"
)

const (
	historyCacheSize = 256
	defaultPerPage   = 50
	maxPerPage       = 200
)

// Runtime is the slice of the agent runtime client the handlers need.
type Runtime interface {
	StreamChat(ctx context.Context, req agentrt.ChatRequest) (*agentrt.Stream, error)
	Recall(ctx context.Context, threadID string) ([]chat.Message, error)
}

// Options wires a Server. Threads may be nil when no storage is configured;
// thread mutations then fail with an explicit error while listing degrades
// to an empty sidebar.
type Options struct {
	Runtime    Runtime
	Threads    thread.Store
	Pending    *pending.Store
	ResourceID string

	AllowedOrigins []string
	HistoryTTL     time.Duration
	Logger         logging.Logger
}

// Server holds the handler state behind the gin router.
type Server struct {
	runtime    Runtime
	threads    thread.Store
	pending    *pending.Store
	registry   *genui.Registry
	resourceID string

	history *expirable.LRU[string, historyView]
	recalls singleflight.Group

	metrics *metrics
	origins []string
	logger  logging.Logger
}

// New builds a Server from its dependencies.
func New(opts Options) *Server {
	ttl := opts.HistoryTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	resourceID := opts.ResourceID
	if resourceID == "" {
		resourceID = config.DefaultResourceID
	}
	pendingStore := opts.Pending
	if pendingStore == nil {
		pendingStore = pending.NewStore()
	}
	return &Server{
		runtime:    opts.Runtime,
		threads:    opts.Threads,
		pending:    pendingStore,
		registry:   genui.NewRegistry(),
		resourceID: resourceID,
		history:    expirable.NewLRU[string, historyView](historyCacheSize, nil, ttl),
		metrics:    newMetrics(),
		origins:    opts.AllowedOrigins,
		logger:     logging.OrNop(opts.Logger),
	}
}

// Router assembles the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(s.metrics.middleware())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", s.metrics.handler())

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/chat", s.handleHistory)

		api.GET("/threads", s.handleListThreads)
		api.POST("/threads", s.handleCreateThread)
		api.GET("/threads/:id", s.handleGetThread)
		api.DELETE("/threads/:id", s.handleDeleteThread)
		api.GET("/threads/:id/pending", s.handlePendingMessage)
	}

	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cfg
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// writeError emits the uniform error envelope.
func writeError(c *gin.Context, status int, message string, details ...string) {
	body := gin.H{"error": message}
	if len(details) > 0 && details[0] != "" {
		body["details"] = details[0]
	}
	c.AbortWithStatusJSON(status, body)
}
