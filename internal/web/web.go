package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/db"
	"github.com/Joseda-hg/lazydiary/internal/journal"
	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/Joseda-hg/lazydiary/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const requestIDHeader = "X-Request-ID"

type Server struct {
	store    *db.Store
	engine   *journal.Engine
	logger   *slog.Logger
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records request counts in metrics and serves gatherer on
// /metrics.
func WithMetrics(metrics *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = metrics
		s.gatherer = gatherer
	}
}

func NewServer(store *db.Store, engine *journal.Engine, opts ...Option) *Server {
	server := &Server{
		store:  store,
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}
	return server
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(observability.ServiceName))
	router.Use(s.requestMiddleware())
	s.routes(router)
	return router
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		diaries := api.Group("/diaries")
		{
			diaries.POST("", s.createDiary)
			diaries.GET("", s.listDiaries)
			diaries.GET("/:id", s.getDiary)
			diaries.PUT("/:id", s.updateDiary)
			diaries.DELETE("/:id", s.deleteDiary)
			diaries.GET("/:id/note", s.getNote)
			diaries.PUT("/:id/note", s.upsertNote)
			diaries.GET("/:id/pages", s.listPages)
			diaries.POST("/:id/pages", s.createPage)
			diaries.GET("/:id/pages/:date", s.getPageByDate)
			diaries.POST("/:id/copy", s.copyOpenTasks)
		}

		pages := api.Group("/pages")
		{
			pages.GET("/:id", s.getPage)
			pages.GET("/:id/tasks", s.listPageTasks)
			pages.POST("/:id/tasks", s.createTask)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.searchTasks)
			tasks.GET("/:id", s.getTask)
			tasks.PUT("/:id/status", s.updateTaskStatus)
			tasks.PUT("/:id/title", s.updateTaskTitle)
			tasks.DELETE("/:id", s.deleteTask)
			tasks.GET("/:id/history", s.taskHistory)
		}

		api.GET("/lineages/:id", s.getLineage)
		api.GET("/lineages/:id/history", s.lineageHistory)
	}
}

// requestMiddleware tags every request with an id, logs it and counts it.
func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		s.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status))
		s.logger.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start))
	}
}

// writeError maps domain errors to HTTP statuses. Unexpected errors are
// logged and reported without detail.
func (s *Server) writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	default:
		s.logger.Error("request failed",
			"request_id", c.GetString("request_id"),
			"route", c.FullPath(),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id " + strconv.Quote(c.Param("id"))})
		return 0, false
	}
	return id, true
}
