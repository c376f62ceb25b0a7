// Package server exposes stored schedules and their computed figures over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/christopherklint97/capplan/internal/schedule"
	"github.com/christopherklint97/capplan/internal/store"
)

// OwnerHeader carries the caller's identity. Verifying it is left to
// whatever sits in front of the server.
const OwnerHeader = "X-Owner-ID"

// Store is the persistence the handlers need.
type Store interface {
	List(ctx context.Context, ownerID string) ([]store.Record, error)
	Get(ctx context.Context, ownerID, id string) (*store.Record, error)
	Create(ctx context.Context, ownerID string, s schedule.Schedule) (*store.Record, error)
	Patch(ctx context.Context, ownerID, id string, p store.Patch) (*store.Record, error)
	Resize(ctx context.Context, ownerID, id string, numberOfWeeks int, opts schedule.ResizeOptions) (*store.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type Options struct {
	Logger         zerolog.Logger
	Registry       *prometheus.Registry
	AllowedOrigins []string
	ShareBaseURL   string
	StrictResize   bool
}

type Server struct {
	store  Store
	opts   Options
	logger zerolog.Logger
	engine *gin.Engine
}

func New(st Store, opts Options) (*Server, error) {
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	metrics, err := NewMetrics(opts.Registry)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	s := &Server{store: st, opts: opts, logger: opts.Logger}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(metrics.middleware())
	if len(opts.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.AllowedOrigins
		cfg.AllowHeaders = append(cfg.AllowHeaders, OwnerHeader)
		r.Use(cors.New(cfg))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	r.GET("/api/share", s.decodeShareHandler)

	api := r.Group("/api/schedules")
	api.Use(requireOwner())
	{
		api.GET("", s.listHandler)
		api.POST("", s.createHandler)
		api.GET("/:id", s.getHandler)
		api.PUT("/:id", s.patchHandler)
		api.PATCH("/:id", s.patchHandler)
		api.DELETE("/:id", s.deleteHandler)

		api.GET("/:id/stats", s.statsHandler)
		api.GET("/:id/team", s.teamHandler)
		api.GET("/:id/projects", s.projectsHandler)
		api.POST("/:id/resize", s.resizeHandler)
		api.GET("/:id/export.csv", s.csvHandler)
		api.GET("/:id/calendar.ics", s.calendarHandler)
		api.GET("/:id/share", s.shareHandler)
	}

	s.engine = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := s.logger.Debug()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := c.GetHeader(OwnerHeader)
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("ownerID", owner)
		c.Next()
	}
}
