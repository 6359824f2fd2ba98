package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/remiriasukaretto/tokumei/internal/config"
	"github.com/remiriasukaretto/tokumei/internal/handler"
	"github.com/remiriasukaretto/tokumei/internal/hub"
	"github.com/remiriasukaretto/tokumei/internal/moderation"
	"github.com/remiriasukaretto/tokumei/internal/service"
	"github.com/remiriasukaretto/tokumei/internal/store"
	pkglog "github.com/remiriasukaretto/tokumei/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "tokumei",
	})
	logger := pkglog.L()

	// Core components: filter, store and hub are constructed once here
	// and handed to the board service; nothing reaches them directly.
	filter := moderation.NewFilter()
	st := store.New()
	eventHub := hub.NewHub(cfg.Stream.Buffer)
	board := service.NewBoardService(filter, st, eventHub)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Register routes
	handler.NewHandler(board).RegisterRoutes(r)
	handler.NewSSEHandler(board).RegisterRoutes(r)
	handler.NewWSHandler(board, cfg.WebSocket).RegisterRoutes(r)

	// Static viewer/host pages, when the web dir is present.
	if dir := cfg.Web.Dir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			r.StaticFile("/client", filepath.Join(dir, "client.html"))
			r.StaticFile("/host", filepath.Join(dir, "host.html"))
			r.GET("/", func(c *gin.Context) {
				c.Redirect(http.StatusFound, "/client")
			})
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No write timeout: event-stream responses stay open and
		// receive pushed writes for the life of the subscriber.
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Int("stream_buffer", cfg.Stream.Buffer).Msg("tokumei listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("tokumei stopped")
}
