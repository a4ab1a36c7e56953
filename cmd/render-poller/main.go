package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wondertales/video-service/internal/config"
	renderservice "github.com/wondertales/video-service/internal/services/render"
	"github.com/wondertales/video-service/internal/storage/postgres"
)

// RenderPoller periodically advances every in-flight render job so status
// transitions land even when nobody is polling the status endpoint.
type RenderPoller struct {
	service  *renderservice.Service
	interval time.Duration
	logger   *slog.Logger
}

func NewRenderPoller(service *renderservice.Service, interval time.Duration) *RenderPoller {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &RenderPoller{
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

func (rp *RenderPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(rp.interval)
	defer ticker.Stop()

	rp.logger.Info("Render poller started",
		"interval", rp.interval.String())

	// Run once immediately on startup
	rp.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			rp.logger.Info("Render poller shutting down")
			return
		case <-ticker.C:
			rp.sweep(ctx)
		}
	}
}

func (rp *RenderPoller) sweep(ctx context.Context) {
	startTime := time.Now()

	rp.service.PollActive(ctx)

	rp.logger.Info("Completed render job sweep",
		"duration_ms", time.Since(startTime).Milliseconds())
}

func main() {
	// Load config
	cfg := config.MustLoad()

	// Initialize database connection
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	service := renderservice.NewService(storage, renderservice.NewHTTPClient(cfg.Renderer), nil)

	// Create poller with 30-second interval
	poller := NewRenderPoller(service, 30*time.Second)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		slog.Info("Received shutdown signal")
		cancel()
	}()

	// Start the poller
	poller.Start(ctx)

	slog.Info("Render poller stopped")
}
