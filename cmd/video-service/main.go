package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/wondertales/video-service/docs"
	"github.com/wondertales/video-service/internal/cache"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/events"
	"github.com/wondertales/video-service/internal/http/handlers/accounts"
	assetHandlers "github.com/wondertales/video-service/internal/http/handlers/assets"
	mediaHandlers "github.com/wondertales/video-service/internal/http/handlers/media"
	renderHandlers "github.com/wondertales/video-service/internal/http/handlers/render"
	wsHandlers "github.com/wondertales/video-service/internal/http/handlers/websocket"
	"github.com/wondertales/video-service/internal/http/middleware"
	"github.com/wondertales/video-service/internal/services/objectstore"
	renderservice "github.com/wondertales/video-service/internal/services/render"
	"github.com/wondertales/video-service/internal/services/wishbutton"
	"github.com/wondertales/video-service/internal/storage/postgres"
	"github.com/wondertales/video-service/internal/websocket"
)

// @title WonderTales Video Service API
// @version 1.0
// @description Personalized story video backend: media listing, asset review, and render tracking.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// load config
	cfg := config.MustLoad()

	// database setup
	storage, err := postgres.NewPostgres(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	slog.Info("Connected to Postgres database")

	// redis for caching and rate limits
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// object store; a nil-credential config degrades the listing endpoint
	// to database records instead of failing startup
	store, err := objectstore.NewService(cfg)
	if err != nil {
		log.Fatal("Failed to initialize object store:", err)
	}
	if !store.Available() {
		slog.Warn("Object store credentials missing; listings will be served from the database")
	}

	// websocket hub for admin event broadcasts
	hub := websocket.NewHub()
	go hub.Run()
	publisher := events.NewEventPublisher(hub)

	// services
	storyCache := cache.NewStoryCache(redisClient)
	wbService := wishbutton.NewService(storage, storyCache, publisher, cfg.WishButton)
	renderService := renderservice.NewService(storage, renderservice.NewHTTPClient(cfg.Renderer), publisher)

	rateLimits := middleware.NewRateLimitConfig(redisClient)
	auth := middleware.AuthMiddleware(cfg.JWTSecret)

	// setup server
	router := http.NewServeMux()

	router.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("WonderTales video service"))
	})
	router.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// accounts
	router.HandleFunc("POST /signup", accounts.SignUp(storage))
	router.HandleFunc("POST /login", accounts.Login(storage, cfg.JWTSecret))
	router.Handle("POST /api/children", auth(accounts.RegisterChild(storage)))
	router.Handle("GET /api/children", auth(accounts.ListChildren(storage)))

	// media listing and uploads
	router.Handle("GET /api/list-objects", auth(mediaHandlers.ListObjects(store, storage)))
	router.Handle("POST /api/upload-url", auth(rateLimits.RateLimitedHandler("upload", mediaHandlers.GenerateUploadURL(store))))
	router.Handle("POST /api/upload-url/raw", auth(rateLimits.RateLimitedHandler("upload", mediaHandlers.GenerateRawUploadURL(store))))

	// wish-button review
	router.Handle("GET /api/wish-button/children", auth(assetHandlers.ListChildren(wbService)))
	router.Handle("GET /api/wish-button/children/{child_id}/stories", auth(assetHandlers.ListStories(wbService)))
	router.Handle("DELETE /api/wish-button/stories/{project_id}", auth(assetHandlers.DeleteStory(wbService)))
	router.Handle("POST /api/wish-button/projects/{project_id}/refresh-assets", auth(assetHandlers.RefreshAssets(wbService)))
	router.Handle("POST /api/wish-button/assets/{asset_id}/approve", auth(assetHandlers.ApproveAsset(wbService)))
	router.Handle("POST /api/wish-button/assets/{asset_id}/reject", auth(assetHandlers.RejectAsset(wbService)))

	// rendering
	router.Handle("POST /api/render", auth(rateLimits.RateLimitedHandler("render", renderHandlers.Submit(renderService, wbService))))
	router.Handle("GET /api/render-status/{render_id}", auth(renderHandlers.Status(renderService)))

	// admin event feed (token rides the query string)
	router.HandleFunc("GET /ws", wsHandlers.EventFeed(hub, cfg.JWTSecret))

	server := http.Server{
		Addr:    cfg.HTTPServer.Address,
		Handler: router,
	}

	log.Println("server started on", cfg.HTTPServer.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %s", err)
		}
	}()

	<-done

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = server.Shutdown(ctx)
	if err != nil {
		slog.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
		return
	}

	slog.Info("Server stopped")
}
