//	@title			Filedock API
//	@version		1.0
//	@description	File storage service: upload, list, view, download and delete files.
//
//	@host		localhost:5000
//	@BasePath	/api

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/filedock/service/internal/config"
	"github.com/filedock/service/internal/events"
	"github.com/filedock/service/internal/logger"
	appMiddleware "github.com/filedock/service/internal/middleware"
	"github.com/filedock/service/internal/object"
	"github.com/filedock/service/internal/response"
	"github.com/filedock/service/internal/storage"

	_ "github.com/filedock/service/docs/swagger"
)

const (
	localBucket     = "local-storage"
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config: " + err.Error())
	}

	log := logger.New(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stdout})
	logger.SetGlobal(log)

	store, bucket, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("storage setup failed: %v", err)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.Init(initCtx)
	cancelInit()
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	hub := events.NewHub(64)

	runCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	if local, ok := store.(*storage.Local); ok && cfg.WatchStorage {
		watcher, err := events.NewWatcher(local.FilesDir(), hub, log)
		if err != nil {
			log.Fatalf("storage watcher failed: %v", err)
		}
		defer watcher.Close()
		go watcher.Run(runCtx)
		log.Infof("watching %s for changes", local.FilesDir())
	}

	// Wire dependencies: storage → service → handler
	objectSvc := object.NewService(store, hub, bucket)
	objectHandler := object.NewHandler(objectSvc, object.HandlerConfig{
		MaxUploadSize: cfg.MaxUploadSize,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	eventsHandler := events.NewHandler(hub, cfg.ClientURL)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.ClientURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "ETag"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, response.Fields{"status": "ok", "storage": cfg.StorageBackend})
	})

	// Swagger UI at http://localhost:<port>/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/storage", func(r chi.Router) {
		r.Get("/events", eventsHandler.Stream)

		objectHandler.Register(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       5 * time.Minute,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.With().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("backend", cfg.StorageBackend).
			Str("bucket", bucket).
			Logger().
			Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Closing the hub first ends open event streams so Shutdown does not wait on them.
	hub.Close()
	stopWatcher()

	if err := srv.Shutdown(ctx); err != nil {
		log.With().Err(err).Logger().Error("forced shutdown")
		return
	}

	log.Info("server stopped")
}

// openStorage builds the configured backend and the bucket name reported to clients.
func openStorage(cfg *config.Config) (storage.Storage, string, error) {
	switch cfg.StorageBackend {
	case config.BackendS3:
		s3, err := storage.NewS3(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, "", err
		}
		return s3, s3.Bucket(), nil
	default:
		return storage.NewLocal(cfg.StorageDir,
			storage.WithFileMode(cfg.FileMode),
			storage.WithDirMode(cfg.DirMode),
		), localBucket, nil
	}
}
