// Package main initializes and starts the Concept Gacha HTTP server,
// setting up configuration, logging, the dataset backend, services,
// handlers and the asset sweeper.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/sigongjoa/Concept-Gacha/internal/assets"
	"github.com/sigongjoa/Concept-Gacha/internal/config"
	"github.com/sigongjoa/Concept-Gacha/internal/db"
	"github.com/sigongjoa/Concept-Gacha/internal/logger"
	"github.com/sigongjoa/Concept-Gacha/internal/repository"
	"github.com/sigongjoa/Concept-Gacha/internal/scheduler"
	"github.com/sigongjoa/Concept-Gacha/internal/server/handler/http"
	"github.com/sigongjoa/Concept-Gacha/internal/service"
	"github.com/sigongjoa/Concept-Gacha/internal/store"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// openRepository returns the document repository selected by opts and a
// function releasing its resources.
func openRepository(opts *config.Options) (store.DocumentRepository, func(), error) {
	switch opts.Storage {
	case config.StoragePostgres:
		pg, err := db.InitPostgres(opts.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresDocumentRepository(pg), func() { _ = pg.Close() }, nil
	case config.StorageSQLite:
		lite, err := db.InitSQLite(opts.DataFile)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteDocumentRepository(lite), func() { _ = lite.Close() }, nil
	case config.StorageFile:
		return repository.NewFileRepository(opts.DataFile), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q", opts.Storage)
	}
}

func main() {
	// Parse flags, environment and config file.
	options, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the dataset backend.
	repo, closeRepo, err := openRepository(options)
	if err != nil {
		zapLogger.Fatal("cannot init storage", zap.String("storage", options.Storage), zap.Error(err))
	}
	defer closeRepo()

	// Core services.
	st := store.New(repo)
	reviewService := service.NewReviewService(st, scheduler.New(nil))

	// Uploaded images and their cleanup.
	images, err := assets.NewDiskStore(options.AssetsDir, options.MaxUploadBytes)
	if err != nil {
		zapLogger.Fatal("cannot init asset store", zap.Error(err))
	}
	if options.SweepInterval > 0 {
		sweeper := assets.NewSweeper(images, st, options.SweepGrace, zapLogger)
		if err := sweeper.Start(ctx, options.SweepInterval); err != nil {
			zapLogger.Fatal("cannot start asset sweeper", zap.Error(err))
		}
		defer sweeper.Stop()
	}

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Students:  &http.StudentHandler{StudentService: st},
		Cards:     &http.CardHandler{CardService: st},
		Review:    &http.ReviewHandler{ReviewService: reviewService},
		Upload:    &http.UploadHandler{Assets: images},
		Assets:    images.Handler(),
		StaticDir: options.StaticDir,
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("failed to shut down server", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server",
		zap.String("addr", options.Address),
		zap.String("storage", options.Storage),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
