package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cabinet/backend/internal/application/invoicing"
	"github.com/cabinet/backend/internal/infrastructure/config"
	"github.com/cabinet/backend/internal/infrastructure/logger"
	"github.com/cabinet/backend/internal/infrastructure/records"
	"github.com/cabinet/backend/internal/infrastructure/rendering"
	"github.com/cabinet/backend/internal/infrastructure/storage"
	"github.com/cabinet/backend/internal/interfaces/http/handler"
	"github.com/cabinet/backend/internal/interfaces/http/middleware"
	"github.com/cabinet/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting cabinet backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Record store over the invoice, patient and profile tables
	recordStore, err := records.NewDynamoRecordStore(&cfg.Tables, &cfg.Storage,
		records.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize record store", zap.Error(err))
	}

	// Object storage for PDF artifacts and signature images
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// HTML receipt renderer and headless-Chrome PDF converter
	docRenderer := rendering.NewDocumentRenderer(cfg.Template.Path, objectStorage, log)
	converter, err := rendering.NewChromedpConverter(&rendering.ChromedpConfig{
		DefaultTimeout: cfg.Renderer.Timeout,
		RemoteURL:      cfg.Renderer.RemoteURL,
		NoSandbox:      cfg.Renderer.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF converter", zap.Error(err))
	}
	defer func() {
		_ = converter.Close()
	}()

	invoiceService := invoicing.NewService(recordStore, docRenderer, converter, objectStorage, log,
		invoicing.WithPresignTTL(cfg.Storage.PresignExpiration))

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORS(),
	)

	handler.NewSystemHandler(cfg.App.Name, cfg.App.Env).Register(engine)

	router.NewRouter(engine).
		Register(handler.NewInvoicePDFHandler(invoiceService, log)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
