package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/scholarship-server/internal/config"
	"github.com/arzan03/scholarship-server/internal/db"
	"github.com/arzan03/scholarship-server/internal/handlers"
	"github.com/arzan03/scholarship-server/internal/metrics"
	"github.com/arzan03/scholarship-server/internal/server"
	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/arzan03/scholarship-server/internal/storage"
	"github.com/arzan03/scholarship-server/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(client); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()
	logger.Info("connected to MongoDB", zap.String("db", cfg.DBName))

	st := store.New(client.Database(cfg.DBName))
	tokens := services.NewTokenService(cfg.TokenSecret)

	var payments *services.PaymentService
	if !cfg.ReadOnly {
		payments = services.NewPaymentService(services.NewStripeIntents(cfg.StripeSecretKey))
	}

	var images *services.ImageService
	if cfg.Minio.Enabled() {
		objects, err := storage.NewMinio(ctx, cfg.Minio)
		if err != nil {
			return err
		}
		images = services.NewImageService(objects, st.Listings)
		logger.Info("connected to MinIO", zap.String("bucket", cfg.Minio.Bucket))
	}

	h := handlers.New(st, tokens, payments, images, logger)
	app := server.New(h, server.Options{
		AppName:     "scholarship-server",
		CORSOrigins: cfg.CORSOrigins,
		ReadOnly:    cfg.ReadOnly,
		AccessLog:   true,
		Metrics:     metrics.New(),
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("Scholarship is running", zap.String("port", cfg.Port), zap.Bool("read_only", cfg.ReadOnly))
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
