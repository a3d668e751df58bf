package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/config"
	"github.com/coopledger/coopledger/internal/server/handlers"
	"github.com/coopledger/coopledger/internal/server/router"
	"github.com/coopledger/coopledger/internal/server/store"
	"github.com/coopledger/coopledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}
	if err := cfg.ValidateServer(); err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	st, err := store.Open(cfg.Server.DBPath)
	if err != nil {
		baseLogger.Fatal("failed to open store", zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	secret, err := st.JWTSecret(context.Background())
	if err != nil {
		baseLogger.Fatal("failed to load jwt secret", zap.Error(err))
	}

	authHandler, err := handlers.NewAuthHandler(secret, cfg.Server, baseLogger.Named("handlers.auth"))
	if err != nil {
		baseLogger.Fatal("failed to init auth handler", zap.Error(err))
	}
	dataHandler := handlers.NewDataHandler(st, baseLogger.Named("handlers.data"))
	crudHandler := handlers.NewCrudHandler(st, baseLogger.Named("handlers.crud"))
	engine := router.New(authHandler, dataHandler, crudHandler, secret, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
