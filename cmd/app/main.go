package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradesim/internal/api"
	"tradesim/internal/app"
	"tradesim/internal/infra/binance"
	"tradesim/internal/ledger"
	"tradesim/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Quote Service + Feed Worker
	quotes := service.NewQuoteService()
	quotes.StartProcessor(ctx)

	if cfg.Feed.Binance.Enabled {
		worker := binance.NewWorker(cfg.Feed.Binance.WSURL, cfg.Feed.Binance.Symbols, quotes.QuoteChan())
		if err := worker.Connect(ctx); err != nil {
			slog.Error("Failed to connect Binance feed", slog.Any("error", err))
		}
		defer worker.Disconnect()
		slog.InfoContext(ctx, "✅ Binance feed started", slog.Int("symbols", len(cfg.Feed.Binance.Symbols)))
	}

	// 5. Trading Core
	executor := ledger.NewTradeExecutor(bootstrap.Storage, quotes, cfg.Trading.QuoteDeviationPct)

	// 6. HTTP API
	server := api.NewServer(executor, bootstrap.Storage, quotes, cfg.Trading.StartingBalance, cfg.Server.CORSOrigin, slog.Default())
	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.R,
	}

	go func() {
		slog.Info("✨ tradesim API listening", slog.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", slog.Any("error", err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", slog.Any("error", err))
	}
}
