package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexploopy/todo-list/internal/app"
	"github.com/alexploopy/todo-list/internal/pkg/config"
	"github.com/alexploopy/todo-list/internal/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	addr := flag.String("addr", "", "listen address, overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(os.Stderr, "error", "text").Fatal("cant load config", "err", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Formatter)
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	todo, err := app.NewTodoApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("cant create app", "err", err)
	}
	defer todo.Close()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           todo,
		ReadHeaderTimeout: 5 * time.Second,
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Addr, "mode", cfg.Mode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		return
	}
	<-drained
	logger.Info("server stopped")
}
