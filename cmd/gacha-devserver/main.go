// Command gacha-devserver runs a local draw service for development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/internal/config"
	"github.com/naveenspark/gacha/internal/devserver"
	"github.com/naveenspark/gacha/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gacha-devserver:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadDevServer(".env")
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log := logger.NewWriter(os.Stderr, level)

	pool, err := devserver.LoadPool(cfg.PoolFile)
	if err != nil {
		return err
	}
	rng := devserver.DefaultRNG()
	if cfg.Seed != 0 {
		rng = devserver.NewSeededRNG(cfg.Seed)
	}
	srv, err := devserver.New(devserver.Options{Pool: pool, RNG: rng, Grant: cfg.Grant, Logger: log})
	if err != nil {
		return err
	}

	hs := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Int("pool", len(pool)).Int("grant", cfg.Grant).Msg("listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
