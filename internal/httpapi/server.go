package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/abang/internal/logger"
)

const (
	DefaultAddr     = ":8080"
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

type Config struct {
	Addr string `mapstructure:"addr"`
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg Config, handler http.Handler, log *zap.Logger) error {
	log = logger.Component(log, "http")

	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Info("server stopped")
	return nil
}
