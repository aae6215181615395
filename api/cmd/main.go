// Command api serves the nutrition HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/nutrition-service/internal/bootstrap"
	"github.com/baechuer/nutrition-service/internal/logger"
)

// In-flight requests get this long to finish after SIGINT/SIGTERM.
const shutdownTimeout = 15 * time.Second

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type stdServer struct{ *http.Server }

func (s stdServer) Addr() string { return s.Server.Addr }

type serverBuilder func() (httpServer, func(), error)

// Run serves until a signal arrives or the listener fails, and returns the
// process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	exited := serve(srv, lg)

	select {
	case err, open := <-exited:
		if open && err != nil {
			lg.Error().Err(err).Msg("server crashed")
			return 1
		}
		lg.Info().Msg("server stopped")
		return 0
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	drain(srv, exited, lg)
	return 0
}

// serve runs ListenAndServe in the background. The returned channel yields
// the listener error, if any, and is closed once the listener has returned.
func serve(srv httpServer, lg zerolog.Logger) <-chan error {
	exited := make(chan error, 1)
	go func() {
		defer close(exited)
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exited <- err
		}
	}()
	return exited
}

// drain shuts srv down gracefully, forcing Close if that fails, and waits
// for the listener goroutine within the same deadline.
func drain(srv httpServer, exited <-chan error, lg zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	started := time.Now()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed; closing connections")
		_ = srv.Close()
	}

	select {
	case <-exited:
	case <-ctx.Done():
		lg.Warn().Msg("listener did not exit before deadline")
	}
	lg.Info().Dur("took", time.Since(started)).Msg("shutdown complete")
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	os.Exit(Run(func() (httpServer, func(), error) {
		srv, cleanup, err := bootstrap.NewServer()
		if err != nil {
			return nil, nil, err
		}
		return stdServer{srv}, cleanup, nil
	}, sigCh, zlog.Logger))
}
