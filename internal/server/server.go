// Package server runs an http.Handler until its context is cancelled.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/csg33k/employee-directory/internal/logger"
)

// ShutdownTimeout bounds the graceful drain of in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Serve listens on addr and serves h until ctx is done, then shuts down
// gracefully. Request contexts are cancelled as shutdown begins so that
// long-lived event streams let go of their connections.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, ln, h)
}

func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	base, cancelRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRequests()

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancelRequests)

	logger.InfoLog(ctx, "listening on %s", ln.Addr())
	failed := make(chan error, 1)
	go func() {
		failed <- srv.Serve(ln)
	}()

	select {
	case err := <-failed:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WarnLog(ctx, "graceful shutdown incomplete: %v", err)
		return srv.Close()
	}
	logger.InfoLog(ctx, "server on %s stopped", ln.Addr())
	return nil
}
