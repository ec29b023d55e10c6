package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"court-admin/internal/core/config"
)

// New builds the http.Server for h from the app's HTTP settings.
func New(c config.HTTP, h http.Handler) *http.Server {
	sec := func(n int) time.Duration { return time.Duration(n) * time.Second }
	return &http.Server{
		Addr:              net.JoinHostPort(c.Host, fmt.Sprint(c.Port)),
		Handler:           h,
		ReadHeaderTimeout: sec(c.ReadTimeoutSec),
		ReadTimeout:       sec(c.ReadTimeoutSec),
		WriteTimeout:      sec(c.WriteTimeoutSec),
		IdleTimeout:       sec(c.IdleTimeoutSec),
		MaxHeaderBytes:    1 << 20,
	}
}

// Run serves on ln until ctx is done, then drains in-flight requests for at
// most grace. A nil ln listens on srv.Addr.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration, l *zap.Logger) error {
	if ln == nil {
		var err error
		if ln, err = net.Listen("tcp", srv.Addr); err != nil {
			return err
		}
	}
	l.Info("http listening", zap.String("addr", ln.Addr().String()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		// 优雅关闭
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		l.Info("http stopped")
		return nil
	})
	return g.Wait()
}
