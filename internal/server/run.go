// internal/server/run.go
//
// Run 啟動 HTTP 伺服器（與可選的獨立 metrics 伺服器），直到 ctx 結束後優雅關閉。
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// RunConfig 描述要啟動的伺服器；MetricsAddr 為空時不另開 metrics 伺服器。
type RunConfig struct {
	Addr           string
	Handler        http.Handler
	MetricsAddr    string
	MetricsHandler http.Handler
}

func Run(ctx context.Context, cfg RunConfig, logger *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	serve(ctx, g, logger, &http.Server{
		Addr:         cfg.Addr,
		Handler:      cfg.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	if cfg.MetricsAddr != "" && cfg.MetricsHandler != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", cfg.MetricsHandler)
		serve(ctx, g, logger, &http.Server{Addr: cfg.MetricsAddr, Handler: mux})
	}
	return g.Wait()
}

func serve(ctx context.Context, g *errgroup.Group, logger *slog.Logger, srv *http.Server) {
	g.Go(func() error {
		logger.Info("starting HTTP server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down HTTP server", slog.String("addr", srv.Addr))
		return srv.Shutdown(sctx)
	})
}
