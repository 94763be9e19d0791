package app

import (
	"context"
	"net/http"

	"bankhub/internal/server"
)

// Serve 以 HTTP 提供 Bank 直到 ctx 結束；addr 為空時使用設定中的 http_addr。
// 未設定 metrics_addr 時，/metrics 直接掛在主路由上。
func Serve(ctx context.Context, a *App, addr string) error {
	if addr == "" {
		addr = a.Config.HTTPAddr
	}
	var inline http.Handler
	if a.Config.MetricsAddr == "" {
		inline = a.Metrics.Handler()
	}
	srv := server.NewServer(a.Bank, a.Logger, inline)
	return server.Run(ctx, server.RunConfig{
		Addr:           addr,
		Handler:        srv.Router(),
		MetricsAddr:    a.Config.MetricsAddr,
		MetricsHandler: a.Metrics.Handler(),
	}, a.Logger)
}
