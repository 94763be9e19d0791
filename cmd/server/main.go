// cmd/server/main.go

// 本服務以 HTTP/JSON 提供開戶、存提款、轉帳、銷戶等 API。
// 此檔案負責載入設定、開啟帳戶儲存並啟動 HTTP 伺服器；
// 每次變更由 bank 自行寫入帳戶紀錄檔，收到 SIGINT/SIGTERM 時優雅關閉。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"bankhub/internal/app"
	"bankhub/internal/config"
)

func main() {
	configPath := pflag.String("config", "", "path to a YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	a, err := app.Open(cfg, logger)
	if err != nil {
		logger.Error("opening bank", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, a, ""); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		a.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
