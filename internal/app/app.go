// Package app 負責組裝：依設定建立 logger、選擇持久化後端並開啟 Bank。
package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/multierr"

	"bankhub/internal/bank"
	"bankhub/internal/config"
	"bankhub/internal/metrics"
	"bankhub/internal/storage"
	"bankhub/internal/storage/postgres"
)

// App 持有執行期所需的元件。
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Bank    *bank.Bank
	Metrics *metrics.Collector

	closers []io.Closer
}

// NewLogger 依設定建立 slog logger，輸出至 w。
func NewLogger(cfg config.Log, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenStore 依設定選擇持久化後端。
func OpenStore(cfg config.Config) (storage.Store, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return storage.NewFileStore(cfg.DataFile), nil, nil
	case config.StoragePostgres:
		s, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: postgres: %w", bank.ErrPersistence, err)
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}

// Open 建立完整的 App；呼叫端結束時應呼叫 Close。
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	store, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Logger: logger, Metrics: metrics.NewCollector()}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	opts := []bank.Option{bank.WithLogger(logger), bank.WithObserver(a.Metrics)}
	if !cfg.StrictLoad {
		opts = append(opts, bank.WithLenientLoad())
	}
	a.Bank, err = bank.Open(store, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Metrics.SetAccounts(a.Bank.Len())
	logger.Debug("bank opened", slog.String("storage", cfg.Storage), slog.Int("accounts", a.Bank.Len()))
	return a, nil
}

// Close 釋放後端連線。
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
