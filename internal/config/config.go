// internal/config/config.go
//
// 設定載入順序：預設值 → YAML 設定檔 → .env / 環境變數 (BANKHUB_*) → 命令列旗標。
// YAML 採嚴格解碼，未知欄位直接報錯。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v2"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config 為整體應用設定。
type Config struct {
	DataFile    string `yaml:"data_file"`
	Storage     string `yaml:"storage"`
	PostgresDSN string `yaml:"postgres_dsn"`
	StrictLoad  bool   `yaml:"strict_load"`
	HTTPAddr    string `yaml:"http_addr"`
	MetricsAddr string `yaml:"metrics_addr"`
	Log         Log    `yaml:"log"`
}

// Log 為日誌設定；Format 為 text 或 json。
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 回傳預設設定。
func Default() Config {
	return Config{
		DataFile:   "bank_accounts.txt",
		Storage:    StorageFile,
		StrictLoad: true,
		HTTPAddr:   ":8080",
		Log:        Log{Level: "info", Format: "text"},
	}
}

// Load 依序套用設定檔（path 為空則略過）、.env 與環境變數，最後驗證。
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		if err := cfg.decode(f); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	// .env 不存在時忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf(".env: %w", err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.SetStrict(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv 以 BANKHUB_* 環境變數覆寫設定；lookup 通常為 os.LookupEnv。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"BANKHUB_DATA_FILE":    &c.DataFile,
		"BANKHUB_STORAGE":      &c.Storage,
		"BANKHUB_POSTGRES_DSN": &c.PostgresDSN,
		"BANKHUB_HTTP_ADDR":    &c.HTTPAddr,
		"BANKHUB_METRICS_ADDR": &c.MetricsAddr,
		"BANKHUB_LOG_LEVEL":    &c.Log.Level,
		"BANKHUB_LOG_FORMAT":   &c.Log.Format,
	}
	for k, p := range str {
		if v, ok := lookup(k); ok {
			*p = v
		}
	}
	if v, ok := lookup("BANKHUB_STRICT_LOAD"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("BANKHUB_STRICT_LOAD: %w", err)
		}
		c.StrictLoad = b
	}
	return nil
}

// Validate 一次回報所有設定錯誤。
func (c Config) Validate() error {
	var err error
	switch c.Storage {
	case StorageFile:
		if c.DataFile == "" {
			err = multierr.Append(err, errors.New("data_file must be set for file storage"))
		}
	case StoragePostgres:
		if c.PostgresDSN == "" {
			err = multierr.Append(err, errors.New("postgres_dsn must be set for postgres storage"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageFile, StoragePostgres))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return err
}
