// Package config は環境変数からアプリケーション設定を読み込みます。
package config

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config はサーバー起動時に一度だけ読み込まれる設定です。
type Config struct {
	Port     string `env:"PORT, default=3010"`
	GinMode  string `env:"GIN_MODE, default=release"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret はトークン署名用のシークレットです。未設定の場合は起動できません。
	JWTSecret string `env:"JWT_SECRET, required"`

	// AuthRateLimit は /api/auth/* への1分あたりのリクエスト上限です。
	AuthRateLimit int `env:"AUTH_RATE_LIMIT, default=60"`

	// CORSOrigins はカンマ区切りの許可オリジンです。
	CORSOrigins string `env:"CORS_ORIGINS, default=http://localhost:5173"`

	DB    DBConfig
	Redis RedisConfig
}

// DBConfig はデータベース接続設定です。
type DBConfig struct {
	// Driver は "sqlite"（デフォルト）または "postgres" です。
	Driver string `env:"DB_DRIVER, default=sqlite"`
	// Path はSQLiteファイルのパスです。
	Path string `env:"DB_PATH, default=./data/app.db"`
	// DSN はPostgreSQL接続文字列です。
	DSN string `env:"DB_DSN"`
	// Seed が true の場合、空のカタログに初期データを投入します。
	Seed bool `env:"DB_SEED, default=true"`
}

// RedisConfig はルールカタログのキャッシュ用Redis設定です。
// Addr が空の場合、キャッシュなしで動作します。
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB, default=0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL, default=10m"`
}

// Load は .env（存在する場合）と環境変数から設定を読み込みます。
// 必須項目（JWT_SECRET）が欠けている場合はエラーを返します。
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return load(ctx, envconfig.OsLookuper())
}

// load は指定されたLookuperから設定を読み込みます。テストから直接呼び出されます。
func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("config: JWT_SECRET must not be blank")
	}
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.DSN == "" {
		return nil, fmt.Errorf("config: DB_DSN is required when DB_DRIVER=postgres")
	}
	return &cfg, nil
}

// AllowedOrigins はCORS_ORIGINSを分割して返します。
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
