// Package db はGORMによるデータベース接続とトランザクション管理を提供します。
package db

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"drive_backend/internal/platform/config"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig は全ドライバー共通のGORM設定です。
// TranslateErrorにより一意制約違反がgorm.ErrDuplicatedKeyに変換されます。
func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
	}
}

// newGormLogger はWarn以上を出力するGORMロガーを生成します。
// 「レコードが見つからない」は通常の分岐なのでエラーとして出力しません。
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// SQLiteDSN はSQLiteファイルパスから外部キーとビジータイムアウトを有効にしたDSNを生成します。
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

// OpenSQLite はSQLiteデータベースを開きます。
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig())
}

// OpenPostgres はPostgreSQLデータベースを開きます。
func OpenPostgres(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// Open は設定に応じたドライバーでデータベースを開きます。
// SQLiteの場合はファイルのディレクトリを作成し、書き込みを単一接続に制限します。
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres":
		return ConnectWithRetry(cfg.DSN, 60*time.Second, OpenPostgres)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		gdb, err := OpenSQLite(SQLiteDSN(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		abs, _ := filepath.Abs(cfg.Path)
		slog.Info("using sqlite database", "path", abs)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// ConnectWithRetry はタイムアウトまでretryInterval間隔で接続を試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		gdb, err := open(dsn)
		if err == nil {
			return gdb, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Migrate は指定されたモデルのテーブルを作成・更新します。
func Migrate(gdb *gorm.DB, models ...any) error {
	if len(models) == 0 {
		return errors.New("no models to migrate")
	}
	if err := gdb.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close は下位の*sql.DBを閉じます。
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
