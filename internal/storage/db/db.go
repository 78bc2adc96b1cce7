package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DanRulev/vocadrill/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
	item_key   TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

func InitDB(cfg config.DBConfig) (*sqlx.DB, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed db ping: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func open(cfg config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case "sqlite3":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed create db dir: %w", err)
			}
		}
		db, err := sqlx.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=ON")
		if err != nil {
			return nil, fmt.Errorf("failed open db connect: %w", err)
		}
		// sqlite allows a single writer.
		db.SetMaxOpenConns(1)
		return db, nil

	case "postgres":
		if cfg.Conn == nil {
			return nil, errors.New("postgres connection settings are missing")
		}
		dsn := fmt.Sprintf("host=%v port=%v dbname=%v user=%v password=%v sslmode=%v",
			cfg.Conn.Host, cfg.Conn.Port, cfg.Conn.Name, cfg.Conn.User, cfg.Conn.Password, cfg.Conn.SSL)
		db, err := sqlx.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed open db connect: %w", err)
		}

		db.SetMaxOpenConns(cfg.Cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Cfg.ConnMaxLifeTime)
		db.SetConnMaxIdleTime(cfg.Cfg.ConnMaxIdleTime)
		return db, nil
	}

	return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
}

// Migrate creates the key-value table when it does not exist.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed migrate db: %w", err)
	}
	return nil
}
