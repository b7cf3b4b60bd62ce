package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sukalov/cifrabot/internal/utils"
	"github.com/sukalov/cifrabot/internal/utils/e"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open connects to a libsql (Turso) database
func Open(ctx context.Context, url, authToken string) (*DB, error) {
	dsn := url
	if authToken != "" {
		dsn = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	conn, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", url, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(25)
	conn.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(conn), nil
}

// OpenFromEnv reads TURSO_DATABASE_URL and the optional TURSO_AUTH_TOKEN
func OpenFromEnv(ctx context.Context) (*DB, error) {
	env, err := utils.LoadEnv([]string{"TURSO_DATABASE_URL"})
	if err != nil {
		return nil, fmt.Errorf("failed to load db env: %w", err)
	}
	token := utils.OptionalEnv([]string{"TURSO_AUTH_TOKEN"})["TURSO_AUTH_TOKEN"]
	return Open(ctx, env["TURSO_DATABASE_URL"], token)
}

// New wraps an already opened connection
func New(conn *sql.DB) *DB {
	return &DB{conn: conn, now: time.Now}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		chat_id INTEGER PRIMARY KEY,
		username TEXT,
		tg_name TEXT,
		added_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS songbook (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		url TEXT NOT NULL,
		artist TEXT NOT NULL,
		title TEXT NOT NULL,
		original_key TEXT,
		request TEXT,
		saved_at INTEGER NOT NULL,
		counter INTEGER NOT NULL DEFAULT 0,
		UNIQUE (chat_id, url)
	)`,
}

// Migrate creates the tables if they do not exist yet
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}
	return nil
}

// Close closes the database connection safely
func (d *DB) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return e.WrapIfErr("failed to close database", d.conn.Close())
}
