// db.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

const schema = `
CREATE TABLE IF NOT EXISTS songbook (
	book TEXT NOT NULL,
	song_number INTEGER NOT NULL,
	title TEXT NOT NULL,
	lyrics TEXT NOT NULL,
	song_key INTEGER NOT NULL DEFAULT 0,
	writer TEXT,
	copyright TEXT,
	ccli TEXT,
	themes TEXT,
	PRIMARY KEY (book, song_number)
);
CREATE TABLE IF NOT EXISTS users (
	chat_id INTEGER PRIMARY KEY,
	username TEXT,
	tg_name TEXT,
	added_at TIMESTAMP NOT NULL,
	sets_viewed INTEGER NOT NULL DEFAULT 0
);`

// DSN builds a libsql connection string from a Turso URL and auth token
func DSN(databaseURL, authToken string) string {
	if authToken == "" {
		return databaseURL
	}
	sep := "?"
	if strings.Contains(databaseURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sauthToken=%s", databaseURL, sep, authToken)
}

// Open connects to the Turso database and verifies the connection
func Open(ctx context.Context, databaseURL, authToken string) (*sql.DB, error) {
	database, err := sql.Open("libsql", DSN(databaseURL, authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", databaseURL, err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

// EnsureSchema creates the songbook and users tables when missing
func EnsureSchema(ctx context.Context, database *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := database.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
