package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the embedded SQLite database at the given path and
// verifies the connection. A path of ":memory:" yields a private
// in-memory database, which the tests rely on.
func Open(path string) (*sql.DB, error) {
	// _busy_timeout lets concurrent request handlers wait for the
	// single writer instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers internally; a single pooled connection
	// avoids lock contention between handlers entirely.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
