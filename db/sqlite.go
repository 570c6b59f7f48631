package db

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/marcus-crane/whatsong/migrations"

	_ "modernc.org/sqlite"
)

const busyTimeout = 5 * time.Second

// Open connects to the SQLite database at path. Every pooled connection gets
// WAL so readers never wait on the writer, and synchronous=FULL so a commit
// has reached disk before it returns.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("cannot open db at %s: %w", path, err)
	}
	db.SetConnMaxLifetime(time.Hour)
	slog.Info("Initialised DB connection", slog.String("path", path))
	return db, nil
}

// dsn escapes path so that characters like ? and # stay part of the filename
// instead of starting the query or fragment of the file: URI
func dsn(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(FULL)&_pragma=foreign_keys(ON)",
		(&url.URL{Path: path}).EscapedPath(), busyTimeout.Milliseconds(),
	)
}

func ApplyMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.GetMigrations())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return err
	}

	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("must be able to create the initial table schema: %w", err)
	}

	return nil
}
