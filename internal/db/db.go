package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// memoryPath is the SQLite name for a private in-memory database.
const memoryPath = ":memory:"

// Open opens a SQLite database connection and configures pragmas.
//
// Pragmas are passed through the DSN so that every pooled connection gets
// them, not only the first one. synchronous=FULL makes each commit durable.
func Open(path string) (*sql.DB, error) {
	pragmas := []string{
		"busy_timeout(5000)",
		"foreign_keys(1)",
		"synchronous(FULL)",
	}
	if path != memoryPath {
		pragmas = append(pragmas, "journal_mode(WAL)")
	}

	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}

	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return db, nil
}
