package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/inventura/internal/model"
)

func mustCreateUser(t *testing.T, db *sql.DB, username, role string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), db, username, "hash", username+" display", role)
	if err != nil {
		t.Fatalf("CreateUser(%q): %v", username, err)
	}
	return u
}

func mustCreateSession(t *testing.T, db *sql.DB, userID int64, name string) *model.Session {
	t.Helper()
	s, err := CreateSession(context.Background(), db, userID, name)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return s
}

func mustAddItem(t *testing.T, db *sql.DB, sessionID, userID int64, sku string, qty int) *model.Item {
	t.Helper()
	it, err := AddItem(context.Background(), db, sessionID, userID, sku, qty)
	if err != nil {
		t.Fatalf("AddItem(%q): %v", sku, err)
	}
	return it
}

func setSessionCreated(t *testing.T, db *sql.DB, sessionID int64, ts string) {
	t.Helper()
	if _, err := db.Exec(`UPDATE scan_sessions SET created_at = ? WHERE id = ?`, ts, sessionID); err != nil {
		t.Fatalf("setting created_at: %v", err)
	}
}
