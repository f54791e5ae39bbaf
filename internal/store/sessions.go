package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/inventura/internal/model"
)

// sessionSelect selects a session with its computed item totals.
const sessionSelect = `SELECT ss.id, ss.user_id, ss.name, ss.status, ss.created_at, ss.completed_at,
       (SELECT COUNT(*) FROM scan_items WHERE session_id = ss.id) AS item_count,
       (SELECT COALESCE(SUM(quantity), 0) FROM scan_items WHERE session_id = ss.id) AS total_quantity
  FROM scan_sessions ss`

// CreateSession creates a new active session owned by userID.
func CreateSession(ctx context.Context, db *sql.DB, userID int64, name string) (*model.Session, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO scan_sessions (user_id, name) VALUES (?, ?)`,
		userID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting session id: %w", err)
	}

	return GetSession(ctx, db, id)
}

// GetSession returns a session by ID.
func GetSession(ctx context.Context, db *sql.DB, id int64) (*model.Session, error) {
	s := &model.Session{}
	err := db.QueryRowContext(ctx, sessionSelect+` WHERE ss.id = ?`, id).Scan(
		&s.ID, &s.UserID, &s.Name, &s.Status, &s.CreatedAt, &s.CompletedAt, &s.ItemCount, &s.TotalQuantity,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return s, nil
}

// ListUserSessions returns a user's sessions, newest first.
func ListUserSessions(ctx context.Context, db *sql.DB, userID int64) ([]model.Session, error) {
	rows, err := db.QueryContext(ctx,
		sessionSelect+` WHERE ss.user_id = ? ORDER BY ss.created_at DESC, ss.id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Status, &s.CreatedAt, &s.CompletedAt,
			&s.ItemCount, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CompleteSession marks an active session owned by userID as completed.
// Returns ErrNotFound for missing or foreign sessions and ErrSessionCompleted
// if the session was already completed.
func CompleteSession(ctx context.Context, db *sql.DB, id, userID int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE scan_sessions SET status = ?, completed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ? AND status = ?`,
		model.SessionStatusCompleted, id, userID, model.SessionStatusActive,
	)
	if err != nil {
		return fmt.Errorf("completing session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}

	var status string
	err = db.QueryRowContext(ctx,
		`SELECT status FROM scan_sessions WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}
	return ErrSessionCompleted
}

// DeleteSession removes a session owned by userID and all its items.
func DeleteSession(ctx context.Context, db *sql.DB, id, userID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owner int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM scan_sessions WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_items WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("deleting session items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing session deletion: %w", err)
	}
	return nil
}
