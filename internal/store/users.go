package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/inventura/internal/model"
)

// UserUpdate holds the optional fields of a user update. Nil fields are left
// unchanged.
type UserUpdate struct {
	DisplayName  *string
	PasswordHash *string
	Active       *bool
	Role         *string
}

const userColumns = `id, username, password_hash, display_name, role, active, created_at`

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Active, &u.CreatedAt)
}

// CreateUser creates a new active user.
func CreateUser(ctx context.Context, db *sql.DB, username, passwordHash, displayName, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, display_name, role) VALUES (?, ?, ?, ?)`,
		username, passwordHash, displayName, role,
	)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, including inactive users.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u := &model.User{}
	err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username,
	), u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}

// ListUsers returns all users with their session and scan counts, newest first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.UserOverview, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT u.id, u.username, u.password_hash, u.display_name, u.role, u.active, u.created_at,
		        (SELECT COUNT(*) FROM scan_sessions ss WHERE ss.user_id = u.id) AS session_count,
		        (SELECT COUNT(*) FROM scan_items si
		           JOIN scan_sessions ss ON si.session_id = ss.id
		          WHERE ss.user_id = u.id) AS total_scans
		 FROM users u
		 ORDER BY u.created_at DESC, u.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.UserOverview
	for rows.Next() {
		var u model.UserOverview
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Active, &u.CreatedAt,
			&u.SessionCount, &u.TotalScans); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser applies the non-nil fields of upd in a single statement.
// Returns ErrNotFound if the user does not exist.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, upd UserUpdate) error {
	var sets []string
	var args []any

	if upd.DisplayName != nil {
		sets = append(sets, "display_name = ?")
		args = append(args, *upd.DisplayName)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.Active != nil {
		sets = append(sets, "active = ?")
		args = append(args, *upd.Active)
	}
	if upd.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *upd.Role)
	}

	if len(sets) == 0 {
		u, err := GetUser(ctx, db, id)
		if err != nil {
			return err
		}
		if u == nil {
			return ErrNotFound
		}
		return nil
	}

	args = append(args, id)
	result, err := db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireAffected(result)
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	return UpdateUser(ctx, db, id, UserUpdate{PasswordHash: &passwordHash})
}

// DeleteUser removes a user together with all their sessions and items.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scan_items WHERE session_id IN (SELECT id FROM scan_sessions WHERE user_id = ?)`, id,
	); err != nil {
		return fmt.Errorf("deleting user items: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scan_sessions WHERE user_id = ?`, id,
	); err != nil {
		return fmt.Errorf("deleting user sessions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing user deletion: %w", err)
	}
	return nil
}

// HasAdmin reports whether at least one admin account exists.
func HasAdmin(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE role = ?)`, model.RoleAdmin,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking for admin: %w", err)
	}
	return exists, nil
}

// requireAffected returns ErrNotFound when a statement touched no rows.
func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
