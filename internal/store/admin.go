package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/inventura/internal/model"
)

// MaxSearchResults caps the admin item search.
const MaxSearchResults = 500

// sqliteTimeLayout matches the text SQLite writes for CURRENT_TIMESTAMP.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SessionFilter selects sessions for the admin listing and the export.
// Zero values mean "no filter". From and To are calendar days (UTC) and are
// both inclusive.
type SessionFilter struct {
	UserID int64
	Status string
	From   time.Time
	To     time.Time
}

// where compiles the filter into a WHERE clause over the scan_sessions alias
// ss. Only placeholders are emitted; values travel in args.
func (f SessionFilter) where() (string, []any) {
	var clauses []string
	var args []any

	if f.UserID > 0 {
		clauses = append(clauses, "ss.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Status != "" {
		clauses = append(clauses, "ss.status = ?")
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		clauses = append(clauses, "ss.created_at >= ?")
		args = append(args, startOfDay(f.From).Format(sqliteTimeLayout))
	}
	if !f.To.IsZero() {
		clauses = append(clauses, "ss.created_at < ?")
		args = append(args, startOfDay(f.To).AddDate(0, 0, 1).Format(sqliteTimeLayout))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ListSessions returns sessions of all users matching f, newest first.
func ListSessions(ctx context.Context, db *sql.DB, f SessionFilter) ([]model.Session, error) {
	where, args := f.where()
	rows, err := db.QueryContext(ctx,
		`SELECT ss.id, ss.user_id, ss.name, ss.status, ss.created_at, ss.completed_at,
		        (SELECT COUNT(*) FROM scan_items WHERE session_id = ss.id) AS item_count,
		        (SELECT COALESCE(SUM(quantity), 0) FROM scan_items WHERE session_id = ss.id) AS total_quantity,
		        u.username, u.display_name
		 FROM scan_sessions ss
		 JOIN users u ON ss.user_id = u.id`+where+`
		 ORDER BY ss.created_at DESC, ss.id DESC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.Status, &s.CreatedAt, &s.CompletedAt,
			&s.ItemCount, &s.TotalQuantity, &s.Username, &s.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ItemSearch selects items for the admin item search.
type ItemSearch struct {
	SKU       string // substring, case-insensitive for ASCII
	UserID    int64
	SessionID int64
}

// SearchItems returns at most MaxSearchResults items matching s, most recent first.
func SearchItems(ctx context.Context, db *sql.DB, s ItemSearch) ([]model.AdminItem, error) {
	query := `SELECT si.id, si.sku, si.quantity, si.scanned_at,
	                 ss.id, ss.name, ss.status,
	                 u.id, u.display_name, u.username
	          FROM scan_items si
	          JOIN scan_sessions ss ON si.session_id = ss.id
	          JOIN users u ON ss.user_id = u.id
	          WHERE 1=1`
	var args []any

	if s.SKU != "" {
		query += ` AND si.sku LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(s.SKU)+"%")
	}
	if s.UserID > 0 {
		query += ` AND u.id = ?`
		args = append(args, s.UserID)
	}
	if s.SessionID > 0 {
		query += ` AND ss.id = ?`
		args = append(args, s.SessionID)
	}

	query += ` ORDER BY si.scanned_at DESC, si.id DESC LIMIT ?`
	args = append(args, MaxSearchResults)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	defer rows.Close()

	var items []model.AdminItem
	for rows.Next() {
		var it model.AdminItem
		if err := rows.Scan(&it.ID, &it.SKU, &it.Quantity, &it.ScannedAt,
			&it.SessionID, &it.SessionName, &it.SessionStatus,
			&it.UserID, &it.DisplayName, &it.Username); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListExportRows returns one row per scanned item in sessions matching f,
// ordered by user, then newest session, then newest scan.
func ListExportRows(ctx context.Context, db *sql.DB, f SessionFilter) ([]model.ExportRow, error) {
	where, args := f.where()
	rows, err := db.QueryContext(ctx,
		`SELECT u.display_name, u.username, ss.name, ss.status, ss.created_at, ss.completed_at,
		        si.sku, si.quantity, si.scanned_at
		 FROM scan_items si
		 JOIN scan_sessions ss ON si.session_id = ss.id
		 JOIN users u ON ss.user_id = u.id`+where+`
		 ORDER BY u.display_name, ss.created_at DESC, ss.id DESC, si.scanned_at DESC, si.id DESC`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing export rows: %w", err)
	}
	defer rows.Close()

	var out []model.ExportRow
	for rows.Next() {
		var r model.ExportRow
		if err := rows.Scan(&r.DisplayName, &r.Username, &r.SessionName, &r.SessionStatus,
			&r.SessionCreatedAt, &r.SessionCompletedAt, &r.SKU, &r.Quantity, &r.ScannedAt); err != nil {
			return nil, fmt.Errorf("scanning export row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListUserSummaries returns per-user totals for users with role "user",
// optionally restricted to one user. Users without sessions are included
// with zero totals.
func ListUserSummaries(ctx context.Context, db *sql.DB, userID int64) ([]model.UserSummary, error) {
	query := `SELECT u.display_name, COUNT(DISTINCT ss.id), COUNT(si.id), COALESCE(SUM(si.quantity), 0)
	          FROM users u
	          LEFT JOIN scan_sessions ss ON u.id = ss.user_id
	          LEFT JOIN scan_items si ON ss.id = si.session_id
	          WHERE u.role = ?`
	args := []any{model.RoleUser}
	if userID > 0 {
		query += ` AND u.id = ?`
		args = append(args, userID)
	}
	query += ` GROUP BY u.id ORDER BY u.display_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing user summaries: %w", err)
	}
	defer rows.Close()

	var out []model.UserSummary
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.DisplayName, &s.Sessions, &s.Items, &s.Quantity); err != nil {
			return nil, fmt.Errorf("scanning user summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetStats returns the admin dashboard counters.
func GetStats(ctx context.Context, db *sql.DB) (*model.Stats, error) {
	s := &model.Stats{}
	err := db.QueryRowContext(ctx,
		`SELECT
		    (SELECT COUNT(*) FROM users WHERE role = 'user'),
		    (SELECT COUNT(*) FROM users WHERE role = 'user' AND active = 1),
		    (SELECT COUNT(*) FROM scan_sessions),
		    (SELECT COUNT(*) FROM scan_sessions WHERE status = 'active'),
		    (SELECT COUNT(*) FROM scan_items),
		    (SELECT COALESCE(SUM(quantity), 0) FROM scan_items)`,
	).Scan(&s.TotalUsers, &s.ActiveUsers, &s.TotalSessions, &s.ActiveSessions, &s.TotalScans, &s.TotalQuantity)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	return s, nil
}
