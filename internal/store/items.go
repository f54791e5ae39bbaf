package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/inventura/internal/model"
)

// AddItem adds an item to an active session owned by userID. The ownership
// and status check happen in the same statement as the insert.
// Returns ErrNotFound if no such active session exists.
func AddItem(ctx context.Context, db *sql.DB, sessionID, userID int64, sku string, quantity int) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO scan_items (session_id, sku, quantity)
		 SELECT id, ?, ? FROM scan_sessions WHERE id = ? AND user_id = ? AND status = ?`,
		sku, quantity, sessionID, userID, model.SessionStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("adding item: %w", err)
	}
	if err := requireAffected(result); err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item := &model.Item{}
	err := db.QueryRowContext(ctx,
		`SELECT id, session_id, sku, quantity, scanned_at FROM scan_items WHERE id = ?`, id,
	).Scan(&item.ID, &item.SessionID, &item.SKU, &item.Quantity, &item.ScannedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListSessionItems returns the items of a session, most recent first.
func ListSessionItems(ctx context.Context, db *sql.DB, sessionID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, session_id, sku, quantity, scanned_at
		 FROM scan_items WHERE session_id = ?
		 ORDER BY scanned_at DESC, id DESC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.SessionID, &item.SKU, &item.Quantity, &item.ScannedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateItemQuantity changes the quantity of an item whose session is active
// and owned by userID. Returns ErrNotFound otherwise.
func UpdateItemQuantity(ctx context.Context, db *sql.DB, id, userID int64, quantity int) error {
	result, err := db.ExecContext(ctx,
		`UPDATE scan_items SET quantity = ?
		 WHERE id = ? AND session_id IN (
		     SELECT id FROM scan_sessions WHERE user_id = ? AND status = ?)`,
		quantity, id, userID, model.SessionStatusActive,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return requireAffected(result)
}

// DeleteItem removes an item from a session owned by userID, whatever the
// session status. Returns ErrNotFound otherwise.
func DeleteItem(ctx context.Context, db *sql.DB, id, userID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM scan_items
		 WHERE id = ? AND session_id IN (SELECT id FROM scan_sessions WHERE user_id = ?)`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return requireAffected(result)
}
