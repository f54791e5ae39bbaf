package model

import "time"

// Item is one scanned SKU and quantity inside a session.
type Item struct {
	ID        int64     `json:"id"`
	SessionID int64     `json:"session_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	ScannedAt time.Time `json:"scanned_at"`
}

// DefaultQuantity is used when an item is added without a quantity.
const DefaultQuantity = 1

// AdminItem is an item joined with its session and owner for the admin search.
type AdminItem struct {
	ID            int64     `json:"id"`
	SKU           string    `json:"sku"`
	Quantity      int       `json:"quantity"`
	ScannedAt     time.Time `json:"scanned_at"`
	SessionID     int64     `json:"session_id"`
	SessionName   string    `json:"session_name"`
	SessionStatus string    `json:"session_status"`
	UserID        int64     `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Username      string    `json:"username"`
}
