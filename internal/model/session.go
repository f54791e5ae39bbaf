package model

import (
	"fmt"
	"time"
)

// Session is a named batch of scanned items owned by one user.
type Session struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`

	// Joined fields (admin listing only).
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Session statuses.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// ValidSessionStatus reports whether status is a known session status.
func ValidSessionStatus(status string) bool {
	return status == SessionStatusActive || status == SessionStatusCompleted
}

// DefaultSessionName builds the name given to sessions created without one,
// e.g. "Skeniranje 16. 10. 2026 14:05".
func DefaultSessionName(t time.Time) string {
	return fmt.Sprintf("Skeniranje %d. %d. %d %s", t.Day(), int(t.Month()), t.Year(), t.Format("15:04"))
}
