package model

import "time"

// ExportRow is one scanned item joined with its session and user, in export
// column order.
type ExportRow struct {
	DisplayName        string
	Username           string
	SessionName        string
	SessionStatus      string
	SessionCreatedAt   time.Time
	SessionCompletedAt *time.Time
	SKU                string
	Quantity           int
	ScannedAt          time.Time
}

// UserSummary holds per-user totals for the export summary sheet.
type UserSummary struct {
	DisplayName string
	Sessions    int
	Items       int
	Quantity    int
}

// Stats holds dashboard counters.
type Stats struct {
	TotalUsers     int `json:"totalUsers"`
	ActiveUsers    int `json:"activeUsers"`
	TotalSessions  int `json:"totalSessions"`
	ActiveSessions int `json:"activeSessions"`
	TotalScans     int `json:"totalScans"`
	TotalQuantity  int `json:"totalQuantity"`
}
