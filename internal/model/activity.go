package model

import "time"

const (
	ActivitySuccess = "success"
	ActivityInfo    = "info"
	ActivityWarning = "warning"
	ActivityError   = "error"
)

// Activity is an append-only log entry for the live activity feed.
// Observational only, never authoritative state.
type Activity struct {
	ID        string    `db:"id"         json:"id"`
	Category  string    `db:"category"   json:"category"`
	Message   string    `db:"message"    json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
