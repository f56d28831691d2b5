package model

import "time"

const (
	BroadcastStatusActive  = "active"
	BroadcastStatusPaused  = "paused"
	BroadcastStatusStopped = "stopped"
)

// Broadcast is the authoritative "this content is queued for this device"
// record, distinct from the content's target list.
type Broadcast struct {
	ID        string     `db:"id"         json:"id"`
	ContentID string     `db:"content_id" json:"contentId"`
	TvID      string     `db:"tv_id"      json:"tvId"`
	Status    string     `db:"status"     json:"status"`
	StartedAt time.Time  `db:"started_at" json:"startedAt"`
	StoppedAt *time.Time `db:"stopped_at" json:"stoppedAt,omitempty"`
}
