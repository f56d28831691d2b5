package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	ContentStatusDraft     = "draft"
	ContentStatusActive    = "active"
	ContentStatusScheduled = "scheduled"
	ContentStatusArchived  = "archived"
)

// DefaultDuration is substituted for missing or sub-second durations.
const DefaultDuration = 15

// Content is a media record with a target-device list and a playback duration.
type Content struct {
	ID          string         `db:"id"           json:"id"`
	Title       string         `db:"title"        json:"title"`
	Description *string        `db:"description"  json:"description,omitempty"`
	ImageURL    *string        `db:"image_url"    json:"imageUrl,omitempty"`
	VideoURL    *string        `db:"video_url"    json:"videoUrl,omitempty"`
	DocURL      *string        `db:"doc_url"      json:"docUrl,omitempty"`
	Status      string         `db:"status"       json:"status"`
	Duration    int            `db:"duration"     json:"duration"`
	SelectedTvs pq.StringArray `db:"selected_tvs" json:"selectedTvs"`
	CreatedBy   string         `db:"created_by"   json:"createdById"`
	CreatedAt   time.Time      `db:"created_at"   json:"createdAt"`
}

// Targets reports whether the content's target list names the given device.
func (c Content) Targets(tvID string) bool {
	for _, id := range c.SelectedTvs {
		if id == tvID {
			return true
		}
	}
	return false
}
