// Package display is the client-side reconciler a display runs: it derives a
// deduplicated, timed playlist from the device's broadcast records and drives
// cyclic advancement through it.
package display

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

// MediaKind orders the media fields of a content record: video wins over
// image, image over document. None is a real playlist slot rendered as a
// placeholder, never silently dropped.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaVideo
	MediaImage
	MediaDocument
)

func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	case MediaImage:
		return "image"
	case MediaDocument:
		return "document"
	default:
		return "none"
	}
}

// MediaRef is the single media choice for an item, decided once when the
// content record is loaded.
type MediaRef struct {
	Kind MediaKind
	URL  string
}

// ResolveMedia picks the item's media by priority.
func ResolveMedia(c model.Content) MediaRef {
	switch {
	case c.VideoURL != nil && *c.VideoURL != "":
		return MediaRef{Kind: MediaVideo, URL: *c.VideoURL}
	case c.ImageURL != nil && *c.ImageURL != "":
		return MediaRef{Kind: MediaImage, URL: *c.ImageURL}
	case c.DocURL != nil && *c.DocURL != "":
		return MediaRef{Kind: MediaDocument, URL: *c.DocURL}
	default:
		return MediaRef{Kind: MediaNone}
	}
}

// Item is one playlist slot.
type Item struct {
	ContentID   string
	Title       string
	Description string
	Media       MediaRef
	Duration    time.Duration
}

// NormalizeDuration guards against malformed records blocking advancement:
// anything under one second plays for the default instead.
func NormalizeDuration(seconds int) time.Duration {
	if seconds < 1 {
		return model.DefaultDuration * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// BuildPlaylist derives the playable sequence for one device from its
// broadcast records. Stopped records are ignored, content referenced by
// several records appears once in first-seen order, and a content id that
// fails to resolve is skipped without aborting the refresh.
func BuildPlaylist(records []model.Broadcast, fetch func(id string) (model.Content, error)) []Item {
	seen := map[string]struct{}{}
	items := []Item{}
	for _, b := range records {
		if b.Status == model.BroadcastStatusStopped {
			continue
		}
		if _, ok := seen[b.ContentID]; ok {
			continue
		}
		seen[b.ContentID] = struct{}{}

		c, err := fetch(b.ContentID)
		if err != nil {
			log.Warn().Err(err).Str("content_id", b.ContentID).Msg("skipping unresolvable content")
			continue
		}

		item := Item{
			ContentID: c.ID,
			Title:     c.Title,
			Media:     ResolveMedia(c),
			Duration:  NormalizeDuration(c.Duration),
		}
		if c.Description != nil {
			item.Description = *c.Description
		}
		items = append(items, item)
	}
	return items
}
