package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/model"
)

// RefreshInterval is the periodic full-refresh backstop against missed bus
// events.
const RefreshInterval = 30 * time.Second

// Fetcher resolves server state for one device.
type Fetcher interface {
	Broadcasts(ctx context.Context, tvID string) ([]model.Broadcast, error)
	Content(ctx context.Context, id string) (model.Content, error)
}

// Reconciler keeps one display's local playlist converged with server-side
// assignment state. Two independent triggers feed the same idempotent
// refresh: bus events naming this device, and the periodic timer.
type Reconciler struct {
	deviceID string
	fetch    Fetcher
	player   *Player
	interval time.Duration

	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
}

func NewReconciler(deviceID string, fetch Fetcher, player *Player) *Reconciler {
	return &Reconciler{
		deviceID: deviceID,
		fetch:    fetch,
		player:   player,
		interval: RefreshInterval,
	}
}

// SetInterval overrides the periodic backstop interval.
func (r *Reconciler) SetInterval(d time.Duration) { r.interval = d }

// Refresh derives the full playlist from scratch and applies it, unless a
// newer refresh finished first: refreshes may overlap, and the last-completed
// one wins via the sequence counter.
func (r *Reconciler) Refresh(ctx context.Context) error {
	r.mu.Lock()
	r.nextSeq++
	seq := r.nextSeq
	r.mu.Unlock()

	records, err := r.fetch.Broadcasts(ctx, r.deviceID)
	if err != nil {
		return fmt.Errorf("fetch broadcasts for %s: %w", r.deviceID, err)
	}

	items := BuildPlaylist(records, func(id string) (model.Content, error) {
		return r.fetch.Content(ctx, id)
	})

	// the check and the apply must be one critical section: a stale refresh
	// that passed the check must not apply after a newer one already did.
	// SetPlaylist releases the player's own lock before onShow, so holding
	// r.mu across it cannot deadlock.
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.appliedSeq {
		log.Debug().Str("device_id", r.deviceID).Msg("discarding stale refresh result")
		return nil
	}
	r.appliedSeq = seq
	r.player.SetPlaylist(items)
	return nil
}

// HandleEvent triggers an immediate full refresh when the event concerns this
// device. The payload is never patched in locally: delivery is at-most-once,
// so a refetch is the only way to guarantee convergence.
func (r *Reconciler) HandleEvent(ctx context.Context, e events.Event) {
	if !r.relevant(e) {
		return
	}
	if err := r.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("device_id", r.deviceID).Msg("event-triggered refresh failed")
	}
}

func (r *Reconciler) relevant(e events.Event) bool {
	switch ev := e.(type) {
	case *events.ContentCreated:
		return ev.Content.Targets(r.deviceID)
	case *events.ContentUpdated:
		return ev.Content.Targets(r.deviceID)
	case *events.ContentDeleted:
		// deletion payload carries no target list; refetch to be safe
		return true
	case *events.BroadcastSignal:
		return ev.TvID == r.deviceID
	case *events.TVDeleted:
		return ev.ID == r.deviceID
	default:
		return false
	}
}

// Run performs an initial refresh and then drives the periodic backstop until
// the context is cancelled. The pending advance timer is stopped on the way
// out.
func (r *Reconciler) Run(ctx context.Context) {
	if err := r.Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("device_id", r.deviceID).Msg("initial refresh failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer r.player.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				log.Warn().Err(err).Str("device_id", r.deviceID).Msg("periodic refresh failed")
			}
		}
	}
}
