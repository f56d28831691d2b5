// Package broadcast owns the per-device broadcast session: which content is
// actively queued for a device, and the device's lifecycle status. Nothing
// else in the system writes TV status.
package broadcast

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/model"
)

// ErrNoContent rejects a start command with an empty content list. Caller
// error, never retried here.
var ErrNoContent = errors.New("broadcast: no content selected")

// ErrNoDevices rejects a start command with an empty device list.
var ErrNoDevices = errors.New("broadcast: no devices selected")

// Store is the slice of the registry the session manager drives.
type Store interface {
	SetTVStatus(id, status string) error
	CreateBroadcast(contentID, tvID string) (model.Broadcast, error)
	ListBroadcastsByTV(tvID string) ([]model.Broadcast, error)
	SetBroadcastStatus(id, status string, stoppedAt *time.Time) (model.Broadcast, error)
	AppendActivity(category, message string) (model.Activity, error)
}

type Manager struct {
	store Store
	bus   events.Bus
}

func NewManager(store Store, bus events.Bus) *Manager {
	return &Manager{store: store, bus: bus}
}

// Start creates one active broadcast record per (content, device) pair, in the
// input order, and marks each device broadcasting. A persistence failure
// mid-loop is not rolled back: the caller gets the records created so far plus
// the error, and must re-query before retrying.
func (m *Manager) Start(contentIDs, tvIDs []string) ([]model.Broadcast, error) {
	if len(contentIDs) == 0 {
		return nil, ErrNoContent
	}
	if len(tvIDs) == 0 {
		return nil, ErrNoDevices
	}

	created := []model.Broadcast{}
	for _, tvID := range tvIDs {
		for _, contentID := range contentIDs {
			b, err := m.store.CreateBroadcast(contentID, tvID)
			if err != nil {
				log.Error().Err(err).
					Str("content_id", contentID).
					Str("tv_id", tvID).
					Msg("broadcast create failed mid-batch, state indeterminate")
				return created, err
			}
			created = append(created, b)
		}
		if err := m.store.SetTVStatus(tvID, model.TVStatusBroadcasting); err != nil {
			return created, err
		}
		m.signal("start", tvID)
	}

	m.logActivity(model.ActivitySuccess, "Broadcasting started successfully")
	return created, nil
}

// Stop transitions the listed records to stopped. Device status is left to
// caller policy.
func (m *Manager) Stop(broadcastIDs []string) ([]model.Broadcast, error) {
	now := time.Now().UTC()
	stopped := []model.Broadcast{}
	for _, id := range broadcastIDs {
		b, err := m.store.SetBroadcastStatus(id, model.BroadcastStatusStopped, &now)
		if err != nil {
			return stopped, err
		}
		stopped = append(stopped, b)
	}
	for _, tvID := range deviceSet(stopped) {
		m.signal("stop", tvID)
	}
	if len(stopped) > 0 {
		m.logActivity(model.ActivityInfo, "Broadcasting stopped successfully")
	}
	return stopped, nil
}

// StopByDevice stops every non-stopped record for the device. A device with
// nothing playing is a no-op success: dashboards stop speculatively.
func (m *Manager) StopByDevice(tvID string) ([]model.Broadcast, error) {
	all, err := m.store.ListBroadcastsByTV(tvID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	stopped := []model.Broadcast{}
	for _, b := range all {
		if b.Status == model.BroadcastStatusStopped {
			continue
		}
		out, err := m.store.SetBroadcastStatus(b.ID, model.BroadcastStatusStopped, &now)
		if err != nil {
			return stopped, err
		}
		stopped = append(stopped, out)
	}
	if len(stopped) > 0 {
		m.signal("stop", tvID)
		m.logActivity(model.ActivityInfo, "Broadcasting stopped successfully")
	}
	return stopped, nil
}

// PauseByDevice pauses every active record for the device and puts the device
// into maintenance.
func (m *Manager) PauseByDevice(tvID string) ([]model.Broadcast, error) {
	all, err := m.store.ListBroadcastsByTV(tvID)
	if err != nil {
		return nil, err
	}

	paused := []model.Broadcast{}
	for _, b := range all {
		if b.Status != model.BroadcastStatusActive {
			continue
		}
		out, err := m.store.SetBroadcastStatus(b.ID, model.BroadcastStatusPaused, nil)
		if err != nil {
			return paused, err
		}
		paused = append(paused, out)
	}
	if err := m.store.SetTVStatus(tvID, model.TVStatusMaintenance); err != nil {
		return paused, err
	}
	m.signal("pause", tvID)
	return paused, nil
}

// ResumeByDevice flips paused records back to active. The device returns to
// broadcasting only if at least one record actually transitioned.
func (m *Manager) ResumeByDevice(tvID string) ([]model.Broadcast, error) {
	all, err := m.store.ListBroadcastsByTV(tvID)
	if err != nil {
		return nil, err
	}

	resumed := []model.Broadcast{}
	for _, b := range all {
		if b.Status != model.BroadcastStatusPaused {
			continue
		}
		out, err := m.store.SetBroadcastStatus(b.ID, model.BroadcastStatusActive, nil)
		if err != nil {
			return resumed, err
		}
		resumed = append(resumed, out)
	}
	if len(resumed) > 0 {
		if err := m.store.SetTVStatus(tvID, model.TVStatusBroadcasting); err != nil {
			return resumed, err
		}
		m.signal("resume", tvID)
	}
	return resumed, nil
}

func (m *Manager) signal(action, tvID string) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(tvID, events.BroadcastSignal{Action: action, TvID: tvID})
}

func (m *Manager) logActivity(category, message string) {
	if _, err := m.store.AppendActivity(category, message); err != nil {
		log.Error().Err(err).Msg("failed to record broadcast activity")
	}
}

func deviceSet(records []model.Broadcast) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, b := range records {
		if _, ok := seen[b.TvID]; ok {
			continue
		}
		seen[b.TvID] = struct{}{}
		out = append(out, b.TvID)
	}
	return out
}
