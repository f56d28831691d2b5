package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

func (s *pgStore) CreateBroadcast(contentID, tvID string) (model.Broadcast, error) {
	var b model.Broadcast
	err := s.db.Get(&b, `
		INSERT INTO broadcasts (id, content_id, tv_id, status, started_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id, content_id, tv_id, status, started_at, stopped_at
		`, uuid.NewString(), contentID, tvID, model.BroadcastStatusActive)
	if err != nil {
		log.Error().Err(err).
			Str("content_id", contentID).
			Str("tv_id", tvID).
			Msg("failed to create broadcast")
		return model.Broadcast{}, err
	}
	return b, nil
}

func (s *pgStore) GetBroadcastByID(id string) (model.Broadcast, error) {
	var b model.Broadcast
	err := s.db.Get(&b, `
		SELECT id, content_id, tv_id, status, started_at, stopped_at
		FROM broadcasts
		WHERE id = $1
		`, id)
	return b, err
}

func (s *pgStore) ListBroadcastsByTV(tvID string) ([]model.Broadcast, error) {
	all := []model.Broadcast{}
	err := s.db.Select(&all, `
		SELECT id, content_id, tv_id, status, started_at, stopped_at
		FROM broadcasts
		WHERE tv_id = $1
		ORDER BY started_at
		`, tvID)
	if err != nil {
		log.Error().Err(err).Str("tv_id", tvID).Msg("failed to list broadcasts for tv")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) SetBroadcastStatus(id, status string, stoppedAt *time.Time) (model.Broadcast, error) {
	var b model.Broadcast
	err := s.db.Get(&b, `
		UPDATE broadcasts
		SET status = $2,
		    stopped_at = COALESCE($3, stopped_at)
		WHERE id = $1
		RETURNING id, content_id, tv_id, status, started_at, stopped_at
		`, id, status, stoppedAt)
	if err != nil {
		log.Error().Err(err).Str("broadcast_id", id).Str("status", status).Msg("failed to set broadcast status")
		return model.Broadcast{}, err
	}
	return b, nil
}
