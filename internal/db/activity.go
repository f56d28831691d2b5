package db

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

func (s *pgStore) AppendActivity(category, message string) (model.Activity, error) {
	var a model.Activity
	err := s.db.Get(&a, `
		INSERT INTO activity (id, category, message, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, category, message, created_at
		`, uuid.NewString(), category, message)
	if err != nil {
		log.Error().Err(err).Str("category", category).Msg("failed to append activity")
		return model.Activity{}, err
	}
	return a, nil
}

func (s *pgStore) RecentActivity(limit int) ([]model.Activity, error) {
	if limit < 1 {
		limit = 10
	}
	all := []model.Activity{}
	err := s.db.Select(&all, `
		SELECT id, category, message, created_at
		FROM activity
		ORDER BY created_at DESC
		LIMIT $1
		`, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list recent activity")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) GetStats() (Stats, error) {
	var st Stats
	err := s.db.Get(&st, `
		SELECT
		(SELECT count(*) FROM tvs)                                   AS total_tvs,
		(SELECT count(*) FROM content   WHERE status = 'active')     AS active_content,
		(SELECT count(*) FROM broadcasts WHERE status = 'active')    AS broadcasting,
		(SELECT count(*) FROM users)                                 AS users
		`)
	if err != nil {
		log.Error().Err(err).Msg("failed to get stats")
		return Stats{}, err
	}
	return st, nil
}
