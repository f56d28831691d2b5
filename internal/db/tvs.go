package db

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

func (s *pgStore) CreateTV(name string, description *string, macAddress, createdBy string) (model.TV, error) {
	var tv model.TV
	err := s.db.Get(&tv, `
		INSERT INTO tvs (id, name, description, mac_address, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, name, description, mac_address, status, created_by, created_at
		`, uuid.NewString(), name, description, macAddress, model.TVStatusOffline, createdBy)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create tv")
		return model.TV{}, err
	}
	return tv, nil
}

func (s *pgStore) GetTVByID(id string) (model.TV, error) {
	var tv model.TV
	err := s.db.Get(&tv, `
		SELECT id, name, description, mac_address, status, created_by, created_at
		FROM tvs
		WHERE id = $1
		`, id)
	return tv, err
}

func (s *pgStore) ListTVs(search, status string) ([]model.TV, error) {
	tvs := []model.TV{}
	query := `
		SELECT id, name, description, mac_address, status, created_by, created_at
		FROM tvs
		WHERE 1=1`
	args := []interface{}{}
	argCount := 0
	if search != "" {
		argCount++
		n := strconv.Itoa(argCount)
		query += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`
		args = append(args, "%"+search+"%")
	}
	if status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if err := s.db.Select(&tvs, query, args...); err != nil {
		log.Error().Err(err).Msg("failed to list tvs")
		return nil, err
	}
	return tvs, nil
}

func (s *pgStore) UpdateTV(id string, upd TVUpdate) (model.TV, error) {
	var tv model.TV
	err := s.db.Get(&tv, `
		UPDATE tvs
		SET name        = COALESCE($2, name),
		    description = COALESCE($3, description),
		    mac_address = COALESCE($4, mac_address)
		WHERE id = $1
		RETURNING id, name, description, mac_address, status, created_by, created_at
		`, id, upd.Name, upd.Description, upd.MacAddress)
	if err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("failed to update tv")
		return model.TV{}, err
	}
	return tv, nil
}

func (s *pgStore) SetTVStatus(id, status string) error {
	_, err := s.db.Exec(`UPDATE tvs SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		log.Error().Err(err).Str("tv_id", id).Str("status", status).Msg("failed to set tv status")
	}
	return err
}

// DeleteTV removes the device, its broadcast records, and its id from every
// content target list so no dangling assignments survive.
func (s *pgStore) DeleteTV(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM broadcasts WHERE tv_id = $1`, id); err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("failed to delete broadcasts for tv")
		return err
	}
	if _, err := tx.Exec(`UPDATE content SET selected_tvs = array_remove(selected_tvs, $1)`, id); err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("failed to unassign tv from content")
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tvs WHERE id = $1`, id); err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("failed to delete tv")
		return err
	}
	return tx.Commit()
}
