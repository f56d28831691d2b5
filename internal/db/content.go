package db

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

const contentColumns = `
	id, title, description, image_url, video_url, doc_url,
	status, duration, selected_tvs, created_by, created_at`

func (s *pgStore) CreateContent(c model.Content) (model.Content, error) {
	if c.Status == "" {
		c.Status = model.ContentStatusDraft
	}
	if c.Duration < 1 {
		c.Duration = model.DefaultDuration
	}
	if c.SelectedTvs == nil {
		c.SelectedTvs = pq.StringArray{}
	}

	var out model.Content
	err := s.db.Get(&out, `
		INSERT INTO content
		(id, title, description, image_url, video_url, doc_url, status, duration, selected_tvs, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		RETURNING `+contentColumns,
		uuid.NewString(), c.Title, c.Description, c.ImageURL, c.VideoURL, c.DocURL,
		c.Status, c.Duration, c.SelectedTvs, c.CreatedBy)
	if err != nil {
		log.Error().Err(err).Str("title", c.Title).Msg("failed to create content")
		return model.Content{}, err
	}
	return out, nil
}

func (s *pgStore) GetContentByID(id string) (model.Content, error) {
	var c model.Content
	err := s.db.Get(&c, `SELECT `+contentColumns+` FROM content WHERE id = $1`, id)
	return c, err
}

func (s *pgStore) ListContent(search, status string) ([]model.Content, error) {
	all := []model.Content{}
	query := `SELECT ` + contentColumns + ` FROM content WHERE 1=1`
	args := []interface{}{}
	argCount := 0
	if search != "" {
		argCount++
		n := strconv.Itoa(argCount)
		query += ` AND (title ILIKE $` + n + ` OR description ILIKE $` + n + `)`
		args = append(args, "%"+search+"%")
	}
	if status != "" {
		argCount++
		query += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`
	if err := s.db.Select(&all, query, args...); err != nil {
		log.Error().Err(err).Msg("failed to list content")
		return nil, err
	}
	return all, nil
}

func (s *pgStore) UpdateContent(id string, upd ContentUpdate) (model.Content, error) {
	var selected interface{}
	if upd.SelectedTvs != nil {
		selected = pq.StringArray(upd.SelectedTvs)
	}

	var c model.Content
	err := s.db.Get(&c, `
		UPDATE content
		SET title        = COALESCE($2, title),
		    description  = COALESCE($3, description),
		    image_url    = COALESCE($4, image_url),
		    video_url    = COALESCE($5, video_url),
		    doc_url      = COALESCE($6, doc_url),
		    status       = COALESCE($7, status),
		    duration     = COALESCE($8, duration),
		    selected_tvs = COALESCE($9, selected_tvs)
		WHERE id = $1
		RETURNING `+contentColumns,
		id, upd.Title, upd.Description, upd.ImageURL, upd.VideoURL, upd.DocURL,
		upd.Status, upd.Duration, selected)
	if err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("failed to update content")
		return model.Content{}, err
	}
	return c, nil
}

func (s *pgStore) DeleteContent(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM broadcasts WHERE content_id = $1`, id); err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("failed to delete broadcasts for content")
		return err
	}
	if _, err := tx.Exec(`DELETE FROM content WHERE id = $1`, id); err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("failed to delete content")
		return err
	}
	return tx.Commit()
}
