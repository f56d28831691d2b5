package db

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/model"
)

func (s *pgStore) CreateUser(email, hashedPassword, firstName, lastName, role string) (model.User, error) {
	if role == "" {
		role = "editor"
	}
	var u model.User
	err := s.db.Get(&u, `
		INSERT INTO users (id, email, password, first_name, last_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, email, password, first_name, last_name, role, created_at
		`, uuid.NewString(), email, hashedPassword, firstName, lastName, role)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("failed to create user")
		return model.User{}, err
	}
	return u, nil
}

func (s *pgStore) GetUserByEmail(email string) (model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, email, password, first_name, last_name, role, created_at
		FROM users
		WHERE email = $1
		`, email)
	return u, err
}

func (s *pgStore) GetUserByID(id string) (model.User, error) {
	var u model.User
	err := s.db.Get(&u, `
		SELECT id, email, password, first_name, last_name, role, created_at
		FROM users
		WHERE id = $1
		`, id)
	return u, err
}
