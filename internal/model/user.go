package model

import "time"

// User is an operator account. Auth is kept slim: register/login issue JWTs
// consumed by the admin middleware.
type User struct {
	ID        string    `db:"id"         json:"id"`
	Email     string    `db:"email"      json:"email"`
	Password  string    `db:"password"   json:"-"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name"  json:"lastName"`
	Role      string    `db:"role"       json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
