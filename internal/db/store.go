// Store exposes the registry operations the API and the broadcast session
// manager are built on.
package db

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Beamline-Tech/beamline/internal/model"
)

// ContentUpdate carries the optional fields of a content update. Nil fields
// are left unchanged.
type ContentUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
	VideoURL    *string
	DocURL      *string
	Status      *string
	Duration    *int
	SelectedTvs []string
}

// TVUpdate carries the optional fields of a TV update. Status is absent on
// purpose: device status is owned by the broadcast session manager.
type TVUpdate struct {
	Name        *string
	Description *string
	MacAddress  *string
}

// Stats is the dashboard counters block.
type Stats struct {
	TotalTvs      int `db:"total_tvs"      json:"totalTvs"`
	ActiveContent int `db:"active_content" json:"activeContent"`
	Broadcasting  int `db:"broadcasting"   json:"broadcasting"`
	Users         int `db:"users"          json:"users"`
}

type Store interface {
	// user functions
	CreateUser(email, hashedPassword, firstName, lastName, role string) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	GetUserByID(id string) (model.User, error)

	// tv functions
	CreateTV(name string, description *string, macAddress, createdBy string) (model.TV, error)
	GetTVByID(id string) (model.TV, error)
	ListTVs(search, status string) ([]model.TV, error)
	UpdateTV(id string, upd TVUpdate) (model.TV, error)
	SetTVStatus(id, status string) error
	DeleteTV(id string) error

	// content functions
	CreateContent(c model.Content) (model.Content, error)
	GetContentByID(id string) (model.Content, error)
	ListContent(search, status string) ([]model.Content, error)
	UpdateContent(id string, upd ContentUpdate) (model.Content, error)
	DeleteContent(id string) error

	// broadcast functions
	CreateBroadcast(contentID, tvID string) (model.Broadcast, error)
	GetBroadcastByID(id string) (model.Broadcast, error)
	ListBroadcastsByTV(tvID string) ([]model.Broadcast, error)
	SetBroadcastStatus(id, status string, stoppedAt *time.Time) (model.Broadcast, error)

	// activity functions
	AppendActivity(category, message string) (model.Activity, error)
	RecentActivity(limit int) ([]model.Activity, error)

	// dashboard counters
	GetStats() (Stats, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
