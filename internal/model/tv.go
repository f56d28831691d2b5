package model

import "time"

// TV lifecycle statuses. Only the broadcast session manager writes Status.
const (
	TVStatusOffline      = "offline"
	TVStatusOnline       = "online"
	TVStatusBroadcasting = "broadcasting"
	TVStatusMaintenance  = "maintenance"
)

// TV represents a registered display device.
type TV struct {
	ID          string    `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	Description *string   `db:"description"  json:"description,omitempty"`
	MacAddress  string    `db:"mac_address"  json:"macAddress"`
	Status      string    `db:"status"       json:"status"`
	CreatedBy   string    `db:"created_by"   json:"createdById"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
}
