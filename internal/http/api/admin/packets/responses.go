package packets

import "github.com/Beamline-Tech/beamline/internal/model"

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type BroadcastResponse struct {
	Broadcasts []model.Broadcast `json:"broadcasts"`
	Message    string            `json:"message"`
}

// TVStatusResponse decorates a TV with whether it currently holds a realtime
// connection.
type TVStatusResponse struct {
	model.TV
	Online bool `json:"online"`
}
