// Package events defines the closed set of messages carried on the real-time
// channel. Payloads are typed; the envelope is validated at the channel
// boundary so clients never see an unknown or malformed event kind.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/Beamline-Tech/beamline/internal/model"
)

// GlobalTopic carries content/TV change broadcasts to every dashboard client.
// Display clients additionally subscribe to their own device id.
const GlobalTopic = "global"

// Wire names for the event envelope.
const (
	TypeContentCreated = "content:created"
	TypeContentUpdated = "content:updated"
	TypeContentDeleted = "content:deleted"
	TypeTVCreated      = "tv:created"
	TypeTVUpdated      = "tv:updated"
	TypeTVDeleted      = "tv:deleted"
	TypeActivity       = "activity"
	TypeBroadcast      = "broadcast"
)

// Event is one member of the closed event union.
type Event interface {
	EventType() string
}

type ContentCreated struct {
	Content model.Content `json:"content"`
}

type ContentUpdated struct {
	Content model.Content `json:"content"`
}

type ContentDeleted struct {
	ID string `json:"id"`
}

type TVCreated struct {
	TV model.TV `json:"tv"`
}

type TVUpdated struct {
	TV model.TV `json:"tv"`
}

type TVDeleted struct {
	ID string `json:"id"`
}

// ActivityLogged carries one or more activity feed entries.
type ActivityLogged struct {
	Entries []model.Activity `json:"entries"`
}

// BroadcastSignal is the ad-hoc direct push to one device topic, telling the
// display its broadcast set changed.
type BroadcastSignal struct {
	Action string `json:"action"` // start, stop, pause, resume
	TvID   string `json:"tvId"`
}

func (ContentCreated) EventType() string  { return TypeContentCreated }
func (ContentUpdated) EventType() string  { return TypeContentUpdated }
func (ContentDeleted) EventType() string  { return TypeContentDeleted }
func (TVCreated) EventType() string       { return TypeTVCreated }
func (TVUpdated) EventType() string       { return TypeTVUpdated }
func (TVDeleted) EventType() string       { return TypeTVDeleted }
func (ActivityLogged) EventType() string  { return TypeActivity }
func (BroadcastSignal) EventType() string { return TypeBroadcast }

// Envelope is the wire frame: a name plus the JSON payload for that name.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Marshal frames an event for the wire.
func Marshal(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", e.EventType(), err)
	}
	return json.Marshal(Envelope{Event: e.EventType(), Data: data})
}

// Unmarshal decodes a wire frame back into a member of the union. Unknown
// event names are an error, not a passthrough.
func Unmarshal(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return Decode(env)
}

// Decode resolves an envelope into its concrete event.
func Decode(env Envelope) (Event, error) {
	var e Event
	switch env.Event {
	case TypeContentCreated:
		e = &ContentCreated{}
	case TypeContentUpdated:
		e = &ContentUpdated{}
	case TypeContentDeleted:
		e = &ContentDeleted{}
	case TypeTVCreated:
		e = &TVCreated{}
	case TypeTVUpdated:
		e = &TVUpdated{}
	case TypeTVDeleted:
		e = &TVDeleted{}
	case TypeActivity:
		e = &ActivityLogged{}
	case TypeBroadcast:
		e = &BroadcastSignal{}
	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, e); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Event, err)
		}
	}
	return e, nil
}
