// Package bus is the real-time channel between the server and connected
// dashboard/display clients. Delivery is at-most-once and best-effort: a
// client that is not connected at publish time never sees the event, so every
// consumer runs a periodic full refresh as its correctness backstop.
package bus

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/events"
)

// Mirror is an optional secondary delivery path for device-topic events
// (MQTT-speaking displays).
type Mirror interface {
	Publish(deviceID string, payload []byte)
}

// Registry is the topic-to-subscriber map. It is an explicit object owned by
// the server's connection handling, never a package-level singleton, so tests
// construct it fresh.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	mirror Mirror
}

type subscriber struct {
	id     string
	topics []string
	send   chan []byte
}

func NewRegistry() *Registry {
	return &Registry{topics: make(map[string]map[*subscriber]struct{})}
}

// SetMirror attaches a secondary device-topic delivery path. Call before
// serving connections.
func (r *Registry) SetMirror(m Mirror) { r.mirror = m }

// Publish frames the event and hands it to every current subscriber of the
// topic. Fire and forget: slow subscribers are skipped, nothing is persisted.
func (r *Registry) Publish(topic string, e events.Event) {
	frame, err := events.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to frame event")
		return
	}

	r.mu.RLock()
	subs := make([]*subscriber, 0, len(r.topics[topic]))
	for s := range r.topics[topic] {
		subs = append(subs, s)
	}
	r.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.send <- frame:
		default:
			// buffer full, skip
		}
	}

	if r.mirror != nil && topic != events.GlobalTopic {
		r.mirror.Publish(topic, frame)
	}
}

// Subscribers reports the current subscriber count for a topic.
func (r *Registry) Subscribers(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.topics[topic])
}

func (r *Registry) attach(s *subscriber) {
	r.mu.Lock()
	for _, topic := range s.topics {
		if r.topics[topic] == nil {
			r.topics[topic] = make(map[*subscriber]struct{})
		}
		r.topics[topic][s] = struct{}{}
	}
	r.mu.Unlock()
	log.Debug().Str("client_id", s.id).Msg("client attached")
}

func (r *Registry) detach(s *subscriber) {
	r.mu.Lock()
	for _, topic := range s.topics {
		if m, ok := r.topics[topic]; ok {
			delete(m, s)
			if len(m) == 0 {
				delete(r.topics, topic)
			}
		}
	}
	r.mu.Unlock()
	log.Debug().Str("client_id", s.id).Msg("client detached")
}
