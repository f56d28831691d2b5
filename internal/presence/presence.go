// Package presence tracks which realtime clients are currently attached,
// backed by Redis keys with a TTL. It is observational: device lifecycle
// status stays with the broadcast session manager.
package presence

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyTTL = 90 * time.Second

type Tracker struct {
	rdb *redis.Client
}

func NewTracker(address, username, password string) *Tracker {
	return &Tracker{rdb: redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})}
}

func (t *Tracker) Connected(ctx context.Context, id string) {
	if err := t.rdb.Set(ctx, key(id), time.Now().UTC().Format(time.RFC3339), keyTTL).Err(); err != nil {
		log.Warn().Err(err).Str("client_id", id).Msg("failed to record presence")
	}
}

func (t *Tracker) Disconnected(ctx context.Context, id string) {
	if err := t.rdb.Del(ctx, key(id)).Err(); err != nil {
		log.Warn().Err(err).Str("client_id", id).Msg("failed to clear presence")
	}
}

// Online reports whether a client currently holds a live connection.
func (t *Tracker) Online(ctx context.Context, id string) bool {
	n, err := t.rdb.Exists(ctx, key(id)).Result()
	if err != nil {
		log.Warn().Err(err).Str("client_id", id).Msg("failed to check presence")
		return false
	}
	return n > 0
}

func key(id string) string { return "presence:" + id }
