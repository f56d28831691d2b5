package bus

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/events"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Presence is notified when a client attaches or detaches, so dashboards can
// tell which displays are actually connected. Observational only.
type Presence interface {
	Connected(ctx context.Context, id string)
	Disconnected(ctx context.Context, id string)
}

// Handler upgrades the connection and pins the client to its topics. A display
// presents its device id; a dashboard presents a client id. A client with no
// identifier is refused, which keeps targeted delivery honest.
func (r *Registry) Handler(presence Presence) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("device_id")
		if id == "" {
			id = c.Query("client_id")
		}
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing device_id or client_id"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Str("client_id", id).Msg("websocket upgrade failed")
			return
		}

		sub := &subscriber{
			id:     id,
			topics: []string{id, events.GlobalTopic},
			send:   make(chan []byte, sendBuffer),
		}
		r.attach(sub)
		if presence != nil {
			presence.Connected(c.Request.Context(), id)
		}
		log.Info().Str("client_id", id).Msg("realtime client connected")

		go r.writePump(conn, sub)
		r.readPump(conn, sub, presence)
	}
}

// readPump drains inbound frames until the peer goes away; the channel is
// server-to-client, so inbound payloads are ignored.
func (r *Registry) readPump(conn *websocket.Conn, sub *subscriber, presence Presence) {
	// send is never closed: a concurrent Publish may still hold a reference
	// to this subscriber from a pre-detach snapshot. writePump exits on its
	// next failed write instead.
	defer func() {
		r.detach(sub)
		_ = conn.Close()
		if presence != nil {
			presence.Disconnected(context.Background(), sub.id)
		}
		log.Info().Str("client_id", sub.id).Msg("realtime client disconnected")
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

func (r *Registry) writePump(conn *websocket.Conn, sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame := <-sub.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
