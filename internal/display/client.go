package display

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/model"
)

// Reconnect policy: the bus replays nothing, so the client re-requests full
// state after every successful attach and gives up after maxAttempts.
const (
	maxAttempts    = 10
	initialBackoff = 1 * time.Second
	maxBackoff     = 5 * time.Second
)

// Client talks to the server's TV-facing API and realtime channel on behalf
// of one display device.
type Client struct {
	baseURL  string
	deviceID string
	httpc    *http.Client
}

var _ Fetcher = (*Client)(nil)

func NewClient(baseURL, deviceID string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		deviceID: deviceID,
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Broadcasts(ctx context.Context, tvID string) ([]model.Broadcast, error) {
	var out []model.Broadcast
	err := c.getJSON(ctx, "/api/tv/broadcasts/"+url.PathEscape(tvID), &out)
	return out, err
}

func (c *Client) Content(ctx context.Context, id string) (model.Content, error) {
	var out model.Content
	err := c.getJSON(ctx, "/api/tv/content/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Listen holds the realtime channel open, decoding frames into typed events.
// onAttach fires after every successful (re)connect so the caller can run the
// convergence refresh. Reconnects use capped backoff; a run of maxAttempts
// consecutive failures ends the listen with an error.
func (c *Client) Listen(ctx context.Context, onAttach func(), onEvent func(events.Event)) error {
	wsURL, err := c.websocketURL()
	if err != nil {
		return err
	}

	attempts := 0
	backoff := initialBackoff
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			attempts++
			if attempts >= maxAttempts {
				return fmt.Errorf("realtime channel unreachable after %d attempts: %w", attempts, err)
			}
			log.Warn().Err(err).Int("attempt", attempts).Msgf("connect failed, retrying in %s", backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		attempts = 0
		backoff = initialBackoff
		if onAttach != nil {
			onAttach()
		}
		c.readLoop(ctx, conn, onEvent)
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, onEvent func(events.Event)) {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Warn().Err(err).Str("device_id", c.deviceID).Msg("realtime channel closed")
			return
		}
		e, err := events.Unmarshal(raw)
		if err != nil {
			log.Warn().Err(err).Msg("discarding malformed event")
			continue
		}
		if onEvent != nil {
			onEvent(e)
		}
	}
}

func (c *Client) websocketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/tv/ws"
	u.RawQuery = url.Values{"device_id": []string{c.deviceID}}.Encode()
	return u.String(), nil
}
