package endpoints

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Beamline-Tech/beamline/internal/bus"
	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/http/api"
)

type DisplayController struct {
	store    db.Store
	registry *bus.Registry
	presence bus.Presence
}

// DisplayModule mounts the device-facing endpoints: the broadcast and content
// reads the playlist reconciler polls, and the websocket attach point.
func DisplayModule(store db.Store, registry *bus.Registry, presence bus.Presence) api.Module {
	ctl := &DisplayController{store: store, registry: registry, presence: presence}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PublicGET("/broadcasts/:tvId", ctl.broadcastsByTv)
		c.PublicGET("/content/:id", ctl.contentByID)
		c.Raw(http.MethodGet, "/ws", ctl.registry.Handler(ctl.presence))
	})
}

// GET /api/tv/broadcasts/:tvId
func (d *DisplayController) broadcastsByTv(ctx *gin.Context) (any, *api.APIError) {
	records, err := d.store.ListBroadcastsByTV(ctx.Param("tvId"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list broadcasts"}
	}
	return records, nil
}

// GET /api/tv/content/:id
func (d *DisplayController) contentByID(ctx *gin.Context) (any, *api.APIError) {
	content, err := d.store.GetContentByID(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load content"}
	}
	return content, nil
}
