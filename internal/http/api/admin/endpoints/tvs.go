package endpoints

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/http/api/admin/packets"
	"github.com/Beamline-Tech/beamline/internal/model"
)

// Presence reports whether a device currently holds a realtime connection.
// Nil disables the decoration.
type Presence interface {
	Online(ctx context.Context, id string) bool
}

type TvController struct {
	store     db.Store
	publisher *events.Publisher
	presence  Presence
}

// TvModule mounts all authenticated /tvs endpoints. Every mutation goes
// through the change publisher so connected clients observe it.
func TvModule(store db.Store, publisher *events.Publisher, presence Presence) api.Module {
	ctl := &TvController{store: store, publisher: publisher, presence: presence}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/tvs", ctl.listTVs)
		c.POST("/tvs", ctl.createTV)
		c.GET("/tvs/:id", ctl.getTV)
		c.PUT("/tvs/:id", ctl.updateTV)
		c.DELETE("/tvs/:id", ctl.deleteTV)
	})
}

// GET /api/admin/tvs
func (t *TvController) listTVs(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	all, err := t.store.ListTVs(ctx.Query("search"), ctx.Query("status"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list tvs"}
	}

	out := make([]packets.TVStatusResponse, 0, len(all))
	for _, tv := range all {
		entry := packets.TVStatusResponse{TV: tv}
		if t.presence != nil {
			entry.Online = t.presence.Online(ctx.Request.Context(), tv.ID)
		}
		out = append(out, entry)
	}
	return out, nil
}

// POST /api/admin/tvs
func (t *TvController) createTV(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateTVRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	tv, err := t.publisher.CreateTV(req.Name, req.Description, req.MacAddress, user.ID)
	if err != nil {
		log.Error().Err(err).Str("name", req.Name).Msg("could not create tv")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create tv"}
	}
	return tv, nil
}

// GET /api/admin/tvs/:id
func (t *TvController) getTV(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	tv, err := t.store.GetTVByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "tv not found"}
	}
	return tv, nil
}

// PUT /api/admin/tvs/:id
func (t *TvController) updateTV(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if _, err := t.store.GetTVByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "tv not found"}
	}

	var req packets.UpdateTVRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	tv, err := t.publisher.UpdateTV(id, db.TVUpdate{
		Name:        req.Name,
		Description: req.Description,
		MacAddress:  req.MacAddress,
	})
	if err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("could not update tv")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update tv"}
	}
	return tv, nil
}

// DELETE /api/admin/tvs/:id
func (t *TvController) deleteTV(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if _, err := t.store.GetTVByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "tv not found"}
	}

	if err := t.publisher.DeleteTV(id); err != nil {
		log.Error().Err(err).Str("tv_id", id).Msg("could not delete tv")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete tv"}
	}
	return packets.MessageResponse{Message: "TV deleted successfully"}, nil
}
