package endpoints

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/broadcast"
	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/http/api/admin/packets"
	"github.com/Beamline-Tech/beamline/internal/model"
)

type BroadcastController struct {
	store   db.Store
	manager *broadcast.Manager
}

// BroadcastModule mounts the authenticated broadcast control endpoints.
func BroadcastModule(store db.Store, manager *broadcast.Manager) api.Module {
	ctl := &BroadcastController{store: store, manager: manager}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/broadcast", ctl.start)
		c.POST("/broadcast/stop", ctl.stop)
		c.POST("/broadcast/pause-by-tv", ctl.pauseByTv)
		c.POST("/broadcast/resume-by-tv", ctl.resumeByTv)
		c.GET("/broadcasts/:tvId", ctl.listByTv)
	})
}

// POST /api/admin/broadcast
func (b *BroadcastController) start(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.BroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	created, err := b.manager.Start(req.ContentID, req.TvIDs)
	if err != nil {
		if errors.Is(err, broadcast.ErrNoContent) || errors.Is(err, broadcast.ErrNoDevices) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		log.Error().Err(err).Msg("broadcast start failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not start broadcasting"}
	}
	return packets.BroadcastResponse{
		Broadcasts: created,
		Message:    "Broadcasting started successfully",
	}, nil
}

// POST /api/admin/broadcast/stop
func (b *BroadcastController) stop(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.StopBroadcastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	// reject the whole batch up front rather than stopping half of it
	for _, id := range req.BroadcastIDs {
		if _, err := b.store.GetBroadcastByID(id); err != nil {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "broadcast not found"}
		}
	}

	stopped, err := b.manager.Stop(req.BroadcastIDs)
	if err != nil {
		log.Error().Err(err).Msg("broadcast stop failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not stop broadcasting"}
	}
	return packets.BroadcastResponse{
		Broadcasts: stopped,
		Message:    "Broadcasting stopped successfully",
	}, nil
}

// POST /api/admin/broadcast/pause-by-tv
func (b *BroadcastController) pauseByTv(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.ByTvRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	paused, err := b.manager.PauseByDevice(req.TvID)
	if err != nil {
		log.Error().Err(err).Str("tv_id", req.TvID).Msg("broadcast pause failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not pause broadcasting"}
	}
	return packets.BroadcastResponse{Broadcasts: paused, Message: "Broadcasting paused"}, nil
}

// POST /api/admin/broadcast/resume-by-tv
func (b *BroadcastController) resumeByTv(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	var req packets.ByTvRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	resumed, err := b.manager.ResumeByDevice(req.TvID)
	if err != nil {
		log.Error().Err(err).Str("tv_id", req.TvID).Msg("broadcast resume failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not resume broadcasting"}
	}
	return packets.BroadcastResponse{Broadcasts: resumed, Message: "Broadcasting resumed"}, nil
}

// GET /api/admin/broadcasts/:tvId
func (b *BroadcastController) listByTv(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	all, err := b.store.ListBroadcastsByTV(ctx.Param("tvId"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list broadcasts"}
	}
	return all, nil
}
