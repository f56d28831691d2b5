package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/model"
)

type ActivityController struct {
	store db.Store
}

// ActivityModule mounts the dashboard activity feed and stats endpoints.
func ActivityModule(store db.Store) api.Module {
	ctl := &ActivityController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/activity", ctl.recent)
		c.GET("/stats", ctl.stats)
	})
}

// GET /api/admin/activity
func (a *ActivityController) recent(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	limit := 50
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid limit"}
		}
		limit = n
	}
	entries, err := a.store.RecentActivity(limit)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load activity"}
	}
	return entries, nil
}

// GET /api/admin/stats
func (a *ActivityController) stats(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	stats, err := a.store.GetStats()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load stats"}
	}
	return stats, nil
}
