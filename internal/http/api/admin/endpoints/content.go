package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	"github.com/Beamline-Tech/beamline/internal/http/api/admin/packets"
	"github.com/Beamline-Tech/beamline/internal/model"
)

type ContentController struct {
	store     db.Store
	publisher *events.Publisher
}

// ContentModule mounts all authenticated /content endpoints.
func ContentModule(store db.Store, publisher *events.Publisher) api.Module {
	ctl := &ContentController{store: store, publisher: publisher}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/content", ctl.listContent)
		c.POST("/content", ctl.createContent)
		c.GET("/content/:id", ctl.getContent)
		c.PUT("/content/:id", ctl.updateContent)
		c.DELETE("/content/:id", ctl.deleteContent)
	})
}

// GET /api/admin/content
func (c *ContentController) listContent(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	all, err := c.store.ListContent(ctx.Query("search"), ctx.Query("status"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list content"}
	}
	return all, nil
}

// POST /api/admin/content
func (c *ContentController) createContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.CreateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	content, err := c.publisher.CreateContent(model.Content{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		DocURL:      req.DocURL,
		Status:      req.Status,
		Duration:    req.Duration,
		SelectedTvs: req.SelectedTvs,
		CreatedBy:   user.ID,
	})
	if err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("could not create content")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create content"}
	}
	return content, nil
}

// GET /api/admin/content/:id
func (c *ContentController) getContent(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	content, err := c.store.GetContentByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}
	return content, nil
}

// PUT /api/admin/content/:id
func (c *ContentController) updateContent(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if _, err := c.store.GetContentByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}

	var req packets.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	content, err := c.publisher.UpdateContent(id, db.ContentUpdate{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		DocURL:      req.DocURL,
		Status:      req.Status,
		Duration:    req.Duration,
		SelectedTvs: req.SelectedTvs,
	})
	if err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("could not update content")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update content"}
	}
	return content, nil
}

// DELETE /api/admin/content/:id
func (c *ContentController) deleteContent(ctx *gin.Context, _ *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	if _, err := c.store.GetContentByID(id); err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}

	if err := c.publisher.DeleteContent(id); err != nil {
		log.Error().Err(err).Str("content_id", id).Msg("could not delete content")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete content"}
	}
	return packets.MessageResponse{Message: "Content deleted successfully"}, nil
}
