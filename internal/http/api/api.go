package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Beamline-Tech/beamline/internal/http/middleware"
	"github.com/Beamline-Tech/beamline/internal/model"
)

type APIError struct {
	Code    int
	Message string
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// Controller wraps a gin group so modules can register endpoints that return
// (result, *APIError) instead of writing responses by hand.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth)  { c.Group.GET(path, resolveWithAuth(h)) }
func (c *Controller) POST(path string, h HandlerFuncWithAuth) { c.Group.POST(path, resolveWithAuth(h)) }
func (c *Controller) PUT(path string, h HandlerFuncWithAuth)  { c.Group.PUT(path, resolveWithAuth(h)) }
func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, resolveWithAuth(h))
}

func (c *Controller) PublicGET(path string, h HandlerFunc)  { c.Group.GET(path, resolve(h)) }
func (c *Controller) PublicPOST(path string, h HandlerFunc) { c.Group.POST(path, resolve(h)) }

// Raw registers a plain gin handler, for endpoints that hijack the connection
// (the websocket attach).
func (c *Controller) Raw(method, path string, h gin.HandlerFunc) {
	c.Group.Handle(method, path, h)
}

func resolveWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

func resolve(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}
