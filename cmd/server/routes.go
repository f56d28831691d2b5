package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Beamline-Tech/beamline/internal/broadcast"
	"github.com/Beamline-Tech/beamline/internal/bus"
	"github.com/Beamline-Tech/beamline/internal/config"
	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/events"
	"github.com/Beamline-Tech/beamline/internal/http/api"
	adminapi "github.com/Beamline-Tech/beamline/internal/http/api/admin/endpoints"
	tvapi "github.com/Beamline-Tech/beamline/internal/http/api/tv/endpoints"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	store db.Store,
	publisher *events.Publisher,
	manager *broadcast.Manager,
	registry *bus.Registry,
	attach bus.Presence,
	online adminapi.Presence,
) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthModule(cfg.JWTSecret, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Store:     store,
	},
		adminapi.TvModule(store, publisher, online),
		adminapi.ContentModule(store, publisher),
		adminapi.BroadcastModule(store, manager),
		adminapi.ActivityModule(store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		tvapi.DisplayModule(store, registry, attach),
	)
}
