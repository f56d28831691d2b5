package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/broadcast"
	"github.com/Beamline-Tech/beamline/internal/bus"
	"github.com/Beamline-Tech/beamline/internal/config"
	"github.com/Beamline-Tech/beamline/internal/db"
	"github.com/Beamline-Tech/beamline/internal/events"
	adminapi "github.com/Beamline-Tech/beamline/internal/http/api/admin/endpoints"
	"github.com/Beamline-Tech/beamline/internal/presence"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	conn, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(conn)

	registry := bus.NewRegistry()
	if cfg.MQTTBrokerURL != "" {
		mirror, err := bus.NewMQTTMirror(cfg.MQTTBrokerURL, "beamline-server")
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt connect")
		}
		defer mirror.Close()
		registry.SetMirror(mirror)
	}

	// both stay nil interfaces when Redis is not configured
	var (
		attach bus.Presence
		online adminapi.Presence
	)
	if cfg.RedisAddress != "" {
		tracker := presence.NewTracker(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
		attach = tracker
		online = tracker
	}

	publisher := events.NewPublisher(store, registry)
	manager := broadcast.NewManager(store, registry)

	r := gin.Default()
	RegisterRoutes(r, cfg, store, publisher, manager, registry, attach, online)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
