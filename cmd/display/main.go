package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Beamline-Tech/beamline/internal/display"
	"github.com/Beamline-Tech/beamline/internal/events"
)

// A headless display runner: keeps the local playlist converged with the
// server and logs whatever the player would be showing. A real screen embeds
// the same pieces behind its renderer.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	serverURL := os.Getenv("SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	deviceID := os.Getenv("DEVICE_ID")
	if deviceID == "" {
		log.Fatal().Msg("DEVICE_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := display.NewClient(serverURL, deviceID)
	player := display.NewPlayer(func(item display.Item) {
		log.Info().
			Str("content_id", item.ContentID).
			Str("title", item.Title).
			Str("media", item.Media.Kind.String()).
			Dur("duration", item.Duration).
			Msg("now showing")
	})
	reconciler := display.NewReconciler(deviceID, client, player)

	go func() {
		err := client.Listen(ctx,
			func() {
				if err := reconciler.Refresh(ctx); err != nil {
					log.Warn().Err(err).Msg("refresh after attach failed")
				}
			},
			func(e events.Event) {
				reconciler.HandleEvent(ctx, e)
			},
		)
		if err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("realtime link lost for good; relying on periodic refresh")
		}
	}()

	reconciler.Run(ctx)
}
