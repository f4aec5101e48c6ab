package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akmonengine/arena/input"
	"github.com/akmonengine/arena/internal/config"
	"github.com/akmonengine/arena/internal/hudfeed"
	"github.com/akmonengine/arena/internal/logging"
	"github.com/akmonengine/arena/internal/storage"
	"github.com/akmonengine/arena/internal/telemetry"
	"github.com/akmonengine/arena/session"
	"github.com/rs/zerolog"
)

// Plays one match with a scripted driver. The config directory is the first argument, "." by default.
func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	loadErr := config.Load(configDir)
	log := logging.New(nil, config.GetString("logLevel"))
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("Using default configuration")
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks []session.ResultSink
	var source session.ProfileSource
	playerID := cfg.Player.ID

	if cfg.Storage.Enabled {
		store, err := storage.Open(cfg.Storage, cfg.DB, logging.Component(log, "storage"))
		if err != nil {
			log.Error().Err(err).Msg("Storage unavailable, results will not be saved")
		} else {
			defer store.Close()
			source = store
			sinks = append(sinks, store)
			playerID = ensurePlayer(ctx, store, cfg.Player, log)
		}
	}

	if cfg.Influx.Enabled {
		sink, err := telemetry.Connect(ctx, cfg.Influx, logging.Component(log, "influx"))
		if err != nil {
			log.Error().Err(err).Msg("InfluxDB unavailable")
		} else {
			defer sink.Close()
			sinks = append(sinks, sink)
		}
	}

	var publisher session.Publisher
	if cfg.HUD.Enabled {
		hub := hudfeed.NewHub(logging.Component(log, "hudfeed"))
		publisher = hub

		mux := http.NewServeMux()
		mux.Handle("/hud", hub.Handler())
		server := &http.Server{
			Addr:              cfg.HUD.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("HUD server error")
			}
		}()
		defer server.Close()
		log.Info().Str("address", cfg.HUD.Address).Msg("HUD feed listening")
	}

	opts := session.DefaultOptions()
	opts.MatchDuration = cfg.Match.DurationSeconds
	opts.MatchType = cfg.Match.Type
	opts.FrameRate = cfg.Loop.FrameRate
	opts.Pitch.Gravity = cfg.Physics.Gravity
	opts.Pitch.FixedStep = cfg.Physics.FixedStep
	opts.Pitch.MaxSubsteps = cfg.Physics.MaxSubsteps
	opts.Pitch.MaxFrameTime = cfg.Physics.MaxFrameTime

	s, err := session.New(logging.Component(log, "session"), opts, publisher, sinks...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}

	s.Setup(ctx, source, playerID)
	s.Start()

	driveCtx, stopDrive := context.WithCancel(ctx)
	go drive(driveCtx, s)

	err = s.Run(ctx)
	stopDrive()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Session stopped")
	}
	if err := s.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close session")
	}

	stats := s.Stats()
	log.Info().Int64("frames", stats.Frames).Int64("substeps", stats.Substeps).
		Int64("goals", stats.Goals).Int64("touches", stats.BallTouches).Msg("Session finished")
}

// ensurePlayer returns the id of the configured player, registering it on first run
func ensurePlayer(ctx context.Context, store *storage.Store, cfg config.PlayerConfig, log zerolog.Logger) string {
	if cfg.ID != "" || cfg.Email == "" {
		return cfg.ID
	}

	player, err := store.PlayerByEmail(ctx, cfg.Email)
	if errors.Is(err, storage.ErrNotFound) {
		player, err = store.CreatePlayer(ctx, cfg.Username, cfg.Email)
	}
	if err != nil {
		log.Warn().Err(err).Str("email", cfg.Email).Msg("Failed to resolve player, playing as guest")
		return ""
	}
	return player.ID
}

// drive holds throttle, taps boost and alternates steering every two seconds
func drive(ctx context.Context, s *session.Session) {
	s.Post(func(state *input.State) { state.KeyDown(input.KeyW) })

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	left := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			turn, release := input.KeyA, input.KeyD
			if !left {
				turn, release = release, turn
			}
			left = !left
			s.Post(func(state *input.State) {
				state.KeyUp(release)
				state.KeyDown(turn)
				if state.Pressed(input.KeySpace) {
					state.KeyUp(input.KeySpace)
				} else {
					state.KeyDown(input.KeySpace)
				}
			})
		}
	}
}
