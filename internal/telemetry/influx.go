package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akmonengine/arena/internal/config"
	"github.com/akmonengine/arena/match"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
)

// Measurement is the name of the points written for finished matches
const Measurement = "match_result"

// PointWriter is the blocking write side of an InfluxDB bucket
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*influxdb2_write.Point) error
}

// InfluxSink records match results as points
type InfluxSink struct {
	Writer PointWriter
	Logger zerolog.Logger

	client influxdb2.Client
}

// Connect opens a client on the configured server and checks it answers
func Connect(ctx context.Context, cfg config.InfluxConfig, log zerolog.Logger) (*InfluxSink, error) {
	if !cfg.Enabled {
		return nil, errors.New("influx.enabled is false")
	}

	client := influxdb2.NewClientWithOptions(
		fmt.Sprintf("%s://%s:%s", cfg.Protocol, cfg.Host, cfg.Port),
		cfg.Token,
		influxdb2.DefaultOptions(),
	)

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = errors.New("server not ready")
		}
		return nil, fmt.Errorf("failed to reach InfluxDB: %w", err)
	}

	log.Info().Str("org", cfg.Org).Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return &InfluxSink{
		Writer: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		Logger: log,
		client: client,
	}, nil
}

// NewPoint converts a result to a point stamped at
func NewPoint(result match.Result, at time.Time) *influxdb2_write.Point {
	return influxdb2.NewPoint(Measurement,
		map[string]string{
			"player_id":  result.PlayerID,
			"match_type": result.MatchType,
			"result":     string(result.Result),
		},
		map[string]interface{}{
			"player_goals":   result.PlayerGoals,
			"opponent_goals": result.OpponentGoals,
			"duration":       result.DurationSeconds,
			"xp_earned":      result.XPEarned,
			"coins_earned":   result.CoinsEarned,
		},
		at,
	)
}

func (s *InfluxSink) SaveMatch(ctx context.Context, result match.Result) error {
	if err := s.Writer.WritePoint(ctx, NewPoint(result, time.Now().UTC())); err != nil {
		return fmt.Errorf("error sending match result to InfluxDB: %w", err)
	}
	s.Logger.Debug().Str("player", result.PlayerID).Msg("Match result sent to InfluxDB")
	return nil
}

func (s *InfluxSink) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
