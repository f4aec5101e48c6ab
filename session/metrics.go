package session

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/akmonengine/arena/session"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Stats counts what the session did since it was created
type Stats struct {
	Frames      int64
	Substeps    int64
	Goals       int64
	Matches     int64
	BallTouches int64
}

type metrics struct {
	frames   metric.Int64Counter
	substeps metric.Int64Counter
	goals    metric.Int64Counter
	matches  metric.Int64Counter
	touches  metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	mt := &metrics{}

	var err error
	mt.frames, err = m.Int64Counter(
		"arena.frames",
		metric.WithDescription("Frames simulated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	mt.substeps, err = m.Int64Counter(
		"arena.physics.substeps",
		metric.WithDescription("Fixed physics steps taken"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating substeps counter: %w", err)
	}

	mt.goals, err = m.Int64Counter(
		"arena.goals",
		metric.WithDescription("Goals scored, by side"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating goals counter: %w", err)
	}

	mt.matches, err = m.Int64Counter(
		"arena.matches.ended",
		metric.WithDescription("Matches played to the end, by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating matches counter: %w", err)
	}

	mt.touches, err = m.Int64Counter(
		"arena.ball.touches",
		metric.WithDescription("Contacts started between the ball and a car, by car"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating touches counter: %w", err)
	}

	return mt, nil
}

func (m *metrics) frame(steps int) {
	ctx := context.Background()
	m.frames.Add(ctx, 1)
	if steps > 0 {
		m.substeps.Add(ctx, int64(steps))
	}
}

func (m *metrics) goal(side string) {
	m.goals.Add(context.Background(), 1, metric.WithAttributes(attribute.String("side", side)))
}

func (m *metrics) matchEnded(result string) {
	m.matches.Add(context.Background(), 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *metrics) touch(car string) {
	m.touches.Add(context.Background(), 1, metric.WithAttributes(attribute.String("car", car)))
}
