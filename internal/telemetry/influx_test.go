package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akmonengine/arena/internal/config"
	"github.com/akmonengine/arena/match"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	points []*influxdb2_write.Point
	err    error
}

func (w *recordingWriter) WritePoint(_ context.Context, point ...*influxdb2_write.Point) error {
	if w.err != nil {
		return w.err
	}
	w.points = append(w.points, point...)
	return nil
}

var result = match.Result{
	PlayerID:        "p1",
	MatchType:       "1v1",
	Result:          match.Win,
	PlayerGoals:     3,
	OpponentGoals:   1,
	DurationSeconds: 300,
	XPEarned:        80,
	CoinsEarned:     40,
}

func TestNewPoint(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	point := NewPoint(result, at)

	assert.Equal(t, Measurement, point.Name())
	assert.Equal(t, at, point.Time())

	tags := map[string]string{}
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"player_id": "p1", "match_type": "1v1", "result": "win"}, tags)

	fields := map[string]interface{}{}
	for _, field := range point.FieldList() {
		fields[field.Key] = field.Value
	}
	assert.Equal(t, int64(3), fields["player_goals"])
	assert.Equal(t, int64(1), fields["opponent_goals"])
	assert.Equal(t, int64(300), fields["duration"])
	assert.Equal(t, int64(80), fields["xp_earned"])
	assert.Equal(t, int64(40), fields["coins_earned"])

	line := influxdb2_write.PointToLineProtocol(point, time.Second)
	assert.True(t, strings.HasPrefix(line, "match_result,"), line)
	assert.Contains(t, line, "xp_earned=80i")
}

func TestSaveMatch(t *testing.T) {
	writer := &recordingWriter{}
	sink := &InfluxSink{Writer: writer, Logger: zerolog.Nop()}

	require.NoError(t, sink.SaveMatch(context.Background(), result))
	require.Len(t, writer.points, 1)
	assert.Equal(t, Measurement, writer.points[0].Name())
}

func TestSaveMatch_WriteError(t *testing.T) {
	writer := &recordingWriter{err: errors.New("connection refused")}
	sink := &InfluxSink{Writer: writer, Logger: zerolog.Nop()}

	err := sink.SaveMatch(context.Background(), result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	sink.Close()
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(context.Background(), config.InfluxConfig{Enabled: false}, zerolog.Nop())
	require.Error(t, err)
}
