package storage

import (
	"context"
	"testing"

	"github.com/akmonengine/arena/internal/config"
	"github.com/akmonengine/arena/match"
	"github.com/akmonengine/arena/profile"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	s := New(db, zerolog.Nop())
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreatePlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := s.Player(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ace", got.Username)
	assert.Equal(t, 1, got.Level)
	assert.Equal(t, 1000, got.Coins)
	assert.Equal(t, 50, got.Diamonds)
	assert.Equal(t, profile.RankBronze, got.Rank)

	byEmail, err := s.PlayerByEmail(ctx, "ace@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	custom, err := s.Customization(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.DefaultBodyColor, custom.BodyColor)
}

func TestCreatePlayer_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)

	_, err = s.CreatePlayer(ctx, "other", "ace@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestPlayer_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Player(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PlayerByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)

	avatar := "robot"
	diamonds := 75
	updated, err := s.UpdatePlayer(ctx, created.ID, PlayerUpdate{Avatar: &avatar, Diamonds: &diamonds})
	require.NoError(t, err)
	assert.Equal(t, "robot", updated.Avatar)
	assert.Equal(t, 75, updated.Diamonds)

	// untouched fields keep their stored values
	assert.Equal(t, "ace", updated.Username)
	assert.Equal(t, 1000, updated.Coins)
	assert.Equal(t, 1, updated.Level)

	got, err := s.Player(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdatePlayer_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)

	_, err = s.UpdatePlayer(ctx, created.ID, PlayerUpdate{})
	assert.ErrorIs(t, err, ErrNoChanges)

	level := 3
	_, err = s.UpdatePlayer(ctx, "missing", PlayerUpdate{Level: &level})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomization_DefaultOnMiss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Customization(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, profile.DefaultCustomization("guest-1"), first)

	second, err := s.Customization(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var count int64
	require.NoError(t, s.DB.Model(&Customization{}).Where("player_id = ?", "guest-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateCustomization(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	player, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)

	custom := profile.DefaultCustomization(player.ID)
	custom.BodyColor = "#EF4444"
	custom.Decal = "flames"
	require.NoError(t, s.UpdateCustomization(ctx, custom))

	got, err := s.Customization(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestSaveMatch_AppliesProgression(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	player, err := s.CreatePlayer(ctx, "ace", "ace@example.com")
	require.NoError(t, err)

	win := match.Result{
		PlayerID:        player.ID,
		MatchType:       match.DefaultMatchType,
		Result:          match.Win,
		PlayerGoals:     3,
		OpponentGoals:   1,
		DurationSeconds: 300,
		XPEarned:        80,
		CoinsEarned:     40,
	}
	require.NoError(t, s.SaveMatch(ctx, win))
	require.NoError(t, s.SaveMatch(ctx, win))

	got, err := s.Player(ctx, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 60, got.XP)
	assert.Equal(t, 1080, got.Coins)
	assert.Equal(t, 6, got.Goals)
	assert.Equal(t, 2, got.Wins)
	assert.Equal(t, 0, got.Losses)

	matches, err := s.RecentMatches(ctx, player.ID, 0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, win, matches[0].Result)
	assert.NotEmpty(t, matches[0].ID)
	assert.NotEqual(t, matches[0].ID, matches[1].ID)
}

func TestSaveMatch_UnknownPlayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	result := match.Result{PlayerID: "ghost", MatchType: "1v1", Result: match.Loss}
	require.NoError(t, s.SaveMatch(ctx, result))

	matches, err := s.RecentMatches(ctx, "ghost", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRecentMatches_NewestFirstAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for goals := 0; goals < 5; goals++ {
		require.NoError(t, s.SaveMatch(ctx, match.Result{PlayerID: "p", Result: match.Loss, PlayerGoals: goals}))
	}

	matches, err := s.RecentMatches(ctx, "p", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, 4, matches[0].PlayerGoals)
	assert.Equal(t, 3, matches[1].PlayerGoals)
	assert.Equal(t, 2, matches[2].PlayerGoals)
}

func TestLeaderboard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	wins := map[string]int{"a@x": 1, "b@x": 5, "c@x": 3}
	for email, n := range wins {
		p, err := s.CreatePlayer(ctx, email, email)
		require.NoError(t, err)
		for iter := 0; iter < n; iter++ {
			require.NoError(t, s.SaveMatch(ctx, match.Result{PlayerID: p.ID, Result: match.Win, PlayerGoals: 1}))
		}
	}

	board, err := s.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "b@x", board[0].Username)
	assert.Equal(t, 5, board[0].Wins)
	assert.Equal(t, profile.RankSilver, board[0].Rank)
	assert.Equal(t, "c@x", board[1].Username)
}

func TestOpen_UnknownType(t *testing.T) {
	_, err := Open(config.StorageConfig{Type: "mongo"}, config.DBConfig{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}

func TestOpen_SqliteFile(t *testing.T) {
	path := t.TempDir() + "/arena.db"

	s, err := Open(config.StorageConfig{Type: "sqlite", Sqlite: config.SqliteConfig{Path: path}}, config.DBConfig{}, zerolog.Nop())
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	_, err = s.CreatePlayer(context.Background(), "ace", "ace@example.com")
	require.NoError(t, err)
}
