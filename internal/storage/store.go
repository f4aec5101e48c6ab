package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akmonengine/arena/internal/config"
	"github.com/akmonengine/arena/match"
	"github.com/akmonengine/arena/profile"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrNoChanges      = errors.New("no fields to update")
)

const defaultLimit = 10

// Store keeps player profiles, customizations and match results
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// New wraps an open connection. Call Migrate before use on a fresh database.
func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{DB: db, Logger: log}
}

// Open connects to the backend selected by cfg.Type and migrates the schema
func Open(cfg config.StorageConfig, dbCfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	var db *gorm.DB
	var err error

	switch cfg.Type {
	case "postgres":
		db, err = openPostgres(dbCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres DB: %w", err)
		}
		log.Info().Str("host", dbCfg.Host).Str("database", dbCfg.Database).Msg("Connected to Postgres DB")
	case "sqlite", "":
		db, err = openSqlite(cfg.Sqlite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
		}
		log.Info().Str("path", cfg.Sqlite.Path).Msg("Using local SQLite DB")
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	s := New(db, log)
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func openPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// openSqlite opens the database file at path, in memory when path is empty
func openSqlite(path string) (*gorm.DB, error) {
	if path == "" {
		path = "file::memory:?cache=shared"
	}

	return gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// CreatePlayer registers a new player with the starting wallet and a default customization
func (s *Store) CreatePlayer(ctx context.Context, username, email string) (profile.Player, error) {
	player := profile.NewPlayer(uuid.NewString(), username, email)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Player{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		row := playerFromProfile(player)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		custom := Customization{ID: uuid.NewString(), PlayerID: player.ID}
		custom.apply(profile.DefaultCustomization(player.ID))
		return tx.Create(&custom).Error
	})
	if err != nil {
		return profile.Player{}, fmt.Errorf("create player %s: %w", email, err)
	}

	s.Logger.Debug().Str("player", player.ID).Msg("Player created")
	return player, nil
}

func (s *Store) Player(ctx context.Context, id string) (profile.Player, error) {
	var row Player
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return profile.Player{}, fmt.Errorf("player %s: %w", id, notFound(err))
	}
	return playerToProfile(row), nil
}

// PlayerUpdate is a partial profile change. Nil fields are left as stored.
type PlayerUpdate struct {
	Username *string
	Avatar   *string
	Level    *int
	XP       *int
	Coins    *int
	Diamonds *int
	Rank     *string
	Wins     *int
	Losses   *int
	Goals    *int
}

func (u PlayerUpdate) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	for name, value := range map[string]*string{"username": u.Username, "avatar": u.Avatar, "rank": u.Rank} {
		if value != nil {
			cols[name] = *value
		}
	}
	for name, value := range map[string]*int{
		"level": u.Level, "xp": u.XP, "coins": u.Coins, "diamonds": u.Diamonds,
		"wins": u.Wins, "losses": u.Losses, "goals": u.Goals,
	} {
		if value != nil {
			cols[name] = *value
		}
	}
	return cols
}

// UpdatePlayer applies the set fields of u to the player and returns the stored profile
func (s *Store) UpdatePlayer(ctx context.Context, id string, u PlayerUpdate) (profile.Player, error) {
	cols := u.columns()
	if len(cols) == 0 {
		return profile.Player{}, fmt.Errorf("update player %s: %w", id, ErrNoChanges)
	}

	var row Player
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Player{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return profile.Player{}, fmt.Errorf("update player %s: %w", id, notFound(err))
	}
	return playerToProfile(row), nil
}

func (s *Store) PlayerByEmail(ctx context.Context, email string) (profile.Player, error) {
	var row Player
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		return profile.Player{}, fmt.Errorf("player %s: %w", email, notFound(err))
	}
	return playerToProfile(row), nil
}

// Customization returns the car setup of the player, creating the default one on first access
func (s *Store) Customization(ctx context.Context, playerID string) (profile.Customization, error) {
	row, err := s.customization(s.DB.WithContext(ctx), playerID)
	if err != nil {
		return profile.Customization{}, fmt.Errorf("customization %s: %w", playerID, err)
	}
	return customizationToProfile(row), nil
}

func (s *Store) customization(tx *gorm.DB, playerID string) (Customization, error) {
	var row Customization
	err := tx.Where("player_id = ?", playerID).First(&row).Error
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Customization{}, err
	}

	row = Customization{ID: uuid.NewString(), PlayerID: playerID}
	row.apply(profile.DefaultCustomization(playerID))
	if err := tx.Create(&row).Error; err != nil {
		return Customization{}, err
	}
	return row, nil
}

// UpdateCustomization replaces the car setup of c.PlayerID
func (s *Store) UpdateCustomization(ctx context.Context, c profile.Customization) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.customization(tx, c.PlayerID)
		if err != nil {
			return err
		}
		row.apply(c)
		return tx.Save(&row).Error
	})
	if err != nil {
		return fmt.Errorf("update customization %s: %w", c.PlayerID, err)
	}
	return nil
}

// SaveMatch stores the result and credits it to the player, if registered
func (s *Store) SaveMatch(ctx context.Context, result match.Result) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := MatchResult{
			MatchID:       uuid.NewString(),
			PlayerID:      result.PlayerID,
			MatchType:     result.MatchType,
			Result:        string(result.Result),
			PlayerGoals:   result.PlayerGoals,
			OpponentGoals: result.OpponentGoals,
			Duration:      result.DurationSeconds,
			XPEarned:      result.XPEarned,
			CoinsEarned:   result.CoinsEarned,
			Timestamp:     time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		var player Player
		err := tx.Where("id = ?", result.PlayerID).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Logger.Warn().Str("player", result.PlayerID).Msg("Match saved for unknown player")
			return nil
		}
		if err != nil {
			return err
		}

		p := playerToProfile(player)
		profile.ApplyResult(&p, result)
		updated := playerFromProfile(p)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return fmt.Errorf("save match of %s: %w", result.PlayerID, err)
	}
	return nil
}

// RecentMatches returns the last matches of the player, newest first
func (s *Store) RecentMatches(ctx context.Context, playerID string, limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var rows []MatchResult
	err := s.DB.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("matches of %s: %w", playerID, err)
	}

	records := make([]MatchRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, matchToRecord(row))
	}
	return records, nil
}

// Leaderboard lists the players with the most wins
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]profile.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	var rows []Player
	err := s.DB.WithContext(ctx).
		Order("wins desc").Order("goals desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]profile.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, profile.LeaderboardEntry{
			Username: row.Username,
			Wins:     row.Wins,
			Goals:    row.Goals,
			Rank:     row.Rank,
			Level:    row.Level,
		})
	}
	return entries, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
