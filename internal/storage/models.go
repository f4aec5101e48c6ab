package storage

import (
	"time"

	"github.com/akmonengine/arena/match"
	"github.com/akmonengine/arena/profile"
)

// Models is the list of tables of the schema
var Models = []interface{}{
	&Player{},
	&Customization{},
	&MatchResult{},
}

type Player struct {
	ID        string `gorm:"primaryKey;size:36"`
	Username  string `gorm:"size:64"`
	Email     string `gorm:"size:255;uniqueIndex"`
	Avatar    string `gorm:"size:64"`
	Level     int
	XP        int
	Coins     int
	Diamonds  int
	Rank      string `gorm:"size:16"`
	Wins      int    `gorm:"index"`
	Losses    int
	Goals     int
	CreatedAt time.Time
}

func (Player) TableName() string { return "players" }

type Customization struct {
	ID            string `gorm:"primaryKey;size:36"`
	PlayerID      string `gorm:"size:36;uniqueIndex"`
	CarModel      string `gorm:"size:64"`
	BodyColor     string `gorm:"size:16"`
	Decal         string `gorm:"size:64"`
	Wheels        string `gorm:"size:64"`
	BoostEffect   string `gorm:"size:64"`
	GoalExplosion string `gorm:"size:64"`
	UpdatedAt     time.Time
}

func (Customization) TableName() string { return "customizations" }

type MatchResult struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	MatchID       string `gorm:"size:36;uniqueIndex"`
	PlayerID      string `gorm:"size:36;index"`
	MatchType     string `gorm:"size:16"`
	Result        string `gorm:"size:8"`
	PlayerGoals   int
	OpponentGoals int
	Duration      int
	XPEarned      int
	CoinsEarned   int
	Timestamp     time.Time `gorm:"index"`
}

func (MatchResult) TableName() string { return "match_results" }

// MatchRecord is a stored match result
type MatchRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	match.Result
}

func playerToProfile(row Player) profile.Player {
	return profile.Player{
		ID:        row.ID,
		Username:  row.Username,
		Email:     row.Email,
		Avatar:    row.Avatar,
		Level:     row.Level,
		XP:        row.XP,
		Coins:     row.Coins,
		Diamonds:  row.Diamonds,
		Rank:      row.Rank,
		Wins:      row.Wins,
		Losses:    row.Losses,
		Goals:     row.Goals,
		CreatedAt: row.CreatedAt,
	}
}

func playerFromProfile(p profile.Player) Player {
	return Player{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		Avatar:    p.Avatar,
		Level:     p.Level,
		XP:        p.XP,
		Coins:     p.Coins,
		Diamonds:  p.Diamonds,
		Rank:      p.Rank,
		Wins:      p.Wins,
		Losses:    p.Losses,
		Goals:     p.Goals,
		CreatedAt: p.CreatedAt,
	}
}

func customizationToProfile(row Customization) profile.Customization {
	return profile.Customization{
		PlayerID:      row.PlayerID,
		CarModel:      row.CarModel,
		BodyColor:     row.BodyColor,
		Decal:         row.Decal,
		Wheels:        row.Wheels,
		BoostEffect:   row.BoostEffect,
		GoalExplosion: row.GoalExplosion,
	}
}

func (row *Customization) apply(c profile.Customization) {
	row.CarModel = c.CarModel
	row.BodyColor = c.BodyColor
	row.Decal = c.Decal
	row.Wheels = c.Wheels
	row.BoostEffect = c.BoostEffect
	row.GoalExplosion = c.GoalExplosion
}

func matchToRecord(row MatchResult) MatchRecord {
	return MatchRecord{
		ID:        row.MatchID,
		Timestamp: row.Timestamp,
		Result: match.Result{
			PlayerID:        row.PlayerID,
			MatchType:       row.MatchType,
			Result:          match.Outcome(row.Result),
			PlayerGoals:     row.PlayerGoals,
			OpponentGoals:   row.OpponentGoals,
			DurationSeconds: row.Duration,
			XPEarned:        row.XPEarned,
			CoinsEarned:     row.CoinsEarned,
		},
	}
}
