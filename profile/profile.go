package profile

import (
	"time"

	"github.com/akmonengine/arena/match"
)

const (
	RankBronze   = "Bronze"
	RankSilver   = "Silver"
	RankGold     = "Gold"
	RankPlatinum = "Platinum"
	RankDiamond  = "Diamond"

	DefaultBodyColor = "#3B82F6"
)

// Player is the progression record of a registered player
type Player struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Level     int       `json:"level"`
	XP        int       `json:"xp"`
	Coins     int       `json:"coins"`
	Diamonds  int       `json:"diamonds"`
	Rank      string    `json:"rank"`
	Wins      int       `json:"wins"`
	Losses    int       `json:"losses"`
	Goals     int       `json:"goals"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPlayer returns a fresh profile with the starting wallet
func NewPlayer(id, username, email string) Player {
	return Player{
		ID:        id,
		Username:  username,
		Email:     email,
		Avatar:    "default",
		Level:     1,
		Coins:     1000,
		Diamonds:  50,
		Rank:      RankBronze,
		CreatedAt: time.Now().UTC(),
	}
}

// Customization is the cosmetic setup of the player car. It never affects physics.
type Customization struct {
	PlayerID      string `json:"player_id"`
	CarModel      string `json:"car_model"`
	BodyColor     string `json:"body_color"`
	Decal         string `json:"decal"`
	Wheels        string `json:"wheels"`
	BoostEffect   string `json:"boost_effect"`
	GoalExplosion string `json:"goal_explosion"`
}

func DefaultCustomization(playerID string) Customization {
	return Customization{
		PlayerID:      playerID,
		CarModel:      "default",
		BodyColor:     DefaultBodyColor,
		Decal:         "none",
		Wheels:        "default",
		BoostEffect:   "blue",
		GoalExplosion: "default",
	}
}

// LeaderboardEntry is the public line of a player on the leaderboard
type LeaderboardEntry struct {
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Goals    int    `json:"goals"`
	Rank     string `json:"rank"`
	Level    int    `json:"level"`
}

var rankThresholds = []struct {
	wins int
	rank string
}{
	{50, RankDiamond},
	{30, RankPlatinum},
	{15, RankGold},
	{5, RankSilver},
}

// RankFor returns the rank earned by wins, or current if no threshold is reached
func RankFor(wins int, current string) string {
	for _, threshold := range rankThresholds {
		if wins >= threshold.wins {
			return threshold.rank
		}
	}
	return current
}

// ApplyResult credits a finished match to the player.
// Each level costs level*100 xp, spent as many times as the balance allows.
func ApplyResult(p *Player, result match.Result) {
	p.XP += result.XPEarned
	p.Coins += result.CoinsEarned
	p.Goals += result.PlayerGoals

	if result.Result == match.Win {
		p.Wins++
	} else {
		p.Losses++
	}

	if p.Level < 1 {
		p.Level = 1
	}
	for p.XP >= p.Level*100 {
		p.XP -= p.Level * 100
		p.Level++
	}

	p.Rank = RankFor(p.Wins, p.Rank)
}
