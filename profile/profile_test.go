package profile

import (
	"testing"

	"github.com/akmonengine/arena/match"
)

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("id", "ace", "ace@example.com")

	if p.Level != 1 || p.Coins != 1000 || p.Diamonds != 50 || p.Rank != RankBronze {
		t.Errorf("unexpected defaults %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Error("creation time should be set")
	}
}

func TestDefaultCustomization(t *testing.T) {
	c := DefaultCustomization("id")
	if c.PlayerID != "id" || c.BodyColor != "#3B82F6" || c.BoostEffect != "blue" || c.Decal != "none" {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestRankFor(t *testing.T) {
	tests := []struct {
		wins int
		want string
	}{
		{0, RankBronze},
		{4, RankBronze},
		{5, RankSilver},
		{15, RankGold},
		{29, RankGold},
		{30, RankPlatinum},
		{50, RankDiamond},
		{120, RankDiamond},
	}

	for _, tt := range tests {
		if got := RankFor(tt.wins, RankBronze); got != tt.want {
			t.Errorf("RankFor(%d) = %s, want %s", tt.wins, got, tt.want)
		}
	}
}

func TestApplyResult(t *testing.T) {
	tests := []struct {
		name      string
		player    Player
		result    match.Result
		wantLevel int
		wantXP    int
		wantRank  string
		wantWins  int
		wantLoss  int
	}{
		{
			name:      "win without level up",
			player:    NewPlayer("p", "p", "p@x"),
			result:    match.Result{Result: match.Win, PlayerGoals: 3, XPEarned: 80, CoinsEarned: 40},
			wantLevel: 1, wantXP: 80, wantRank: RankBronze, wantWins: 1,
		},
		{
			name:      "level up keeps the remainder",
			player:    Player{Level: 1, XP: 50, Rank: RankBronze},
			result:    match.Result{Result: match.Win, PlayerGoals: 2, XPEarned: 70},
			wantLevel: 2, wantXP: 20, wantRank: RankBronze, wantWins: 1,
		},
		{
			name:      "several levels at once",
			player:    Player{Level: 1, XP: 0, Rank: RankBronze},
			result:    match.Result{Result: match.Win, XPEarned: 350},
			wantLevel: 3, wantXP: 50, wantRank: RankBronze, wantWins: 1,
		},
		{
			name:      "fifth win promotes",
			player:    Player{Level: 4, Wins: 4, Rank: RankBronze},
			result:    match.Result{Result: match.Win, XPEarned: 50},
			wantLevel: 4, wantXP: 50, wantRank: RankSilver, wantWins: 5,
		},
		{
			name:      "loss keeps rank",
			player:    Player{Level: 2, Wins: 20, Rank: RankGold},
			result:    match.Result{Result: match.Loss, PlayerGoals: 1, XPEarned: 10},
			wantLevel: 2, wantXP: 10, wantRank: RankGold, wantWins: 20, wantLoss: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.player
			coins, goals := p.Coins, p.Goals

			ApplyResult(&p, tt.result)

			if p.Level != tt.wantLevel || p.XP != tt.wantXP {
				t.Errorf("level/xp = %d/%d, want %d/%d", p.Level, p.XP, tt.wantLevel, tt.wantXP)
			}
			if p.Rank != tt.wantRank {
				t.Errorf("rank = %s, want %s", p.Rank, tt.wantRank)
			}
			if p.Wins != tt.wantWins || p.Losses != tt.wantLoss {
				t.Errorf("wins/losses = %d/%d, want %d/%d", p.Wins, p.Losses, tt.wantWins, tt.wantLoss)
			}
			if p.Coins != coins+tt.result.CoinsEarned || p.Goals != goals+tt.result.PlayerGoals {
				t.Error("coins and goals should be credited")
			}
		})
	}
}
