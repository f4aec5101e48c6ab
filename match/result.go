package match

type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
)

// OutcomeOf classifies a final score. A tie is a loss.
func OutcomeOf(score Score) Outcome {
	if score.Player > score.Opponent {
		return Win
	}
	return Loss
}

const (
	xpPerGoal    = 10
	coinsPerGoal = 5
	winXPBonus   = 50
	winCoinBonus = 25
)

// Rewards returns the experience and coins earned for goals scored
func Rewards(goals int, outcome Outcome) (xp, coins int) {
	xp = goals * xpPerGoal
	coins = goals * coinsPerGoal
	if outcome == Win {
		xp += winXPBonus
		coins += winCoinBonus
	}
	return xp, coins
}

// Result is the record handed to the persistence collaborators at the end of a match
type Result struct {
	PlayerID        string  `json:"player_id"`
	MatchType       string  `json:"match_type"`
	Result          Outcome `json:"result"`
	PlayerGoals     int     `json:"player_goals"`
	OpponentGoals   int     `json:"opponent_goals"`
	DurationSeconds int     `json:"duration_seconds"`
	XPEarned        int     `json:"xp_earned"`
	CoinsEarned     int     `json:"coins_earned"`
}

// Summarize builds the result of a match played by playerID
func Summarize(playerID, matchType string, s *State) Result {
	outcome := OutcomeOf(s.Score)
	xp, coins := Rewards(s.Score.Player, outcome)

	return Result{
		PlayerID:        playerID,
		MatchType:       matchType,
		Result:          outcome,
		PlayerGoals:     s.Score.Player,
		OpponentGoals:   s.Score.Opponent,
		DurationSeconds: s.Elapsed(),
		XPEarned:        xp,
		CoinsEarned:     coins,
	}
}
