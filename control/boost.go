package control

import "math"

// MaxBoost is the capacity of a full reserve
const MaxBoost = 100.0

// BoostReserve is the boost left to a car, always within [0, MaxBoost]
type BoostReserve float64

func FullBoost() BoostReserve {
	return MaxBoost
}

func (b BoostReserve) Value() float64 {
	return float64(b)
}

func (b BoostReserve) Empty() bool {
	return b <= 0
}

// Spend removes amount from the reserve, never going below zero
func (b *BoostReserve) Spend(amount float64) {
	*b = clampBoost(float64(*b) - amount)
}

// Regen adds amount to the reserve, never going above MaxBoost
func (b *BoostReserve) Regen(amount float64) {
	*b = clampBoost(float64(*b) + amount)
}

func clampBoost(value float64) BoostReserve {
	return BoostReserve(math.Max(0, math.Min(MaxBoost, value)))
}
