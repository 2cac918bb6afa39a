package models

// Tier is a loyalty rank derived from a user's point balance
type Tier string

const (
	TierBasic    Tier = "Basic"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// TierThresholds is the authoritative threshold table, ordered from lowest to
// highest rank. A tier covers the closed-open interval [MinPoints, next tier's
// MinPoints), so a balance sitting exactly on a boundary belongs to the higher
// tier. All tier math in the codebase must go through this table.
var TierThresholds = []struct {
	Tier      Tier
	MinPoints int
}{
	{TierBasic, 0},
	{TierSilver, 500},
	{TierGold, 1000},
	{TierPlatinum, 1500},
}

// TierForPoints maps a point balance to its tier
func TierForPoints(points int) Tier {
	tier := TierBasic
	for _, t := range TierThresholds {
		if points >= t.MinPoints {
			tier = t.Tier
		}
	}
	return tier
}

// Rank returns the position of the tier in the tier order (Basic = 0).
// Unknown tier values rank as Basic so a corrupt record can only be upgraded.
func (t Tier) Rank() int {
	for i, threshold := range TierThresholds {
		if threshold.Tier == t {
			return i
		}
	}
	return 0
}

// NextTier returns the tier above the given balance and the points still
// needed to reach it. ok is false when the balance is already Platinum.
func NextTier(points int) (next Tier, pointsToNext int, ok bool) {
	for _, t := range TierThresholds {
		if points < t.MinPoints {
			return t.Tier, t.MinPoints - points, true
		}
	}
	return "", 0, false
}
