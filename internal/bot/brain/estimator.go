package brain

import (
	"doudizhu/internal/domain"
)

const (
	bombRiskWeight = 3.0
	bigCardWeight  = 1.0
)

// DangerLevel estimates the threat still held by opponents, from the
// point of view of the player holding hand. A rank with all four copies
// unaccounted for may be an opponent bomb; three unaccounted copies
// count half. Every big rank (J through 2) with at least one unseen
// copy adds a point, as do unseen jokers.
func DangerLevel(seen *SeenRanks, hand []domain.Card) float64 {
	held := domain.RankCounts(hand)

	bombRisk := 0.0
	for r := domain.Rank3; r <= domain.Rank2; r++ {
		switch seen.Unseen(r, held[r]) {
		case 4:
			bombRisk += 1.0
		case 3:
			bombRisk += 0.5
		}
	}

	bigCards := 0.0
	for r := domain.RankJ; r <= domain.BigJoker; r++ {
		if seen.Unseen(r, held[r]) > 0 {
			bigCards++
		}
	}

	return bombRisk*bombRiskWeight + bigCards*bigCardWeight
}
