package internal

import (
	"doudizhu/internal/domain"
)

// HandProfile summarizes how a hand decomposes into play units.
type HandProfile struct {
	// Combinations is the number of plays a greedy decomposition needs
	// to empty the hand. Fewer means the hand flows out faster.
	Combinations int
	Bombs        int
	HasRocket    bool
	BigCards     int // 2s and jokers
}

// ProfileHand decomposes a hand greedily: rocket, then bombs, then the
// longest straights, then consecutive-pair runs, then one unit per
// leftover rank.
func ProfileHand(hand []domain.Card) HandProfile {
	var profile HandProfile
	if len(hand) == 0 {
		return profile
	}

	counts := domain.RankCounts(hand)
	for r, c := range counts {
		if r >= domain.Rank2 {
			profile.BigCards += c
		}
	}

	if counts[domain.SmallJoker] > 0 && counts[domain.BigJoker] > 0 {
		profile.HasRocket = true
		profile.Combinations++
		delete(counts, domain.SmallJoker)
		delete(counts, domain.BigJoker)
	}

	for r, c := range counts {
		if c == 4 {
			profile.Bombs++
			profile.Combinations++
			delete(counts, r)
		}
	}

	profile.Combinations += extractRuns(counts, 1, minStraightLen)
	profile.Combinations += extractRuns(counts, 2, minPairStraightLen)

	for _, c := range counts {
		if c > 0 {
			profile.Combinations++
		}
	}
	return profile
}

// CombinationCount returns the greedy decomposition size of a hand.
func CombinationCount(hand []domain.Card) int {
	return ProfileHand(hand).Combinations
}

// CanFinishInOne reports whether the entire hand forms one legal play.
func CanFinishInOne(hand []domain.Card) bool {
	if len(hand) == 0 {
		return false
	}
	_, err := domain.Classify(hand)
	return err == nil
}

// SmallestCard returns the lowest card of the hand as a one-card play.
func SmallestCard(hand []domain.Card) []domain.Card {
	if len(hand) == 0 {
		return nil
	}
	return []domain.Card{domain.MinCard(hand)}
}

// HasBigCards reports whether the hand holds a 2 or a joker.
func HasBigCards(hand []domain.Card) bool {
	for _, c := range hand {
		if c.Rank >= domain.Rank2 {
			return true
		}
	}
	return false
}

// extractRuns repeatedly removes the longest run of ranks holding at
// least the given copies and returns how many runs came out.
func extractRuns(counts map[domain.Rank]int, copies, minLen int) int {
	extracted := 0
	for {
		run := longestRun(counts, copies, minLen)
		if run == nil {
			break
		}
		for _, r := range run {
			counts[r] -= copies
			if counts[r] <= 0 {
				delete(counts, r)
			}
		}
		extracted++
	}
	return extracted
}

// longestRun finds the longest consecutive stretch of run-capable ranks
// with enough copies, or nil when none reaches minLen. Ties go to the
// lowest starting rank.
func longestRun(counts map[domain.Rank]int, copies, minLen int) []domain.Rank {
	var best []domain.Rank
	var current []domain.Rank
	for r := domain.Rank3; r <= domain.RankA; r++ {
		if counts[r] >= copies {
			current = append(current, r)
			continue
		}
		if len(current) > len(best) {
			best = current
		}
		current = nil
	}
	if len(current) > len(best) {
		best = current
	}
	if len(best) < minLen {
		return nil
	}
	return best
}
