package internal

import (
	"math"

	"doudizhu/internal/bot/brain"
	"doudizhu/internal/domain"
)

// Position is the seat relation to the landlord.
type Position int

const (
	PositionLandlord Position = iota
	// PositionLandlordUp acts immediately before the landlord.
	PositionLandlordUp
	// PositionLandlordDown acts immediately after the landlord.
	PositionLandlordDown
)

// TurnContext carries the game-state facts move scoring needs.
type TurnContext struct {
	Position      Position
	OpponentCount int
	// Standing is the play to beat; the zero value means a fresh trick.
	Standing domain.ClassifiedPlay
	Seen     *brain.SeenRanks
}

// IsLandlord reports whether the acting player holds the landlord role.
func (c TurnContext) IsLandlord() bool {
	return c.Position == PositionLandlord
}

// Weights collects every scoring constant in one tunable table.
type Weights struct {
	// Lead scoring.
	HandOptimizationScale float64
	ThreatBase            float64
	LandlordThreatCoef    float64
	FarmerThreatCoef      float64

	// Control bonuses.
	LongRunControlBonus float64
	BombControlBonus    float64
	TrioProbeBonus      float64

	// Seat-position bonuses.
	LandlordLowSingleBonus float64
	LandlordLowPairBonus   float64
	LandlordBigExposeBonus float64
	UpSeatHighCardBonus    float64
	DownSeatLowCardBonus   float64

	// Lead priority tiers.
	LowSinglePriority  float64
	LowPairPriority    float64
	TrioPriority       float64
	TrioAttachPriority float64
	RunPriority        float64
	BombPriority       float64
	RocketPriority     float64
	NearEmptyPriority  float64

	// Follow scoring.
	FollowFitBase         float64
	FollowNearStep        float64
	FollowFarStep         float64
	DestructionPenalty    float64
	EmptyHandControlBonus float64
	NearEmptyControlBonus float64

	// Endgame scoring.
	EndgameBaseScale float64
	FinishProbScale  float64
	FarmerFinishCoef float64

	// Bomb gate: when the estimated opponent threat falls to or below
	// this floor, cashing a bomb to take control is considered safe.
	DangerFloor float64
}

// BaseWeight is the per-shape strength table, scaled by the highest
// rank in the play and by run length for the run shapes.
func BaseWeight(play domain.ClassifiedPlay, cards []domain.Card) float64 {
	maxPoint := float64(domain.MaxRank(cards))
	switch play.Shape {
	case domain.Single:
		return 0.5 + (maxPoint-3)*0.1
	case domain.Pair:
		return 1.0 + (maxPoint-3)*0.15
	case domain.Trio:
		return 2.0
	case domain.TrioSingle:
		return 1.5 + (maxPoint-3)*0.15
	case domain.TrioPair:
		return 2.0 + (maxPoint-3)*0.15
	case domain.Straight:
		return 3.0 + float64(play.Length-5)*0.5
	case domain.PairStraight:
		return 3.5 + float64(play.Length/2-3)*1.0
	case domain.Plane:
		return 4.0 + float64(play.Length/3-2)*1.5
	case domain.PlaneSingle:
		return 3.5 + float64(play.Length/4-2)*1.2
	case domain.PlanePair:
		return 4.0 + float64(play.Length/5-2)*1.3
	case domain.FourWithTwo:
		return 4.5
	case domain.Bomb:
		return 8.0
	case domain.Rocket:
		return 10.0
	default:
		return 1.0
	}
}

// HandOptimizationWeight rewards plays that shrink the greedy
// decomposition of the hand.
func (w Weights) HandOptimizationWeight(hand []domain.Card, move CandidateMove) float64 {
	remaining := domain.RemoveCards(hand, move.Cards)
	return float64(CombinationCount(hand)-CombinationCount(remaining)) * w.HandOptimizationScale
}

// ThreatWeight grows as the hand approaches empty; landlords press
// harder than farmers.
func (w Weights) ThreatWeight(remaining int, landlord bool) float64 {
	coef := w.FarmerThreatCoef
	if landlord {
		coef = w.LandlordThreatCoef
	}
	return w.ThreatBase / float64(remaining+1) * coef
}

// ControlWeight rewards plays that are hard to answer: long runs, bombs
// against multiple live opponents, and probing trios whose nearby lower
// ranks have mostly been seen.
func (w Weights) ControlWeight(move CandidateMove, ctx TurnContext) float64 {
	weight := 0.0
	switch move.Play.Shape {
	case domain.Straight, domain.PairStraight:
		if move.Play.Length >= 6 {
			weight += w.LongRunControlBonus
		}
	case domain.Bomb:
		if ctx.OpponentCount >= 2 {
			weight += w.BombControlBonus
		}
	case domain.Trio:
		counters := 0
		for r := move.Play.Key - 2; r < move.Play.Key; r++ {
			if r >= domain.Rank3 && ctx.Seen.Count(r) > 0 {
				counters++
			}
		}
		if counters >= 2 {
			weight += w.TrioProbeBonus
		}
	}
	return weight
}

// PositionWeight applies the seat strategy: landlords shed low singles
// and pairs early and avoid exposing 2s and jokers; the farmer before
// the landlord spends high cards, the one after spends low ones.
func (w Weights) PositionWeight(move CandidateMove, ctx TurnContext) float64 {
	maxRank := domain.MaxRank(move.Cards)
	if ctx.IsLandlord() {
		if move.Play.Shape == domain.Single && maxRank <= domain.Rank10 {
			return w.LandlordLowSingleBonus
		}
		if move.Play.Shape == domain.Pair && maxRank <= domain.Rank8 {
			return w.LandlordLowPairBonus
		}
		if maxRank >= domain.Rank2 {
			return w.LandlordBigExposeBonus
		}
		return 0
	}
	if ctx.Position == PositionLandlordUp && maxRank >= domain.RankJ {
		return w.UpSeatHighCardBonus
	}
	if ctx.Position == PositionLandlordDown && maxRank <= domain.Rank10 {
		return w.DownSeatLowCardBonus
	}
	return 0
}

// PriorityWeight assigns the lead shape tier, unbounded for a play that
// empties the hand.
func (w Weights) PriorityWeight(move CandidateMove, hand []domain.Card) float64 {
	if len(move.Cards) == len(hand) {
		return math.Inf(1)
	}

	priority := 0.0
	switch move.Play.Shape {
	case domain.Single:
		if move.Play.Key <= domain.Rank10 {
			priority += w.LowSinglePriority
		}
	case domain.Pair:
		if move.Play.Key <= domain.Rank8 {
			priority += w.LowPairPriority
		}
	case domain.Trio:
		priority += w.TrioPriority
	case domain.TrioSingle, domain.TrioPair:
		priority += w.TrioAttachPriority
	case domain.Straight, domain.PairStraight, domain.Plane:
		priority += w.RunPriority
	case domain.Bomb:
		priority += w.BombPriority
	case domain.Rocket:
		priority += w.RocketPriority
	}

	if len(hand)-len(move.Cards) <= 5 {
		priority += w.NearEmptyPriority
	}
	return priority
}

// LeadScore is the full initiative total for one candidate.
func (w Weights) LeadScore(hand []domain.Card, move CandidateMove, ctx TurnContext) float64 {
	score := BaseWeight(move.Play, move.Cards)
	score += w.HandOptimizationWeight(hand, move)
	score += w.ThreatWeight(len(hand)-len(move.Cards), ctx.IsLandlord())
	score += w.ControlWeight(move, ctx)
	score += w.PositionWeight(move, ctx)
	score += w.PriorityWeight(move, hand)
	return score
}

// FollowQuality gives full credit for beating the table by one or two
// ranks and decays quickly for overshooting with bigger cards.
func (w Weights) FollowQuality(play, standing domain.ClassifiedPlay) float64 {
	diff := int(play.Key) - int(standing.Key)
	if diff <= 0 {
		return 0
	}
	if diff <= 2 {
		return w.FollowFitBase - float64(diff)*w.FollowNearStep
	}
	return math.Max(0, w.FollowFitBase-float64(diff-2)*w.FollowFarStep)
}

// DestructionFactor penalizes plays that split a bomb or a trio held in
// the hand instead of spending loose cards.
func (w Weights) DestructionFactor(hand []domain.Card, move CandidateMove) float64 {
	held := domain.RankCounts(hand)
	used := domain.RankCounts(move.Cards)

	broken := 0.0
	for r, u := range used {
		if u == 0 || u == held[r] {
			continue
		}
		switch held[r] {
		case 4:
			broken += 1.0
		case 3:
			broken += 0.5
		}
	}
	return -broken * w.DestructionPenalty
}

// FollowControlFactor rewards follows that end the game or leave the
// hand nearly empty.
func (w Weights) FollowControlFactor(handSize, moveSize int) float64 {
	remaining := handSize - moveSize
	if remaining == 0 {
		return w.EmptyHandControlBonus
	}
	if remaining <= 2 {
		return w.NearEmptyControlBonus
	}
	return 0
}

// FollowScore is the full follow total for one candidate.
func (w Weights) FollowScore(hand []domain.Card, move CandidateMove, ctx TurnContext) float64 {
	score := w.FollowQuality(move.Play, ctx.Standing)
	score += w.DestructionFactor(hand, move)
	score += w.FollowControlFactor(len(hand), len(move.Cards))
	return score
}

// EndgameWeight scores a play when five or fewer cards remain: doubled
// base strength plus a stepped probability of finishing next.
func (w Weights) EndgameWeight(hand []domain.Card, move CandidateMove, landlord bool) float64 {
	base := BaseWeight(move.Play, move.Cards) * w.EndgameBaseScale

	remaining := domain.RemoveCards(hand, move.Cards)
	var prob float64
	switch {
	case len(remaining) == 0:
		prob = 1.0
	case len(remaining) <= 2:
		switch maxRank := domain.MaxRank(remaining); {
		case maxRank >= domain.Rank2:
			prob = 0.9
		case maxRank >= domain.RankJ:
			prob = 0.7
		default:
			prob = 0.5
		}
	default:
		switch maxRank := domain.MaxRank(remaining); {
		case maxRank >= domain.Rank2:
			prob = 0.6
		case maxRank >= domain.RankJ:
			prob = 0.4
		default:
			prob = 0.2
		}
	}
	// A guaranteed finish stays guaranteed regardless of role.
	if len(remaining) > 0 && !landlord {
		prob *= w.FarmerFinishCoef
	}

	return base + prob*w.FinishProbScale
}

// ShouldUseBomb gates bomb and rocket plays. The bomb goes out only
// when it finishes the hand, when the hand is nearly done, when it
// recaptures control from an opposing bomb, or when the estimated
// remaining opponent threat is low enough that holding it gains
// nothing.
func (w Weights) ShouldUseBomb(hand []domain.Card, move CandidateMove, ctx TurnContext) bool {
	if move.Play.Shape != domain.Bomb && move.Play.Shape != domain.Rocket {
		return false
	}

	remaining := domain.RemoveCards(hand, move.Cards)
	if len(remaining) == 0 {
		return true
	}

	if ctx.IsLandlord() {
		if len(remaining) <= 3 {
			return true
		}
		if ProfileHand(remaining).Bombs >= 1 && len(remaining) <= 5 {
			return true
		}
	} else if len(remaining) <= 2 {
		return true
	}

	if ctx.Standing.Shape == domain.Bomb &&
		(move.Play.Shape == domain.Rocket || move.Play.Key > ctx.Standing.Key) {
		return true
	}
	if ctx.Standing.Shape == domain.Rocket {
		// Nothing beats a rocket; the comparator never lets a bomb
		// reach this gate against one.
		return false
	}

	if !ctx.Standing.Empty() && brain.DangerLevel(ctx.Seen, hand) <= w.DangerFloor {
		return true
	}
	return false
}
