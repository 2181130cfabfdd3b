package bot

import (
	"math"

	"doudizhu/internal/bot/brain"
	botinternal "doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// SmartBot is the full weighted engine: enumerate, gate bombs, score
// with the lead or follow formula, switch to endgame scoring when five
// or fewer cards remain.
type SmartBot struct {
	Weights botinternal.Weights
}

// NewSmartBot returns a SmartBot with the default scoring table.
func NewSmartBot() *SmartBot {
	return &SmartBot{Weights: DefaultWeights}
}

const endgameHandSize = 5

func (b *SmartBot) CalculateMove(game *domain.Game, player *domain.Player, seen *brain.SeenRanks) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	ctx := buildContext(game, player, seen)
	if ctx.Standing.Empty() {
		return b.lead(player.Hand, ctx), nil
	}
	return b.follow(player.Hand, ctx), nil
}

// lead chooses the opening play of a fresh trick.
func (b *SmartBot) lead(hand []domain.Card, ctx botinternal.TurnContext) Move {
	// A one-combination finish wins immediately, whether or not the
	// enumerator would have emitted that exact shape.
	if botinternal.CanFinishInOne(hand) {
		return Move{Cards: append([]domain.Card(nil), hand...)}
	}

	candidates := botinternal.EnumerateMoves(hand)
	for _, m := range candidates {
		if m.Play.Shape == domain.Rocket {
			return Move{Cards: m.Cards}
		}
	}
	for _, m := range candidates {
		if m.Play.Shape == domain.Bomb && b.Weights.ShouldUseBomb(hand, m, ctx) {
			return Move{Cards: m.Cards}
		}
	}

	best, ok := b.pickBest(candidates, func(m botinternal.CandidateMove) float64 {
		return b.Weights.LeadScore(hand, m, ctx)
	})
	if !ok {
		return Move{Cards: botinternal.SmallestCard(hand)}
	}
	return Move{Cards: best.Cards}
}

// follow chooses a beat of the standing play, or passes.
func (b *SmartBot) follow(hand []domain.Card, ctx botinternal.TurnContext) Move {
	candidates := botinternal.BeatingMoves(hand, ctx.Standing)
	if len(candidates) == 0 {
		return Move{Pass: true}
	}

	for _, m := range candidates {
		if m.Play.Shape == domain.Rocket {
			return Move{Cards: m.Cards}
		}
	}
	for _, m := range candidates {
		if m.Play.Shape == domain.Bomb && b.Weights.ShouldUseBomb(hand, m, ctx) {
			return Move{Cards: m.Cards}
		}
	}

	if len(hand) <= endgameHandSize {
		best, ok := b.pickBest(candidates, func(m botinternal.CandidateMove) float64 {
			return b.Weights.EndgameWeight(hand, m, ctx.IsLandlord())
		})
		if !ok {
			return Move{Pass: true}
		}
		return Move{Cards: best.Cards}
	}

	best, ok := b.pickBest(candidates, func(m botinternal.CandidateMove) float64 {
		return b.Weights.FollowScore(hand, m, ctx)
	})
	if ok {
		if score := b.Weights.FollowScore(hand, best, ctx); score > 0 {
			return Move{Cards: best.Cards}
		}
	}

	// Last resort: shed the lowest card if it happens to beat the table.
	low := botinternal.SmallestCard(hand)
	if play, err := domain.Classify(low); err == nil {
		if domain.Compare(play, ctx.Standing) == domain.Greater {
			return Move{Cards: low}
		}
	}
	return Move{Pass: true}
}

// pickBest scores every non-pass, non-bomb candidate and returns the
// winner. Bombs and the rocket only enter through their gate above.
// Ties break toward the lower key, then the shorter play, then
// generation order.
func (b *SmartBot) pickBest(candidates []botinternal.CandidateMove, score func(botinternal.CandidateMove) float64) (botinternal.CandidateMove, bool) {
	var best botinternal.CandidateMove
	bestScore := math.Inf(-1)
	found := false

	for _, m := range candidates {
		if m.IsPass() || m.Play.Shape == domain.Bomb || m.Play.Shape == domain.Rocket {
			continue
		}
		s := score(m)
		switch {
		case !found || s > bestScore:
		case s == bestScore && m.Play.Key < best.Play.Key:
		case s == bestScore && m.Play.Key == best.Play.Key && m.Play.Length < best.Play.Length:
		default:
			continue
		}
		best, bestScore, found = m, s, true
	}
	return best, found
}

// buildContext derives the seat relation, live opponent count and
// standing play for the acting player.
func buildContext(game *domain.Game, player *domain.Player, seen *brain.SeenRanks) botinternal.TurnContext {
	ctx := botinternal.TurnContext{
		Position:      botinternal.PositionLandlordDown,
		OpponentCount: domain.SeatCount - 1,
		Seen:          seen,
	}
	if game == nil {
		return ctx
	}

	ctx.Standing = game.TablePlay
	ctx.OpponentCount = game.OpponentsWithCards(player.UserID)

	if landlord, ok := game.Players[game.LandlordID]; ok {
		switch {
		case player.IsLandlord:
			ctx.Position = botinternal.PositionLandlord
		case domain.NextSeat(player.Seat) == landlord.Seat:
			ctx.Position = botinternal.PositionLandlordUp
		default:
			ctx.Position = botinternal.PositionLandlordDown
		}
	}
	return ctx
}
