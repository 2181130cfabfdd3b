package bot

import (
	"doudizhu/internal/bot/brain"
	"doudizhu/internal/domain"
)

// Move represents the decision made by the AI.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// BotLevel selects a strategy strength.
type BotLevel int

const (
	BotLevelGood BotLevel = iota + 1
	BotLevelSmart
)

// ParseLevel maps an identity difficulty string to a bot level.
func ParseLevel(difficulty string) BotLevel {
	if difficulty == "easy" {
		return BotLevelGood
	}
	return BotLevelSmart
}

// Brain is the interface that all bot strategies must implement.
// Strategies are stateless: the seen-ranks accumulator belongs to the
// caller and is threaded through every decision.
type Brain interface {
	CalculateMove(game *domain.Game, player *domain.Player, seen *brain.SeenRanks) (Move, error)
}
