package bot

import (
	"doudizhu/internal/bot/brain"
	"doudizhu/internal/domain"
)

// Agent represents an autonomous bot player. Each agent owns its own
// seen-ranks memory, so agents in different matches never share state.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
	Memory   *brain.SeenRanks
}

// NewAgent creates an agent with a fresh memory.
func NewAgent(id, name string, strategy Brain) *Agent {
	return &Agent{
		ID:       id,
		Name:     name,
		Strategy: strategy,
		Memory:   brain.NewSeenRanks(),
	}
}

// Play asks the agent to calculate its move based on the current game state.
func (a *Agent) Play(game *domain.Game) (Move, error) {
	player, ok := game.Players[a.ID]
	if !ok {
		// Agent is not part of this game.
		return Move{Pass: true}, nil
	}

	move, err := a.Strategy.CalculateMove(game, player, a.Memory)
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}

// ObservePlay records cards any player revealed, including the agent's
// own plays.
func (a *Agent) ObservePlay(cards []domain.Card) {
	a.Memory.Record(cards)
}

// ObserveDeal clears the agent's memory for a new deal.
func (a *Agent) ObserveDeal() {
	a.Memory.Reset()
}
