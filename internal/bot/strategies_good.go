package bot

import (
	"sort"

	"doudizhu/internal/bot/brain"
	botinternal "doudizhu/internal/bot/internal"
	"doudizhu/internal/domain"
)

// GoodBot plays greedily: always the weakest legal combination. It
// ignores the seen-ranks accumulator entirely.
type GoodBot struct{}

func (b *GoodBot) CalculateMove(game *domain.Game, player *domain.Player, _ *brain.SeenRanks) (Move, error) {
	if player == nil || len(player.Hand) == 0 {
		return Move{Pass: true}, nil
	}

	var standing domain.ClassifiedPlay
	if game != nil {
		standing = game.TablePlay
	}

	candidates := botinternal.BeatingMoves(player.Hand, standing)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	// Weakest first: lowest key, then fewest cards.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Play.Key != candidates[j].Play.Key {
			return candidates[i].Play.Key < candidates[j].Play.Key
		}
		return candidates[i].Play.Length < candidates[j].Play.Length
	})

	return Move{Cards: candidates[0].Cards}, nil
}
