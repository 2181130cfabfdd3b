package nakama

import (
	"doudizhu/internal/domain"
)

// WireCard is the client-facing card representation. Suit is a single
// letter (S, H, D, C) and empty for jokers; rank uses the domain values
// 3..17 so the ordering is the play order.
type WireCard struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

func cardsToWire(cards []domain.Card) []WireCard {
	out := make([]WireCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, WireCard{
			Suit: suitToWire(c.Suit),
			Rank: int(c.Rank),
		})
	}
	return out
}

func cardsFromWire(cards []WireCard) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, domain.Card{
			Suit: suitFromWire(c.Suit),
			Rank: domain.Rank(c.Rank),
		})
	}
	return out
}

func suitToWire(s domain.Suit) string {
	switch s {
	case domain.Spade:
		return "S"
	case domain.Heart:
		return "H"
	case domain.Diamond:
		return "D"
	case domain.Club:
		return "C"
	default:
		return ""
	}
}

func suitFromWire(s string) domain.Suit {
	switch s {
	case "S":
		return domain.Spade
	case "H":
		return domain.Heart
	case "D":
		return domain.Diamond
	case "C":
		return domain.Club
	default:
		return domain.NoSuit
	}
}
