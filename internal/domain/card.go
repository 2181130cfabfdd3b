package domain

import "sort"

// Suit identifies a card's suit. Jokers carry NoSuit.
type Suit int

const (
	NoSuit Suit = iota
	Spade
	Heart
	Diamond
	Club
)

func (s Suit) String() string {
	switch s {
	case Spade:
		return "♠"
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	default:
		return ""
	}
}

// Rank is the Dou Dizhu card rank. The numeric order is the play order:
// 3 < 4 < ... < A < 2 < small joker < big joker. Note that 2 ranks above
// Ace, unlike poker ordering.
type Rank int

const (
	Rank3 Rank = iota + 3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankJ
	RankQ
	RankK
	RankA
	Rank2
	SmallJoker
	BigJoker
)

func (r Rank) String() string {
	switch r {
	case Rank10:
		return "10"
	case RankJ:
		return "J"
	case RankQ:
		return "Q"
	case RankK:
		return "K"
	case RankA:
		return "A"
	case Rank2:
		return "2"
	case SmallJoker:
		return "joker"
	case BigJoker:
		return "JOKER"
	default:
		return string('0' + byte(r))
	}
}

// IsJoker reports whether the rank is one of the two jokers.
func (r Rank) IsJoker() bool {
	return r == SmallJoker || r == BigJoker
}

// InRun reports whether the rank may participate in straights and
// consecutive-pair runs. 2 and the jokers never can.
func (r Rank) InRun() bool {
	return r >= Rank3 && r <= RankA
}

// Card is a single playing card. Cards are value objects: two cards are
// equal iff suit and rank both match.
type Card struct {
	Suit Suit
	Rank Rank
}

func (c Card) String() string {
	if c.Rank.IsJoker() {
		return c.Rank.String()
	}
	return c.Suit.String() + c.Rank.String()
}

// DeckSize is the number of cards in a Dou Dizhu deck.
const DeckSize = 54

// CopiesOf returns how many copies of a rank the deck contains.
func CopiesOf(r Rank) int {
	if r.IsJoker() {
		return 1
	}
	return 4
}

// NewDeck returns an ordered 54-card deck: one card per suit for ranks
// 3..2 plus the two jokers.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for r := Rank3; r <= Rank2; r++ {
		for _, s := range []Suit{Spade, Heart, Diamond, Club} {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	deck = append(deck, Card{Rank: SmallJoker}, Card{Rank: BigJoker})
	return deck
}

// SortCards orders cards ascending by rank, then suit.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
}

// RankCounts tallies how many cards of each rank the slice holds.
func RankCounts(cards []Card) map[Rank]int {
	counts := make(map[Rank]int, len(cards))
	for _, c := range cards {
		counts[c.Rank]++
	}
	return counts
}

// MaxRank returns the highest rank present. Panics on an empty slice;
// callers guarantee non-empty input.
func MaxRank(cards []Card) Rank {
	max := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank > max {
			max = c.Rank
		}
	}
	return max
}

// MinCard returns the lowest card by (rank, suit) order.
func MinCard(cards []Card) Card {
	min := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < min.Rank || (c.Rank == min.Rank && c.Suit < min.Suit) {
			min = c
		}
	}
	return min
}
