package internal

import (
	"testing"

	"doudizhu/internal/domain"
)

func TestProfileHandGreedyDecomposition(t *testing.T) {
	tests := []struct {
		name   string
		hand   []domain.Card
		combos int
	}{
		{name: "empty", hand: nil, combos: 0},
		{name: "one single", hand: handOf(domain.Rank7), combos: 1},
		{name: "one pair", hand: handOf(domain.Rank7, domain.Rank7), combos: 1},
		{name: "two loose singles", hand: handOf(domain.Rank3, domain.Rank9), combos: 2},
		{name: "straight", hand: handOf(domain.Rank3, domain.Rank4, domain.Rank5, domain.Rank6, domain.Rank7), combos: 1},
		{
			name:   "straight plus leftover",
			hand:   handOf(domain.Rank3, domain.Rank4, domain.Rank5, domain.Rank5, domain.Rank6, domain.Rank7),
			combos: 2,
		},
		{
			name:   "pair run",
			hand:   handOf(domain.Rank8, domain.Rank8, domain.Rank9, domain.Rank9, domain.Rank10, domain.Rank10),
			combos: 1,
		},
		{
			name:   "bomb and rocket",
			hand:   handOf(domain.Rank5, domain.Rank5, domain.Rank5, domain.Rank5, domain.SmallJoker, domain.BigJoker),
			combos: 2,
		},
		{
			name:   "lone small joker is its own unit",
			hand:   handOf(domain.Rank4, domain.SmallJoker),
			combos: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CombinationCount(tt.hand); got != tt.combos {
				t.Errorf("CombinationCount = %d, want %d", got, tt.combos)
			}
		})
	}
}

func TestProfileHandFields(t *testing.T) {
	hand := handOf(
		domain.Rank5, domain.Rank5, domain.Rank5, domain.Rank5,
		domain.Rank2, domain.Rank2,
		domain.SmallJoker, domain.BigJoker,
	)
	profile := ProfileHand(hand)
	if profile.Bombs != 1 {
		t.Errorf("Bombs = %d, want 1", profile.Bombs)
	}
	if !profile.HasRocket {
		t.Error("HasRocket = false, want true")
	}
	if profile.BigCards != 4 {
		t.Errorf("BigCards = %d, want 4", profile.BigCards)
	}
}

func TestCanFinishInOne(t *testing.T) {
	if !CanFinishInOne(handOf(domain.Rank9, domain.Rank9, domain.Rank9)) {
		t.Error("a trio should finish in one")
	}
	if !CanFinishInOne(handOf(domain.SmallJoker, domain.BigJoker)) {
		t.Error("the rocket should finish in one")
	}
	if CanFinishInOne(handOf(domain.Rank3, domain.Rank9)) {
		t.Error("two loose singles cannot finish in one")
	}
	if CanFinishInOne(nil) {
		t.Error("an empty hand has nothing to finish")
	}
}

func TestSmallestCard(t *testing.T) {
	hand := handOf(domain.RankK, domain.Rank4, domain.Rank9)
	got := SmallestCard(hand)
	if len(got) != 1 || got[0].Rank != domain.Rank4 {
		t.Errorf("SmallestCard = %v, want the 4", got)
	}
	if SmallestCard(nil) != nil {
		t.Error("SmallestCard of empty hand should be nil")
	}
}

func TestHasBigCards(t *testing.T) {
	if HasBigCards(handOf(domain.Rank3, domain.RankA)) {
		t.Error("an ace is not a big card")
	}
	if !HasBigCards(handOf(domain.Rank3, domain.Rank2)) {
		t.Error("a 2 is a big card")
	}
	if !HasBigCards(handOf(domain.BigJoker)) {
		t.Error("a joker is a big card")
	}
}
