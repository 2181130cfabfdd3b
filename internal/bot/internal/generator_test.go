package internal

import (
	"testing"

	"doudizhu/internal/domain"
)

// handOf builds a hand from ranks, cycling suits for repeated ranks.
func handOf(ranks ...domain.Rank) []domain.Card {
	suits := []domain.Suit{domain.Spade, domain.Heart, domain.Diamond, domain.Club}
	seen := make(map[domain.Rank]int)
	out := make([]domain.Card, 0, len(ranks))
	for _, r := range ranks {
		if r.IsJoker() {
			out = append(out, domain.Card{Rank: r})
			continue
		}
		out = append(out, domain.Card{Suit: suits[seen[r]%4], Rank: r})
		seen[r]++
	}
	return out
}

func shapeCount(moves []CandidateMove, shape domain.PlayShape) int {
	n := 0
	for _, m := range moves {
		if m.Play.Shape == shape {
			n++
		}
	}
	return n
}

func TestEnumerateMovesStartsWithPass(t *testing.T) {
	moves := EnumerateMoves(handOf(domain.Rank3, domain.Rank4))
	if len(moves) == 0 || !moves[0].IsPass() {
		t.Fatal("first candidate must be the pass")
	}
	moves = EnumerateMoves(nil)
	if len(moves) != 1 || !moves[0].IsPass() {
		t.Fatalf("empty hand should yield only the pass, got %d candidates", len(moves))
	}
}

func TestEnumerateMovesEveryCandidateClassifies(t *testing.T) {
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank3,
		domain.Rank4, domain.Rank4, domain.Rank4,
		domain.Rank5, domain.Rank6, domain.Rank7, domain.Rank8,
		domain.Rank9, domain.Rank9,
		domain.RankK, domain.RankK, domain.RankK, domain.RankK,
		domain.Rank2,
		domain.SmallJoker, domain.BigJoker,
	)
	for _, m := range EnumerateMoves(hand) {
		if m.IsPass() {
			continue
		}
		play, err := domain.Classify(m.Cards)
		if err != nil {
			t.Fatalf("generated unclassifiable candidate %v: %v", m.Cards, err)
		}
		if play != m.Play {
			t.Errorf("candidate %v carries play %v, classifier says %v", m.Cards, m.Play, play)
		}
		if !domain.OwnsCards(hand, m.Cards) {
			t.Errorf("candidate %v uses cards not in hand", m.Cards)
		}
	}
}

func TestEnumerateMovesCoversShapes(t *testing.T) {
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank3,
		domain.Rank4, domain.Rank4, domain.Rank4,
		domain.Rank5, domain.Rank6, domain.Rank7, domain.Rank8,
		domain.Rank9, domain.Rank9,
		domain.RankK, domain.RankK, domain.RankK, domain.RankK,
		domain.Rank2,
		domain.SmallJoker, domain.BigJoker,
	)
	moves := EnumerateMoves(hand)

	for _, shape := range []domain.PlayShape{
		domain.Single, domain.Pair, domain.Trio, domain.TrioSingle, domain.TrioPair,
		domain.Straight, domain.Plane, domain.PlaneSingle, domain.PlanePair,
		domain.FourWithTwo, domain.Bomb, domain.Rocket,
	} {
		if shapeCount(moves, shape) == 0 {
			t.Errorf("no %v candidate generated", shape)
		}
	}
}

func TestEnumerateMovesStraightWindows(t *testing.T) {
	hand := handOf(domain.Rank3, domain.Rank4, domain.Rank5, domain.Rank6, domain.Rank7, domain.Rank8)
	moves := EnumerateMoves(hand)

	// Six consecutive ranks: two 5-windows plus one 6-window.
	if got := shapeCount(moves, domain.Straight); got != 3 {
		t.Errorf("straight windows = %d, want 3", got)
	}
}

func TestEnumerateMovesExcludesTwosFromRuns(t *testing.T) {
	hand := handOf(domain.RankJ, domain.RankQ, domain.RankK, domain.RankA, domain.Rank2)
	moves := EnumerateMoves(hand)
	if got := shapeCount(moves, domain.Straight); got != 0 {
		t.Errorf("J-Q-K-A-2 produced %d straights, want 0", got)
	}
}

func TestEnumerateMovesPairStraights(t *testing.T) {
	hand := handOf(
		domain.Rank7, domain.Rank7,
		domain.Rank8, domain.Rank8,
		domain.Rank9, domain.Rank9,
		domain.Rank10, domain.Rank10,
	)
	moves := EnumerateMoves(hand)
	// Four pair ranks: two 3-windows plus one 4-window.
	if got := shapeCount(moves, domain.PairStraight); got != 3 {
		t.Errorf("pair straight windows = %d, want 3", got)
	}
}

func TestEnumerateMovesPlaneWingChoices(t *testing.T) {
	hand := handOf(
		domain.Rank5, domain.Rank5, domain.Rank5,
		domain.Rank6, domain.Rank6, domain.Rank6,
		domain.Rank3, domain.Rank9, domain.RankQ,
	)
	moves := EnumerateMoves(hand)

	// Three wing ranks, choose two: three distinct winged planes.
	if got := shapeCount(moves, domain.PlaneSingle); got != 3 {
		t.Errorf("plane single-wing choices = %d, want 3", got)
	}
	if got := shapeCount(moves, domain.Plane); got != 1 {
		t.Errorf("pure planes = %d, want 1", got)
	}
}

func TestEnumerateMovesPlaneWingsFromOnePair(t *testing.T) {
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank3,
		domain.Rank4, domain.Rank4, domain.Rank4,
		domain.Rank5, domain.Rank5,
	)
	moves := EnumerateMoves(hand)

	// The held pair of 5s covers both single wings of the 3-4 plane.
	if got := shapeCount(moves, domain.PlaneSingle); got != 1 {
		t.Errorf("plane single-wing choices = %d, want 1", got)
	}
	found := false
	for _, m := range moves {
		if m.Play.Shape == domain.PlaneSingle && len(m.Cards) == len(hand) {
			found = true
		}
	}
	if !found {
		t.Error("no whole-hand winged plane generated from same-rank wings")
	}
}

func TestBeatingMovesFiltersByTable(t *testing.T) {
	hand := handOf(domain.Rank4, domain.Rank10, domain.Rank10, domain.RankK)
	standing, err := domain.Classify(handOf(domain.Rank9, domain.Rank9))
	if err != nil {
		t.Fatal(err)
	}

	beating := BeatingMoves(hand, standing)
	if len(beating) != 1 {
		t.Fatalf("beating moves = %d, want 1 (the pair of 10s)", len(beating))
	}
	if beating[0].Play.Shape != domain.Pair || beating[0].Play.Key != domain.Rank10 {
		t.Errorf("unexpected beating move %v", beating[0].Play)
	}
}

func TestBeatingMovesEmptyTableReturnsAll(t *testing.T) {
	hand := handOf(domain.Rank4, domain.Rank7)
	all := EnumerateMoves(hand)
	beating := BeatingMoves(hand, domain.ClassifiedPlay{})
	if len(beating) != len(all)-1 {
		t.Errorf("with no standing play every non-pass candidate beats: %d vs %d", len(beating), len(all)-1)
	}
}

func TestEnumerateMovesBoundedOnLargeHand(t *testing.T) {
	// Landlord-sized worst case: 20 cards rich in trios.
	hand := handOf(
		domain.Rank3, domain.Rank3, domain.Rank3,
		domain.Rank4, domain.Rank4, domain.Rank4,
		domain.Rank5, domain.Rank5, domain.Rank5,
		domain.Rank6, domain.Rank6, domain.Rank6,
		domain.Rank7, domain.Rank7, domain.Rank7,
		domain.Rank8, domain.Rank8, domain.Rank8,
		domain.Rank9, domain.Rank10,
	)
	moves := EnumerateMoves(hand)
	if len(moves) == 0 {
		t.Fatal("no moves for a 20-card hand")
	}
	if len(moves) > 5000 {
		t.Errorf("enumeration exploded: %d candidates", len(moves))
	}
}
