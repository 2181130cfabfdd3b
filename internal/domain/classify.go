package domain

import "sort"

// PlayShape identifies one of the 13 legal Dou Dizhu combination shapes.
type PlayShape int

const (
	ShapeNone PlayShape = iota
	Single
	Pair
	Trio
	TrioSingle
	TrioPair
	Straight
	PairStraight
	Plane
	PlaneSingle
	PlanePair
	FourWithTwo
	Bomb
	Rocket
)

func (s PlayShape) String() string {
	switch s {
	case Single:
		return "single"
	case Pair:
		return "pair"
	case Trio:
		return "trio"
	case TrioSingle:
		return "trio_single"
	case TrioPair:
		return "trio_pair"
	case Straight:
		return "straight"
	case PairStraight:
		return "pair_straight"
	case Plane:
		return "plane"
	case PlaneSingle:
		return "plane_single"
	case PlanePair:
		return "plane_pair"
	case FourWithTwo:
		return "four_with_two"
	case Bomb:
		return "bomb"
	case Rocket:
		return "rocket"
	default:
		return "none"
	}
}

// ClassifiedPlay is the comparable strength key of a legal combination.
// Key is the rank of the primary group: the trio rank for trio-based
// shapes, the run-end rank for straights and planes, the four-rank for
// bombs and four-with-two. Length is the total card count.
type ClassifiedPlay struct {
	Shape  PlayShape
	Key    Rank
	Length int
}

// Empty reports whether the play represents "no standing play".
func (p ClassifiedPlay) Empty() bool {
	return p.Shape == ShapeNone
}

// Classify determines which legal shape the cards form. The card order
// does not matter. Returns ErrInvalidShape when the cards form none of
// the 13 shapes.
func Classify(cards []Card) (ClassifiedPlay, error) {
	n := len(cards)
	if n == 0 {
		return ClassifiedPlay{}, ErrInvalidShape
	}

	counts := RankCounts(cards)

	if n == 1 {
		return ClassifiedPlay{Shape: Single, Key: cards[0].Rank, Length: 1}, nil
	}

	if n == 2 {
		if counts[SmallJoker] == 1 && counts[BigJoker] == 1 {
			return ClassifiedPlay{Shape: Rocket, Key: BigJoker, Length: 2}, nil
		}
		if len(counts) == 1 {
			return ClassifiedPlay{Shape: Pair, Key: cards[0].Rank, Length: 2}, nil
		}
		return ClassifiedPlay{}, ErrInvalidShape
	}

	if n == 3 && len(counts) == 1 {
		return ClassifiedPlay{Shape: Trio, Key: cards[0].Rank, Length: 3}, nil
	}

	if n == 4 && len(counts) == 1 {
		return ClassifiedPlay{Shape: Bomb, Key: cards[0].Rank, Length: 4}, nil
	}

	if play, ok := classifyTrioWithKickers(counts, n); ok {
		return play, nil
	}
	if play, ok := classifyFourWithTwo(counts, n); ok {
		return play, nil
	}
	if play, ok := classifyStraight(counts, n); ok {
		return play, nil
	}
	if play, ok := classifyPairStraight(counts, n); ok {
		return play, nil
	}
	if play, ok := classifyPlane(counts, n); ok {
		return play, nil
	}

	return ClassifiedPlay{}, ErrInvalidShape
}

// classifyTrioWithKickers handles the 4-card trio+single and the 5-card
// trio+pair / trio+two-singles signatures.
func classifyTrioWithKickers(counts map[Rank]int, n int) (ClassifiedPlay, bool) {
	if n != 4 && n != 5 {
		return ClassifiedPlay{}, false
	}
	var trioRank Rank
	found := false
	for r, c := range counts {
		if c == 3 {
			trioRank = r
			found = true
		}
	}
	if !found {
		return ClassifiedPlay{}, false
	}

	rest := make([]int, 0, 2)
	for r, c := range counts {
		if r != trioRank {
			rest = append(rest, c)
		}
	}
	sort.Ints(rest)

	if n == 4 {
		return ClassifiedPlay{Shape: TrioSingle, Key: trioRank, Length: 4}, true
	}
	// n == 5: the two kickers are either a pair or two loose singles.
	if len(rest) == 1 && rest[0] == 2 {
		return ClassifiedPlay{Shape: TrioPair, Key: trioRank, Length: 5}, true
	}
	if len(rest) == 2 && rest[0] == 1 && rest[1] == 1 {
		return ClassifiedPlay{Shape: TrioSingle, Key: trioRank, Length: 5}, true
	}
	return ClassifiedPlay{}, false
}

// classifyFourWithTwo handles the 6-card (4+1+1) and 8-card (4+2+2)
// signatures.
func classifyFourWithTwo(counts map[Rank]int, n int) (ClassifiedPlay, bool) {
	if n != 6 && n != 8 {
		return ClassifiedPlay{}, false
	}
	var fourRank Rank
	found := false
	for r, c := range counts {
		if c == 4 {
			fourRank = r
			found = true
		}
	}
	if !found {
		return ClassifiedPlay{}, false
	}

	rest := make([]int, 0, 2)
	for r, c := range counts {
		if r != fourRank {
			rest = append(rest, c)
		}
	}
	if len(rest) != 2 {
		return ClassifiedPlay{}, false
	}
	want := 1
	if n == 8 {
		want = 2
	}
	if rest[0] == want && rest[1] == want {
		return ClassifiedPlay{Shape: FourWithTwo, Key: fourRank, Length: n}, true
	}
	return ClassifiedPlay{}, false
}

func classifyStraight(counts map[Rank]int, n int) (ClassifiedPlay, bool) {
	if n < 5 || len(counts) != n {
		return ClassifiedPlay{}, false
	}
	ranks := sortedRanks(counts)
	if !consecutiveRunnable(ranks) {
		return ClassifiedPlay{}, false
	}
	return ClassifiedPlay{Shape: Straight, Key: ranks[len(ranks)-1], Length: n}, true
}

func classifyPairStraight(counts map[Rank]int, n int) (ClassifiedPlay, bool) {
	if n < 6 || n%2 != 0 || len(counts)*2 != n || len(counts) < 3 {
		return ClassifiedPlay{}, false
	}
	for _, c := range counts {
		if c != 2 {
			return ClassifiedPlay{}, false
		}
	}
	ranks := sortedRanks(counts)
	if !consecutiveRunnable(ranks) {
		return ClassifiedPlay{}, false
	}
	return ClassifiedPlay{Shape: PairStraight, Key: ranks[len(ranks)-1], Length: n}, true
}

// classifyPlane recognizes pure planes and planes with single or paired
// wings. Wing ranks must be disjoint from the trio run.
func classifyPlane(counts map[Rank]int, n int) (ClassifiedPlay, bool) {
	var trioRanks []Rank
	for r, c := range counts {
		if c >= 3 && r.InRun() {
			trioRanks = append(trioRanks, r)
		}
	}
	if len(trioRanks) < 2 {
		return ClassifiedPlay{}, false
	}
	sort.Slice(trioRanks, func(i, j int) bool { return trioRanks[i] < trioRanks[j] })

	for runLen := len(trioRanks); runLen >= 2; runLen-- {
		for start := 0; start+runLen <= len(trioRanks); start++ {
			run := trioRanks[start : start+runLen]
			if !consecutive(run) {
				continue
			}
			if play, ok := matchPlaneRun(counts, run, n); ok {
				return play, true
			}
		}
	}
	return ClassifiedPlay{}, false
}

func matchPlaneRun(counts map[Rank]int, run []Rank, n int) (ClassifiedPlay, bool) {
	inRun := make(map[Rank]bool, len(run))
	for _, r := range run {
		inRun[r] = true
	}

	// Wings are whatever remains after taking three cards per run rank.
	rest := make(map[Rank]int)
	for r, c := range counts {
		if inRun[r] {
			c -= 3
		}
		if c > 0 {
			rest[r] = c
		}
	}
	for r := range rest {
		if inRun[r] {
			// A run rank may not reappear as a wing.
			return ClassifiedPlay{}, false
		}
	}

	key := run[len(run)-1]
	base := 3 * len(run)

	switch n {
	case base:
		if len(rest) == 0 {
			return ClassifiedPlay{Shape: Plane, Key: key, Length: n}, true
		}
	case base + len(run):
		// Single wings are any leftover multiset of the right size; two
		// wings of the same rank are fine.
		return ClassifiedPlay{Shape: PlaneSingle, Key: key, Length: n}, true
	case base + 2*len(run):
		if len(rest) != len(run) {
			return ClassifiedPlay{}, false
		}
		for _, c := range rest {
			if c != 2 {
				return ClassifiedPlay{}, false
			}
		}
		return ClassifiedPlay{Shape: PlanePair, Key: key, Length: n}, true
	}
	return ClassifiedPlay{}, false
}

func sortedRanks(counts map[Rank]int) []Rank {
	ranks := make([]Rank, 0, len(counts))
	for r := range counts {
		ranks = append(ranks, r)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
	return ranks
}

// consecutiveRunnable reports whether the sorted ranks form a gap-free
// run of run-eligible ranks (no 2s, no jokers).
func consecutiveRunnable(ranks []Rank) bool {
	for _, r := range ranks {
		if !r.InRun() {
			return false
		}
	}
	return consecutive(ranks)
}

func consecutive(ranks []Rank) bool {
	for i := 1; i < len(ranks); i++ {
		if ranks[i] != ranks[i-1]+1 {
			return false
		}
	}
	return true
}
