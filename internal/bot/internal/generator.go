package internal

import (
	"doudizhu/internal/domain"
)

// CandidateMove is one legal combination drawn from a hand. An empty
// Cards slice represents a pass.
type CandidateMove struct {
	Cards []domain.Card
	Play  domain.ClassifiedPlay
}

// IsPass reports whether the candidate plays no cards.
func (m CandidateMove) IsPass() bool {
	return len(m.Cards) == 0
}

const (
	minStraightLen     = 5
	minPairStraightLen = 3
	minPlaneLen        = 2

	// maxWingSets bounds the combinatorial wing selection per plane run.
	// A 20-card hand can otherwise produce thousands of wing choices
	// that differ only marginally in strength.
	maxWingSets = 24
)

// EnumerateMoves returns every distinct legal combination the hand can
// form, deduplicated by rank (suits never affect strength). The first
// entry is always the pass candidate. Generation order is deterministic:
// within each shape family candidates ascend by rank.
func EnumerateMoves(hand []domain.Card) []CandidateMove {
	moves := []CandidateMove{{}}
	if len(hand) == 0 {
		return moves
	}

	sorted := append([]domain.Card(nil), hand...)
	domain.SortCards(sorted)
	groups, ranks := rankGroups(sorted)

	moves = appendSets(moves, groups, ranks, 1)
	moves = appendSets(moves, groups, ranks, 2)
	moves = appendSets(moves, groups, ranks, 3)
	moves = appendTrioWings(moves, groups, ranks)
	moves = appendSets(moves, groups, ranks, 4)
	moves = appendFourWithTwo(moves, groups, ranks)
	moves = appendRuns(moves, groups, ranks, 1, minStraightLen)
	moves = appendRuns(moves, groups, ranks, 2, minPairStraightLen)
	moves = appendPlanes(moves, groups, ranks)
	moves = appendRocket(moves, groups)
	return moves
}

// BeatingMoves filters the enumeration down to candidates that beat the
// standing play. With no standing play every non-pass candidate counts.
func BeatingMoves(hand []domain.Card, standing domain.ClassifiedPlay) []CandidateMove {
	all := EnumerateMoves(hand)
	beating := make([]CandidateMove, 0, len(all))
	for _, m := range all {
		if m.IsPass() {
			continue
		}
		if domain.Compare(m.Play, standing) == domain.Greater {
			beating = append(beating, m)
		}
	}
	return beating
}

// rankGroups splits a sorted hand into per-rank card groups plus the
// ascending list of ranks present.
func rankGroups(sorted []domain.Card) (map[domain.Rank][]domain.Card, []domain.Rank) {
	groups := make(map[domain.Rank][]domain.Card)
	var ranks []domain.Rank
	for _, c := range sorted {
		if _, ok := groups[c.Rank]; !ok {
			ranks = append(ranks, c.Rank)
		}
		groups[c.Rank] = append(groups[c.Rank], c)
	}
	return groups, ranks
}

// candidate classifies a card set and wraps it. Sets the generators
// assemble are legal by construction; anything the classifier still
// rejects is discarded.
func candidate(moves []CandidateMove, cards []domain.Card) []CandidateMove {
	play, err := domain.Classify(cards)
	if err != nil {
		return moves
	}
	return append(moves, CandidateMove{Cards: cards, Play: play})
}

// appendSets emits one single/pair/trio/bomb per rank holding enough
// copies.
func appendSets(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank, size int) []CandidateMove {
	for _, r := range ranks {
		group := groups[r]
		if len(group) < size {
			continue
		}
		moves = candidate(moves, group[:size:size])
	}
	return moves
}

func appendTrioWings(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank) []CandidateMove {
	for _, trio := range ranks {
		if len(groups[trio]) < 3 {
			continue
		}
		base := groups[trio][:3:3]

		for _, wing := range ranks {
			if wing == trio {
				continue
			}
			moves = candidate(moves, append(append([]domain.Card(nil), base...), groups[wing][0]))
			if len(groups[wing]) >= 2 {
				moves = candidate(moves, append(append([]domain.Card(nil), base...), groups[wing][:2]...))
			}
		}
	}
	return moves
}

func appendFourWithTwo(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank) []CandidateMove {
	for _, four := range ranks {
		if len(groups[four]) < 4 {
			continue
		}
		base := groups[four][:4:4]

		others := make([]domain.Rank, 0, len(ranks)-1)
		for _, r := range ranks {
			if r != four {
				others = append(others, r)
			}
		}

		for i := 0; i < len(others); i++ {
			for j := i + 1; j < len(others); j++ {
				a, b := others[i], others[j]
				set := append(append([]domain.Card(nil), base...), groups[a][0], groups[b][0])
				moves = candidate(moves, set)

				if len(groups[a]) >= 2 && len(groups[b]) >= 2 {
					set := append([]domain.Card(nil), base...)
					set = append(set, groups[a][:2]...)
					set = append(set, groups[b][:2]...)
					moves = candidate(moves, set)
				}
			}
		}
	}
	return moves
}

// appendRuns emits straights (copies=1) or consecutive-pair runs
// (copies=2): every window of every length over the eligible ranks.
func appendRuns(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank, copies, minLen int) []CandidateMove {
	eligible := runEligible(groups, ranks, copies)
	for start := 0; start < len(eligible); start++ {
		for n := minLen; start+n <= len(eligible); n++ {
			window := eligible[start : start+n]
			if window[n-1] != window[0]+domain.Rank(n-1) {
				break
			}
			run := make([]domain.Card, 0, n*copies)
			for _, r := range window {
				run = append(run, groups[r][:copies]...)
			}
			moves = candidate(moves, run)
		}
	}
	return moves
}

func appendPlanes(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank) []CandidateMove {
	eligible := runEligible(groups, ranks, 3)
	for start := 0; start < len(eligible); start++ {
		for n := minPlaneLen; start+n <= len(eligible); n++ {
			window := eligible[start : start+n]
			if window[n-1] != window[0]+domain.Rank(n-1) {
				break
			}

			run := make([]domain.Card, 0, n*3)
			inRun := make(map[domain.Rank]bool, n)
			for _, r := range window {
				run = append(run, groups[r][:3]...)
				inRun[r] = true
			}
			moves = candidate(moves, run)
			moves = appendPlaneWings(moves, groups, ranks, run, inRun, n)
		}
	}
	return moves
}

// appendPlaneWings emits every bounded choice of n single wings and n
// paired wings for a plane run, drawn from ranks outside the run.
// Single wings pick at the card level, so a held pair can serve as two
// wings of the same rank.
func appendPlaneWings(moves []CandidateMove, groups map[domain.Rank][]domain.Card, ranks []domain.Rank, run []domain.Card, inRun map[domain.Rank]bool, n int) []CandidateMove {
	var wingRanks, pairRanks []domain.Rank
	for _, r := range ranks {
		if inRun[r] {
			continue
		}
		wingRanks = append(wingRanks, r)
		if len(groups[r]) >= 2 {
			pairRanks = append(pairRanks, r)
		}
	}

	for _, wings := range chooseWingCards(groups, wingRanks, n, maxWingSets) {
		set := append([]domain.Card(nil), run...)
		set = append(set, wings...)
		moves = candidate(moves, set)
	}
	for _, wings := range chooseRanks(pairRanks, n, maxWingSets) {
		set := append([]domain.Card(nil), run...)
		for _, w := range wings {
			set = append(set, groups[w][:2]...)
		}
		moves = candidate(moves, set)
	}
	return moves
}

// chooseWingCards returns up to limit selections of k wing cards,
// deduplicated by rank multiset: each rank contributes zero up to all
// of its held copies.
func chooseWingCards(groups map[domain.Rank][]domain.Card, ranks []domain.Rank, k, limit int) [][]domain.Card {
	if k <= 0 {
		return nil
	}
	var out [][]domain.Card
	pick := make([]domain.Card, 0, k)

	var recurse func(start int)
	recurse = func(start int) {
		if len(out) >= limit {
			return
		}
		if len(pick) == k {
			out = append(out, append([]domain.Card(nil), pick...))
			return
		}
		for i := start; i < len(ranks); i++ {
			group := groups[ranks[i]]
			max := len(group)
			if max > k-len(pick) {
				max = k - len(pick)
			}
			for take := 1; take <= max; take++ {
				pick = append(pick, group[:take]...)
				recurse(i + 1)
				pick = pick[:len(pick)-take]
				if len(out) >= limit {
					return
				}
			}
		}
	}
	recurse(0)
	return out
}

func appendRocket(moves []CandidateMove, groups map[domain.Rank][]domain.Card) []CandidateMove {
	small, ok1 := groups[domain.SmallJoker]
	big, ok2 := groups[domain.BigJoker]
	if ok1 && ok2 {
		moves = candidate(moves, []domain.Card{small[0], big[0]})
	}
	return moves
}

// runEligible returns the ascending run-capable ranks holding at least
// the given number of copies.
func runEligible(groups map[domain.Rank][]domain.Card, ranks []domain.Rank, copies int) []domain.Rank {
	var eligible []domain.Rank
	for _, r := range ranks {
		if r.InRun() && len(groups[r]) >= copies {
			eligible = append(eligible, r)
		}
	}
	return eligible
}

// chooseRanks returns up to limit combinations of k ranks, in
// lexicographic order over the input.
func chooseRanks(ranks []domain.Rank, k, limit int) [][]domain.Rank {
	if k <= 0 || k > len(ranks) {
		return nil
	}
	var out [][]domain.Rank
	pick := make([]domain.Rank, 0, k)

	var recurse func(start int)
	recurse = func(start int) {
		if len(out) >= limit {
			return
		}
		if len(pick) == k {
			out = append(out, append([]domain.Rank(nil), pick...))
			return
		}
		for i := start; i < len(ranks); i++ {
			if len(ranks)-i < k-len(pick) {
				break
			}
			pick = append(pick, ranks[i])
			recurse(i + 1)
			pick = pick[:len(pick)-1]
		}
	}
	recurse(0)
	return out
}
