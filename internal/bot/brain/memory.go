package brain

import (
	"doudizhu/internal/domain"
)

// SeenRanks accumulates every rank played since the last deal. It is a
// caller-owned value: each game carries its own accumulator and threads
// it through AI calls, so concurrent games never share memory.
//
// The counts are advisory bookkeeping for probability estimates. Losing
// or resetting them only degrades AI quality, never correctness.
type SeenRanks struct {
	counts [int(domain.BigJoker) + 1]int
}

// NewSeenRanks returns an empty accumulator.
func NewSeenRanks() *SeenRanks {
	return &SeenRanks{}
}

// Reset clears the accumulator for a new deal.
func (s *SeenRanks) Reset() {
	if s == nil {
		return
	}
	for i := range s.counts {
		s.counts[i] = 0
	}
}

// Record adds the ranks of the played cards.
func (s *SeenRanks) Record(cards []domain.Card) {
	if s == nil {
		return
	}
	for _, c := range cards {
		s.counts[int(c.Rank)]++
	}
}

// Count returns how many copies of a rank have been seen. A nil
// accumulator has seen nothing.
func (s *SeenRanks) Count(r domain.Rank) int {
	if s == nil {
		return 0
	}
	return s.counts[int(r)]
}

// Unseen returns how many copies of a rank remain unaccounted for from
// the observer's point of view: deck copies minus seen minus the copies
// the observer holds.
func (s *SeenRanks) Unseen(r domain.Rank, heldCopies int) int {
	n := domain.CopiesOf(r) - s.Count(r) - heldCopies
	if n < 0 {
		return 0
	}
	return n
}

// Total returns the number of cards recorded since the last reset.
func (s *SeenRanks) Total() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}
