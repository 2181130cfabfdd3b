package domain

// Phase represents the lifecycle stage of a Dou Dizhu game.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhaseDealing covers dealing and landlord assignment.
	PhaseDealing Phase = "dealing"
	// PhasePlaying is the active game state where cards are played.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after a game concludes.
	PhaseEnded Phase = "ended"
)

// SeatCount is the number of players in a Dou Dizhu game.
const SeatCount = 3

const (
	// DealtHandSize is the number of cards dealt to each player.
	DealtHandSize = 17
	// BonusCardCount is the number of face-down cards the landlord receives.
	BonusCardCount = 3
)

// Player holds state for a participant in the game.
type Player struct {
	UserID     string
	Seat       int // 0-based seat index
	IsLandlord bool
	Hand       []Card
	HasPassed  bool // whether the most recent turn was a pass
	LastPlayed []Card
	Finished   bool
}

// Game holds authoritative state for one Dou Dizhu deal.
type Game struct {
	Phase   Phase
	Players map[string]*Player // userID -> player
	Seats   [SeatCount]string  // seat index -> userID

	LandlordID    string
	BonusCards    []Card // the landlord's three bonus cards, face up after assignment
	CurrentTurnID string

	// TableCards is the standing play; empty means a fresh trick.
	TableCards []Card
	// TablePlay is the classified standing play (ShapeNone when fresh).
	TablePlay    ClassifiedPlay
	LastPlayerID string
	PassCount    int

	// Discards accumulates every card played this deal.
	Discards []Card

	WinnerID    string
	LandlordWon bool
}

// PlayerAtSeat returns the player seated at the given index, or nil.
func (g *Game) PlayerAtSeat(seat int) *Player {
	if seat < 0 || seat >= SeatCount {
		return nil
	}
	return g.Players[g.Seats[seat]]
}

// NextSeat returns the seat index that acts after the given one.
func NextSeat(seat int) int {
	return (seat + 1) % SeatCount
}

// OpponentsWithCards counts players other than the given one that still
// hold cards.
func (g *Game) OpponentsWithCards(userID string) int {
	n := 0
	for id, pl := range g.Players {
		if id != userID && len(pl.Hand) > 0 {
			n++
		}
	}
	return n
}

// ClearTable resets the trick: the standing play is removed and every
// player's pass flag drops. The caller decides who leads next.
func (g *Game) ClearTable() {
	g.TableCards = nil
	g.TablePlay = ClassifiedPlay{}
	g.PassCount = 0
	for _, pl := range g.Players {
		pl.HasPassed = false
	}
}

// OwnsCards reports whether the hand contains every card of the play,
// respecting multiplicity.
func OwnsCards(hand []Card, play []Card) bool {
	held := make(map[Card]int, len(hand))
	for _, c := range hand {
		held[c]++
	}
	for _, c := range play {
		if held[c] == 0 {
			return false
		}
		held[c]--
	}
	return true
}

// RemoveCards removes the specified cards from a hand and returns the
// updated hand, using multiset semantics.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		removeCounts[c]++
	}

	updated := make([]Card, 0, len(hand))
	for _, c := range hand {
		if count, ok := removeCounts[c]; ok && count > 0 {
			removeCounts[c] = count - 1
			continue
		}
		updated = append(updated, c)
	}
	return updated
}
