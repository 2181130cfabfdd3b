package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"doudizhu/internal/domain"
)

// Service contains Dou Dizhu use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotPlaying     = errors.New("match not in playing phase")
	ErrTooFewPlayers  = errors.New("a deal needs exactly three players")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrPlayerFinished = errors.New("player already finished")
	ErrMustLead       = errors.New("the trick leader must play")
)

// StartGame deals a fresh 54-card deck: seventeen cards per seat, the
// three leftovers to a randomly drawn landlord, who leads the first
// trick. playerIDs must fill all three seats.
func (s *Service) StartGame(playerIDs []string) (*domain.Game, []Event, error) {
	seats := make([]string, 0, domain.SeatCount)
	for _, userID := range playerIDs {
		if userID != "" {
			seats = append(seats, userID)
		}
	}
	if len(seats) != domain.SeatCount {
		return nil, nil, ErrTooFewPlayers
	}

	game := &domain.Game{
		Phase:   domain.PhaseDealing,
		Players: make(map[string]*domain.Player, domain.SeatCount),
	}

	deck := domain.ShuffleDeck(domain.NewDeck(), s.rng)

	events := make([]Event, 0, domain.SeatCount+2)
	for seat, userID := range seats {
		hand := append([]domain.Card(nil), deck[seat*domain.DealtHandSize:(seat+1)*domain.DealtHandSize]...)
		domain.SortCards(hand)

		game.Seats[seat] = userID
		game.Players[userID] = &domain.Player{
			UserID: userID,
			Seat:   seat,
			Hand:   hand,
		}

		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID: userID,
				Hand:   hand,
			},
			Recipients: []string{userID},
		})
	}

	// The last three cards go face up to the landlord.
	bonus := append([]domain.Card(nil), deck[domain.SeatCount*domain.DealtHandSize:]...)
	domain.SortCards(bonus)

	landlord := game.Players[seats[s.rng.Intn(domain.SeatCount)]]
	landlord.IsLandlord = true
	landlord.Hand = append(landlord.Hand, bonus...)
	domain.SortCards(landlord.Hand)

	game.LandlordID = landlord.UserID
	game.BonusCards = bonus
	game.CurrentTurnID = landlord.UserID
	game.Phase = domain.PhasePlaying

	events = append(events,
		Event{
			Kind: EventLandlordAssigned,
			Payload: LandlordAssignedPayload{
				UserID:     landlord.UserID,
				BonusCards: bonus,
			},
		},
		Event{
			Kind: EventGameStarted,
			Payload: GameStartedPayload{
				Phase:           game.Phase,
				FirstTurnUserID: landlord.UserID,
			},
		},
	)

	return game, events, nil
}

// PlayCards validates and applies a play. Validation order: turn
// ownership, card ownership, shape legality, then beat legality against
// the standing play. Nothing mutates until every check passes.
func (s *Service) PlayCards(game *domain.Game, actorUserID string, cards []domain.Card) ([]Event, error) {
	pl, err := s.actingPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return s.PassTurn(game, actorUserID)
	}

	if !domain.OwnsCards(pl.Hand, cards) {
		return nil, domain.ErrNotOwned
	}
	play, err := domain.Classify(cards)
	if err != nil {
		return nil, err
	}
	if domain.Compare(play, game.TablePlay) != domain.Greater {
		return nil, domain.ErrIllegalBeat
	}

	pl.Hand = domain.RemoveCards(pl.Hand, cards)
	pl.LastPlayed = cards
	pl.HasPassed = false

	game.TableCards = cards
	game.TablePlay = play
	game.LastPlayerID = actorUserID
	game.PassCount = 0
	game.Discards = append(game.Discards, cards...)

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			UserID:    actorUserID,
			Cards:     cards,
			Shape:     play.Shape.String(),
			Remaining: len(pl.Hand),
		},
	}}

	if len(pl.Hand) == 0 {
		pl.Finished = true
		game.Phase = domain.PhaseEnded
		game.WinnerID = actorUserID
		game.LandlordWon = pl.IsLandlord
		game.CurrentTurnID = ""

		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerID:    actorUserID,
				LandlordWon: game.LandlordWon,
			},
		})
		return events, nil
	}

	game.CurrentTurnID = game.Seats[domain.NextSeat(pl.Seat)]
	if payload, ok := events[0].Payload.(CardPlayedPayload); ok {
		payload.NextTurnUserID = game.CurrentTurnID
		events[0].Payload = payload
	}
	return events, nil
}

// PassTurn marks a pass. When both opponents of the standing play have
// passed, the trick clears and its owner leads again.
func (s *Service) PassTurn(game *domain.Game, actorUserID string) ([]Event, error) {
	pl, err := s.actingPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if game.TablePlay.Empty() {
		return nil, ErrMustLead
	}

	pl.HasPassed = true
	game.PassCount++

	cleared := game.PassCount >= domain.SeatCount-1
	if cleared {
		game.ClearTable()
		game.CurrentTurnID = game.LastPlayerID
	} else {
		game.CurrentTurnID = game.Seats[domain.NextSeat(pl.Seat)]
	}

	return []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			UserID:         actorUserID,
			NextTurnUserID: game.CurrentTurnID,
			TrickCleared:   cleared,
		},
	}}, nil
}

// ValidatePlay runs the play checks without mutating anything, for
// client-side pre-validation surfaces.
func (s *Service) ValidatePlay(game *domain.Game, actorUserID string, cards []domain.Card) error {
	pl, ok := game.Players[actorUserID]
	if !ok {
		return ErrUnknownPlayer
	}
	if !domain.OwnsCards(pl.Hand, cards) {
		return domain.ErrNotOwned
	}
	play, err := domain.Classify(cards)
	if err != nil {
		return err
	}
	if domain.Compare(play, game.TablePlay) != domain.Greater {
		return fmt.Errorf("%w: %s does not beat %s", domain.ErrIllegalBeat, play.Shape, game.TablePlay.Shape)
	}
	return nil
}

func (s *Service) actingPlayer(game *domain.Game, actorUserID string) (*domain.Player, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	pl, ok := game.Players[actorUserID]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if game.CurrentTurnID != actorUserID {
		return nil, ErrNotYourTurn
	}
	if pl.Finished {
		return nil, ErrPlayerFinished
	}
	return pl, nil
}
