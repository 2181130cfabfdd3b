package nakama

// Client -> Server requests.

type PlayCardsRequest struct {
	Cards []WireCard `json:"cards"`
}

// Server -> Client messages.

type MatchSnapshotMessage struct {
	Seats     []string             `json:"seats"`
	OwnerSeat int                  `json:"owner_seat"`
	Tick      int64                `json:"tick"`
	Players   []PlayerStateMessage `json:"players"`
}

type PlayerStateMessage struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	CardsRemaining int    `json:"cards_remaining"`
	DisplayName    string `json:"display_name"`
	Balance        int64  `json:"balance"`
}

type PlayerLeftMessage struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
}

type GameStartedMessage struct {
	Phase           string `json:"phase"`
	FirstTurnUserID string `json:"first_turn_user_id"`
}

type HandDealtMessage struct {
	UserID string     `json:"user_id"`
	Hand   []WireCard `json:"hand"`
}

type LandlordAssignedMessage struct {
	UserID     string     `json:"user_id"`
	BonusCards []WireCard `json:"bonus_cards"`
}

type CardPlayedMessage struct {
	UserID         string     `json:"user_id"`
	Cards          []WireCard `json:"cards"`
	Shape          string     `json:"shape"`
	Remaining      int        `json:"remaining"`
	NextTurnUserID string     `json:"next_turn_user_id"`
}

type TurnPassedMessage struct {
	UserID         string `json:"user_id"`
	NextTurnUserID string `json:"next_turn_user_id"`
	TrickCleared   bool   `json:"trick_cleared"`
}

type GameEndedMessage struct {
	WinnerID    string           `json:"winner_id"`
	LandlordWon bool             `json:"landlord_won"`
	Multiplier  int64            `json:"multiplier"`
	Scores      map[string]int64 `json:"scores"`
}

type GameErrorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
