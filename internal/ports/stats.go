package ports

import "context"

// PlayerRecord is a user's lifetime win/loss tally.
type PlayerRecord struct {
	Wins           int64 `json:"wins"`
	Losses         int64 `json:"losses"`
	LandlordRounds int64 `json:"landlord_rounds"`
}

// StatsPort persists per-player match records.
type StatsPort interface {
	// RecordResult appends one round result to the user's record.
	RecordResult(ctx context.Context, userID string, won, wasLandlord bool) error

	// GetRecord returns the user's record, zero-valued if none exists yet.
	GetRecord(ctx context.Context, userID string) (PlayerRecord, error)
}
