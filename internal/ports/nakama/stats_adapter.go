package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"doudizhu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "stats"
	statsKey        = "match_record_v1"
)

// NakamaStatsAdapter persists win/loss records in Nakama storage.
type NakamaStatsAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk}
}

// GetRecord returns the stored record for a user, zero-valued when absent.
func (a *NakamaStatsAdapter) GetRecord(ctx context.Context, userID string) (ports.PlayerRecord, error) {
	record, _, err := a.readRecord(ctx, userID)
	return record, err
}

// RecordResult folds one round result into the stored record. The write
// carries the read version so concurrent match handlers cannot clobber
// each other's updates.
func (a *NakamaStatsAdapter) RecordResult(ctx context.Context, userID string, won, wasLandlord bool) error {
	record, version, err := a.readRecord(ctx, userID)
	if err != nil {
		return err
	}

	if won {
		record.Wins++
	} else {
		record.Losses++
	}
	if wasLandlord {
		record.LandlordRounds++
	}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal player record: %w", err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      statsCollection,
			Key:             statsKey,
			UserID:          userID,
			Value:           string(value),
			Version:         version,
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write player record: %w", err)
	}
	return nil
}

func (a *NakamaStatsAdapter) readRecord(ctx context.Context, userID string) (ports.PlayerRecord, string, error) {
	var record ports.PlayerRecord

	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{
			Collection: statsCollection,
			Key:        statsKey,
			UserID:     userID,
		},
	})
	if err != nil {
		return record, "", fmt.Errorf("failed to read player record: %w", err)
	}
	if len(objects) == 0 {
		return record, "*", nil
	}

	if err := json.Unmarshal([]byte(objects[0].Value), &record); err != nil {
		return record, "", fmt.Errorf("failed to unmarshal player record: %w", err)
	}
	return record, objects[0].Version, nil
}

var _ ports.StatsPort = (*NakamaStatsAdapter)(nil)
