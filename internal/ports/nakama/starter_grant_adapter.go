package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"doudizhu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	starterGrantCollection = "onboarding"
	starterGrantKey        = "starter_beans_v1"
)

// NakamaStarterGrantAdapter grants the starting stack using Nakama storage + wallet updates.
type NakamaStarterGrantAdapter struct {
	nk runtime.NakamaModule
}

// NewNakamaStarterGrantAdapter creates a new starter grant adapter.
func NewNakamaStarterGrantAdapter(nk runtime.NakamaModule) *NakamaStarterGrantAdapter {
	return &NakamaStarterGrantAdapter{nk: nk}
}

// GrantStarterBeansOnce grants the starting stack and records a marker atomically.
// The storage write uses version "*" so a second grant attempt is rejected
// by the storage engine instead of double-paying.
func (a *NakamaStarterGrantAdapter) GrantStarterBeansOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	if amount <= 0 {
		return false, fmt.Errorf("amount must be positive")
	}

	marker := map[string]interface{}{
		"amount":     amount,
		"granted_at": time.Now().UTC().Format(time.RFC3339),
	}
	value, err := json.Marshal(marker)
	if err != nil {
		return false, fmt.Errorf("failed to marshal starter grant marker: %w", err)
	}

	storageWrites := []*runtime.StorageWrite{
		{
			Collection:      starterGrantCollection,
			Key:             starterGrantKey,
			UserID:          userID,
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}

	walletUpdates := []*runtime.WalletUpdate{
		{
			UserID:    userID,
			Changeset: map[string]int64{currencyKey: amount},
			Metadata:  metadata,
		},
	}

	_, _, err = a.nk.MultiUpdate(ctx, nil, storageWrites, nil, walletUpdates, true)
	if err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant starter beans: %w", err)
	}

	return true, nil
}

var _ ports.StarterGrantPort = (*NakamaStarterGrantAdapter)(nil)
