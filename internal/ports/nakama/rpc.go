package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcPlayerStats, rpcPlayerStats)
}

// PlayerStatsResponse is the payload returned by the player_stats RPC.
type PlayerStatsResponse struct {
	Wins           int64 `json:"wins"`
	Losses         int64 `json:"losses"`
	LandlordRounds int64 `json:"landlord_rounds"`
	Balance        int64 `json:"balance"`
}

// rpcPlayerStats returns the calling user's lifetime record and balance.
func rpcPlayerStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("no user session", 16) // UNAUTHENTICATED
	}

	record, err := NewNakamaStatsAdapter(nk).GetRecord(ctx, userID)
	if err != nil {
		logger.Error("rpcPlayerStats [User:%s]: Failed to read record: %v", userID, err)
		return "", err
	}

	balance, err := NewNakamaEconomyAdapter(nk).GetBalance(ctx, userID)
	if err != nil {
		logger.Warn("rpcPlayerStats [User:%s]: Failed to read balance: %v", userID, err)
	}

	resp := PlayerStatsResponse{
		Wins:           record.Wins,
		Losses:         record.Losses,
		LandlordRounds: record.LandlordRounds,
		Balance:        balance,
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
