package nakama

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// starterBeansAmount is the one-time stack granted to freshly created accounts.
const starterBeansAmount int64 = 3000

// AfterAuthenticateDevice is triggered after an account is authenticated.
// It grants the starting bean stack to new accounts.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.Created {
		return nil
	}

	userID := ""
	if ctxUserID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string); ok {
		userID = ctxUserID
	}
	if userID == "" {
		// Resolve User ID from the session token by parsing the JWT payload manually.
		resolvedID, err := extractUserIDFromToken(out.Token)
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolvedID
	}

	logger.Info("AfterAuthenticateDevice: Setting up new user %s", userID)

	account := NewNakamaAccountAdapter(nk)
	displayName := defaultDisplayName(userID)
	if err := account.UpdateProfile(ctx, userID, "", displayName); err != nil {
		logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, err)
	}

	grant := NewNakamaStarterGrantAdapter(nk)
	granted, err := grant.GrantStarterBeansOnce(ctx, userID, starterBeansAmount, map[string]interface{}{
		"reason": "starter_grant",
	})
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Starter grant failed for user %s: %v", userID, err)
		return err
	}
	if !granted {
		logger.Info("AfterAuthenticateDevice: Starter beans already granted for user %s", userID)
	}
	return nil
}

// defaultDisplayName derives a short readable name from the user id.
func defaultDisplayName(userID string) string {
	suffix := userID
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("Player-%s", suffix)
}

func extractUserIDFromToken(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}

	payload := parts[1]
	// JWT base64 is RawUrlEncoding (no padding)
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims map[string]interface{}
	if err := json.Unmarshal(data, &claims); err != nil {
		return "", fmt.Errorf("failed to unmarshal token claims: %w", err)
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return "", fmt.Errorf("token claims missing uid")
	}

	return uid, nil
}
