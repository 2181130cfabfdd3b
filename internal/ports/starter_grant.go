package ports

import "context"

// StarterGrantPort hands out the starting bean stack at most once per user.
type StarterGrantPort interface {
	// GrantStarterBeansOnce attempts to grant the one-time starting stack.
	// Returns granted=false when the stack was already granted.
	GrantStarterBeansOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
