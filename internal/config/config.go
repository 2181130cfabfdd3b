package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type ScoreTier struct {
	ID        string `json:"id"`
	BaseScore int64  `json:"base_score"`
}

type GameConfig struct {
	DefaultTier         string      `json:"default_tier"`
	Tiers               []ScoreTier `json:"tiers"`
	TurnDurationSeconds int         `json:"turn_duration_seconds"`
	// Bot turns are delayed by a random duration in [min, max] so plays
	// read as human pacing instead of instant responses.
	BotMinDelaySeconds int `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding a bot to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetBaseScore returns the base score for a given tier ID, or the default if not found.
func GetBaseScore(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.BaseScore
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.BaseScore
		}
	}

	return 100
}

// TurnDuration returns the configured turn length in seconds, with a
// playable default when no config file was loaded.
func TurnDuration() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 30
	}
	return cfg.TurnDurationSeconds
}

// BotDelayRange returns the min and max bot think delay in seconds.
func BotDelayRange() (int, int) {
	if cfg == nil {
		return 1, 3
	}
	min, max := cfg.BotMinDelaySeconds, cfg.BotMaxDelaySeconds
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return min, max
}

// BotAutoFillDelay returns seconds to wait before bots fill empty seats.
func BotAutoFillDelay() int {
	if cfg == nil || cfg.BotAutoFillDelaySeconds < 0 {
		return 5
	}
	return cfg.BotAutoFillDelaySeconds
}
