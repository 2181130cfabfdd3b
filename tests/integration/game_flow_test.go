package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// Op codes mirrored from the server module.
const (
	OpCodeStartGame        = 1
	OpCodeGameStarted      = 103
	OpCodeHandDealt        = 104
	OpCodeLandlordAssigned = 105
)

func TestFullGameStart(t *testing.T) {
	// 1. Create 3 clients, one per seat.
	clients := make([]*TestClient, 3)
	for i := 0; i < 3; i++ {
		clients[i] = NewTestClient(t)
		defer clients[i].Close()
	}
	t.Log("Created 3 clients")

	// 2. Client 0 creates a match via quick_match.
	matchID := clients[0].QuickMatch(t)
	t.Logf("Client 0 created/joined match: %s", matchID)

	// 3. Other clients join the SAME match.
	for i := 1; i < 3; i++ {
		_, err := clients[i].Socket.JoinMatch(context.Background(), nil, matchID, nil)
		if err != nil {
			t.Fatalf("Client %d failed to join match: %v", i, err)
		}
		t.Logf("Client %d joined match", i)
	}

	// Wait a bit for presences to sync.
	time.Sleep(1 * time.Second)

	// 4. Client 0 (owner) sends StartGame.
	t.Log("Client 0 sending StartGame...")
	_, err := clients[0].Socket.SendMatchState(context.Background(), matchID, OpCodeStartGame, []byte("{}"), nil)
	if err != nil {
		t.Fatalf("Failed to send StartGame: %v", err)
	}

	// 5. Assert: every client receives a private 17-card hand. The
	// landlord's three bonus cards arrive via the landlord event.
	for i, c := range clients {
		t.Logf("Waiting for HandDealt on Client %d...", i)
		data := c.WaitForMatchState(t, OpCodeHandDealt, 5*time.Second)

		var event struct {
			UserID string `json:"user_id"`
			Hand   []struct {
				Suit string `json:"suit"`
				Rank int    `json:"rank"`
			} `json:"hand"`
		}
		if err := json.Unmarshal(data.Data, &event); err != nil {
			t.Errorf("Client %d failed to unmarshal HandDealt: %v", i, err)
			continue
		}

		if len(event.Hand) != 17 {
			t.Errorf("Client %d expected 17 cards, got %d", i, len(event.Hand))
		}
	}

	// 6. Assert: everyone learns who the landlord is and the game starts.
	for i, c := range clients {
		data := c.WaitForMatchState(t, OpCodeLandlordAssigned, 5*time.Second)

		var event struct {
			UserID     string `json:"user_id"`
			BonusCards []struct {
				Suit string `json:"suit"`
				Rank int    `json:"rank"`
			} `json:"bonus_cards"`
		}
		if err := json.Unmarshal(data.Data, &event); err != nil {
			t.Errorf("Client %d failed to unmarshal LandlordAssigned: %v", i, err)
			continue
		}
		if event.UserID == "" {
			t.Errorf("Client %d received no landlord id", i)
		}
		if len(event.BonusCards) != 3 {
			t.Errorf("Client %d expected 3 bonus cards, got %d", i, len(event.BonusCards))
		}

		c.WaitForMatchState(t, OpCodeGameStarted, 5*time.Second)
	}

	t.Log("TestPassed: Game started successfully with 3 players.")
}
