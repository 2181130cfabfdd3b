package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/config"
	"doudizhu/internal/domain"
	"doudizhu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

type mockEconomy struct {
	balances map[string]int64
	updates  []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	if balance, ok := me.balances[userID]; ok {
		return balance, nil
	}
	return 0, errors.New("balance not found")
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return nil
}

type recordedResult struct {
	won         bool
	wasLandlord bool
}

type mockStats struct {
	results map[string]recordedResult
}

func (ms *mockStats) RecordResult(ctx context.Context, userID string, won, wasLandlord bool) error {
	if ms.results == nil {
		ms.results = make(map[string]recordedResult)
	}
	ms.results[userID] = recordedResult{won: won, wasLandlord: wasLandlord}
	return nil
}

func (ms *mockStats) GetRecord(ctx context.Context, userID string) (ports.PlayerRecord, error) {
	return ports.PlayerRecord{}, nil
}

func init() {
	// Load bot identities for testing.
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{
			name:  "FirstHumanAfterBot",
			seats: []string{bot1, "user-1", ""},
			want:  1,
		},
		{
			name:  "AllBots",
			seats: []string{bot1, bot2, ""},
			want:  -1,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", ""},
			want:  -1,
		},
		{
			name:  "FirstHumanIsSeatZero",
			seats: []string{"user-1", bot1, "user-2"},
			want:  0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID
	bot3 := bot.GetBotIdentity(2).UserID

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{
			name:  "BotsOnly",
			seats: []string{bot1, bot2, bot3},
			want:  true,
		},
		{
			name:  "BotsAndEmpty",
			seats: []string{bot1, "", bot3},
			want:  true,
		},
		{
			name:  "HumansPresent",
			seats: []string{bot1, "user-1", ""},
			want:  false,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", ""},
			want:  true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabelMarshal(t *testing.T) {
	tests := []struct {
		name     string
		label    MatchLabel
		expected string
	}{
		{
			name:     "LobbyState",
			label:    MatchLabel{Open: 2, State: "lobby", Game: "doudizhu"},
			expected: `{"open":2,"state":"lobby","game":"doudizhu"}`,
		},
		{
			name:     "PlayingState",
			label:    MatchLabel{Open: 0, State: "playing", Game: "doudizhu"},
			expected: `{"open":0,"state":"playing","game":"doudizhu"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payload, err := json.Marshal(test.label)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			if string(payload) != test.expected {
				t.Errorf("Got %s, want %s", payload, test.expected)
			}
		})
	}
}

func TestResetTurnSecondsRemainingWithBonus(t *testing.T) {
	handler := &matchHandler{}
	state := &MatchState{
		Game: &domain.Game{
			Phase: domain.PhasePlaying,
		},
	}

	handler.resetTurnSecondsRemainingWithBonus(state, noopLogger{}, gameStartTurnTimerBonusSeconds)

	want := int64(config.TurnDuration() + gameStartTurnTimerBonusSeconds)
	if state.TurnSecondsRemaining != want {
		t.Fatalf("TurnSecondsRemaining = %d, want %d", state.TurnSecondsRemaining, want)
	}
}

func TestProcessBots_FillsSeatsForSoloHuman(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:                [domain.SeatCount]string{"user-1", "", ""},
		Presences:            make(map[string]runtime.Presence),
		Bots:                 make(map[string]*bot.Agent),
		BotAutoFillDelay:     2,
		LastSinglePlayerTick: 8,
		Tick:                 10,
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
		}
	}

	if botCount != 2 {
		t.Fatalf("Expected 2 bots, got %d", botCount)
	}
	if state.GetOpenSeatsCount() != 0 {
		t.Fatalf("Expected no open seats after auto-fill, got %d", state.GetOpenSeatsCount())
	}
	if len(state.Bots) != 2 {
		t.Fatalf("Expected 2 bot agents, got %d", len(state.Bots))
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
	if dispatcher.broadcastCount == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected match state broadcast and label update after auto-fill")
	}
}

func TestStartGame_ResetsPacingAndMultiplier(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:     [domain.SeatCount]string{"user-1", "user-2", "user-3"},
		OwnerSeat: 0,
		Presences: make(map[string]runtime.Presence),
		Bots:      make(map[string]*bot.Agent),
		App:       app.NewService(nil),
		// Leftovers from a finished round.
		ScoreMultiplier: 4,
		BotWaitUntil:    99,
	}

	handler.startGame(context.Background(), state, dispatcher, noopLogger{}, "user-1")

	if state.Game == nil {
		t.Fatal("game did not start")
	}
	if state.BotWaitUntil != 0 {
		t.Errorf("BotWaitUntil = %d, want 0 on a fresh deal", state.BotWaitUntil)
	}
	if state.ScoreMultiplier != 1 {
		t.Errorf("ScoreMultiplier = %d, want 1 on a fresh deal", state.ScoreMultiplier)
	}
}

func TestBroadcastMatchState_IncludesBalances(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	botID := bot.GetBotIdentity(0).UserID
	economy := &mockEconomy{
		balances: map[string]int64{
			"user-1": 1200,
			botID:    5000,
		},
	}
	state := &MatchState{
		Seats:     [domain.SeatCount]string{"user-1", botID, ""},
		OwnerSeat: 0,
		Tick:      42,
		Presences: make(map[string]runtime.Presence),
		Economy:   economy,
	}

	handler.broadcastMatchState(context.Background(), state, dispatcher, noopLogger{})

	if dispatcher.lastOpCode != OpMatchSnapshot {
		t.Fatalf("Expected opcode %d, got %d", OpMatchSnapshot, dispatcher.lastOpCode)
	}

	var snapshot MatchSnapshotMessage
	if err := json.Unmarshal(dispatcher.lastData, &snapshot); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}

	balances := make(map[string]int64)
	for _, player := range snapshot.Players {
		balances[player.UserID] = player.Balance
	}

	if got := balances["user-1"]; got != 1200 {
		t.Fatalf("Expected human balance 1200, got %d", got)
	}
	if got := balances[botID]; got != 5000 {
		t.Fatalf("Expected bot balance 5000, got %d", got)
	}
}

func TestSettleRound_LandlordWin(t *testing.T) {
	handler := &matchHandler{}
	economy := &mockEconomy{balances: map[string]int64{}}
	stats := &mockStats{}
	botID := bot.GetBotIdentity(0).UserID

	state := &MatchState{
		Seats:           [domain.SeatCount]string{"user-1", "user-2", botID},
		ScoreMultiplier: 2,
		Economy:         economy,
		Stats:           stats,
		Game: &domain.Game{
			LandlordID: "user-1",
		},
	}

	scores := handler.settleRound(context.Background(), state, noopLogger{}, true)

	stake := config.GetBaseScore("") * 2
	if scores["user-1"] != 2*stake {
		t.Errorf("landlord delta = %d, want %d", scores["user-1"], 2*stake)
	}
	if scores["user-2"] != -stake || scores[botID] != -stake {
		t.Errorf("farmer deltas = %d/%d, want %d each", scores["user-2"], scores[botID], -stake)
	}

	for _, update := range economy.updates {
		if update.UserID == botID {
			t.Error("bot wallets must never be settled")
		}
	}
	if len(economy.updates) != 2 {
		t.Errorf("wallet updates = %d, want 2 humans", len(economy.updates))
	}

	if got := stats.results["user-1"]; !got.won || !got.wasLandlord {
		t.Errorf("landlord record = %+v, want win as landlord", got)
	}
	if got := stats.results["user-2"]; got.won || got.wasLandlord {
		t.Errorf("farmer record = %+v, want loss as farmer", got)
	}
	if _, ok := stats.results[botID]; ok {
		t.Error("bot results must not be recorded")
	}
}

func TestBroadcastEvent_BombDoublesMultiplier(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Presences:       make(map[string]runtime.Presence),
		Bots:            make(map[string]*bot.Agent),
		ScoreMultiplier: 1,
	}

	ev := app.Event{
		Kind: app.EventCardPlayed,
		Payload: app.CardPlayedPayload{
			UserID: "user-1",
			Shape:  domain.Bomb.String(),
		},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if state.ScoreMultiplier != 2 {
		t.Fatalf("ScoreMultiplier = %d, want 2", state.ScoreMultiplier)
	}
	if dispatcher.lastOpCode != OpCardPlayed {
		t.Fatalf("opcode = %d, want %d", dispatcher.lastOpCode, OpCardPlayed)
	}
}

func TestBroadcastEvent_PrivateEventNotLeaked(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
		Bots:      make(map[string]*bot.Agent),
	}

	// Hand dealt to a bot with no presence: must not fall back to broadcast.
	ev := app.Event{
		Kind: app.EventHandDealt,
		Payload: app.HandDealtPayload{
			UserID: "test-bot-1",
			Hand:   []domain.Card{{Suit: domain.Spade, Rank: domain.Rank3}},
		},
		Recipients: []string{"test-bot-1"},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if dispatcher.broadcastCount != 0 {
		t.Fatalf("private event leaked: %d broadcasts", dispatcher.broadcastCount)
	}
}
