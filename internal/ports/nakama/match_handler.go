package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/config"
	"doudizhu/internal/domain"
	"doudizhu/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	MatchLabelKey_OpenSeats = "open" // Key for the open seats in the match label

	// gameStartTurnTimerBonusSeconds pads the very first turn so clients
	// can finish their deal animation before the clock starts.
	gameStartTurnTimerBonusSeconds = 5
)

// MatchLabel is the JSON label Nakama indexes for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	State string `json:"state"`
	Game  string `json:"game"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [domain.SeatCount]string    `json:"seats"`      // Array of user IDs, empty string means seat is empty
	OwnerSeat            int                         `json:"owner_seat"` // Seat index of the match owner
	Tick                 int64                       `json:"tick"`
	Presences            map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"` // Game rules service
	Game                 *domain.Game                `json:"-"` // Current active game state (nil if in lobby)
	BotsEnabled          bool                        `json:"bots_enabled"`
	BotMinDelay          int                         `json:"bot_min_delay"`
	BotMaxDelay          int                         `json:"bot_max_delay"`
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	TurnSecondsRemaining int64                       `json:"turn_seconds_remaining"`
	ScoreMultiplier      int64                       `json:"score_multiplier"` // Doubles on every bomb or rocket played
	Bots                 map[string]*bot.Agent       `json:"-"`
	Economy              ports.EconomyPort           `json:"-"`
	Stats                ports.StatsPort             `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	// Load bot identities from data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	// Load game configuration
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	minDelay, maxDelay := config.BotDelayRange()
	state := &MatchState{
		Tick:             time.Now().Unix(),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		OwnerSeat:        -1,
		BotsEnabled:      true,
		BotMinDelay:      minDelay,
		BotMaxDelay:      maxDelay,
		BotAutoFillDelay: config.BotAutoFillDelay(),
		ScoreMultiplier:  1,
		Bots:             make(map[string]*bot.Agent),
		Economy:          NewNakamaEconomyAdapter(nk),
		Stats:            NewNakamaStatsAdapter(nk),
	}

	// Environment variables override the config file for ops tweaks.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["doudizhu_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["doudizhu_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["doudizhu_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["doudizhu_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	label := MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		State: "lobby",
		Game:  "doudizhu",
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)

				payload, _ := json.Marshal(PlayerLeftMessage{UserID: p.GetUserId(), Seat: i})
				dispatcher.BroadcastMessage(OpPlayerLeft, payload, nil, nil, true)
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	mh.tickTurnTimer(ctx, matchState, dispatcher, logger)

	return matchState
}

// tickTurnTimer counts down the acting player's clock and forces a move
// when it expires. A timed-out leader plays their lowest single; anyone
// else passes.
func (mh *matchHandler) tickTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		return
	}

	state.TurnSecondsRemaining--
	if state.TurnSecondsRemaining > 0 {
		return
	}

	currentUserID := state.Game.CurrentTurnID
	pl, ok := state.Game.Players[currentUserID]
	if !ok {
		return
	}
	logger.Info("tickTurnTimer: User %s timed out, forcing a move.", currentUserID)

	var events []app.Event
	var err error
	if state.Game.TablePlay.Empty() && len(pl.Hand) > 0 {
		lowest := []domain.Card{domain.MinCard(pl.Hand)}
		events, err = state.App.PlayCards(state.Game, currentUserID, lowest)
	} else {
		events, err = state.App.PassTurn(state.Game, currentUserID)
	}
	if err != nil {
		logger.Error("tickTurnTimer: Forced move for %s failed: %v", currentUserID, err)
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) resetTurnSecondsRemainingWithBonus(state *MatchState, logger runtime.Logger, bonusSeconds int) {
	state.TurnSecondsRemaining = int64(config.TurnDuration() + bonusSeconds)
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.Game == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						identity := bot.GetBotIdentity(i)
						agent, err := mh.newBotAgent(identity)
						if err != nil {
							logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
							continue
						}
						state.Seats[i] = identity.UserID
						state.Bots[identity.UserID] = agent

						logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, identity.UserID, i)
						added = true
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(ctx, state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Handle bot turns in-game
	if state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		currentUserID := state.Game.CurrentTurnID

		if isBotUserId(currentUserID) {
			if state.BotWaitUntil == 0 {
				delay := state.BotMinDelay
				if state.BotMaxDelay > state.BotMinDelay {
					delay += rand.Intn(state.BotMaxDelay - state.BotMinDelay + 1)
				}
				state.BotWaitUntil = state.Tick + int64(delay)
				logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
			}

			if state.Tick >= state.BotWaitUntil {
				state.BotWaitUntil = 0

				agent, exists := state.Bots[currentUserID]
				if !exists {
					identity, ok := bot.GetBotConfig(currentUserID)
					if !ok {
						logger.Error("processBots: No identity for bot %s", currentUserID)
						return
					}
					var err error
					agent, err = mh.newBotAgent(identity)
					if err != nil {
						logger.Error("processBots: Failed to create fallback agent: %v", err)
						return
					}
					state.Bots[currentUserID] = agent
				}

				move, err := agent.Play(state.Game)
				if err != nil {
					logger.Error("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
					return
				}

				var events []app.Event
				if move.Pass {
					events, err = state.App.PassTurn(state.Game, currentUserID)
				} else {
					events, err = state.App.PlayCards(state.Game, currentUserID, move.Cards)
				}
				if err != nil {
					logger.Error("processBots: Bot %s move rejected: %v", currentUserID, err)
					return
				}
				for _, ev := range events {
					mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
				}
			}
		} else {
			state.BotWaitUntil = 0
		}
	}
}

func (mh *matchHandler) newBotAgent(identity bot.BotIdentity) (*bot.Agent, error) {
	brainImpl, err := bot.NewBrain(identity.Level())
	if err != nil {
		return nil, err
	}
	return bot.NewAgent(identity.UserID, identity.DisplayName, brainImpl), nil
}

func (mh *matchHandler) broadcastMatchState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var playerStates []PlayerStateMessage
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		cardsRemaining := 0
		if state.Game != nil {
			if p, ok := state.Game.Players[userId]; ok {
				cardsRemaining = len(p.Hand)
			}
		}

		balance := int64(0)
		if state.Economy != nil {
			if b, err := state.Economy.GetBalance(ctx, userId); err == nil {
				balance = b
			}
		}

		playerStates = append(playerStates, PlayerStateMessage{
			UserID:         userId,
			Seat:           i,
			IsOwner:        i == state.OwnerSeat,
			CardsRemaining: cardsRemaining,
			DisplayName:    displayName,
			Balance:        balance,
		})
	}

	snapshot := MatchSnapshotMessage{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   playerStates,
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchSnapshot, bytes, nil, nil, true)
}

func (mh *matchHandler) senderSeat(state *MatchState, userID string) int {
	for i, seatUserId := range state.Seats {
		if seatUserId == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	mh.startGame(ctx, state, dispatcher, logger, msg.GetUserId())
}

func (mh *matchHandler) startGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, senderID string) {
	senderSeat := mh.senderSeat(state, senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		logger.Warn("StartGame: Game already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need %d.", activeCount, app.MinPlayersToStartGame)
		return
	}

	game, events, err := state.App.StartGame(state.Seats[:])
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}

	state.Game = game
	state.ScoreMultiplier = 1
	// A wait tick left over from the last game must not pace this one.
	state.BotWaitUntil = 0

	// Fresh deal, fresh bot memories.
	for _, agent := range state.Bots {
		agent.ObserveDeal()
	}

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players, landlord %s.", activeCount, game.LandlordID)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePlayCards: Game not started.")
		return
	}

	var request PlayCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCards: Failed to unmarshal PlayCardsRequest: %v", err)
		return
	}
	domainCards := cardsFromWire(request.Cards)

	events, err := state.App.PlayCards(state.Game, senderID, domainCards)
	if err != nil {
		logger.Warn("handlePlayCards: User %s failed to play cards: %v. Requested: %+v", senderID, err, domainCards)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		logger.Warn("handlePassTurn: Game not started.")
		return
	}

	events, err := state.App.PassTurn(state.Game, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		payload = GameStartedMessage{
			Phase:           string(p.Phase),
			FirstTurnUserID: p.FirstTurnUserID,
		}
		mh.resetTurnSecondsRemainingWithBonus(state, logger, gameStartTurnTimerBonusSeconds)
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = HandDealtMessage{
			UserID: p.UserID,
			Hand:   cardsToWire(p.Hand),
		}
	case app.EventLandlordAssigned:
		opCode = OpLandlordAssigned
		p := ev.Payload.(app.LandlordAssignedPayload)
		payload = LandlordAssignedMessage{
			UserID:     p.UserID,
			BonusCards: cardsToWire(p.BonusCards),
		}
	case app.EventCardPlayed:
		opCode = OpCardPlayed
		p := ev.Payload.(app.CardPlayedPayload)
		payload = CardPlayedMessage{
			UserID:         p.UserID,
			Cards:          cardsToWire(p.Cards),
			Shape:          p.Shape,
			Remaining:      p.Remaining,
			NextTurnUserID: p.NextTurnUserID,
		}

		// Every revealed card feeds the bot memories, own plays included.
		for _, agent := range state.Bots {
			agent.ObservePlay(p.Cards)
		}

		if p.Shape == domain.Bomb.String() || p.Shape == domain.Rocket.String() {
			state.ScoreMultiplier *= 2
			logger.Info("broadcastEvent: %s played, score multiplier now x%d", p.Shape, state.ScoreMultiplier)
		}
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
	case app.EventTurnPassed:
		opCode = OpTurnPassed
		p := ev.Payload.(app.TurnPassedPayload)
		payload = TurnPassedMessage{
			UserID:         p.UserID,
			NextTurnUserID: p.NextTurnUserID,
			TrickCleared:   p.TrickCleared,
		}
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)

		scores := mh.settleRound(ctx, state, logger, p.LandlordWon)
		payload = GameEndedMessage{
			WinnerID:    p.WinnerID,
			LandlordWon: p.LandlordWon,
			Multiplier:  state.ScoreMultiplier,
			Scores:      scores,
		}

		// Game ended, clear game state and update label back to lobby
		state.Game = nil
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleRound applies the round stakes. The landlord plays against both
// farmers, so their swing is twice the per-farmer stake. Bot wallets are
// never touched. Returns the per-user deltas for the game_ended payload.
func (mh *matchHandler) settleRound(ctx context.Context, state *MatchState, logger runtime.Logger, landlordWon bool) map[string]int64 {
	if state.Game == nil {
		return nil
	}

	stake := config.GetBaseScore("") * state.ScoreMultiplier
	scores := make(map[string]int64, domain.SeatCount)

	var updates []ports.WalletUpdate
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		isLandlord := userID == state.Game.LandlordID

		var delta int64
		switch {
		case isLandlord && landlordWon:
			delta = 2 * stake
		case isLandlord:
			delta = -2 * stake
		case landlordWon:
			delta = -stake
		default:
			delta = stake
		}
		scores[userID] = delta

		if isBotUserId(userID) {
			continue
		}

		updates = append(updates, ports.WalletUpdate{
			UserID: userID,
			Amount: delta,
			Metadata: map[string]interface{}{
				"reason":     "round_settlement",
				"multiplier": state.ScoreMultiplier,
			},
		})

		if state.Stats != nil {
			won := isLandlord == landlordWon
			if err := state.Stats.RecordResult(ctx, userID, won, isLandlord); err != nil {
				logger.Warn("settleRound: Failed to record result for %s: %v", userID, err)
			}
		}
	}

	if state.Economy != nil {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("settleRound: Failed to update balances: %v", err)
		}
	}
	return scores
}

// sendError sends a GameErrorMessage to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameErrorMessage{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorMessage: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	matchState := "lobby"
	if state.Game != nil {
		matchState = "playing"
	}

	label := MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		State: matchState,
		Game:  "doudizhu",
	}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
