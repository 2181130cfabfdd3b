package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcPlayerStats is the Nakama RPC id clients call to read their win/loss record.
	RpcPlayerStats = "player_stats"

	// MatchNameDouDizhu is the authoritative match handler name registered with Nakama.
	MatchNameDouDizhu = "doudizhu_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpPlayCards int64 = 2
	OpPassTurn  int64 = 3

	// Server -> Client events
	OpMatchSnapshot    int64 = 101
	OpPlayerLeft       int64 = 102
	OpGameStarted      int64 = 103
	OpHandDealt        int64 = 104 // send privately
	OpLandlordAssigned int64 = 105
	OpCardPlayed       int64 = 106
	OpTurnPassed       int64 = 107
	OpGameEnded        int64 = 108
	OpGameError        int64 = 109
)
