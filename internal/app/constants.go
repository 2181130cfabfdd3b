package app

import "doudizhu/internal/domain"

// MinPlayersToStartGame is the number of occupied seats a deal needs.
// Dou Dizhu is strictly a three-player game; empty seats are filled
// with bots before the deal starts.
const MinPlayersToStartGame = domain.SeatCount
