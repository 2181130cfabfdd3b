package bot

import botinternal "doudizhu/internal/bot/internal"

// DefaultWeights is the tuned scoring table for the smart strategy.
// Lead totals combine shape strength, hand-shape optimization, threat
// pressure, control, seat position and shape priority; follow totals
// combine fit quality, structure destruction and control.
var DefaultWeights = botinternal.Weights{
	HandOptimizationScale: 2.0,
	ThreatBase:            10.0,
	LandlordThreatCoef:    1.2,
	FarmerThreatCoef:      0.8,

	LongRunControlBonus: 3.0,
	BombControlBonus:    2.0,
	TrioProbeBonus:      2.0,

	LandlordLowSingleBonus: 1.5,
	LandlordLowPairBonus:   1.0,
	LandlordBigExposeBonus: 0.5,
	UpSeatHighCardBonus:    2.0,
	DownSeatLowCardBonus:   1.5,

	LowSinglePriority:  1.2,
	LowPairPriority:    1.5,
	TrioPriority:       1.8,
	TrioAttachPriority: 2.0,
	RunPriority:        3.0,
	BombPriority:       4.0,
	RocketPriority:     5.0,
	NearEmptyPriority:  2.0,

	FollowFitBase:         2.0,
	FollowNearStep:        0.2,
	FollowFarStep:         0.4,
	DestructionPenalty:    1.5,
	EmptyHandControlBonus: 5.0,
	NearEmptyControlBonus: 2.0,

	EndgameBaseScale: 2.0,
	FinishProbScale:  5.0,
	FarmerFinishCoef: 0.8,

	DangerFloor: 4.0,
}
