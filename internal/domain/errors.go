package domain

import "errors"

var (
	// ErrInvalidShape means the cards form none of the 13 legal shapes.
	ErrInvalidShape = errors.New("cards do not form a legal shape")
	// ErrIllegalBeat means a legal shape that cannot beat the standing play.
	ErrIllegalBeat = errors.New("play cannot beat the standing play")
	// ErrNotOwned means a play references cards the player does not hold.
	ErrNotOwned = errors.New("play references cards not in hand")
)
