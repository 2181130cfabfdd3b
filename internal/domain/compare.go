package domain

// CompareResult is the outcome of pitting a challenger play against the
// standing play. Incomparable is distinct from NotGreater: a pair can
// lose to a higher pair (NotGreater) but can never be measured against a
// straight (Incomparable). Pass-detection logic relies on the
// distinction; validity checks may collapse both to "illegal".
type CompareResult int

const (
	NotGreater CompareResult = iota
	Greater
	Incomparable
)

func (r CompareResult) String() string {
	switch r {
	case Greater:
		return "greater"
	case Incomparable:
		return "incomparable"
	default:
		return "not_greater"
	}
}

// Compare decides whether the challenger beats the incumbent. An empty
// incumbent (ShapeNone) means a fresh trick, which any legal play wins.
//
// Cross-shape rules: the rocket beats everything, a bomb beats any
// non-rocket play and lower bombs, and mismatched ordinary shapes are
// incomparable.
func Compare(challenger, incumbent ClassifiedPlay) CompareResult {
	if incumbent.Empty() {
		return Greater
	}

	if challenger.Shape == Rocket {
		if incumbent.Shape == Rocket {
			return NotGreater
		}
		return Greater
	}
	if incumbent.Shape == Rocket {
		return NotGreater
	}

	if challenger.Shape == Bomb {
		if incumbent.Shape == Bomb {
			if challenger.Key > incumbent.Key {
				return Greater
			}
			return NotGreater
		}
		return Greater
	}
	if incumbent.Shape == Bomb {
		return NotGreater
	}

	if challenger.Shape != incumbent.Shape {
		return Incomparable
	}
	if challenger.Length != incumbent.Length {
		return Incomparable
	}
	if challenger.Key > incumbent.Key {
		return Greater
	}
	return NotGreater
}

// CanBeat reports whether the challenger cards legally beat the standing
// cards. An empty standing play is always beaten by any legal shape.
func CanBeat(challenger, standing []Card) bool {
	cp, err := Classify(challenger)
	if err != nil {
		return false
	}
	if len(standing) == 0 {
		return true
	}
	sp, err := Classify(standing)
	if err != nil {
		return false
	}
	return Compare(cp, sp) == Greater
}
