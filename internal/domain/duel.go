package domain

import "errors"

const (
	// StartingLife is the life point total each side begins a duel with.
	StartingLife = 8000
	// MaxLife bounds the magnitude of either side's life points.
	MaxLife = 1_000_000_000
)

// Side selects one player of a duel.
type Side string

const (
	SideNone     Side = ""
	SideSelf     Side = "self"
	SideOpponent Side = "opponent"
)

// Label returns the side's display name.
func (s Side) Label() string {
	switch s {
	case SideSelf:
		return "我方"
	case SideOpponent:
		return "對方"
	default:
		return ""
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	switch s {
	case SideSelf:
		return SideOpponent
	case SideOpponent:
		return SideSelf
	default:
		return SideNone
	}
}

var (
	ErrNoTarget    = errors.New("no target selected")
	ErrLifeOverrun = errors.New("life points out of range")
)

// Outcome describes how a finished duel ended.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeDraw
	OutcomeSelfWins
	OutcomeOpponentWins
)

// Duel tracks the life points of both players and which side the next
// adjustment applies to.
type Duel struct {
	Self     int  `json:"self"`
	Opponent int  `json:"opponent"`
	Target   Side `json:"target,omitempty"`
}

// NewDuel returns a duel with both sides at StartingLife and no target.
func NewDuel() *Duel {
	return &Duel{Self: StartingLife, Opponent: StartingLife}
}

// Life returns the life points of the given side.
func (d *Duel) Life(s Side) int {
	if s == SideOpponent {
		return d.Opponent
	}
	return d.Self
}

func (d *Duel) target() (*int, error) {
	switch d.Target {
	case SideSelf:
		return &d.Self, nil
	case SideOpponent:
		return &d.Opponent, nil
	default:
		return nil, ErrNoTarget
	}
}

// Adjust adds delta to the target's life points. The duel is unchanged
// when the result would leave [-MaxLife, MaxLife].
func (d *Duel) Adjust(delta int) error {
	lp, err := d.target()
	if err != nil {
		return err
	}
	if delta > MaxLife-*lp || delta < -MaxLife-*lp {
		return ErrLifeOverrun
	}
	*lp += delta
	return nil
}

// Halve halves the target's life points, rounding up.
func (d *Duel) Halve() error {
	lp, err := d.target()
	if err != nil {
		return err
	}
	*lp = ceilHalf(*lp)
	return nil
}

// Outcome reports whether a side has run out of life points.
func (d *Duel) Outcome() Outcome {
	switch {
	case d.Self <= 0 && d.Opponent <= 0:
		return OutcomeDraw
	case d.Self <= 0:
		return OutcomeOpponentWins
	case d.Opponent <= 0:
		return OutcomeSelfWins
	default:
		return OutcomeOngoing
	}
}

// Clone returns a copy of the duel.
func (d *Duel) Clone() *Duel {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func ceilHalf(n int) int {
	if n >= 0 {
		return (n + 1) / 2
	}
	return n / 2
}
