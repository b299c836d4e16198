package domain

import (
	"errors"
	"fmt"
)

// MaxCopies is the number of copies of one card a deck may hold across all zones.
const MaxCopies = 3

// ZoneKind identifies one of the three deck partitions.
type ZoneKind string

const (
	ZoneMain  ZoneKind = "main"
	ZoneExtra ZoneKind = "extra"
	ZoneSide  ZoneKind = "side"
)

// ZoneKinds lists the zones in the order they are displayed and searched.
var ZoneKinds = []ZoneKind{ZoneMain, ZoneExtra, ZoneSide}

// Limit returns the maximum number of cards the zone may hold.
func (k ZoneKind) Limit() int {
	switch k {
	case ZoneMain:
		return 60
	case ZoneExtra, ZoneSide:
		return 15
	default:
		return 0
	}
}

// Label returns the zone's display name.
func (k ZoneKind) Label() string {
	switch k {
	case ZoneMain:
		return "主牌組"
	case ZoneExtra:
		return "額外牌組"
	case ZoneSide:
		return "備牌"
	default:
		return string(k)
	}
}

var (
	ErrZoneFull      = errors.New("zone is full")
	ErrCopyLimit     = errors.New("copy limit reached")
	ErrInvalidCount  = errors.New("count must be positive")
	ErrUnknownZone   = errors.New("unknown zone")
	ErrDeckExists    = errors.New("deck already exists")
	ErrDeckNotFound  = errors.New("deck not found")
	ErrEmptyDeckName = errors.New("deck name is empty")
)

// AddError reports why a card could not be added. It wraps one of
// ErrZoneFull, ErrCopyLimit, ErrInvalidCount or ErrUnknownZone.
type AddError struct {
	Card    string
	Zone    ZoneKind
	Current int
	Err     error
}

func (e *AddError) Error() string {
	return fmt.Sprintf("domain: add %q to %s: %v", e.Card, e.Zone, e.Err)
}

func (e *AddError) Unwrap() error { return e.Err }

// CardCount is a single zone entry.
type CardCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Zone is an insertion-ordered card name to count mapping. Entries always
// carry a positive count.
type Zone []CardCount

// Total returns the number of cards in the zone.
func (z Zone) Total() int {
	n := 0
	for _, c := range z {
		n += c.Count
	}
	return n
}

// Count returns the copies of name held in the zone.
func (z Zone) Count(name string) int {
	for _, c := range z {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// Map returns the zone as a plain map.
func (z Zone) Map() map[string]int {
	m := make(map[string]int, len(z))
	for _, c := range z {
		m[c.Name] = c.Count
	}
	return m
}

func (z *Zone) add(name string, n int) {
	for i := range *z {
		if (*z)[i].Name == name {
			(*z)[i].Count += n
			return
		}
	}
	*z = append(*z, CardCount{Name: name, Count: n})
}

// take removes up to n copies of name and returns how many were removed.
func (z *Zone) take(name string, n int) int {
	for i := range *z {
		if (*z)[i].Name != name {
			continue
		}
		removed := min((*z)[i].Count, n)
		(*z)[i].Count -= removed
		if (*z)[i].Count == 0 {
			*z = append((*z)[:i], (*z)[i+1:]...)
		}
		return removed
	}
	return 0
}

// Deck is a named card list split into main, extra and side zones.
type Deck struct {
	Name  string `json:"name"`
	Main  Zone   `json:"main"`
	Extra Zone   `json:"extra"`
	Side  Zone   `json:"side"`
}

// NewDeck returns an empty deck.
func NewDeck(name string) *Deck {
	return &Deck{Name: name, Main: Zone{}, Extra: Zone{}, Side: Zone{}}
}

// ZoneOf returns a pointer to the requested zone, or nil for an unknown kind.
func (d *Deck) ZoneOf(kind ZoneKind) *Zone {
	switch kind {
	case ZoneMain:
		return &d.Main
	case ZoneExtra:
		return &d.Extra
	case ZoneSide:
		return &d.Side
	default:
		return nil
	}
}

// Copies returns how many copies of name the deck holds across all zones.
func (d *Deck) Copies(name string) int {
	return d.Main.Count(name) + d.Extra.Count(name) + d.Side.Count(name)
}

// Add puts n copies of name into the zone. The deck is left unchanged when
// the zone limit or the per-card copy limit would be exceeded.
func (d *Deck) Add(kind ZoneKind, name string, n int) error {
	zone := d.ZoneOf(kind)
	if zone == nil {
		return &AddError{Card: name, Zone: kind, Err: ErrUnknownZone}
	}
	if n <= 0 {
		return &AddError{Card: name, Zone: kind, Err: ErrInvalidCount}
	}
	if n > kind.Limit()-zone.Total() {
		return &AddError{Card: name, Zone: kind, Current: zone.Total(), Err: ErrZoneFull}
	}
	if copies := d.Copies(name); n > MaxCopies-copies {
		return &AddError{Card: name, Zone: kind, Current: copies, Err: ErrCopyLimit}
	}
	zone.add(name, n)
	return nil
}

// Remove takes up to n copies of name, searching main, extra and side in
// that order, and returns how many were removed.
func (d *Deck) Remove(name string, n int) int {
	if n <= 0 {
		return 0
	}
	remaining := n
	for _, kind := range ZoneKinds {
		if remaining <= 0 {
			break
		}
		remaining -= d.ZoneOf(kind).take(name, remaining)
	}
	return n - remaining
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	return &Deck{
		Name:  d.Name,
		Main:  append(Zone{}, d.Main...),
		Extra: append(Zone{}, d.Extra...),
		Side:  append(Zone{}, d.Side...),
	}
}
