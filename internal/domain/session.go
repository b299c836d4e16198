package domain

import "strings"

// Session is everything the bot remembers about one user.
type Session struct {
	Decks []*Deck           `json:"decks"`
	Duel  *Duel             `json:"duel,omitempty"`
	State ConversationState `json:"state"`
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{Decks: []*Deck{}}
}

// FindDeck returns the deck with the given name, or nil.
func (s *Session) FindDeck(name string) *Deck {
	for _, d := range s.Decks {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// CreateDeck adds an empty deck. Names are unique per user.
func (s *Session) CreateDeck(name string) (*Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyDeckName
	}
	if s.FindDeck(name) != nil {
		return nil, ErrDeckExists
	}
	d := NewDeck(name)
	s.Decks = append(s.Decks, d)
	return d, nil
}

// DeleteDeck removes the named deck.
func (s *Session) DeleteDeck(name string) error {
	for i, d := range s.Decks {
		if d.Name == name {
			s.Decks = append(s.Decks[:i], s.Decks[i+1:]...)
			return nil
		}
	}
	return ErrDeckNotFound
}

// DeckNames returns deck names in creation order.
func (s *Session) DeckNames() []string {
	names := make([]string, 0, len(s.Decks))
	for _, d := range s.Decks {
		names = append(names, d.Name)
	}
	return names
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := &Session{
		Decks: make([]*Deck, 0, len(s.Decks)),
		Duel:  s.Duel.Clone(),
		State: s.State,
	}
	for _, d := range s.Decks {
		c.Decks = append(c.Decks, d.Clone())
	}
	return c
}
