// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat in a room: identity, connection handle, hand and
// transient session state.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	// Hand is ordered; it is mutated only by this player's own plays and
	// draws, or by a teleportation transfer.
	Hand []*Card `json:"-"`

	Ready     bool            `json:"ready"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	// EntangledWith is reserved for the entanglement effect, which has no
	// defined resolution yet. Nothing writes it.
	EntangledWith uuid.UUID `json:"-"`
}

// FindCard returns the card with the given id from the hand, or nil.
func (p *Player) FindCard(cardID int) *Card {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c
		}
	}
	return nil
}

// RemoveCard removes and returns the card with the given id, or nil if
// the hand does not contain it.
func (p *Player) RemoveCard(cardID int) *Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// AddCard appends a card to the hand.
func (p *Player) AddCard(c *Card) {
	p.Hand = append(p.Hand, c)
}
