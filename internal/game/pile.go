// internal/game/pile.go
package game

import (
	"github.com/quno-game/quno/internal/models"
)

// end identifies one physical end of a pile.
type end int

const (
	front end = iota
	back
)

// activeEnd maps the room-wide side flag to the physical end that acts
// as "top". A single card sequence serves both visual orientations: the
// front is the top while the light side is active, the back while the
// dark side is.
func activeEnd(lightActive bool) end {
	if lightActive {
		return front
	}
	return back
}

// pile is a side-aware double-ended sequence of cards. Index 0 is the
// physical front.
type pile struct {
	cards []*models.Card
}

// Size returns the number of cards in the pile.
func (p *pile) Size() int { return len(p.cards) }

// Top peeks at the side-appropriate top card without mutating. Returns
// nil when the pile is empty.
func (p *pile) Top(lightActive bool) *models.Card {
	if len(p.cards) == 0 {
		return nil
	}
	if activeEnd(lightActive) == front {
		return p.cards[0]
	}
	return p.cards[len(p.cards)-1]
}

// DrawFromTop removes and returns the side-appropriate top card. An
// empty pile legally returns nil; callers treat that as a reportable
// exhaustion condition, not a crash.
func (p *pile) DrawFromTop(lightActive bool) *models.Card {
	if len(p.cards) == 0 {
		return nil
	}
	var c *models.Card
	if activeEnd(lightActive) == front {
		c = p.cards[0]
		p.cards = p.cards[1:]
	} else {
		c = p.cards[len(p.cards)-1]
		p.cards = p.cards[:len(p.cards)-1]
	}
	return c
}

// pushTop inserts a card at the side-appropriate top.
func (p *pile) pushTop(c *models.Card, lightActive bool) {
	if activeEnd(lightActive) == front {
		p.cards = append([]*models.Card{c}, p.cards...)
	} else {
		p.cards = append(p.cards, c)
	}
}

// pushBottom inserts a card at the end opposite the active top.
func (p *pile) pushBottom(c *models.Card, lightActive bool) {
	p.pushTop(c, !lightActive)
}

// DrawFirstNonActionCard repeatedly draws from the active top; drawn
// cards whose active face is an action/wild are cycled to the opposite
// end so they are not immediately re-drawn. The first numeral card found
// is returned without being re-inserted. The scan is bounded by the pile
// length at entry: if every remaining card is an action card the loop
// terminates after one full cycle and returns nil, as it does when the
// pile is simply exhausted.
func (p *pile) DrawFirstNonActionCard(lightActive bool) *models.Card {
	limit := len(p.cards)
	for i := 0; i < limit; i++ {
		c := p.DrawFromTop(lightActive)
		if c == nil {
			return nil
		}
		if c.ActiveFace(lightActive).Value.IsAction() {
			p.pushBottom(c, lightActive)
			continue
		}
		return c
	}
	return nil
}

// DrawPile is the face-down stock players draw from.
type DrawPile struct {
	pile
}

// NewDrawPile builds a draw pile over an already shuffled card sequence.
// The first card of the sequence is the light-side top.
func NewDrawPile(cards []*models.Card) *DrawPile {
	return &DrawPile{pile{cards: cards}}
}

// ReturnToBottom places a card under the side-appropriate bottom, used
// when a leaving player's hand is folded back into the stock.
func (d *DrawPile) ReturnToBottom(c *models.Card, lightActive bool) {
	d.pushBottom(c, lightActive)
}

// DiscardPile is the face-up pile plays land on.
type DiscardPile struct {
	pile
}

// NewDiscardPile returns an empty discard pile.
func NewDiscardPile() *DiscardPile {
	return &DiscardPile{}
}

// AddOnTop pushes a card onto the side-appropriate top.
func (d *DiscardPile) AddOnTop(c *models.Card, lightActive bool) {
	d.pushTop(c, lightActive)
}

// CardBelowTop peeks at the card directly beneath the active top, which
// Measurement needs to read. Returns nil when fewer than two cards are
// present.
func (d *DiscardPile) CardBelowTop(lightActive bool) *models.Card {
	if len(d.cards) < 2 {
		return nil
	}
	if activeEnd(lightActive) == front {
		return d.cards[1]
	}
	return d.cards[len(d.cards)-2]
}

// RemoveAtIndex excises and returns the card at the given offset counted
// from the active top (0 = top). Returns nil if the index is out of
// range.
func (d *DiscardPile) RemoveAtIndex(idx int, lightActive bool) *models.Card {
	if idx < 0 || idx >= len(d.cards) {
		return nil
	}
	phys := idx
	if activeEnd(lightActive) == back {
		phys = len(d.cards) - 1 - idx
	}
	c := d.cards[phys]
	d.cards = append(d.cards[:phys], d.cards[phys+1:]...)
	return c
}
