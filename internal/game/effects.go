// internal/game/effects.go
package game

import (
	"github.com/google/uuid"

	"github.com/quno-game/quno/internal/models"
)

// EffectKind is the closed set of card effects. Dispatching over this
// enum instead of raw face values keeps the effect table exhaustive at
// compile time.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectFlip
	EffectReverse
	EffectFlipReverse
	EffectTeleportation
	EffectMeasurement
	EffectSuperposition
	EffectColourSuperposition
	EffectEntanglement
)

// effectKindOf classifies a face value. Numerals map to EffectNone.
func effectKindOf(v models.Value) EffectKind {
	switch v {
	case models.ValueFlip:
		return EffectFlip
	case models.ValueReverse:
		return EffectReverse
	case models.ValueFlipReverse:
		return EffectFlipReverse
	case models.ValueTeleportation:
		return EffectTeleportation
	case models.ValueMeasurement:
		return EffectMeasurement
	case models.ValueSuperposition:
		return EffectSuperposition
	case models.ValueColourSuperposition:
		return EffectColourSuperposition
	case models.ValueEntanglement:
		return EffectEntanglement
	default:
		return EffectNone
	}
}

// TeleportStatus tracks the teleportation selection sub-state machine.
type TeleportStatus int

const (
	TeleportIdle TeleportStatus = iota
	TeleportAwaitingSelection
	TeleportCompleted
)

// TeleportState records a pending teleportation selection. Only the
// player recorded in AwaitingPlayerID may resolve it.
type TeleportState struct {
	Status           TeleportStatus
	AwaitingPlayerID uuid.UUID
}

// Pending reports whether a selection is outstanding.
func (t TeleportState) Pending() bool {
	return t.Status == TeleportAwaitingSelection
}

// ResolveEffect applies the just-played card's effect to the room and
// reports whether the caller should advance the turn afterwards.
// Assumes the room lock is held and the card already sits on the
// discard top (except that Measurement inspects beneath itself).
func ResolveEffect(card *models.Card, room *GameRoom) bool {
	face := card.ActiveFace(room.LightActive)
	kind := effectKindOf(face.Value)
	switch kind {
	case EffectNone:
		return true
	case EffectFlip:
		flipActiveSide(room, face.Value)
		return true
	case EffectReverse:
		room.Turns.Reverse()
		room.fireEvent(Event{
			Type:      EventCardEffect,
			Effect:    string(face.Value),
			Direction: room.Turns.Direction(),
		})
		return true
	case EffectFlipReverse:
		room.Turns.Reverse()
		flipActiveSide(room, face.Value)
		return true
	case EffectTeleportation:
		beginTeleportation(room)
		return false
	case EffectMeasurement:
		resolveMeasurement(room, face.Value)
		return true
	case EffectColourSuperposition:
		collapseOntoDiscard(room, face.Value)
		return true
	case EffectSuperposition:
		// Pure matching constraint; CheckValidMove enforces it while the
		// card stays on top.
		room.fireEvent(Event{Type: EventCardEffect, Effect: string(face.Value)})
		return true
	case EffectEntanglement:
		// Present in the deck but has no board effect yet.
		room.log.Warnf("entanglement played by %s, no effect applied", room.Turns.Current())
		room.fireEvent(Event{Type: EventCardEffect, Effect: string(face.Value)})
		return true
	}
	return true
}

// flipActiveSide toggles the room side, announces it, and re-sends every
// hand since each card's visible face just changed.
func flipActiveSide(room *GameRoom, effect models.Value) {
	room.LightActive = !room.LightActive
	ev := Event{
		Type:        EventCardEffect,
		Effect:      string(effect),
		LightActive: boolPtr(room.LightActive),
	}
	if effect == models.ValueFlipReverse {
		ev.Direction = room.Turns.Direction()
	}
	room.fireEvent(ev)
	room.BroadcastHands()
}

// beginTeleportation parks the turn and asks the acting player to pick a
// card. Everyone receives a selection view of the other hands with card
// ids, the only moment ids cross player boundaries.
func beginTeleportation(room *GameRoom) {
	actor := room.Turns.Current()
	room.Teleport = TeleportState{
		Status:           TeleportAwaitingSelection,
		AwaitingPlayerID: actor,
	}
	for _, p := range room.Players {
		room.fireEventToPlayer(p.ID, Event{
			Type:          EventRefreshOpponentHand,
			OpponentHands: room.OpponentHandsFor(p.ID, true),
		})
	}
	room.fireEventToPlayer(actor, Event{
		Type:    EventAwaitingTeleportationTarget,
		Message: "choose a card to teleport from another player's hand",
	})
}

// resolveMeasurement inspects the card buried beneath the Measurement on
// the discard pile. A buried Superposition stays buried and a fresh
// non-action card collapses on top; anything else is excised and
// re-exposed as the new top.
func resolveMeasurement(room *GameRoom, effect models.Value) {
	beneath := room.Discard.CardBelowTop(room.LightActive)
	if beneath == nil {
		room.fireEvent(Event{Type: EventCardEffect, Effect: string(effect)})
		return
	}
	if beneath.ActiveFace(room.LightActive).Value == models.ValueSuperposition {
		collapseOntoDiscard(room, effect)
		return
	}
	if c := room.Discard.RemoveAtIndex(1, room.LightActive); c != nil {
		room.Discard.AddOnTop(c, room.LightActive)
	}
	room.fireEvent(Event{Type: EventCardEffect, Effect: string(effect)})
}

// collapseOntoDiscard draws the next non-action card and exposes it on
// the discard top. Starvation is logged and the effect degrades to a
// no-op.
func collapseOntoDiscard(room *GameRoom, effect models.Value) {
	c := room.Draw.DrawFirstNonActionCard(room.LightActive)
	if c == nil {
		room.log.Warn("draw pile yielded no non-action card, effect skipped")
	} else {
		room.Discard.AddOnTop(c, room.LightActive)
	}
	room.fireEvent(Event{Type: EventCardEffect, Effect: string(effect)})
}

// HandleTeleportationSelection resolves the pending selection. Rejects
// without mutation when no selection is pending, the actor is not the
// recorded teleporter, the source player is unknown, or the card id is
// not in the source hand. On success the card changes hands, the effect
// is announced, and the caller should advance the turn.
func HandleTeleportationSelection(room *GameRoom, actor *models.Player, fromPlayerID uuid.UUID, cardID int) bool {
	if !room.Teleport.Pending() {
		room.fireError(actor.ID, "no teleportation is awaiting a selection")
		return false
	}
	if room.Teleport.AwaitingPlayerID != actor.ID {
		room.fireError(actor.ID, "you are not the player resolving this teleportation")
		return false
	}
	source := room.PlayerByID(fromPlayerID)
	if source == nil {
		room.fireError(actor.ID, "target player is not in this room")
		return false
	}
	if source.ID == actor.ID {
		room.fireError(actor.ID, "cannot teleport a card from your own hand")
		return false
	}
	card := source.RemoveCard(cardID)
	if card == nil {
		room.fireError(actor.ID, "target player does not hold that card")
		return false
	}
	actor.AddCard(card)
	room.Teleport.Status = TeleportCompleted

	room.fireEvent(Event{
		Type:       EventCardEffect,
		Effect:     string(models.ValueTeleportation),
		FromPlayer: source.ID.String(),
		ToPlayer:   actor.ID.String(),
		CardID:     card.ID,
	})
	room.fireEventToPlayer(actor.ID, Event{
		Type: EventYourHand,
		Hand: room.OwnHandView(actor),
	})
	room.fireEventToPlayer(source.ID, Event{
		Type: EventYourHand,
		Hand: room.OwnHandView(source),
	})
	room.logAction(actor.ID, "teleportation_select", map[string]interface{}{
		"from": source.ID.String(),
		"card": card.ID,
	})
	return true
}
