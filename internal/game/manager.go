// internal/game/manager.go
package game

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quno-game/quno/internal/models"
)

// HandSize is the number of cards dealt to each player at game start.
const HandSize = 7

// GameManager orchestrates the lifecycle operations on a room. It owns
// no state of its own; every method assumes the caller holds the room's
// mutex, mirroring the message-at-a-time discipline of the control
// loop. Failures are reported to the acting player as ERROR events and
// never partially applied.
type GameManager struct {
	log *logrus.Logger
}

// NewGameManager returns a manager logging through the given logger.
func NewGameManager(logger *logrus.Logger) *GameManager {
	return &GameManager{log: logger}
}

// StartGame transitions the room into play. Only the host may start,
// the room must hold 2 to 4 ready players, and the game must not have
// started already.
func (m *GameManager) StartGame(room *GameRoom, requester *models.Player) {
	if room.Status != RoomNotStarted {
		room.fireError(requester.ID, "game already started")
		return
	}
	if requester.ID != room.HostID {
		room.fireError(requester.ID, "only the host can start the game")
		return
	}
	if len(room.Players) < MinPlayers || len(room.Players) > MaxPlayers {
		room.fireError(requester.ID, "need 2 to 4 players to start")
		return
	}
	for _, p := range room.Players {
		if !p.Ready {
			room.fireError(requester.ID, "all players must be ready")
			return
		}
	}

	room.Status = RoomInProgress
	order := make([]uuid.UUID, len(room.Players))
	for i, p := range room.Players {
		order[i] = p.ID
	}
	room.Turns = NewTurnManager(order)

	for i := 0; i < HandSize; i++ {
		for _, p := range room.Players {
			if c := room.Draw.DrawFromTop(room.LightActive); c != nil {
				p.AddCard(c)
			}
		}
	}
	if first := room.Draw.DrawFirstNonActionCard(room.LightActive); first != nil {
		room.Discard.AddOnTop(first, room.LightActive)
	}

	room.fireEvent(Event{
		Type:          EventGameStarted,
		CurrentPlayer: room.Turns.Current().String(),
		Direction:     room.Turns.Direction(),
	})
	room.BroadcastPileTops()
	room.BroadcastHands()
	room.logAction(requester.ID, "start_game", nil)
	room.Logger().Infof("game started with %d players", len(room.Players))
}

// PlayCard validates and applies a card play. On success the card moves
// to the discard top, its effect resolves, and unless the effect parked
// the turn (Teleportation) the turn advances.
func (m *GameManager) PlayCard(room *GameRoom, player *models.Player, cardID int) {
	if !m.turnGate(room, player) {
		return
	}
	card := player.FindCard(cardID)
	if card == nil {
		room.fireError(player.ID, "card is not in your hand")
		return
	}
	if !CheckValidMove(card, room.Discard.Top(room.LightActive), room.LightActive) {
		room.fireError(player.ID, "that card cannot be played on the current top")
		return
	}
	prevDraw := room.Draw.Top(room.LightActive)
	prevDiscard := room.Discard.Top(room.LightActive)
	m.applyPlay(room, player, card, prevDraw, prevDiscard)
}

// applyPlay performs the already-validated play. Shared by PlayCard and
// the forced auto-play path in DrawCard. The prev tops are the pile
// tops as they stood when the request began, so an auto-played draw
// still re-announces the stock top it consumed.
func (m *GameManager) applyPlay(room *GameRoom, player *models.Player, card *models.Card, prevDraw, prevDiscard *models.Card) {
	player.RemoveCard(card.ID)
	room.Discard.AddOnTop(card, room.LightActive)

	face := card.ActiveFace(room.LightActive)
	room.fireEventToPlayer(player.ID, Event{
		Type: EventPlayedCard,
		Card: &OwnCard{ID: card.ID, Face: face},
		Hand: room.OwnHandView(player),
	})
	room.fireEventExcept(player.ID, Event{
		Type:     EventOpponentPlayedCard,
		PlayerID: player.ID.String(),
		Card:     &OwnCard{ID: card.ID, Face: face},
	})
	room.logAction(player.ID, "play_card", map[string]interface{}{"card": card.ID})

	if ResolveEffect(card, room) {
		m.finishTurn(room, prevDraw, prevDiscard)
	}
}

// DrawCard draws one card for the player. A draw that turns out to be
// immediately playable is forced onto the discard pile in the same
// request, so the whole sequence emits a single TURN_CHANGED.
func (m *GameManager) DrawCard(room *GameRoom, player *models.Player) {
	if !m.turnGate(room, player) {
		return
	}
	prevDraw := room.Draw.Top(room.LightActive)
	prevDiscard := room.Discard.Top(room.LightActive)

	card := room.Draw.DrawFromTop(room.LightActive)
	if card == nil {
		room.fireError(player.ID, "draw pile is empty")
		return
	}
	player.AddCard(card)
	room.fireEventToPlayer(player.ID, Event{
		Type: EventCardDrawn,
		Card: &OwnCard{ID: card.ID, Face: card.ActiveFace(room.LightActive)},
		Hand: room.OwnHandView(player),
	})
	inactive := card.InactiveFace(room.LightActive)
	room.fireEventExcept(player.ID, Event{
		Type:     EventOpponentDrewCard,
		PlayerID: player.ID.String(),
		Face:     &inactive,
	})
	room.logAction(player.ID, "draw_card", map[string]interface{}{"card": card.ID})

	if CheckValidMove(card, room.Discard.Top(room.LightActive), room.LightActive) {
		m.applyPlay(room, player, card, prevDraw, prevDiscard)
		return
	}
	m.finishTurn(room, prevDraw, prevDiscard)
}

// HandleTeleportation resolves a pending teleportation selection and
// then performs the turn housekeeping the original play withheld.
func (m *GameManager) HandleTeleportation(room *GameRoom, player *models.Player, fromPlayerID uuid.UUID, cardID int) {
	prevDraw := room.Draw.Top(room.LightActive)
	prevDiscard := room.Discard.Top(room.LightActive)
	if HandleTeleportationSelection(room, player, fromPlayerID, cardID) {
		m.finishTurn(room, prevDraw, prevDiscard)
	}
}

// turnGate rejects requests while a teleportation selection is pending
// or when it is not the player's turn.
func (m *GameManager) turnGate(room *GameRoom, player *models.Player) bool {
	if room.Status != RoomInProgress {
		room.fireError(player.ID, "game has not started")
		return false
	}
	if room.Teleport.Pending() {
		room.fireError(player.ID, "a teleportation selection is pending")
		return false
	}
	if room.Turns.Current() != player.ID {
		room.fireError(player.ID, "not your turn")
		return false
	}
	return true
}

// finishTurn advances the turn and re-announces pile tops that changed
// identity since the request began.
func (m *GameManager) finishTurn(room *GameRoom, prevDraw, prevDiscard *models.Card) {
	room.Turns.Advance()
	room.fireEvent(Event{
		Type:          EventTurnChanged,
		CurrentPlayer: room.Turns.Current().String(),
	})
	if nowDraw := room.Draw.Top(room.LightActive); !sameCard(nowDraw, prevDraw) {
		room.broadcastPileTop(EventDrawPileTop, nowDraw)
	}
	if nowDiscard := room.Discard.Top(room.LightActive); !sameCard(nowDiscard, prevDiscard) {
		room.broadcastPileTop(EventDiscardPileTop, nowDiscard)
	}
}

func sameCard(a, b *models.Card) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
