// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quno-game/quno/internal/journal"
	"github.com/quno-game/quno/internal/models"
)

// RoomStatus is the lifecycle phase of a room.
type RoomStatus int

const (
	RoomNotStarted RoomStatus = iota
	RoomInProgress
)

// MinPlayers and MaxPlayers bound the seat count for a game.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// GameRoom holds the entire state for a single session in memory. All
// mutation happens with Mu held; the per-connection read loops acquire
// it around each inbound message, which serializes a room to
// message-at-a-time semantics.
type GameRoom struct {
	ID uuid.UUID

	// Players in insertion order; the order becomes the turn order when
	// the game starts.
	Players []*models.Player
	HostID  uuid.UUID

	Draw    *DrawPile
	Discard *DiscardPile

	// LightActive selects the active face of every card in the room.
	LightActive bool

	Status RoomStatus

	// Teleport is the transient sub-state machine for a pending
	// teleportation selection.
	Teleport TeleportState

	// Turns is nil until the game starts.
	Turns *TurnManager

	Mu sync.Mutex

	// BroadcastFn sends an event to every reachable player. Called with
	// Mu held; implementations must not re-acquire it.
	BroadcastFn func(ev Event)

	// BroadcastToPlayerFn sends an event to one player. Same locking
	// contract as BroadcastFn.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)

	log       *logrus.Entry
	actionSeq int
}

// NewGameRoom builds a room with a freshly shuffled deck and the host
// seated. The host is not marked ready.
func NewGameRoom(logger *logrus.Logger, hostName string) (*GameRoom, *models.Player) {
	id := uuid.New()
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	room := &GameRoom{
		ID:          id,
		Draw:        NewDrawPile(NewDeck(r)),
		Discard:     NewDiscardPile(),
		LightActive: true,
		Status:      RoomNotStarted,
		log:         logger.WithField("room", id),
	}
	host := &models.Player{ID: uuid.New(), Name: hostName, Connected: true}
	room.Players = append(room.Players, host)
	room.HostID = host.ID
	return room, host
}

// AddPlayer seats a new player. Fails once the game has started or the
// room is full.
func (r *GameRoom) AddPlayer(name string) (*models.Player, bool) {
	if r.Status != RoomNotStarted {
		r.log.Warnf("player %q rejected: game already in progress", name)
		return nil, false
	}
	if len(r.Players) >= MaxPlayers {
		r.log.Warnf("player %q rejected: room full", name)
		return nil, false
	}
	p := &models.Player{ID: uuid.New(), Name: name, Connected: true}
	r.Players = append(r.Players, p)
	r.logAction(p.ID, "player_join", map[string]interface{}{"name": name})
	return p, true
}

// PlayerByID returns the seated player with the given id, or nil.
func (r *GameRoom) PlayerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// RemovePlayer unseats a player on an explicit leave. Their hand is
// folded back under the draw pile so the card count in the room stays
// constant. If the host left, the longest-seated remaining player
// becomes host. Returns the new host (nil if unchanged) and whether the
// room is now empty.
func (r *GameRoom) RemovePlayer(id uuid.UUID) (newHost *models.Player, empty bool) {
	idx := -1
	for i, p := range r.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, len(r.Players) == 0
	}
	leaving := r.Players[idx]
	for _, c := range leaving.Hand {
		r.Draw.ReturnToBottom(c, r.LightActive)
	}
	leaving.Hand = nil
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)

	if r.Turns != nil {
		r.Turns.Remove(id)
	}
	if r.Teleport.Pending() && r.Teleport.AwaitingPlayerID == id {
		// The pending selection can never be resolved by anyone else.
		r.Teleport = TeleportState{}
	}

	r.logAction(id, "player_leave", nil)

	if len(r.Players) == 0 {
		return nil, true
	}
	if r.HostID == id {
		r.HostID = r.Players[0].ID
		newHost = r.Players[0]
		r.logAction(newHost.ID, "host_change", nil)
	}
	return newHost, false
}

// MarkDisconnected degrades a player to unreachable without touching
// their seat, hand or turn slot; an explicit LEFT_ROOM is what removes
// them.
func (r *GameRoom) MarkDisconnected(id uuid.UUID) {
	if p := r.PlayerByID(id); p != nil {
		p.Connected = false
		p.Conn = nil
		r.log.WithField("player", id).Info("player disconnected")
		r.logAction(id, "player_disconnect", nil)
	}
}

// CardCount sums the cards across every container in the room.
func (r *GameRoom) CardCount() int {
	n := r.Draw.Size() + r.Discard.Size()
	for _, p := range r.Players {
		n += len(p.Hand)
	}
	return n
}

// Broadcast sends an event to every reachable player. Assumes Mu is
// held.
func (r *GameRoom) Broadcast(ev Event) { r.fireEvent(ev) }

// SendToPlayer sends an event to one player. Assumes Mu is held.
func (r *GameRoom) SendToPlayer(playerID uuid.UUID, ev Event) {
	r.fireEventToPlayer(playerID, ev)
}

// SendError reports a request-local failure to one player.
func (r *GameRoom) SendError(playerID uuid.UUID, msg string) {
	r.fireError(playerID, msg)
}

// fireEvent broadcasts to all reachable players. Assumes Mu is held.
func (r *GameRoom) fireEvent(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	} else {
		r.log.Warnf("BroadcastFn is nil, dropping event %s", ev.Type)
	}
}

// fireEventToPlayer sends to a single player. Assumes Mu is held.
func (r *GameRoom) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if r.BroadcastToPlayerFn == nil {
		r.log.Warnf("BroadcastToPlayerFn is nil, dropping event %s for %s", ev.Type, playerID)
		return
	}
	if p := r.PlayerByID(playerID); p != nil && p.Connected {
		r.BroadcastToPlayerFn(playerID, ev)
	}
}

// fireEventExcept sends to every reachable player but one. Assumes Mu
// is held.
func (r *GameRoom) fireEventExcept(exclude uuid.UUID, ev Event) {
	for _, p := range r.Players {
		if p.ID != exclude {
			r.fireEventToPlayer(p.ID, ev)
		}
	}
}

// fireError reports a request-local failure to one player only; errors
// never mutate state or leak to the rest of the room.
func (r *GameRoom) fireError(playerID uuid.UUID, msg string) {
	r.fireEventToPlayer(playerID, Event{Type: EventError, Message: msg})
}

// OwnHandView renders a hand as its owner sees it.
func (r *GameRoom) OwnHandView(p *models.Player) []OwnCard {
	hand := make([]OwnCard, len(p.Hand))
	for i, c := range p.Hand {
		hand[i] = OwnCard{ID: c.ID, Face: c.ActiveFace(r.LightActive)}
	}
	return hand
}

// OpponentHandsFor renders every other player's hand for one viewer,
// inactive faces only. Ids are included only for a teleportation
// selection view.
func (r *GameRoom) OpponentHandsFor(viewer uuid.UUID, withIDs bool) map[string][]HiddenCard {
	hands := make(map[string][]HiddenCard)
	for _, p := range r.Players {
		if p.ID == viewer {
			continue
		}
		cards := make([]HiddenCard, len(p.Hand))
		for i, c := range p.Hand {
			hc := HiddenCard{Face: c.InactiveFace(r.LightActive)}
			if withIDs {
				hc.ID = c.ID
			}
			cards[i] = hc
		}
		hands[p.ID.String()] = cards
	}
	return hands
}

// BroadcastHands re-sends every player their own hand and their view of
// the opponents' hands. Used after a side flip invalidates the faces
// clients have. Assumes Mu is held.
func (r *GameRoom) BroadcastHands() {
	for _, p := range r.Players {
		r.fireEventToPlayer(p.ID, Event{Type: EventYourHand, Hand: r.OwnHandView(p)})
		r.fireEventToPlayer(p.ID, Event{
			Type:          EventOpponentHand,
			OpponentHands: r.OpponentHandsFor(p.ID, false),
		})
	}
}

// BroadcastPileTops announces the inactive face of both pile tops,
// which is what is visually exposed before a card is played.
func (r *GameRoom) BroadcastPileTops() {
	r.broadcastPileTop(EventDrawPileTop, r.Draw.Top(r.LightActive))
	r.broadcastPileTop(EventDiscardPileTop, r.Discard.Top(r.LightActive))
}

func (r *GameRoom) broadcastPileTop(t EventType, c *models.Card) {
	ev := Event{Type: t}
	if c != nil {
		face := c.InactiveFace(r.LightActive)
		ev.Face = &face
	}
	r.fireEvent(ev)
}

// logAction appends the action to the room's journal queue for the
// historian consumer. Publishing is asynchronous and can never fail the
// state transition it records. Assumes Mu is held.
func (r *GameRoom) logAction(actorID uuid.UUID, action string, payload map[string]interface{}) {
	r.actionSeq++
	rec := journal.ActionRecord{
		RoomID:    r.ID,
		Seq:       r.actionSeq,
		ActorID:   actorID,
		Action:    action,
		Payload:   payload,
		Timestamp: time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := journal.Publish(ctx, rec); err != nil {
			logrus.WithError(err).Warnf("journal publish failed for room %s", rec.RoomID)
		}
	}()
}

// Logger exposes the room-scoped log entry.
func (r *GameRoom) Logger() *logrus.Entry { return r.log }
