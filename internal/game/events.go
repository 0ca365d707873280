// internal/game/events.go
package game

import (
	"github.com/quno-game/quno/internal/models"
)

// EventType discriminates outbound protocol messages.
type EventType string

const (
	EventRoomCreated     EventType = "ROOM_CREATED"
	EventJoinedRoom      EventType = "JOINED_ROOM"
	EventNewPlayerJoined EventType = "NEW_PLAYER_JOINED"
	EventPlayerLeft      EventType = "PLAYER_LEFT"
	EventNewHost         EventType = "NEW_HOST"
	EventPlayerReady     EventType = "PLAYER_READY"
	EventGameStarted     EventType = "GAME_STARTED"

	EventYourHand       EventType = "YOUR_HAND"
	EventOpponentHand   EventType = "OPPONENT_HAND"
	EventDrawPileTop    EventType = "DRAW_PILE_TOP"
	EventDiscardPileTop EventType = "DISCARD_PILE_TOP"

	EventPlayedCard         EventType = "PLAYED_CARD"
	EventOpponentPlayedCard EventType = "OPPONENT_PLAYED_CARD"
	EventCardDrawn          EventType = "CARD_DRAWN"
	EventOpponentDrewCard   EventType = "OPPONENT_DREW_CARD"
	EventTurnChanged        EventType = "TURN_CHANGED"
	EventCardEffect         EventType = "CARD_EFFECT"

	// EventRefreshOpponentHand carries inactive faces WITH card ids; it is
	// sent only while a teleportation selection is pending, the one moment
	// ids cross player boundaries.
	EventRefreshOpponentHand         EventType = "REFRESH_OPPONENT_HAND"
	EventAwaitingTeleportationTarget EventType = "AWAITING_TELEPORTATION_TARGET"

	EventGameState EventType = "GAME_STATE"
	EventError     EventType = "ERROR"
)

// OwnCard is a card as its owner sees it: id plus the active face.
type OwnCard struct {
	ID   int             `json:"id"`
	Face models.CardFace `json:"face"`
}

// HiddenCard is a card as opponents see it: the inactive face only. The
// id is zero (omitted) except in REFRESH_OPPONENT_HAND.
type HiddenCard struct {
	ID   int             `json:"id,omitempty"`
	Face models.CardFace `json:"face"`
}

// PlayerInfo is the roster entry included in join/room events.
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Host  bool   `json:"isHost"`
	Ready bool   `json:"isReady"`
}

// Event is the outbound envelope. Optional fields are pointers or
// omitempty so each event type serializes only what it carries.
type Event struct {
	Type EventType `json:"type"`

	RoomID     string `json:"roomId,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	HostID     string `json:"hostId,omitempty"`

	CurrentPlayer string `json:"currentPlayer,omitempty"`
	Direction     int    `json:"direction,omitempty"`

	Card *OwnCard         `json:"card,omitempty"`
	Face *models.CardFace `json:"face,omitempty"`

	Hand          []OwnCard               `json:"hand,omitempty"`
	OpponentHands map[string][]HiddenCard `json:"opponentHands,omitempty"`

	Effect     string `json:"effect,omitempty"`
	FromPlayer string `json:"fromPlayer,omitempty"`
	ToPlayer   string `json:"toPlayer,omitempty"`
	CardID     int    `json:"cardId,omitempty"`

	LightActive *bool `json:"isLightSideActive,omitempty"`

	Players []PlayerInfo `json:"players,omitempty"`
	State   *RoomState   `json:"state,omitempty"`

	RejoinToken string `json:"rejoinToken,omitempty"`
	Message     string `json:"message,omitempty"`
}

// boolPtr is a helper for the LightActive field.
func boolPtr(b bool) *bool { return &b }
