// internal/game/state.go
package game

import (
	"github.com/google/uuid"

	"github.com/quno-game/quno/internal/models"
)

// RoomState is a per-viewer snapshot of everything a client needs to
// reconstruct its UI after a rejoin or an explicit state request. Hidden
// information is obfuscated for the viewer: opponents' hands and the
// pile tops are rendered as inactive faces only.
type RoomState struct {
	RoomID         string                  `json:"roomId"`
	Started        bool                    `json:"started"`
	LightActive    bool                    `json:"isLightSideActive"`
	CurrentPlayer  string                  `json:"currentPlayer,omitempty"`
	Direction      int                     `json:"direction,omitempty"`
	Players        []PlayerInfo            `json:"players"`
	YourHand       []OwnCard               `json:"yourHand,omitempty"`
	OpponentHands  map[string][]HiddenCard `json:"opponentHands,omitempty"`
	DrawPileTop    *models.CardFace        `json:"drawPileTop,omitempty"`
	DiscardPileTop *models.CardFace        `json:"discardPileTop,omitempty"`
	DrawPileSize   int                     `json:"drawPileSize"`
	AwaitingSelect string                  `json:"awaitingTeleportationFrom,omitempty"`
}

// Snapshot renders the room as seen by one player. Assumes Mu is held.
func (r *GameRoom) Snapshot(viewer uuid.UUID) *RoomState {
	st := &RoomState{
		RoomID:       r.ID.String(),
		Started:      r.Status == RoomInProgress,
		LightActive:  r.LightActive,
		DrawPileSize: r.Draw.Size(),
	}
	for _, p := range r.Players {
		st.Players = append(st.Players, PlayerInfo{
			ID:    p.ID.String(),
			Name:  p.Name,
			Host:  p.ID == r.HostID,
			Ready: p.Ready,
		})
	}
	if r.Turns != nil {
		if cur := r.Turns.Current(); cur != uuid.Nil {
			st.CurrentPlayer = cur.String()
		}
		st.Direction = r.Turns.Direction()
	}
	if me := r.PlayerByID(viewer); me != nil {
		st.YourHand = r.OwnHandView(me)
		st.OpponentHands = r.OpponentHandsFor(viewer, false)
	}
	if c := r.Draw.Top(r.LightActive); c != nil {
		face := c.InactiveFace(r.LightActive)
		st.DrawPileTop = &face
	}
	if c := r.Discard.Top(r.LightActive); c != nil {
		face := c.InactiveFace(r.LightActive)
		st.DiscardPileTop = &face
	}
	if r.Teleport.Pending() {
		st.AwaitingSelect = r.Teleport.AwaitingPlayerID.String()
	}
	return st
}
