// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quno-game/quno/internal/auth"
	"github.com/quno-game/quno/internal/game"
	"github.com/quno-game/quno/internal/middleware"
)

// Inbound message types.
const (
	MsgCreateRoom        = "CREATE_ROOM"
	MsgJoinRoom          = "JOIN_ROOM"
	MsgRejoinRoom        = "REJOIN_ROOM"
	MsgLeftRoom          = "LEFT_ROOM"
	MsgPlayerReady       = "PLAYER_READY"
	MsgStartGame         = "START_GAME"
	MsgPlayCard          = "PLAY_CARD"
	MsgDrawCard          = "DRAW_CARD"
	MsgTeleportationPick = "TELEPORTATION_SELECT"
	MsgGetGameState      = "GET_GAME_STATE"
)

// CardRef identifies a card in a client request by id only; the server
// never trusts client-supplied faces.
type CardRef struct {
	ID int `json:"id"`
}

// ClientMessage is the envelope for every inbound WebSocket message.
// The Type discriminator selects which of the remaining fields are
// required.
type ClientMessage struct {
	Type         string   `json:"type"`
	RoomID       string   `json:"roomId,omitempty"`
	PlayerID     string   `json:"playerId,omitempty"`
	PlayerName   string   `json:"playerName,omitempty"`
	FromPlayerID string   `json:"fromPlayerId,omitempty"`
	RejoinToken  string   `json:"rejoinToken,omitempty"`
	Card         *CardRef `json:"card,omitempty"`
}

// session is the per-connection association between a WebSocket and a
// seated player. Zero values mean the connection has not joined a room.
type session struct {
	conn     *websocket.Conn
	roomID   uuid.UUID
	playerID uuid.UUID
}

func (s *session) bound() bool { return s.roomID != uuid.Nil }

// WSHandler upgrades the HTTP connection and runs the message loop for
// its lifetime. One connection maps to at most one seated player.
func WSHandler(logger *logrus.Logger, rs *RoomServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"quno"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal server error")

		if c.Subprotocol() != "quno" {
			logger.Warnf("Client connected with invalid subprotocol: %s", c.Subprotocol())
			c.Close(BadSubprotocolError, "client must speak the quno subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, c.Subprotocol())

		sess := &session{conn: c}
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readErr := readMessages(ctx, sess, rs, logger)
		boundRoom := ""
		if sess.bound() {
			boundRoom = sess.roomID.String()
		}
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, boundRoom, readErr)

		// Dropping the socket degrades the player to unreachable; their
		// seat, hand and turn slot survive until an explicit LEFT_ROOM.
		if sess.bound() {
			if room, ok := rs.Rooms.GetRoom(sess.roomID); ok {
				room.Mu.Lock()
				room.MarkDisconnected(sess.playerID)
				room.Mu.Unlock()
			}
		}
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

// readMessages pumps inbound frames until the connection dies. Each
// message is validated and dispatched to completion before the next is
// read, which serializes this client's requests.
func readMessages(ctx context.Context, sess *session, rs *RoomServer, logger *logrus.Logger) error {
	for {
		msgType, data, err := sess.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("Ignoring non-text message type %d", msgType)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from client: %v", err)
			sendWsError(ctx, sess.conn, "invalid JSON format")
			continue
		}
		if msg.Type == "" {
			sendWsError(ctx, sess.conn, "missing message type")
			continue
		}

		logger.Debugf("Received %s from %s", msg.Type, sess.playerID)
		dispatch(ctx, sess, rs, logger, msg)
	}
}

// dispatch routes one validated envelope. Room-scoped handlers acquire
// the room mutex for the whole validate-mutate-broadcast cycle.
func dispatch(ctx context.Context, sess *session, rs *RoomServer, logger *logrus.Logger, msg ClientMessage) {
	switch msg.Type {
	case MsgCreateRoom:
		handleCreateRoom(ctx, sess, rs, logger, msg)
	case MsgJoinRoom:
		handleJoinRoom(ctx, sess, rs, logger, msg)
	case MsgRejoinRoom:
		handleRejoinRoom(ctx, sess, rs, logger, msg)
	case MsgLeftRoom, MsgPlayerReady, MsgStartGame, MsgPlayCard, MsgDrawCard, MsgTeleportationPick, MsgGetGameState:
		handleRoomMessage(ctx, sess, rs, msg)
	default:
		sendWsError(ctx, sess.conn, "unknown message type: "+msg.Type)
	}
}

func handleCreateRoom(ctx context.Context, sess *session, rs *RoomServer, logger *logrus.Logger, msg ClientMessage) {
	if sess.bound() {
		sendWsError(ctx, sess.conn, "this connection is already in a room")
		return
	}
	if msg.PlayerName == "" {
		sendWsError(ctx, sess.conn, "playerName is required")
		return
	}

	room, host := game.NewGameRoom(rs.Logger, msg.PlayerName)
	room.BroadcastFn = createBroadcastFunc(room, logger)
	room.BroadcastToPlayerFn = createBroadcastToPlayerFunc(room, logger)
	host.Conn = sess.conn
	rs.Rooms.AddRoom(room)

	sess.roomID = room.ID
	sess.playerID = host.ID

	token, err := auth.CreateRejoinToken(host.ID.String(), room.ID.String())
	if err != nil {
		logger.Errorf("Failed to sign rejoin token for %s: %v", host.ID, err)
	}

	room.Mu.Lock()
	room.SendToPlayer(host.ID, game.Event{
		Type:        game.EventRoomCreated,
		RoomID:      room.ID.String(),
		PlayerID:    host.ID.String(),
		HostID:      host.ID.String(),
		Players:     playerInfos(room),
		RejoinToken: token,
	})
	room.Mu.Unlock()
	logger.Infof("Room %s created by %s (%s)", room.ID, msg.PlayerName, host.ID)
}

func handleJoinRoom(ctx context.Context, sess *session, rs *RoomServer, logger *logrus.Logger, msg ClientMessage) {
	if sess.bound() {
		sendWsError(ctx, sess.conn, "this connection is already in a room")
		return
	}
	if msg.PlayerName == "" {
		sendWsError(ctx, sess.conn, "playerName is required")
		return
	}
	room := resolveRoom(ctx, sess, rs, msg.RoomID)
	if room == nil {
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	p, ok := room.AddPlayer(msg.PlayerName)
	if !ok {
		sendWsError(ctx, sess.conn, "cannot join: room is full or already playing")
		return
	}
	p.Conn = sess.conn
	sess.roomID = room.ID
	sess.playerID = p.ID

	token, err := auth.CreateRejoinToken(p.ID.String(), room.ID.String())
	if err != nil {
		logger.Errorf("Failed to sign rejoin token for %s: %v", p.ID, err)
	}

	room.SendToPlayer(p.ID, game.Event{
		Type:        game.EventJoinedRoom,
		RoomID:      room.ID.String(),
		PlayerID:    p.ID.String(),
		HostID:      room.HostID.String(),
		Players:     playerInfos(room),
		RejoinToken: token,
	})
	for _, other := range room.Players {
		if other.ID != p.ID {
			room.SendToPlayer(other.ID, game.Event{
				Type:       game.EventNewPlayerJoined,
				PlayerID:   p.ID.String(),
				PlayerName: p.Name,
				Players:    playerInfos(room),
			})
		}
	}
}

func handleRejoinRoom(ctx context.Context, sess *session, rs *RoomServer, logger *logrus.Logger, msg ClientMessage) {
	if msg.RejoinToken == "" {
		sendWsError(ctx, sess.conn, "rejoinToken is required")
		return
	}
	tokenPlayer, tokenRoom, err := auth.VerifyRejoinToken(msg.RejoinToken)
	if err != nil {
		logger.Warnf("Rejoin token rejected: %v", err)
		sess.conn.Close(InvalidRejoinToken, "rejoin token invalid or expired")
		return
	}
	if msg.PlayerID != "" && msg.PlayerID != tokenPlayer {
		sendWsError(ctx, sess.conn, "rejoin token does not match playerId")
		return
	}
	if msg.RoomID != "" && msg.RoomID != tokenRoom {
		sendWsError(ctx, sess.conn, "rejoin token does not match roomId")
		return
	}

	roomID, err := uuid.Parse(tokenRoom)
	if err != nil {
		sess.conn.Close(InvalidRoomIDError, "rejoin token names a malformed room id")
		return
	}
	room, ok := rs.Rooms.GetRoom(roomID)
	if !ok {
		sess.conn.Close(InvalidRoomIDError, "room no longer exists")
		return
	}
	playerID, err := uuid.Parse(tokenPlayer)
	if err != nil {
		sess.conn.Close(InvalidPlayerIDError, "rejoin token names a malformed player id")
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	p := room.PlayerByID(playerID)
	if p == nil {
		sendWsError(ctx, sess.conn, "player is no longer in this room")
		return
	}
	p.Conn = sess.conn
	p.Connected = true
	sess.roomID = room.ID
	sess.playerID = p.ID

	room.SendToPlayer(p.ID, game.Event{
		Type:     game.EventJoinedRoom,
		RoomID:   room.ID.String(),
		PlayerID: p.ID.String(),
		HostID:   room.HostID.String(),
		Players:  playerInfos(room),
	})
	room.SendToPlayer(p.ID, game.Event{
		Type:  game.EventGameState,
		State: room.Snapshot(p.ID),
	})
	logger.Infof("Player %s rejoined room %s", p.ID, room.ID)
}

// handleRoomMessage covers every message that requires an established
// seat. The envelope's roomId/playerId, when present, must agree with
// the connection's own association.
func handleRoomMessage(ctx context.Context, sess *session, rs *RoomServer, msg ClientMessage) {
	if !sess.bound() {
		sendWsError(ctx, sess.conn, "join a room first")
		return
	}
	if msg.RoomID != "" && msg.RoomID != sess.roomID.String() {
		sendWsError(ctx, sess.conn, "roomId does not match this connection")
		return
	}
	if msg.PlayerID != "" && msg.PlayerID != sess.playerID.String() {
		sendWsError(ctx, sess.conn, "playerId does not match this connection")
		return
	}
	room, ok := rs.Rooms.GetRoom(sess.roomID)
	if !ok {
		sendWsError(ctx, sess.conn, "room no longer exists")
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	player := room.PlayerByID(sess.playerID)
	if player == nil {
		sendWsError(ctx, sess.conn, "player is no longer in this room")
		return
	}

	switch msg.Type {
	case MsgLeftRoom:
		handleLeave(sess, rs, room)
	case MsgPlayerReady:
		player.Ready = true
		room.Broadcast(game.Event{
			Type:     game.EventPlayerReady,
			PlayerID: player.ID.String(),
			Players:  playerInfos(room),
		})
	case MsgStartGame:
		rs.Manager.StartGame(room, player)
	case MsgPlayCard:
		if msg.Card == nil {
			room.SendError(player.ID, "card is required")
			return
		}
		rs.Manager.PlayCard(room, player, msg.Card.ID)
	case MsgDrawCard:
		rs.Manager.DrawCard(room, player)
	case MsgTeleportationPick:
		if msg.Card == nil || msg.FromPlayerID == "" {
			room.SendError(player.ID, "fromPlayerId and card are required")
			return
		}
		fromID, err := uuid.Parse(msg.FromPlayerID)
		if err != nil {
			room.SendError(player.ID, "invalid fromPlayerId")
			return
		}
		rs.Manager.HandleTeleportation(room, player, fromID, msg.Card.ID)
	case MsgGetGameState:
		room.SendToPlayer(player.ID, game.Event{
			Type:  game.EventGameState,
			State: room.Snapshot(player.ID),
		})
	}
}

// handleLeave unseats the player, migrates the host if needed, and
// destroys the room once it is empty. Assumes the room lock is held.
func handleLeave(sess *session, rs *RoomServer, room *game.GameRoom) {
	leavingID := sess.playerID
	hadTurn := room.Status == game.RoomInProgress &&
		room.Turns != nil && room.Turns.Current() == leavingID
	newHost, empty := room.RemovePlayer(leavingID)
	sess.roomID = uuid.Nil
	sess.playerID = uuid.Nil

	if empty {
		rs.Rooms.DeleteRoom(room.ID)
		rs.Logger.Infof("Room %s is empty, destroyed", room.ID)
		return
	}
	room.Broadcast(game.Event{
		Type:     game.EventPlayerLeft,
		PlayerID: leavingID.String(),
		Players:  playerInfos(room),
	})
	if newHost != nil {
		room.Broadcast(game.Event{
			Type:     game.EventNewHost,
			HostID:   newHost.ID.String(),
			PlayerID: newHost.ID.String(),
		})
	}
	if room.Status == game.RoomInProgress {
		// Removal re-points the index at the seat before the leaver; an
		// abandoned turn is handed forward to the logical next player,
		// never backwards.
		if hadTurn {
			room.Turns.Advance()
		}
		room.Broadcast(game.Event{
			Type:          game.EventTurnChanged,
			CurrentPlayer: room.Turns.Current().String(),
		})
	}
}

func resolveRoom(ctx context.Context, sess *session, rs *RoomServer, roomID string) *game.GameRoom {
	id, err := uuid.Parse(roomID)
	if err != nil {
		sendWsError(ctx, sess.conn, "invalid roomId")
		return nil
	}
	room, ok := rs.Rooms.GetRoom(id)
	if !ok {
		sendWsError(ctx, sess.conn, "room not found")
		return nil
	}
	return room
}

func playerInfos(room *game.GameRoom) []game.PlayerInfo {
	infos := make([]game.PlayerInfo, len(room.Players))
	for i, p := range room.Players {
		infos[i] = game.PlayerInfo{
			ID:    p.ID.String(),
			Name:  p.Name,
			Host:  p.ID == room.HostID,
			Ready: p.Ready,
		}
	}
	return infos
}

// sendWsError writes an ERROR envelope straight to a connection, used
// before any room association exists.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	ev := game.Event{Type: game.EventError, Message: message}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}

// createBroadcastFunc returns a GameRoom.BroadcastFn. The room lock is
// held by the caller, so connections are snapshotted inline and the
// writes happen on a separate goroutine; a slow socket never blocks
// game logic and a failed write degrades that recipient only.
func createBroadcastFunc(room *game.GameRoom, logger *logrus.Logger) func(ev game.Event) {
	return func(ev game.Event) {
		conns := make([]*websocket.Conn, 0, len(room.Players))
		for _, p := range room.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal broadcast event (%s) for room %s: %v", ev.Type, room.ID, err)
			return
		}
		go writeAll(conns, data, logger)
	}
}

// createBroadcastToPlayerFunc returns a GameRoom.BroadcastToPlayerFn,
// with the same locking contract as createBroadcastFunc.
func createBroadcastToPlayerFunc(room *game.GameRoom, logger *logrus.Logger) func(playerID uuid.UUID, ev game.Event) {
	return func(playerID uuid.UUID, ev game.Event) {
		var conn *websocket.Conn
		for _, p := range room.Players {
			if p.ID == playerID {
				if p.Connected && p.Conn != nil {
					conn = p.Conn
				}
				break
			}
		}
		if conn == nil {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("Failed to marshal private event (%s) for player %s: %v", ev.Type, playerID, err)
			return
		}
		go writeAll([]*websocket.Conn{conn}, data, logger)
	}
}

func writeAll(conns []*websocket.Conn, data []byte, logger *logrus.Logger) {
	for _, c := range conns {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			logger.Warnf("Failed to write WebSocket message: %v", err)
		}
	}
}
