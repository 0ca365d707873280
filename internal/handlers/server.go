// internal/handlers/server.go
package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/quno-game/quno/internal/game"
)

// RoomServer bundles the process-wide room registry and the game
// orchestrator shared by every WebSocket connection.
type RoomServer struct {
	Rooms   *game.RoomStore
	Manager *game.GameManager
	Logger  *logrus.Logger
}

func NewRoomServer(logger *logrus.Logger) *RoomServer {
	return &RoomServer{
		Rooms:   game.NewRoomStore(),
		Manager: game.NewGameManager(logger),
		Logger:  logger,
	}
}
