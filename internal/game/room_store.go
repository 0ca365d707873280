package game

import (
	"sync"

	"github.com/google/uuid"
)

// RoomStore is the process-wide room registry. Rooms are created on
// CREATE_ROOM and destroyed when their last player leaves.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*GameRoom
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[uuid.UUID]*GameRoom),
	}
}

func (s *RoomStore) AddRoom(room *GameRoom) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

func (s *RoomStore) GetRoom(id uuid.UUID) (*GameRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.rooms[id]
	return r, exists
}

func (s *RoomStore) DeleteRoom(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
