// internal/game/turn.go
package game

import "github.com/google/uuid"

// TurnManager holds the cyclic turn order, fixed at game start to the
// join order. The order only ever shrinks (player removal), never
// reorders.
type TurnManager struct {
	order     []uuid.UUID
	index     int
	direction int
}

// NewTurnManager builds a turn manager over the given player order,
// starting at the first player with forward direction.
func NewTurnManager(order []uuid.UUID) *TurnManager {
	ids := make([]uuid.UUID, len(order))
	copy(ids, order)
	return &TurnManager{order: ids, direction: 1}
}

// Current returns the id of the player whose turn it is.
func (t *TurnManager) Current() uuid.UUID {
	if len(t.order) == 0 {
		return uuid.Nil
	}
	return t.order[t.index]
}

// Advance moves the index by the current direction modulo the player
// count and returns the new current id.
func (t *TurnManager) Advance() uuid.UUID {
	n := len(t.order)
	if n == 0 {
		return uuid.Nil
	}
	t.index = ((t.index+t.direction)%n + n) % n
	return t.order[t.index]
}

// Reverse flips the direction sign without moving the index.
func (t *TurnManager) Reverse() {
	t.direction = -t.direction
}

// Direction returns +1 or -1.
func (t *TurnManager) Direction() int { return t.direction }

// Len returns the number of players still in the order.
func (t *TurnManager) Len() int { return len(t.order) }

// Remove deletes the id from the order. If the removed slot was before
// or at the current index the index is decremented so it keeps pointing
// at the same logical next player, then clamped into range.
func (t *TurnManager) Remove(id uuid.UUID) {
	for i, pid := range t.order {
		if pid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			if i <= t.index {
				t.index--
			}
			if len(t.order) == 0 {
				t.index = 0
			} else if t.index < 0 {
				t.index = len(t.order) - 1
			} else if t.index >= len(t.order) {
				t.index = len(t.order) - 1
			}
			return
		}
	}
}
