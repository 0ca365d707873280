// internal/game/rules.go
package game

import (
	"github.com/quno-game/quno/internal/models"
)

// CheckValidMove decides whether candidate may be played on the current
// discard top, evaluating active faces only.
//
// An empty discard accepts anything. A Superposition on top locks the
// pile so that only Measurement resolves it, wilds included. Otherwise
// wilds always play, and any other card needs a colour or value match.
func CheckValidMove(candidate, top *models.Card, lightActive bool) bool {
	if top == nil {
		return true
	}
	cf := candidate.ActiveFace(lightActive)
	tf := top.ActiveFace(lightActive)

	if tf.Value == models.ValueSuperposition {
		return cf.Value == models.ValueMeasurement
	}
	if cf.Colour.IsWild() {
		return true
	}
	return cf.Colour == tf.Colour || cf.Value == tf.Value
}
