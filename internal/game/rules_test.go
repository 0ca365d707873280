// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quno-game/quno/internal/models"
)

func TestCheckValidMove(t *testing.T) {
	redFive := testCard(1, face(models.ColourRed, "5"), face(models.ColourTeal, "5"))
	redNine := testCard(2, face(models.ColourRed, "9"), face(models.ColourPink, "1"))
	blueFive := testCard(3, face(models.ColourBlue, "5"), face(models.ColourOrange, "2"))
	blueNine := testCard(4, face(models.ColourBlue, "9"), face(models.ColourPurple, "3"))
	wildTele := testCard(5, face(models.ColourBlack, models.ValueTeleportation), face(models.ColourBlack, models.ValueTeleportation))
	wildMeas := testCard(6, face(models.ColourBlack, models.ValueMeasurement), face(models.ColourBlack, models.ValueMeasurement))
	superpos := testCard(7, face(models.ColourBlack, models.ValueSuperposition), face(models.ColourBlack, models.ValueColourSuperposition))
	teal9 := testCard(8, face(models.ColourGreen, "9"), face(models.ColourTeal, "9"))

	cases := []struct {
		name      string
		candidate *models.Card
		top       *models.Card
		light     bool
		want      bool
	}{
		{"empty pile accepts anything", redFive, nil, true, true},
		{"colour match", redNine, redFive, true, true},
		{"value match", blueFive, redFive, true, true},
		{"no match", blueNine, redFive, true, false},
		{"wild on anything", wildTele, redFive, true, true},
		{"measurement on superposition", wildMeas, superpos, true, true},
		{"numeral on superposition", redFive, superpos, true, false},
		{"wild on superposition", wildTele, superpos, true, false},
		// Dark side active: redFive's dark face is teal 5.
		{"dark no match", redFive, redNine, false, false},
		{"dark colour match", redFive, teal9, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckValidMove(tc.candidate, tc.top, tc.light))
		})
	}
}
