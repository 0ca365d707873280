// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/quno-game/quno/internal/models"
)

// DeckSize is the fixed number of cards in a session deck. The face
// pools on each side hold exactly this many faces.
const DeckSize = 108

// NewDeck builds the 108-card deck: the light-face pool and the
// dark-face pool are generated and shuffled independently, paired
// index-wise into cards, and the resulting card sequence is shuffled
// again. Card ids run 1..108 and are stable for the session.
func NewDeck(r *rand.Rand) []*models.Card {
	light := lightFacePool()
	dark := darkFacePool()

	r.Shuffle(len(light), func(i, j int) {
		light[i], light[j] = light[j], light[i]
	})
	r.Shuffle(len(dark), func(i, j int) {
		dark[i], dark[j] = dark[j], dark[i]
	})

	cards := make([]*models.Card, len(light))
	for i := range light {
		cards[i] = &models.Card{ID: i + 1, Light: light[i], Dark: dark[i]}
	}
	r.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}

// lightFacePool generates the 108 light faces: per colour one "0" and
// two each of "1".."9", two copies of each coloured action per colour,
// and the light wild pool.
func lightFacePool() []models.CardFace {
	return facePool(
		models.LightColours(),
		[]models.Value{models.ValueFlip, models.ValueReverse},
		[]wildCount{
			{models.ValueSuperposition, 8},
			{models.ValueMeasurement, 4},
			{models.ValueTeleportation, 4},
		},
	)
}

// darkFacePool mirrors the light pool with the dark colours, the dark
// action kinds and the dark wild assignment.
func darkFacePool() []models.CardFace {
	return facePool(
		models.DarkColours(),
		[]models.Value{models.ValueFlipReverse, models.ValueEntanglement},
		[]wildCount{
			{models.ValueColourSuperposition, 8},
			{models.ValueMeasurement, 4},
			{models.ValueTeleportation, 4},
		},
	)
}

type wildCount struct {
	value models.Value
	count int
}

func facePool(colours []models.Colour, actions []models.Value, wilds []wildCount) []models.CardFace {
	faces := make([]models.CardFace, 0, DeckSize)

	numerals := []models.Value{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	for _, col := range colours {
		for _, num := range numerals {
			copies := 2
			if num == "0" {
				copies = 1
			}
			for i := 0; i < copies; i++ {
				faces = append(faces, models.CardFace{Colour: col, Value: num})
			}
		}
		for _, act := range actions {
			for i := 0; i < 2; i++ {
				faces = append(faces, models.CardFace{Colour: col, Value: act})
			}
		}
	}
	for _, w := range wilds {
		for i := 0; i < w.count; i++ {
			faces = append(faces, models.CardFace{Colour: models.ColourBlack, Value: w.value})
		}
	}
	return faces
}
