// internal/models/card.go
package models

// Colour identifies one of the eight playable colours plus the wild colour.
// Four colours exist only on light faces, four only on dark faces.
type Colour string

const (
	ColourRed    Colour = "RED"
	ColourYellow Colour = "YELLOW"
	ColourGreen  Colour = "GREEN"
	ColourBlue   Colour = "BLUE"

	ColourPink   Colour = "PINK"
	ColourTeal   Colour = "TEAL"
	ColourOrange Colour = "ORANGE"
	ColourPurple Colour = "PURPLE"

	// ColourBlack is the wild colour; it matches any colour on play.
	ColourBlack Colour = "BLACK"
)

// LightColours returns the four colours that appear on light faces.
func LightColours() []Colour {
	return []Colour{ColourRed, ColourYellow, ColourGreen, ColourBlue}
}

// DarkColours returns the four colours that appear on dark faces.
func DarkColours() []Colour {
	return []Colour{ColourPink, ColourTeal, ColourOrange, ColourPurple}
}

// IsWild reports whether the colour is the wild (Black) colour.
func (c Colour) IsWild() bool { return c == ColourBlack }

// Value is the face value of a card: either a numeral "0".."9" or the
// name of an action/wild effect.
type Value string

const (
	// Coloured action values. FLIP and REVERSE appear on light faces,
	// FLIP_REVERSE and ENTANGLEMENT on dark faces.
	ValueFlip         Value = "FLIP"
	ValueReverse      Value = "REVERSE"
	ValueFlipReverse  Value = "FLIP_REVERSE"
	ValueEntanglement Value = "ENTANGLEMENT"

	// Wild (Black) values. SUPERPOSITION is exclusive to the light pool,
	// COLOUR_SUPERPOSITION to the dark pool; MEASUREMENT and TELEPORTATION
	// appear in both.
	ValueSuperposition       Value = "SUPERPOSITION"
	ValueColourSuperposition Value = "COLOUR_SUPERPOSITION"
	ValueMeasurement         Value = "MEASUREMENT"
	ValueTeleportation       Value = "TELEPORTATION"
)

// IsAction reports whether the value names an action/wild effect rather
// than a numeral.
func (v Value) IsAction() bool {
	switch v {
	case ValueFlip, ValueReverse, ValueFlipReverse, ValueEntanglement,
		ValueSuperposition, ValueColourSuperposition, ValueMeasurement, ValueTeleportation:
		return true
	}
	return false
}

// CardFace is one of the two printed faces of a card.
type CardFace struct {
	Colour Colour `json:"colour"`
	Value  Value  `json:"value"`
}

// Card pairs a light face with a dark face. A card is created once at
// deck-build time and is owned by exactly one container (draw pile,
// discard pile, or a hand) at any moment.
type Card struct {
	ID    int      `json:"id"`
	Light CardFace `json:"lightSide"`
	Dark  CardFace `json:"darkSide"`
}

// ActiveFace returns the face selected by the room-wide side flag.
func (c *Card) ActiveFace(lightActive bool) CardFace {
	if lightActive {
		return c.Light
	}
	return c.Dark
}

// InactiveFace returns the face currently hidden from play; it is the
// only face of a card in another player's hand that opponents may see.
func (c *Card) InactiveFace(lightActive bool) CardFace {
	if lightActive {
		return c.Dark
	}
	return c.Light
}

// Same reports card identity. The ID is the reliable key; face-pair
// equality is a fallback for hand-authored cards without ids.
func (c *Card) Same(other *Card) bool {
	if other == nil {
		return false
	}
	if c.ID > 0 || other.ID > 0 {
		return c.ID == other.ID
	}
	return c.Light == other.Light && c.Dark == other.Dark
}
