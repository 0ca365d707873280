// internal/game/manager_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quno-game/quno/internal/models"
)

// rigRoom puts a two-player room into play with empty piles and empty
// hands, ready for tests to deal exact cards.
func rigRoom(t *testing.T) (*GameRoom, []*models.Player, *mockBroadcaster, *GameManager) {
	t.Helper()
	room, players, mb := setupTestRoom(t, 2)
	room.Status = RoomInProgress
	room.Turns = NewTurnManager([]uuid.UUID{players[0].ID, players[1].ID})
	room.Draw = NewDrawPile(nil)
	room.Discard = NewDiscardPile()
	mb.clear()
	return room, players, mb, testManager()
}

func TestPlayCardRejectsInvalidMove(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)
	c := testCard(2, face(models.ColourBlue, "4"), face(models.ColourPink, "4"))
	players[0].AddCard(c)

	m.PlayCard(room, players[0], c.ID)

	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventError))
	assert.Len(t, players[0].Hand, 1, "hand must be untouched")
	assert.Equal(t, 1, room.Discard.Size())
	assert.Equal(t, players[0].ID, room.Turns.Current(), "turn must not advance")
}

func TestPlayCardRejectsOutOfTurn(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	c := testCard(2, face(models.ColourBlue, "4"), face(models.ColourPink, "4"))
	players[1].AddCard(c)

	m.PlayCard(room, players[1], c.ID)

	assert.NotEmpty(t, mb.playerEventsOfType(players[1].ID, EventError))
	assert.Len(t, players[1].Hand, 1)
}

func TestPlayNumeralAdvancesTurn(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)
	c := testCard(2, face(models.ColourRed, "3"), face(models.ColourPink, "4"))
	players[0].AddCard(c)

	m.PlayCard(room, players[0], c.ID)

	assert.Empty(t, players[0].Hand)
	require.NotNil(t, room.Discard.Top(true))
	assert.Equal(t, c.ID, room.Discard.Top(true).ID)

	turns := mb.eventsOfType(EventTurnChanged)
	require.Len(t, turns, 1)
	assert.Equal(t, players[1].ID.String(), turns[0].CurrentPlayer)
}

// TestBasicFlip plays a side-flip on an empty discard (allowed) and
// checks the side toggles exactly once for everyone.
func TestBasicFlip(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	c := testCard(2, face(models.ColourGreen, models.ValueFlip), face(models.ColourPurple, "1"))
	players[0].AddCard(c)
	require.True(t, room.LightActive)

	m.PlayCard(room, players[0], c.ID)

	assert.False(t, room.LightActive)
	effects := mb.eventsOfType(EventCardEffect)
	require.Len(t, effects, 1)
	require.NotNil(t, effects[0].LightActive)
	assert.False(t, *effects[0].LightActive)
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)

	// Hands were re-sent after the flip.
	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventYourHand))
	assert.NotEmpty(t, mb.playerEventsOfType(players[1].ID, EventYourHand))
}

func TestReverseFlipsDirection(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	c := testCard(2, face(models.ColourGreen, models.ValueReverse), face(models.ColourPurple, "1"))
	players[0].AddCard(c)

	m.PlayCard(room, players[0], c.ID)

	assert.Equal(t, -1, room.Turns.Direction())
	effects := mb.eventsOfType(EventCardEffect)
	require.Len(t, effects, 1)
	assert.Equal(t, -1, effects[0].Direction)
	// With two players a reversed advance still lands on the other one.
	assert.Equal(t, players[1].ID, room.Turns.Current())
}

// TestForcedAutoPlay draws a card that happens to match the discard top
// and checks it is played in the same request with exactly one
// TURN_CHANGED for the whole sequence.
func TestForcedAutoPlay(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)
	drawn := testCard(2, face(models.ColourRed, "5"), face(models.ColourPink, "2"))
	room.Draw = NewDrawPile([]*models.Card{drawn})

	m.DrawCard(room, players[0])

	assert.Empty(t, players[0].Hand, "drawn card must leave the hand again")
	require.NotNil(t, room.Discard.Top(true))
	assert.Equal(t, drawn.ID, room.Discard.Top(true).ID)
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)
	assert.Equal(t, players[1].ID, room.Turns.Current())
}

// TestForcedAutoPlayRebroadcastsDrawTop checks the stock top consumed
// by an auto-played draw is re-announced: the card beneath it is the
// new draw-pile top and clients must hear about it.
func TestForcedAutoPlayRebroadcastsDrawTop(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)
	matching := testCard(2, face(models.ColourRed, "5"), face(models.ColourPink, "2"))
	next := testCard(3, face(models.ColourBlue, "9"), face(models.ColourOrange, "4"))
	room.Draw = NewDrawPile([]*models.Card{matching, next})

	m.DrawCard(room, players[0])

	require.NotNil(t, room.Discard.Top(true))
	require.Equal(t, matching.ID, room.Discard.Top(true).ID)

	tops := mb.eventsOfType(EventDrawPileTop)
	require.NotEmpty(t, tops, "the consumed stock top must be re-announced")
	last := tops[len(tops)-1]
	require.NotNil(t, last.Face)
	assert.Equal(t, next.InactiveFace(true), *last.Face)

	discardTops := mb.eventsOfType(EventDiscardPileTop)
	require.NotEmpty(t, discardTops)
	require.NotNil(t, discardTops[len(discardTops)-1].Face)
	assert.Equal(t, matching.InactiveFace(true), *discardTops[len(discardTops)-1].Face)
}

func TestDrawKeepsUnplayableCard(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)
	drawn := testCard(2, face(models.ColourBlue, "5"), face(models.ColourPink, "2"))
	room.Draw = NewDrawPile([]*models.Card{drawn})

	m.DrawCard(room, players[0])

	require.Len(t, players[0].Hand, 1)
	assert.Equal(t, drawn.ID, players[0].Hand[0].ID)
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)
}

func TestDrawFromEmptyPileIsAnError(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), true)

	m.DrawCard(room, players[0])

	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventError))
	assert.Empty(t, players[0].Hand)
	assert.Equal(t, players[0].ID, room.Turns.Current())
}

// TestTeleportationHappyPath plays Teleportation, resolves the
// selection, and checks the card changed hands with the turn advancing
// exactly once at the end.
func TestTeleportationHappyPath(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	tele := testCard(2, face(models.ColourBlack, models.ValueTeleportation), face(models.ColourBlack, models.ValueMeasurement))
	players[0].AddCard(tele)
	stolen := testCard(3, face(models.ColourBlue, "6"), face(models.ColourOrange, "2"))
	players[1].AddCard(stolen)

	m.PlayCard(room, players[0], tele.ID)

	require.True(t, room.Teleport.Pending())
	assert.Equal(t, players[0].ID, room.Teleport.AwaitingPlayerID)
	assert.Empty(t, mb.eventsOfType(EventTurnChanged), "turn must be parked")
	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventAwaitingTeleportationTarget))

	// Everyone received the selection view, opponents' cards with ids.
	refresh := mb.playerEventsOfType(players[0].ID, EventRefreshOpponentHand)
	require.NotEmpty(t, refresh)
	opp := refresh[len(refresh)-1].OpponentHands[players[1].ID.String()]
	require.Len(t, opp, 1)
	assert.Equal(t, stolen.ID, opp[0].ID)

	m.HandleTeleportation(room, players[0], players[1].ID, stolen.ID)

	assert.Equal(t, TeleportCompleted, room.Teleport.Status)
	assert.Empty(t, players[1].Hand)
	require.Len(t, players[0].Hand, 1)
	assert.Equal(t, stolen.ID, players[0].Hand[0].ID)
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)
	assert.Equal(t, players[1].ID, room.Turns.Current())
}

// TestTeleportationGating checks that while a selection is pending all
// play/draw requests bounce and only the recorded player may resolve.
func TestTeleportationGating(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	tele := testCard(2, face(models.ColourBlack, models.ValueTeleportation), face(models.ColourBlack, models.ValueMeasurement))
	players[0].AddCard(tele)
	stolen := testCard(3, face(models.ColourBlue, "6"), face(models.ColourOrange, "2"))
	players[1].AddCard(stolen)
	other := testCard(4, face(models.ColourBlue, "9"), face(models.ColourOrange, "5"))
	players[0].AddCard(other)

	m.PlayCard(room, players[0], tele.ID)
	require.True(t, room.Teleport.Pending())
	mb.clear()

	m.DrawCard(room, players[0])
	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventError))
	assert.Len(t, players[0].Hand, 1)

	m.PlayCard(room, players[0], other.ID)
	assert.Len(t, players[0].Hand, 1)
	assert.Equal(t, 1, room.Discard.Size())

	// The wrong player cannot resolve the selection.
	m.HandleTeleportation(room, players[1], players[0].ID, other.ID)
	assert.True(t, room.Teleport.Pending())
	assert.NotEmpty(t, mb.playerEventsOfType(players[1].ID, EventError))

	// Unknown source player and unknown card are rejected too.
	m.HandleTeleportation(room, players[0], uuid.New(), stolen.ID)
	assert.True(t, room.Teleport.Pending())
	m.HandleTeleportation(room, players[0], players[1].ID, 999)
	assert.True(t, room.Teleport.Pending())
	require.Len(t, players[1].Hand, 1)

	assert.Empty(t, mb.eventsOfType(EventTurnChanged))
}

func TestTeleportationSelectWithoutPendingIsRejected(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	stolen := testCard(3, face(models.ColourBlue, "6"), face(models.ColourOrange, "2"))
	players[1].AddCard(stolen)

	m.HandleTeleportation(room, players[0], players[1].ID, stolen.ID)

	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventError))
	assert.Len(t, players[1].Hand, 1)
	assert.Empty(t, mb.eventsOfType(EventTurnChanged))
}

// TestMeasurementOverSuperposition buries a Superposition and checks it
// stays buried while a fresh non-action card collapses on top.
func TestMeasurementOverSuperposition(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	super := testCard(1, face(models.ColourBlack, models.ValueSuperposition), face(models.ColourBlack, models.ValueColourSuperposition))
	room.Discard.AddOnTop(testCard(5, face(models.ColourRed, "5"), face(models.ColourTeal, "1")), true)
	room.Discard.AddOnTop(super, true)

	fresh := testCard(6, face(models.ColourGreen, "3"), face(models.ColourPink, "8"))
	room.Draw = NewDrawPile([]*models.Card{fresh})

	meas := testCard(2, face(models.ColourBlack, models.ValueMeasurement), face(models.ColourBlack, models.ValueTeleportation))
	players[0].AddCard(meas)

	m.PlayCard(room, players[0], meas.ID)

	top := room.Discard.Top(true)
	require.NotNil(t, top)
	assert.Equal(t, fresh.ID, top.ID)
	assert.Equal(t, 4, room.Discard.Size(), "superposition stays buried, nothing destroyed")
	assert.NotEmpty(t, mb.eventsOfType(EventCardEffect))
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)
}

// TestMeasurementReexposesBuriedNumeral checks the non-superposition
// branch: the buried card is excised and becomes the new top.
func TestMeasurementReexposesBuriedNumeral(t *testing.T) {
	room, players, _, m := rigRoom(t)
	buried := testCard(5, face(models.ColourRed, "5"), face(models.ColourTeal, "1"))
	room.Discard.AddOnTop(buried, true)

	meas := testCard(2, face(models.ColourBlack, models.ValueMeasurement), face(models.ColourBlack, models.ValueTeleportation))
	players[0].AddCard(meas)
	// Measurement on a red 5 is only legal because wilds always play.
	m.PlayCard(room, players[0], meas.ID)

	top := room.Discard.Top(true)
	require.NotNil(t, top)
	assert.Equal(t, buried.ID, top.ID)
	below := room.Discard.CardBelowTop(true)
	require.NotNil(t, below)
	assert.Equal(t, meas.ID, below.ID)
}

// TestSuperpositionLock checks only Measurement may follow a played
// Superposition.
func TestSuperpositionLock(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	super := testCard(1, face(models.ColourBlack, models.ValueSuperposition), face(models.ColourBlack, models.ValueColourSuperposition))
	room.Discard.AddOnTop(super, true)

	numeral := testCard(2, face(models.ColourRed, "5"), face(models.ColourTeal, "1"))
	players[0].AddCard(numeral)
	m.PlayCard(room, players[0], numeral.ID)
	assert.NotEmpty(t, mb.playerEventsOfType(players[0].ID, EventError))
	assert.Len(t, players[0].Hand, 1)

	meas := testCard(3, face(models.ColourBlack, models.ValueMeasurement), face(models.ColourBlack, models.ValueTeleportation))
	players[0].AddCard(meas)
	m.PlayCard(room, players[0], meas.ID)
	assert.Len(t, players[0].Hand, 1, "measurement plays through the lock")
}

func TestColourSuperpositionCollapsesNewTop(t *testing.T) {
	room, players, mb, m := rigRoom(t)
	room.LightActive = false
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), false)

	fresh := testCard(6, face(models.ColourGreen, "3"), face(models.ColourPink, "8"))
	room.Draw = NewDrawPile([]*models.Card{fresh})

	cs := testCard(2, face(models.ColourBlack, models.ValueSuperposition), face(models.ColourBlack, models.ValueColourSuperposition))
	players[0].AddCard(cs)

	m.PlayCard(room, players[0], cs.ID)

	top := room.Discard.Top(false)
	require.NotNil(t, top)
	assert.Equal(t, fresh.ID, top.ID)
	assert.Len(t, mb.eventsOfType(EventTurnChanged), 1)
}

// TestColourSuperpositionStarvation drains the draw pile of numerals and
// checks the effect degrades to a logged no-op.
func TestColourSuperpositionStarvation(t *testing.T) {
	room, players, _, m := rigRoom(t)
	room.LightActive = false
	room.Discard.AddOnTop(testCard(1, face(models.ColourRed, "7"), face(models.ColourTeal, "9")), false)
	room.Draw = NewDrawPile([]*models.Card{
		testCard(7, face(models.ColourRed, models.ValueFlip), face(models.ColourTeal, models.ValueEntanglement)),
	})

	cs := testCard(2, face(models.ColourBlack, models.ValueSuperposition), face(models.ColourBlack, models.ValueColourSuperposition))
	players[0].AddCard(cs)

	m.PlayCard(room, players[0], cs.ID)

	top := room.Discard.Top(false)
	require.NotNil(t, top)
	assert.Equal(t, cs.ID, top.ID, "no collapse happened")
	assert.Equal(t, 1, room.Draw.Size(), "the cycled action card stays in the pile")
}
