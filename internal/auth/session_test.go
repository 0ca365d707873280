// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRejoinTokenRoundTrip(t *testing.T) {
	Init()
	playerID := uuid.New().String()
	roomID := uuid.New().String()

	token, err := CreateRejoinToken(playerID, roomID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	gotPlayer, gotRoom, err := VerifyRejoinToken(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, gotPlayer)
	assert.Equal(t, roomID, gotRoom)
}

func TestRejoinTokenRejectsGarbage(t *testing.T) {
	Init()
	_, _, err := VerifyRejoinToken("not.a.token")
	assert.Error(t, err)
}

func TestRejoinTokenRejectsTampering(t *testing.T) {
	Init()
	token, err := CreateRejoinToken(uuid.New().String(), uuid.New().String())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, _, err = VerifyRejoinToken(tampered)
	assert.Error(t, err)
}

func TestTokenFromOldKeyPairIsRejected(t *testing.T) {
	Init()
	token, err := CreateRejoinToken(uuid.New().String(), uuid.New().String())
	require.NoError(t, err)

	// A restart rotates the key pair; previously issued tokens die.
	Init()
	_, _, err = VerifyRejoinToken(token)
	assert.Error(t, err)
}
