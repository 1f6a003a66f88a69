package livekit

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresCredentials(t *testing.T) {
	t.Parallel()

	_, err := New("", "secret")
	require.Error(t, err)

	_, err = New("key", "")
	require.Error(t, err)
}

func TestMintJoinToken_Grant(t *testing.T) {
	t.Parallel()

	m, err := New("api-key", "api-secret")
	require.NoError(t, err)

	signed, err := m.MintJoinToken(context.Background(), "room-iphone-7", "viewer-acc-1", time.Hour)
	require.NoError(t, err)

	var got claims
	parsed, err := jwt.ParseWithClaims(signed, &got, func(t *jwt.Token) (interface{}, error) {
		return []byte("api-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	require.Equal(t, "api-key", got.Issuer)
	require.Equal(t, "viewer-acc-1", got.Subject)
	require.Equal(t, "room-iphone-7", got.Video.Room)
	require.True(t, got.Video.RoomJoin)
	require.NotNil(t, got.Video.CanSubscribe)
	require.True(t, *got.Video.CanSubscribe)
	require.NotNil(t, got.Video.CanPublish)
	require.False(t, *got.Video.CanPublish)

	require.WithinDuration(t, time.Now().Add(time.Hour), got.ExpiresAt.Time, 5*time.Second)
}

func TestMintJoinToken_WrongSecretFailsVerification(t *testing.T) {
	t.Parallel()

	m, err := New("api-key", "api-secret")
	require.NoError(t, err)

	signed, err := m.MintJoinToken(context.Background(), "room-x", "viewer-y", time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	require.Error(t, err)
}
