// Package livekit mints LiveKit-compatible access tokens: an HS256 JWT
// keyed by the provider API secret, carrying a video grant claim that the
// media server verifies at connection time.
package livekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Minter struct {
	apiKey    string
	apiSecret []byte
}

func New(apiKey, apiSecret string) (*Minter, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("livekit: api key and secret are required")
	}

	return &Minter{apiKey: apiKey, apiSecret: []byte(apiSecret)}, nil
}

// VideoGrant is the capability set embedded in the token. Viewers get
// subscribe-only access to a single room.
type VideoGrant struct {
	Room         string `json:"room,omitempty"`
	RoomJoin     bool   `json:"roomJoin,omitempty"`
	CanSubscribe *bool  `json:"canSubscribe,omitempty"`
	CanPublish   *bool  `json:"canPublish,omitempty"`
}

type claims struct {
	jwt.RegisteredClaims
	Video VideoGrant `json:"video"`
}

// MintJoinToken signs a subscribe-only join grant for the given room and
// viewer identity.
func (m *Minter) MintJoinToken(ctx context.Context, room, identity string, ttl time.Duration) (string, error) {
	const op = "livekit.MintJoinToken"

	canSubscribe := true
	canPublish := false
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.apiKey,
			Subject:   identity,
			ID:        identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Video: VideoGrant{
			Room:         room,
			RoomJoin:     true,
			CanSubscribe: &canSubscribe,
			CanPublish:   &canPublish,
		},
	})

	signed, err := token.SignedString(m.apiSecret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}
