package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sl "pairing_service/internal/lib/logger"
	"pairing_service/internal/metrics"
	"pairing_service/internal/models"
)

// ErrNoBoundDevice means the account never registered a device; the caller
// should be told to register one first.
var ErrNoBoundDevice = errors.New("no device registered")

// Session is the credential bundle a viewer needs to join the media room.
// It is never persisted; every request mints a fresh one.
type Session struct {
	RoomName string
	WSURL    string
	Token    string
}

// TokenMinter is the external media provider's token-minting primitive.
// Minting may fail independently of everything else (network, provider
// limits); such failures must not be retried blindly.
type TokenMinter interface {
	MintJoinToken(ctx context.Context, room, identity string, ttl time.Duration) (string, error)
}

type Issuer struct {
	log    *slog.Logger
	minter TokenMinter
	rec    metrics.Recorder
	wsURL  string
	ttl    time.Duration
}

func NewIssuer(log *slog.Logger, minter TokenMinter, rec metrics.Recorder, wsURL string, ttl time.Duration) *Issuer {
	return &Issuer{
		log:    log,
		minter: minter,
		rec:    rec,
		wsURL:  wsURL,
		ttl:    ttl,
	}
}

// RoomName derives the media room for a device. All viewers of the same
// account land in the same room; re-registering a device moves subsequent
// sessions to a new room.
func RoomName(deviceID string) string {
	return "room-" + deviceID
}

// ViewerIdentity derives a per-account viewer identity so the provider can
// tell concurrent viewers of the same account apart from the publisher.
func ViewerIdentity(accountID string) string {
	return "viewer-" + accountID
}

// IssueSession mints a subscribe-only join token for the account's room.
// The provider is not called at all when no device is bound.
func (i *Issuer) IssueSession(ctx context.Context, acc models.Account) (Session, error) {
	const op = "media.IssueSession"

	log := i.log.With(slog.String("op", op), slog.String("account_id", acc.ID))

	if !acc.HasDevice() {
		return Session{}, ErrNoBoundDevice
	}

	room := RoomName(acc.DeviceID)

	token, err := i.minter.MintJoinToken(ctx, room, ViewerIdentity(acc.ID), i.ttl)
	if err != nil {
		i.rec.RecordProviderFailure()
		log.Error("provider failed to mint join token", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	i.rec.RecordMediaToken()
	log.Info("media session issued", slog.String("room", room))

	return Session{
		RoomName: room,
		WSURL:    i.wsURL,
		Token:    token,
	}, nil
}
