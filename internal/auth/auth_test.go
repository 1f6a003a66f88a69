package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"pairing_service/internal/lib/jwt"
	"pairing_service/internal/metrics"
	"pairing_service/internal/models"
	"pairing_service/internal/storage/jsonfile"

	"github.com/stretchr/testify/require"
)

type capturedEvents struct {
	events []models.DeviceBoundEvent
	err    error
}

func (c *capturedEvents) PublishDeviceBound(ctx context.Context, e models.DeviceBoundEvent) error {
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, e)
	return nil
}

func newTestAuth(t *testing.T, events EventPublisher) *Auth {
	t.Helper()

	store, err := jsonfile.New("")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(log, store, store, store, events, metrics.Nop{}, "test-secret", time.Hour)
}

func TestSignUpThenLogin(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, acc.ID)
	require.NotContains(t, string(acc.PassHash), "secret1")

	token, err := a.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	accountID, err := jwt.ParseToken(token, []byte("test-secret"))
	require.NoError(t, err)
	require.Equal(t, acc.ID, accountID)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = a.SignUp(ctx, "a@x.com", "other")
	require.ErrorIs(t, err, ErrAccountExists)

	// the original password still works
	_, err = a.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	_, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, errWrongPass := a.Login(ctx, "a@x.com", "wrong")
	_, errUnknownEmail := a.Login(ctx, "nobody@x.com", "whatever")

	require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	require.Equal(t, errWrongPass, errUnknownEmail)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	token, err := a.Login(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	got, err := a.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)

	_, err = a.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	expired, err := jwt.NewToken(acc.ID, []byte("test-secret"), -1*time.Minute)
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, expired)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_DeletedAccount(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	// token for an account id the store has never seen
	token, err := jwt.NewToken("ghost-id", []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegisterDevice_Overwrites(t *testing.T) {
	t.Parallel()

	events := &capturedEvents{}
	a := newTestAuth(t, events)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	acc, err = a.RegisterDevice(ctx, acc, "dev-A")
	require.NoError(t, err)
	require.Equal(t, "dev-A", acc.DeviceID)

	acc, err = a.RegisterDevice(ctx, acc, "dev-B")
	require.NoError(t, err)
	require.Equal(t, "dev-B", acc.DeviceID)

	got, err := a.Authenticate(ctx, mustToken(t, acc.ID))
	require.NoError(t, err)
	require.Equal(t, "dev-B", got.DeviceID)

	require.Len(t, events.events, 2)
	require.Equal(t, "dev-B", events.events[1].DeviceID)
	require.Equal(t, acc.ID, events.events[1].AccountID)
}

func TestRegisterDevice_MissingID(t *testing.T) {
	t.Parallel()

	a := newTestAuth(t, nil)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = a.RegisterDevice(ctx, acc, "")
	require.ErrorIs(t, err, ErrMissingDeviceID)
}

func TestRegisterDevice_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	events := &capturedEvents{err: context.DeadlineExceeded}
	a := newTestAuth(t, events)
	ctx := context.Background()

	acc, err := a.SignUp(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	acc, err = a.RegisterDevice(ctx, acc, "dev-A")
	require.NoError(t, err)
	require.Equal(t, "dev-A", acc.DeviceID)
}

func mustToken(t *testing.T, accountID string) string {
	t.Helper()

	token, err := jwt.NewToken(accountID, []byte("test-secret"), time.Hour)
	require.NoError(t, err)

	return token
}
