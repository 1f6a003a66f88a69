package jsonfile

import (
	"context"
	"path/filepath"
	"testing"

	"pairing_service/internal/storage"

	"github.com/stretchr/testify/require"
)

func TestSaveAccount_DuplicateEmail(t *testing.T) {
	t.Parallel()

	s, err := New("")
	require.NoError(t, err)

	ctx := context.Background()

	first, err := s.SaveAccount(ctx, "a@x.com", []byte("hash-1"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = s.SaveAccount(ctx, "a@x.com", []byte("hash-2"))
	require.ErrorIs(t, err, storage.ErrAccountExists)

	// existing account untouched
	got, err := s.Account(ctx, "a@x.com")
	require.NoError(t, err)
	require.Equal(t, []byte("hash-1"), got.PassHash)
}

func TestAccountLookups(t *testing.T) {
	t.Parallel()

	s, err := New("")
	require.NoError(t, err)

	ctx := context.Background()

	acc, err := s.SaveAccount(ctx, "b@x.com", []byte("h"))
	require.NoError(t, err)

	byEmail, err := s.Account(ctx, "b@x.com")
	require.NoError(t, err)
	require.Equal(t, acc.ID, byEmail.ID)

	byID, err := s.AccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, "b@x.com", byID.Email)

	_, err = s.Account(ctx, "missing@x.com")
	require.ErrorIs(t, err, storage.ErrAccountNotFound)

	_, err = s.AccountByID(ctx, "missing-id")
	require.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestBindDevice_Overwrites(t *testing.T) {
	t.Parallel()

	s, err := New("")
	require.NoError(t, err)

	ctx := context.Background()

	acc, err := s.SaveAccount(ctx, "c@x.com", []byte("h"))
	require.NoError(t, err)

	require.NoError(t, s.BindDevice(ctx, acc.ID, "dev-A"))
	require.NoError(t, s.BindDevice(ctx, acc.ID, "dev-B"))

	got, err := s.AccountByID(ctx, acc.ID)
	require.NoError(t, err)
	require.Equal(t, "dev-B", got.DeviceID)

	err = s.BindDevice(ctx, "missing-id", "dev-C")
	require.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestPersistence_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "db.json")
	ctx := context.Background()

	s, err := New(path)
	require.NoError(t, err)

	acc, err := s.SaveAccount(ctx, "d@x.com", []byte("h"))
	require.NoError(t, err)
	require.NoError(t, s.BindDevice(ctx, acc.ID, "iphone-7"))

	reopened, err := New(path)
	require.NoError(t, err)

	got, err := reopened.Account(ctx, "d@x.com")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)
	require.Equal(t, "iphone-7", got.DeviceID)
}
