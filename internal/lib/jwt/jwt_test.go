package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	accountID := "acc-123"

	tok, err := NewToken(accountID, secret, time.Hour)
	require.NoError(t, err)

	gotID, err := ParseToken(tok, secret)
	require.NoError(t, err)
	require.Equal(t, accountID, gotID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := NewToken("acc-1", secret, -1*time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	require.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewToken("acc-2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	require.Error(t, err)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	require.Error(t, err)
}
