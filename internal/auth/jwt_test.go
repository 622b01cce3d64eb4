package auth

import (
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "inventory-ledger", time.Minute)

	token, expires, err := issuer.Issue(models.User{ID: 7, Username: "alice", Role: "user"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expires, 5*time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "inventory-ledger", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "inventory-ledger", time.Minute)
	other := NewTokenIssuer("other-secret", "inventory-ledger", time.Minute)

	foreign, _, err := other.Issue(models.User{ID: 1, Username: "bob"})
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := issuer.Issue(models.User{ID: 1, Username: "bob"})
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = issuer.Parse(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecretStillSigns(t *testing.T) {
	issuer := NewTokenIssuer("", "inventory-ledger", time.Minute)
	token, _, err := issuer.Issue(models.User{ID: 3, Username: "carol"})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.NoError(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
