package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue(42)
	require.NoError(t, err)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestManager_UniqueTokenIDs(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	a, err := m.Issue(1)
	require.NoError(t, err)
	b, err := m.Issue(1)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestManager_Expired(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Tampered(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue(42)
	require.NoError(t, err)

	other, err := NewManager("another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	_, err = m.Verify(parts[0] + "." + parts[1] + ".AAAA")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_RejectsNoneAlgorithm(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManager_EmptySecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}

func TestUserID_Context(t *testing.T) {
	_, ok := UserID(context.Background())
	assert.False(t, ok)

	id, ok := UserID(WithUserID(context.Background(), 9))
	assert.True(t, ok)
	assert.EqualValues(t, 9, id)
}
