package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-api/internal/storage"
)

func TestAuthenticate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "planner", "s3cret", nil)
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, "planner", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Authenticate(ctx, "planner", "wrong")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
}

func TestCreateUser_Duplicate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "planner", "a", nil)
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "planner", "b", nil)
	assert.ErrorIs(t, err, storage.ErrDuplicate)
}
