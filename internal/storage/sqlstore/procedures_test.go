package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-api/internal/storage"
)

func TestDelete_TogglingProcedureDeletesOnce(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_Workstation_Delete": "UPDATE Workstations SET isActive = 1 - isActive, UpdatedBy = ? WHERE id = ?",
	})
	ctx := context.Background()

	ws, err := s.CreateWorkstation(ctx, storage.WorkstationInput{Name: "Lathe"}, actor)
	require.NoError(t, err)

	deleted, err := s.DeleteWorkstation(ctx, ws.ID, actor)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)

	_, err = s.DeleteWorkstation(ctx, ws.ID, actor)
	assert.ErrorIs(t, err, storage.ErrAlreadyDeleted)

	_, active, err := state(ctx, s.inv, workstations.name, ws.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestReactivate_TogglingProcedureReactivatesOnce(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_Unit_Reactivate": "UPDATE Units SET isActive = 1 - isActive, UpdatedBy = ? WHERE id = ?",
	})
	ctx := context.Background()

	unit, err := s.CreateUnit(ctx, storage.UnitInput{Name: "Metre", Symbol: "m"}, actor)
	require.NoError(t, err)

	_, err = s.ReactivateUnit(ctx, unit.ID, actor)
	assert.ErrorIs(t, err, storage.ErrAlreadyActive)

	got, err := s.GetUnit(ctx, unit.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestDelete_ProcedureThatChangesNothingFails(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_Unit_Delete": "SELECT ?, ?",
	})
	ctx := context.Background()

	unit, err := s.CreateUnit(ctx, storage.UnitInput{Name: "Metre", Symbol: "m"}, actor)
	require.NoError(t, err)

	_, err = s.DeleteUnit(ctx, unit.ID, actor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sp_Unit_Delete left unit")

	got, err := s.GetUnit(ctx, unit.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

func TestUpdate_UnguardedProcedureSkipsInactiveRow(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_Workstation_Update": "UPDATE Workstations SET workstationName = ?, description = ?, UpdatedBy = ? WHERE id = ?",
	})
	ctx := context.Background()

	ws, err := s.CreateWorkstation(ctx, storage.WorkstationInput{Name: "Lathe"}, actor)
	require.NoError(t, err)

	updated, err := s.UpdateWorkstation(ctx, storage.WorkstationPatch{ID: ws.ID, Name: storage.Some("Lathe 2")}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Lathe 2", updated.Name)

	_, err = s.DeleteWorkstation(ctx, ws.ID, actor)
	require.NoError(t, err)

	_, err = s.UpdateWorkstation(ctx, storage.WorkstationPatch{ID: ws.ID, Name: storage.Some("Lathe 3")}, actor)
	assert.ErrorIs(t, err, storage.ErrInactive)

	var name string
	require.NoError(t, s.inv.DB().QueryRow("SELECT workstationName FROM Workstations WHERE id = ?", ws.ID).Scan(&name))
	assert.Equal(t, "Lathe 2", name)

	_, err = s.UpdateWorkstation(ctx, storage.WorkstationPatch{ID: 999, Name: storage.Some("Ghost")}, actor)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAuthenticate_IgnoresLoginProcedure(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_User_Login": "SELECT id FROM Users WHERE username = ? AND passwordHash = ?",
	})
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "planner", "s3cret", nil)
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, "planner", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticate_CredentialsProcedure(t *testing.T) {
	s := newStorageWith(t, map[string]string{
		"sp_User_GetCredentials": "SELECT id, passwordHash FROM Users WHERE username = ?",
	})
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "planner", "s3cret", nil)
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, "planner", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = s.Authenticate(ctx, "planner", "wrong")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)
}
