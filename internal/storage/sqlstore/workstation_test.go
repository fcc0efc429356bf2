package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-api/internal/storage"
)

func TestCreateWorkstation_WithShifts(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	shift, err := s.CreateShift(ctx, dayShift(), actor)
	require.NoError(t, err)

	ws, err := s.CreateWorkstation(ctx, storage.WorkstationInput{
		Name:        "CNC-1",
		Description: strPtr("milling"),
		Shifts: []storage.ShiftAssignmentInput{
			{ShiftID: shift.ID, StartDate: "2026-01-01", EndDate: "2026-12-31"},
		},
	}, actor)
	require.NoError(t, err)

	assert.True(t, ws.IsActive)
	require.Len(t, ws.Shifts, 1)
	assert.Equal(t, shift.ID, ws.Shifts[0].ShiftID)
	assert.Equal(t, "Day", ws.Shifts[0].ShiftName)
	assert.Equal(t, "2026-01-01", ws.Shifts[0].StartDate)

	got, err := s.GetWorkstation(ctx, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, "CNC-1", got.Name)
	assert.Len(t, got.Shifts, 1)

	page, err := s.ListWorkstations(ctx, storage.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Len(t, page.Items[0].Shifts, 1)
}

func TestCreateWorkstation_InvalidShiftLeavesNothing(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	valid, err := s.CreateShift(ctx, dayShift(), actor)
	require.NoError(t, err)

	_, err = s.CreateWorkstation(ctx, storage.WorkstationInput{
		Name: "Press",
		Shifts: []storage.ShiftAssignmentInput{
			{ShiftID: valid.ID, StartDate: "2026-01-01", EndDate: "2026-06-30"},
			{ShiftID: 999, StartDate: "2026-01-01", EndDate: "2026-06-30"},
		},
	}, actor)
	assert.ErrorIs(t, err, storage.ErrInvalidReference)

	assert.Equal(t, 0, countRows(t, s, "Workstations"))
	assert.Equal(t, 0, countRows(t, s, "WorkstationShifts"))
}

func TestCreateWorkstation_InactiveShiftRejected(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	shift, err := s.CreateShift(ctx, dayShift(), actor)
	require.NoError(t, err)
	_, err = s.DeleteShift(ctx, shift.ID, actor)
	require.NoError(t, err)

	_, err = s.CreateWorkstation(ctx, storage.WorkstationInput{
		Name:   "Lathe",
		Shifts: []storage.ShiftAssignmentInput{{ShiftID: shift.ID, StartDate: "2026-01-01", EndDate: "2026-01-31"}},
	}, actor)
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}

func TestCreateWorkstation_AssignmentFieldsRequired(t *testing.T) {
	s := newTestStorage(t)

	_, err := s.CreateWorkstation(context.Background(), storage.WorkstationInput{
		Name:   "Lathe",
		Shifts: []storage.ShiftAssignmentInput{{ShiftID: 1}},
	}, actor)

	var verr *storage.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems, "shifts[0].startDate is required")
}

func TestWorkstation_UpdateDeleteReactivate(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	ws, err := s.CreateWorkstation(ctx, storage.WorkstationInput{Name: "Saw"}, actor)
	require.NoError(t, err)

	updated, err := s.UpdateWorkstation(ctx, storage.WorkstationPatch{ID: ws.ID, Description: storage.Some("band saw")}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Saw", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "band saw", *updated.Description)

	_, err = s.DeleteWorkstation(ctx, ws.ID, actor)
	require.NoError(t, err)

	_, err = s.DeleteWorkstation(ctx, ws.ID, actor)
	assert.ErrorIs(t, err, storage.ErrAlreadyDeleted)

	_, err = s.GetWorkstation(ctx, ws.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.ReactivateWorkstation(ctx, ws.ID, actor)
	require.NoError(t, err)

	_, err = s.ReactivateWorkstation(ctx, ws.ID, actor)
	assert.ErrorIs(t, err, storage.ErrAlreadyActive)
}
