package unmatched_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/store/shift"
	"leaguedesk/internal/roster/store/unmatched"
	"leaguedesk/pkg/platform/sentinel"
)

func seedRecord(t *testing.T, store *unmatched.InMemoryStore) *models.UnmatchedRecord {
	t.Helper()
	record := &models.UnmatchedRecord{
		ID:       uuid.New(),
		SeasonID: "2026-spring",
		Name:     "Dana Reyes",
		Email:    "dana@example.com",
		Hours:    4,
	}
	require.NoError(t, store.Create(context.Background(), record))
	return record
}

func newShift(record *models.UnmatchedRecord, householdID uuid.UUID) *models.WorkbondShift {
	recordID := record.ID
	return &models.WorkbondShift{
		ID:             uuid.New(),
		SeasonID:       record.SeasonID,
		HouseholdID:    householdID,
		Hours:          record.Hours,
		SourceRecordID: &recordID,
	}
}

func TestLinkMarksMatchedAndCreditsShift(t *testing.T) {
	shifts := shift.NewInMemory()
	store := unmatched.NewInMemory(shifts)
	ctx := context.Background()
	record := seedRecord(t, store)
	householdID := uuid.New()

	require.NoError(t, store.Link(ctx, record.ID, householdID, newShift(record, householdID)))

	got, err := store.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, got.Matched)
	require.NotNil(t, got.HouseholdID)
	assert.Equal(t, householdID, *got.HouseholdID)
	assert.NotNil(t, got.MatchedAt)

	credited, err := shifts.ListByHousehold(ctx, record.SeasonID, householdID)
	require.NoError(t, err)
	require.Len(t, credited, 1)
}

func TestLinkTwiceReturnsAlreadyMatched(t *testing.T) {
	shifts := shift.NewInMemory()
	store := unmatched.NewInMemory(shifts)
	ctx := context.Background()
	record := seedRecord(t, store)
	householdID := uuid.New()

	require.NoError(t, store.Link(ctx, record.ID, householdID, newShift(record, householdID)))

	err := store.Link(ctx, record.ID, householdID, newShift(record, householdID))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyMatched)

	credited, listErr := shifts.ListByHousehold(ctx, record.SeasonID, householdID)
	require.NoError(t, listErr)
	assert.Len(t, credited, 1, "a conflicting link must not credit a second shift")
}

func TestLinkUnknownRecord(t *testing.T) {
	store := unmatched.NewInMemory(shift.NewInMemory())
	record := &models.UnmatchedRecord{ID: uuid.New(), SeasonID: "2026-spring"}

	err := store.Link(context.Background(), uuid.New(), uuid.New(), newShift(record, uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestListUnmatchedExcludesMatchedRecords(t *testing.T) {
	shifts := shift.NewInMemory()
	store := unmatched.NewInMemory(shifts)
	ctx := context.Background()
	open := seedRecord(t, store)
	linked := seedRecord(t, store)
	householdID := uuid.New()
	require.NoError(t, store.Link(ctx, linked.ID, householdID, newShift(linked, householdID)))

	records, err := store.ListUnmatched(ctx, "2026-spring")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, open.ID, records[0].ID)
}
