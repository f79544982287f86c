//go:build integration

package unmatched_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/store/shift"
	"leaguedesk/internal/roster/store/unmatched"
	"leaguedesk/pkg/platform/sentinel"
	"leaguedesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *unmatched.PostgresStore
	shifts   *shift.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = unmatched.NewPostgres(s.postgres.DB)
	s.shifts = shift.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "unmatched_records", "workbond_shifts"))
}

func (s *PostgresStoreSuite) seedRecord() *models.UnmatchedRecord {
	record := &models.UnmatchedRecord{
		ID:        uuid.New(),
		SeasonID:  "2026-spring",
		Name:      "Dana Reyes",
		Email:     "dana@example.com",
		Phone:     "5551234567",
		ShiftDate: "2026-03-14",
		Hours:     4,
		CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.store.Create(context.Background(), record))
	return record
}

func (s *PostgresStoreSuite) newShift(record *models.UnmatchedRecord, householdID uuid.UUID) *models.WorkbondShift {
	recordID := record.ID
	return &models.WorkbondShift{
		ID:             uuid.New(),
		SeasonID:       record.SeasonID,
		HouseholdID:    householdID,
		ShiftDate:      record.ShiftDate,
		Hours:          record.Hours,
		SourceRecordID: &recordID,
	}
}

func (s *PostgresStoreSuite) TestLinkMarksMatchedAndCreditsShift() {
	ctx := context.Background()
	record := s.seedRecord()
	householdID := uuid.New()

	err := s.store.Link(ctx, record.ID, householdID, s.newShift(record, householdID))
	s.Require().NoError(err)

	got, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.True(got.Matched)
	s.Require().NotNil(got.HouseholdID)
	s.Equal(householdID, *got.HouseholdID)
	s.NotNil(got.MatchedAt)

	shifts, err := s.shifts.ListByHousehold(ctx, record.SeasonID, householdID)
	s.Require().NoError(err)
	s.Require().Len(shifts, 1)
	s.Require().NotNil(shifts[0].SourceRecordID)
	s.Equal(record.ID, *shifts[0].SourceRecordID)
}

func (s *PostgresStoreSuite) TestLinkTwiceDoesNotDoubleCredit() {
	ctx := context.Background()
	record := s.seedRecord()
	householdID := uuid.New()

	s.Require().NoError(s.store.Link(ctx, record.ID, householdID, s.newShift(record, householdID)))

	err := s.store.Link(ctx, record.ID, householdID, s.newShift(record, householdID))
	s.Require().ErrorIs(err, sentinel.ErrAlreadyMatched)

	shifts, err := s.shifts.ListByHousehold(ctx, record.SeasonID, householdID)
	s.Require().NoError(err)
	s.Len(shifts, 1)
}

func (s *PostgresStoreSuite) TestLinkUnknownRecord() {
	record := s.seedRecord()
	err := s.store.Link(context.Background(), uuid.New(), uuid.New(), s.newShift(record, uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListUnmatchedExcludesMatched() {
	ctx := context.Background()
	open := s.seedRecord()
	linked := s.seedRecord()
	householdID := uuid.New()
	s.Require().NoError(s.store.Link(ctx, linked.ID, householdID, s.newShift(linked, householdID)))

	records, err := s.store.ListUnmatched(ctx, "2026-spring")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(open.ID, records[0].ID)
}
