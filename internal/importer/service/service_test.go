package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"leaguedesk/internal/importer/reconcile"
	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/store/household"
	"leaguedesk/internal/roster/store/person"
	"leaguedesk/internal/roster/store/progress"
	"leaguedesk/internal/roster/store/shift"
	"leaguedesk/internal/roster/store/unmatched"
	domainerrors "leaguedesk/pkg/domain-errors"
)

const seasonID = "2026-spring"

type ServiceSuite struct {
	suite.Suite

	service    *Service
	households *household.InMemoryStore
	persons    *person.InMemoryStore
	unmatched  *unmatched.InMemoryStore
	shifts     *shift.InMemoryStore
	progress   *progress.InMemoryStore
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.households = household.NewInMemory()
	s.persons = person.NewInMemory()
	s.shifts = shift.NewInMemory()
	s.unmatched = unmatched.NewInMemory(s.shifts)
	s.progress = progress.NewInMemory()

	reconciler, err := reconcile.New(s.households, s.persons, s.unmatched, s.shifts)
	s.Require().NoError(err)

	s.service, err = New(reconciler, s.households, s.persons, s.unmatched, s.progress)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestImportRejectsMissingSeason() {
	_, err := s.service.ImportPlayers(context.Background(), Request{
		Rows: []reconcile.RawRow{{"first_name": "Alex", "last_name": "Reyes"}},
	})
	s.Require().Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}

func (s *ServiceSuite) TestImportRejectsEmptyRows() {
	_, err := s.service.ImportPlayers(context.Background(), Request{SeasonID: seasonID})
	s.Require().Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeBadRequest))
}

func (s *ServiceSuite) TestImportReturnsSummaryWhenAllRowsFail() {
	summary, err := s.service.ImportPlayers(context.Background(), Request{
		SeasonID: seasonID,
		Rows:     []reconcile.RawRow{{"first_name": "Alex"}, {"last_name": "Reyes"}},
	})

	// Row failures are recorded outcomes, not request failures.
	s.Require().NoError(err)
	s.Equal(2, summary.Failed)
	s.Len(summary.Warnings, 2)
	s.Zero(summary.Created)
}

func (s *ServiceSuite) TestImportRecordsProgress() {
	summary, err := s.service.ImportPlayers(context.Background(), Request{
		SeasonID: seasonID,
		Rows: []reconcile.RawRow{{
			"first_name":      "Alex",
			"last_name":       "Reyes",
			"guardian1_email": "dana@example.com",
		}},
	})
	s.Require().NoError(err)

	saved, err := s.service.Progress(context.Background(), summary.BatchID)
	s.Require().NoError(err)
	s.True(saved.Done)
	s.Equal(summary.Created, saved.Created)
}

func (s *ServiceSuite) TestClearWorkbondOptionReachesMerge() {
	ctx := context.Background()
	existing := &models.Household{
		ID: uuid.New(), SeasonID: seasonID,
		Guardian1:        models.Guardian{Name: "Dana Reyes", Email: "dana@example.com"},
		WorkbondStatus:   "received",
		WorkbondReceived: true,
	}
	s.Require().NoError(s.households.Create(ctx, existing))

	_, err := s.service.ImportPlayers(ctx, Request{
		SeasonID:             seasonID,
		ClearWorkbondIfEmpty: true,
		Rows: []reconcile.RawRow{{
			"first_name":      "Alex",
			"last_name":       "Reyes",
			"guardian1_email": "dana@example.com",
			"workbond_status": "",
		}},
	})
	s.Require().NoError(err)

	got, err := s.households.FindByID(ctx, existing.ID)
	s.Require().NoError(err)
	s.Empty(got.WorkbondStatus)
	s.False(got.WorkbondReceived)
}

func (s *ServiceSuite) TestProgressUnknownBatch() {
	_, err := s.service.Progress(context.Background(), uuid.NewString())
	s.Require().Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
}

func (s *ServiceSuite) seedUnmatched() (*models.UnmatchedRecord, *models.Household) {
	ctx := context.Background()
	h := &models.Household{
		ID: uuid.New(), Code: "HH-TEST01", SeasonID: seasonID,
		Guardian1: models.Guardian{Name: "Dana Reyes", Email: "dana@example.com"},
	}
	s.Require().NoError(s.households.Create(ctx, h))

	record := &models.UnmatchedRecord{
		ID: uuid.New(), SeasonID: seasonID,
		Name: "Dana Reyes", Email: "dana@example.com", Hours: 3,
	}
	s.Require().NoError(s.unmatched.Create(ctx, record))
	return record, h
}

func (s *ServiceSuite) TestLinkUnmatchedCreditsShiftOnce() {
	record, h := s.seedUnmatched()
	ctx := context.Background()

	s.Require().NoError(s.service.LinkUnmatched(ctx, record.ID, h.ID))

	shifts, err := s.shifts.ListByHousehold(ctx, seasonID, h.ID)
	s.Require().NoError(err)
	s.Require().Len(shifts, 1)
	s.Require().NotNil(shifts[0].SourceRecordID)
	s.Equal(record.ID, *shifts[0].SourceRecordID)

	// A second link attempt must conflict, not double-credit.
	err = s.service.LinkUnmatched(ctx, record.ID, h.ID)
	s.Require().Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeConflict))

	shifts, err = s.shifts.ListByHousehold(ctx, seasonID, h.ID)
	s.Require().NoError(err)
	s.Len(shifts, 1)
}

func (s *ServiceSuite) TestLinkUnmatchedUnknownRecord() {
	_, h := s.seedUnmatched()
	err := s.service.LinkUnmatched(context.Background(), uuid.New(), h.ID)
	s.Require().Error(err)
	s.True(domainerrors.HasCode(err, domainerrors.CodeNotFound))
}

func (s *ServiceSuite) TestAutoLinkSweepIsIdempotent() {
	record, h := s.seedUnmatched()
	ctx := context.Background()

	linked, err := s.service.AutoLink(ctx, seasonID)
	s.Require().NoError(err)
	s.Equal(1, linked)

	// Queue is drained; a second sweep finds nothing to do.
	linked, err = s.service.AutoLink(ctx, seasonID)
	s.Require().NoError(err)
	s.Zero(linked)

	shifts, err := s.shifts.ListByHousehold(ctx, seasonID, h.ID)
	s.Require().NoError(err)
	s.Len(shifts, 1)

	got, err := s.unmatched.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.True(got.Matched)
	s.Require().NotNil(got.HouseholdID)
	s.Equal(h.ID, *got.HouseholdID)
}

func (s *ServiceSuite) TestAutoLinkLeavesUnresolvableRecordsQueued() {
	ctx := context.Background()
	record := &models.UnmatchedRecord{
		ID: uuid.New(), SeasonID: seasonID,
		Name: "Unknown Worker", Email: "nobody@example.com",
	}
	s.Require().NoError(s.unmatched.Create(ctx, record))

	linked, err := s.service.AutoLink(ctx, seasonID)
	s.Require().NoError(err)
	s.Zero(linked)

	queued, err := s.unmatched.ListUnmatched(ctx, seasonID)
	s.Require().NoError(err)
	s.Len(queued, 1)
}

func TestNewRequiresStores(t *testing.T) {
	_, err := New(nil, nil, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, domainerrors.HasCode(err, domainerrors.CodeInternal))
}
