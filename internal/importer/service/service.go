// Package service exposes the import engine's operations: batch imports
// for the three feed kinds, spreadsheet intake, the unmatched-record queue,
// and batch progress lookups.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"leaguedesk/internal/importer/match"
	"leaguedesk/internal/importer/reconcile"
	"leaguedesk/internal/platform/metrics"
	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
	domainerrors "leaguedesk/pkg/domain-errors"
	"leaguedesk/pkg/platform/audit"
	"leaguedesk/pkg/platform/sentinel"
)

// Request is one import invocation.
type Request struct {
	SeasonID             string
	Rows                 []reconcile.RawRow
	OnlyActive           bool
	ClearWorkbondIfEmpty bool
}

// Summary is the structured outcome returned for every batch that ran,
// including batches where every row failed.
type Summary struct {
	BatchID    string   `json:"batch_id"`
	Created    int      `json:"created"`
	Updated    int      `json:"updated"`
	Households int      `json:"households"`
	Skipped    int      `json:"skipped"`
	Queued     int      `json:"queued"`
	Credited   int      `json:"credited"`
	Failed     int      `json:"failed"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Service wires the reconciler, the batch runner, and the queue stores
// behind one API.
type Service struct {
	reconciler *reconcile.Reconciler
	households ports.HouseholdStore
	persons    ports.PersonStore
	unmatched  ports.UnmatchedStore
	progress   ports.ProgressStore

	chunkSize  int
	chunkDelay time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	publisher  ports.AuditPublisher
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithChunkSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

func WithChunkDelay(d time.Duration) Option {
	return func(s *Service) { s.chunkDelay = d }
}

func New(
	reconciler *reconcile.Reconciler,
	households ports.HouseholdStore,
	persons ports.PersonStore,
	unmatched ports.UnmatchedStore,
	progress ports.ProgressStore,
	opts ...Option,
) (*Service, error) {
	if reconciler == nil || households == nil || persons == nil || unmatched == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "import service requires reconciler and stores")
	}
	s := &Service{
		reconciler: reconciler,
		households: households,
		persons:    persons,
		unmatched:  unmatched,
		progress:   progress,
		chunkSize:  reconcile.DefaultChunkSize,
		tracer:     otel.Tracer("leaguedesk/importer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ImportPlayers runs a player registration feed.
func (s *Service) ImportPlayers(ctx context.Context, req Request) (*Summary, error) {
	return s.runImport(ctx, reconcile.KindPlayers, req)
}

// ImportVolunteers runs a volunteer roster feed.
func (s *Service) ImportVolunteers(ctx context.Context, req Request) (*Summary, error) {
	return s.runImport(ctx, reconcile.KindVolunteers, req)
}

// ImportShifts runs a workbond shift feed.
func (s *Service) ImportShifts(ctx context.Context, req Request) (*Summary, error) {
	return s.runImport(ctx, reconcile.KindShifts, req)
}

func (s *Service) runImport(ctx context.Context, kind reconcile.Kind, req Request) (*Summary, error) {
	if req.SeasonID == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "season id is required")
	}
	if len(req.Rows) == 0 {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "no rows submitted")
	}

	batchID := uuid.New()
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting import batch",
			"batch_id", batchID, "kind", kind, "rows", len(req.Rows), "season_id", req.SeasonID)
	}

	// The batch must survive the caller hanging up mid-chunk; rows that
	// were written stay written either way, so finishing is strictly
	// better than stopping halfway.
	runCtx := context.WithoutCancel(ctx)

	runner := reconcile.NewRunner(s.reconciler,
		reconcile.RunnerChunkSize(s.chunkSize),
		reconcile.RunnerDelay(s.chunkDelay),
		reconcile.RunnerProgress(s.progress),
		reconcile.RunnerLogger(s.logger),
		reconcile.RunnerMetrics(s.metrics),
	)
	batch := s.reconciler.NewBatch(batchID, req.SeasonID, kind, reconcile.BatchOptions{
		OnlyActive:           req.OnlyActive,
		ClearWorkbondIfEmpty: req.ClearWorkbondIfEmpty,
	})
	result := runner.Run(runCtx, batch, req.Rows)

	audit.Log(runCtx, s.logger, s.publisher, audit.Event{
		Action:   audit.ActionBatchCompleted,
		SeasonID: req.SeasonID,
		BatchID:  batchID.String(),
		Detail: fmt.Sprintf("created=%d updated=%d failed=%d",
			result.Created, result.Updated, result.Failed),
	})

	return &Summary{
		BatchID:    batchID.String(),
		Created:    result.Created,
		Updated:    result.Updated,
		Households: result.Households,
		Skipped:    result.Skipped,
		Queued:     result.Queued,
		Credited:   result.Credited,
		Failed:     result.Failed,
		Warnings:   result.Warnings,
	}, nil
}

// LinkUnmatched resolves a queued record to a household by operator
// decision, crediting the dependent shift atomically. Linking an
// already-matched record is a conflict, not a double credit.
func (s *Service) LinkUnmatched(ctx context.Context, recordID, householdID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "import.link_unmatched")
	defer span.End()

	record, err := s.unmatched.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeNotFound, "unmatched record not found")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "unmatched record lookup failed")
	}

	household, err := s.households.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domainerrors.New(domainerrors.CodeBadRequest, "target household not found")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "household lookup failed")
	}

	if err := s.link(ctx, record, household); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.AutoLinked.Inc()
	}
	return nil
}

// AutoLink re-runs the matcher over every queued record and links those
// that now resolve, typically after a later import created the missing
// household. Safe to re-run: already-matched records are skipped.
func (s *Service) AutoLink(ctx context.Context, seasonID string) (int, error) {
	if seasonID == "" {
		return 0, domainerrors.New(domainerrors.CodeBadRequest, "season id is required")
	}
	ctx, span := s.tracer.Start(ctx, "import.autolink")
	defer span.End()

	records, err := s.unmatched.ListUnmatched(ctx, seasonID)
	if err != nil {
		return 0, domainerrors.Wrap(err, domainerrors.CodeInternal, "unmatched listing failed")
	}

	matcher := match.New(s.households, s.persons, match.WithLogger(s.logger))
	linked := 0
	for _, record := range records {
		household, err := matcher.FindHousehold(ctx, seasonID, match.Contact{
			Emails: []string{record.Email},
			Phones: []string{record.Phone},
			Name:   record.Name,
		})
		if err != nil {
			return linked, domainerrors.Wrap(err, domainerrors.CodeInternal, "household lookup failed")
		}
		if household == nil {
			continue
		}

		err = s.link(ctx, record, household)
		switch {
		case err == nil:
			linked++
			if s.metrics != nil {
				s.metrics.AutoLinked.Inc()
			}
		case domainerrors.HasCode(err, domainerrors.CodeConflict):
			// Linked by a concurrent pass; nothing to redo.
		default:
			return linked, err
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "auto-link sweep finished",
			"season_id", seasonID, "examined", len(records), "linked", linked)
	}
	return linked, nil
}

func (s *Service) link(ctx context.Context, record *models.UnmatchedRecord, household *models.Household) error {
	recordID := record.ID
	shift := &models.WorkbondShift{
		ID:             uuid.New(),
		SeasonID:       record.SeasonID,
		HouseholdID:    household.ID,
		ShiftDate:      record.ShiftDate,
		Hours:          record.Hours,
		SourceRecordID: &recordID,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.unmatched.Link(ctx, record.ID, household.ID, shift); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyMatched) {
			return domainerrors.New(domainerrors.CodeConflict, "record is already matched")
		}
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "link failed")
	}

	audit.Log(ctx, s.logger, s.publisher, audit.Event{
		Action:   audit.ActionUnmatchedLinked,
		SeasonID: record.SeasonID,
		EntityID: record.ID.String(),
		Detail:   household.Code,
	})
	return nil
}

// ListUnmatched returns the season's open queue, oldest first.
func (s *Service) ListUnmatched(ctx context.Context, seasonID string) ([]*models.UnmatchedRecord, error) {
	if seasonID == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "season id is required")
	}
	records, err := s.unmatched.ListUnmatched(ctx, seasonID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "unmatched listing failed")
	}
	return records, nil
}

// Progress returns the latest chunk checkpoint for a batch.
func (s *Service) Progress(ctx context.Context, batchID string) (*models.BatchProgress, error) {
	if s.progress == nil {
		return nil, domainerrors.New(domainerrors.CodeUnavailable, "progress tracking is not configured")
	}
	progress, err := s.progress.Get(ctx, batchID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "no progress recorded for batch")
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "progress lookup failed")
	}
	return progress, nil
}
