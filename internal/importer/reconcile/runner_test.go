package reconcile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
	"leaguedesk/internal/roster/store/progress"
)

// panickingPersonStore simulates a store-side crash on a trigger name.
type panickingPersonStore struct {
	ports.PersonStore
	trigger string
}

func (s *panickingPersonStore) Create(ctx context.Context, p *models.Person) error {
	if p.GivenName == s.trigger {
		panic("connection pool corrupted")
	}
	return s.PersonStore.Create(ctx, p)
}

func volunteerRow(first string) RawRow {
	return RawRow{
		"first_name": first,
		"last_name":  "Okafor",
		"email":      first + "@example.com",
	}
}

func TestChunkFailureDoesNotAbortBatch(t *testing.T) {
	f := newFixture(t)

	var err error
	f.reconciler, err = New(
		f.households,
		&panickingPersonStore{PersonStore: f.persons, trigger: "Boom"},
		f.unmatched,
		f.shifts,
	)
	require.NoError(t, err)

	rows := []RawRow{
		volunteerRow("Ana"), volunteerRow("Ben"),
		volunteerRow("Boom"), volunteerRow("Dee"),
		volunteerRow("Fay"), volunteerRow("Gus"),
	}

	runner := NewRunner(f.reconciler, RunnerChunkSize(2))
	batch := f.reconciler.NewBatch(uuid.New(), seasonID, KindVolunteers, BatchOptions{})
	result := runner.Run(context.Background(), batch, rows)

	// Chunks one and three survive; chunk two is recorded and skipped.
	assert.Equal(t, 4, result.Created)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "chunk 2")
}

func TestRunnerPublishesChunkProgress(t *testing.T) {
	f := newFixture(t)
	progressStore := progress.NewInMemory()

	rows := []RawRow{
		volunteerRow("Ana"), volunteerRow("Ben"), volunteerRow("Cal"),
	}

	runner := NewRunner(f.reconciler, RunnerChunkSize(2), RunnerProgress(progressStore))
	batch := f.reconciler.NewBatch(uuid.New(), seasonID, KindVolunteers, BatchOptions{})
	runner.Run(context.Background(), batch, rows)

	saved, err := progressStore.Get(context.Background(), batch.ID.String())
	require.NoError(t, err)
	assert.True(t, saved.Done)
	assert.Equal(t, 2, saved.ChunksTotal)
	assert.Equal(t, 2, saved.ChunksDone)
	assert.Equal(t, 3, saved.Created)
}

func TestRowIndexIsOneBasedAcrossChunks(t *testing.T) {
	f := newFixture(t)

	rows := []RawRow{
		volunteerRow("Ana"), volunteerRow("Ben"),
		{"first_name": "Cal"}, // row 3: no family name
	}

	runner := NewRunner(f.reconciler, RunnerChunkSize(2))
	batch := f.reconciler.NewBatch(uuid.New(), seasonID, KindVolunteers, BatchOptions{})
	result := runner.Run(context.Background(), batch, rows)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "row 3",
		"warning indices count from the start of the file, not the chunk")
}
