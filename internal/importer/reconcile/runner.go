package reconcile

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leaguedesk/internal/platform/metrics"
	"leaguedesk/internal/roster/models"
	"leaguedesk/internal/roster/ports"
)

// DefaultChunkSize bounds how many rows are processed between progress
// checkpoints.
const DefaultChunkSize = 100

// Runner drives a batch through the reconciler in fixed-size chunks. A
// chunk that blows up is recorded and skipped; the remaining chunks still
// run. Chunks are processed sequentially because later rows may depend on
// households created by earlier ones.
type Runner struct {
	reconciler *Reconciler
	progress   ports.ProgressStore
	chunkSize  int
	delay      time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type RunnerOption func(*Runner)

func RunnerChunkSize(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// RunnerDelay sets the pause between chunks, giving the store breathing
// room on very large files.
func RunnerDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.delay = d }
}

func RunnerProgress(store ports.ProgressStore) RunnerOption {
	return func(r *Runner) { r.progress = store }
}

func RunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

func RunnerMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

func NewRunner(reconciler *Reconciler, opts ...RunnerOption) *Runner {
	r := &Runner{
		reconciler: reconciler,
		chunkSize:  DefaultChunkSize,
		tracer:     otel.Tracer("leaguedesk/importer"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes all rows and returns the aggregate result. It never
// returns an error: every failure mode lands in the result's warnings.
func (r *Runner) Run(ctx context.Context, b *Batch, rows []RawRow) Result {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "import.batch", trace.WithAttributes(
		attribute.String("batch.id", b.ID.String()),
		attribute.String("batch.kind", string(b.Kind)),
		attribute.Int("batch.rows", len(rows)),
	))
	defer span.End()

	var result Result
	chunksTotal := (len(rows) + r.chunkSize - 1) / r.chunkSize

	for chunkIndex := 0; chunkIndex*r.chunkSize < len(rows); chunkIndex++ {
		lo := chunkIndex * r.chunkSize
		hi := min(lo+r.chunkSize, len(rows))

		chunk := r.runChunk(ctx, b, rows[lo:hi], lo, chunkIndex+1)
		result.merge(chunk)

		r.checkpoint(ctx, b, chunksTotal, chunkIndex+1, &result, false)

		if r.delay > 0 && hi < len(rows) {
			time.Sleep(r.delay)
		}
	}

	r.checkpoint(ctx, b, chunksTotal, chunksTotal, &result, true)
	if r.metrics != nil {
		r.metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}
	return result
}

// runChunk processes one slice of rows under a recover barrier. offset is
// the slice's position in the full file; row indices in warnings are
// 1-based positions in the submitted file, not in the chunk.
func (r *Runner) runChunk(ctx context.Context, b *Batch, rows []RawRow, offset, chunkNum int) (result Result) {
	ctx, span := r.tracer.Start(ctx, "import.chunk", trace.WithAttributes(
		attribute.Int("chunk.number", chunkNum),
		attribute.Int("chunk.rows", len(rows)),
	))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			result.warnf("chunk %d: processing aborted", chunkNum)
			if r.logger != nil {
				r.logger.ErrorContext(ctx, "chunk panicked", "chunk", chunkNum, "panic", rec)
			}
			if r.metrics != nil {
				r.metrics.ChunkFailures.Inc()
			}
		}
	}()

	for i, raw := range rows {
		index := offset + i + 1
		row := ParseRow(raw, index)
		if err := r.reconciler.Row(ctx, b, row, &result); err != nil {
			result.Failed++
			result.warnf("row %d: %s", index, err)
			if r.metrics != nil {
				r.metrics.RowsFailed.Inc()
				r.metrics.RowsProcessed.WithLabelValues("failed").Inc()
			}
		}
	}
	return result
}

// checkpoint publishes chunk progress. Progress is advisory; a store
// failure is logged and the batch keeps going.
func (r *Runner) checkpoint(ctx context.Context, b *Batch, total, done int, result *Result, final bool) {
	if r.progress == nil {
		return
	}
	err := r.progress.Save(ctx, &models.BatchProgress{
		BatchID:     b.ID.String(),
		ChunksTotal: total,
		ChunksDone:  done,
		Created:     result.Created,
		Updated:     result.Updated,
		Failed:      result.Failed,
		Done:        final,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil && r.logger != nil {
		r.logger.WarnContext(ctx, "failed to save batch progress",
			"batch_id", b.ID, "error", err)
	}
}
