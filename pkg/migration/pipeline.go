package migration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hybrid-search-be/internal/entity"
	"hybrid-search-be/internal/pkg/logger"
	"hybrid-search-be/internal/repository/contract"
	"hybrid-search-be/pkg/concurrency"
	"hybrid-search-be/pkg/events"
	"hybrid-search-be/pkg/utils"

	"github.com/google/uuid"
)

// Error handling modes. Continue isolates a batch failure to its own records;
// stop aborts the whole pipeline on the first batch failure.
const (
	ErrorHandlingContinue = "continue"
	ErrorHandlingStop     = "stop"
)

// Embedder is the slice of the embedding client the pipeline needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProgressPublisher receives best-effort progress events per completed batch.
type ProgressPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Options struct {
	Namespace      string
	BatchSize      int
	SubBatchSize   int
	SubBatchDelay  time.Duration
	Concurrency    int
	ErrorHandling  string
	Validate       bool
	Rollback       bool
	SkipExisting   bool
	ChunkSize      int
	ChunkOverlap   int
	Retry          RetryPolicy
	SampleFraction float64
}

func DefaultOptions() Options {
	return Options{
		Namespace:      "default",
		BatchSize:      100,
		SubBatchSize:   10,
		SubBatchDelay:  100 * time.Millisecond,
		Concurrency:    4,
		ErrorHandling:  ErrorHandlingContinue,
		ChunkSize:      1000,
		ChunkOverlap:   100,
		Retry:          DefaultRetryPolicy(),
		SampleFraction: 0.1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Namespace == "" {
		o.Namespace = d.Namespace
	}
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.SubBatchSize <= 0 {
		o.SubBatchSize = d.SubBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = d.Concurrency
	}
	if o.ErrorHandling == "" {
		o.ErrorHandling = d.ErrorHandling
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.Retry.MaxAttempts == 0 {
		o.Retry = d.Retry
	}
	if o.SampleFraction <= 0 {
		o.SampleFraction = d.SampleFraction
	}
	return o
}

// Pipeline ingests source documents into the keyword and vector indexes in
// bounded-concurrency batches with per-operation retry.
type Pipeline struct {
	docs       contract.DocumentRepository
	vectors    contract.VectorIndexRepository
	migrations contract.MigrationRepository
	embedder   Embedder
	publisher  ProgressPublisher
	searcher   Searcher
	logger     logger.ILogger
}

func NewPipeline(
	docs contract.DocumentRepository,
	vectors contract.VectorIndexRepository,
	migrations contract.MigrationRepository,
	embedder Embedder,
	publisher ProgressPublisher,
	log logger.ILogger,
) *Pipeline {
	return &Pipeline{
		docs:       docs,
		vectors:    vectors,
		migrations: migrations,
		embedder:   embedder,
		publisher:  publisher,
		logger:     log,
	}
}

// Migrate runs the full pipeline and always returns a Migration with explicit
// counters and errors, even on a failed or rolled_back outcome.
func (p *Pipeline) Migrate(ctx context.Context, source []*entity.Document, opts Options) (*entity.Migration, error) {
	opts = opts.withDefaults()
	transformations := DefaultTransformations()

	m := &entity.Migration{
		Id:        uuid.New(),
		Status:    entity.MigrationStarting,
		Namespace: opts.Namespace,
		Plan:      BuildPlan(source, opts, transformations),
		Total:     len(source),
		StartedAt: time.Now(),
	}
	if err := p.migrations.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create migration record: %w", err)
	}

	m.Status = entity.MigrationRunning
	if err := p.migrations.Update(ctx, m); err != nil {
		p.logWarn(m, "failed to persist running status", err)
	}

	batches := splitBatches(source, opts.BatchSize)
	limiter := concurrency.NewLimiter(opts.Concurrency)

	// stop mode cancels siblings on the first batch failure
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		stopped bool
	)

	for index, batch := range batches {
		if err := limiter.Acquire(runCtx); err != nil {
			break // cancelled by stop mode or caller
		}

		wg.Add(1)
		go func(index int, batch []*entity.Document) {
			defer wg.Done()
			defer limiter.Release()

			outcome := p.processBatch(runCtx, m, index, batch, opts, transformations)

			mu.Lock()
			m.Processed += outcome.processed
			m.Failed += outcome.failed
			m.Errors = append(m.Errors, outcome.errors...)
			if outcome.failed > 0 && opts.ErrorHandling == ErrorHandlingStop {
				stopped = true
			}
			snapshot := *m
			shouldCancel := stopped
			mu.Unlock()

			if shouldCancel {
				cancel()
			}

			// progress is aggregated by batch index, tolerant of out-of-order
			// completion; persistence and publishing are best-effort
			if err := p.migrations.Update(ctx, &snapshot); err != nil {
				p.logWarn(m, "failed to persist progress", err)
			}
			p.publishProgress(ctx, &snapshot, index)
		}(index, batch)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()

	switch {
	case stopped:
		m.Status = entity.MigrationFailed
	case m.Failed > 0 && m.Processed == 0:
		m.Status = entity.MigrationFailed
	default:
		m.Status = entity.MigrationCompleted
	}

	if opts.Validate && m.Status == entity.MigrationCompleted {
		report := p.validate(ctx, m, source, opts)
		if !report.Passed {
			m.Errors = append(m.Errors, report.Failures...)
			if opts.Rollback {
				p.rollbackLocked(ctx, m)
			} else {
				m.Status = entity.MigrationFailed
			}
		}
	}

	now := time.Now()
	m.FinishedAt = &now
	if err := p.migrations.Update(ctx, m); err != nil {
		p.logWarn(m, "failed to persist final status", err)
	}

	if p.publisher != nil {
		event := events.MigrationFinishedEvent{
			MigrationId: m.Id.String(),
			Status:      m.Status,
			Processed:   m.Processed,
			Failed:      m.Failed,
		}
		if err := p.publisher.Publish(ctx, event); err != nil {
			p.logWarn(m, "failed to publish finished event", err)
		}
	}
	return m, nil
}

type batchOutcome struct {
	processed int
	failed    int
	errors    []string
}

// processBatch transforms, embeds in rate-limited sub-batches, and upserts one
// batch. A batch failure marks its own records failed and never aborts
// siblings directly; the caller applies the error-handling mode.
func (p *Pipeline) processBatch(
	ctx context.Context,
	m *entity.Migration,
	index int,
	batch []*entity.Document,
	opts Options,
	transformations []Transformation,
) batchOutcome {
	var out batchOutcome

	type pending struct {
		doc    *entity.Document
		chunks []string
	}
	var work []pending

	for _, doc := range batch {
		if opts.SkipExisting {
			exists, err := p.vectors.ExistsByDocumentId(ctx, doc.Id, opts.Namespace)
			if err == nil && exists {
				continue // already migrated, not counted as processed
			}
		}

		body := applyTransformations(doc.Body, transformations)
		if body == "" {
			out.failed++
			out.errors = append(out.errors, fmt.Sprintf("batch %d: document %s dropped by transformations", index, doc.Id))
			continue
		}

		transformed := *doc
		transformed.Body = body
		transformed.Namespace = opts.Namespace
		work = append(work, pending{
			doc:    &transformed,
			chunks: utils.SplitText(body, opts.ChunkSize, opts.ChunkOverlap),
		})
	}

	for _, item := range work {
		if err := p.ingestDocument(ctx, m, item.doc, item.chunks, opts); err != nil {
			out.failed++
			out.errors = append(out.errors, fmt.Sprintf("batch %d: document %s: %v", index, item.doc.Id, err))
			continue
		}
		out.processed++
	}

	return out
}

// ingestDocument writes the keyword row, embeds every chunk in sub-batches,
// and upserts the vectors, each step retried under the policy.
func (p *Pipeline) ingestDocument(ctx context.Context, m *entity.Migration, doc *entity.Document, chunks []string, opts Options) error {
	err := Do(ctx, opts.Retry, func() error {
		return p.docs.Upsert(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("keyword index upsert exhausted retries: %w", err)
	}

	vectors := make([][]float32, len(chunks))
	for start := 0; start < len(chunks); start += opts.SubBatchSize {
		end := start + opts.SubBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		for i := start; i < end; i++ {
			var vec []float32
			err := Do(ctx, opts.Retry, func() error {
				var embErr error
				vec, embErr = p.embedder.Embed(ctx, chunks[i])
				return embErr
			})
			if err != nil {
				return fmt.Errorf("embedding exhausted retries: %w", err)
			}
			vectors[i] = vec
		}
		// short pause between sub-batches to respect backend rate limits
		if end < len(chunks) && opts.SubBatchDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.SubBatchDelay):
			}
		}
	}

	entries := make([]*entity.VectorEntry, len(chunks))
	for i := range chunks {
		id := doc.Id
		if len(chunks) > 1 {
			id = fmt.Sprintf("%s_chunk_%d", doc.Id, i)
		}
		entries[i] = &entity.VectorEntry{
			Id:          id,
			DocumentId:  doc.Id,
			ChunkIndex:  i,
			Namespace:   opts.Namespace,
			MigrationId: m.Id.String(),
			Values:      vectors[i],
			Metadata:    doc.Metadata,
		}
	}

	err = Do(ctx, opts.Retry, func() error {
		_, upErr := p.vectors.Upsert(ctx, entries)
		return upErr
	})
	if err != nil {
		return fmt.Errorf("vector upsert exhausted retries: %w", err)
	}
	return nil
}

// Rollback deletes every vector written under the migration id and marks the
// migration rolled_back. Best-effort: delete failures are logged, not raised.
func (p *Pipeline) Rollback(ctx context.Context, m *entity.Migration) error {
	p.rollbackLocked(ctx, m)
	return p.migrations.Update(ctx, m)
}

func (p *Pipeline) rollbackLocked(ctx context.Context, m *entity.Migration) {
	deleted, err := p.vectors.DeleteByMigrationId(ctx, m.Id.String())
	if err != nil {
		p.logWarn(m, "rollback delete failed", err)
	} else if p.logger != nil {
		p.logger.Info("migration", "rollback deleted vectors", map[string]interface{}{
			"migrationId": m.Id.String(),
			"deleted":     deleted,
		})
	}
	m.Status = entity.MigrationRolledBack
}

func (p *Pipeline) publishProgress(ctx context.Context, m *entity.Migration, batchIndex int) {
	if p.publisher == nil {
		return
	}
	event := events.MigrationProgressEvent{
		MigrationId: m.Id.String(),
		BatchIndex:  batchIndex,
		Processed:   m.Processed,
		Failed:      m.Failed,
		Total:       m.Total,
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logWarn(m, "failed to publish progress event", err)
	}
}

func (p *Pipeline) logWarn(m *entity.Migration, message string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.Warn("migration", message, map[string]interface{}{
		"migrationId": m.Id.String(),
		"error":       err.Error(),
	})
}
