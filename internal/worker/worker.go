// Package worker runs the processing side of the pipeline: raw listings come
// off the Redis queue, get cleaned and transformed, pass the fingerprint
// deduplicator and land in the configured indexers.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/imotstat/go-estate-crawler/internal/cleaner"
	"github.com/imotstat/go-estate-crawler/internal/dedup"
	"github.com/imotstat/go-estate-crawler/internal/domain"
	"github.com/imotstat/go-estate-crawler/internal/indexer"
	"github.com/imotstat/go-estate-crawler/internal/queue"
	"github.com/imotstat/go-estate-crawler/internal/transform"
)

// Worker consumes raw listings, normalizes them and indexes the survivors.
type Worker struct {
	consumer     *queue.Consumer
	transformer  *transform.Transformer
	cleaner      *cleaner.Cleaner
	deduplicator *dedup.Deduplicator
	indexers     []indexer.Indexer
	log          *slog.Logger

	batchSize   int
	concurrency int
}

// Config holds worker pool settings.
type Config struct {
	Concurrency int
	BatchSize   int
}

// New creates a worker. deduplicator may be nil, in which case every listing
// is indexed.
func New(
	consumer *queue.Consumer,
	transformer *transform.Transformer,
	clean *cleaner.Cleaner,
	deduplicator *dedup.Deduplicator,
	indexers []indexer.Indexer,
	log *slog.Logger,
	cfg Config,
) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if log == nil {
		log = slog.Default()
	}

	return &Worker{
		consumer:     consumer,
		transformer:  transformer,
		cleaner:      clean,
		deduplicator: deduplicator,
		indexers:     indexers,
		log:          log,
		batchSize:    cfg.BatchSize,
		concurrency:  cfg.Concurrency,
	}
}

// Run starts the worker pool and blocks until the context is cancelled or a
// worker fails.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("starting worker pool", "workers", w.concurrency)

	var wg sync.WaitGroup
	errChan := make(chan error, w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			if err := w.runSingle(ctx, workerID); err != nil {
				errChan <- fmt.Errorf("worker %d: %w", workerID, err)
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	case <-done:
		return nil
	}
}

func (w *Worker) runSingle(ctx context.Context, workerID int) error {
	log := w.log.With("worker", workerID)
	log.Info("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopping")
			return nil
		default:
		}

		raws, err := w.consumer.ConsumeBatch(ctx, w.batchSize)
		if err != nil {
			log.Warn("consume error", "err", err)
			continue
		}

		if len(raws) == 0 {
			continue // poll timeout
		}

		if err := w.ProcessBatch(ctx, raws); err != nil {
			log.Warn("batch failed", "err", err)
		}
	}
}

// ProcessBatch runs one batch through clean, transform, dedup and indexing.
func (w *Worker) ProcessBatch(ctx context.Context, raws []*domain.RawListing) error {
	for _, raw := range raws {
		if raw != nil {
			w.cleaner.Listing(raw)
		}
	}

	listings := w.transformer.TransformBatch(raws)
	if len(listings) == 0 {
		return nil
	}

	if w.deduplicator != nil {
		fresh, dupes, err := w.deduplicator.FilterNew(ctx, listings)
		if err != nil {
			return fmt.Errorf("dedup: %w", err)
		}
		if dupes > 0 {
			w.log.Info("duplicates skipped", "count", dupes)
		}
		listings = fresh
	}

	if len(listings) == 0 {
		return nil
	}

	for _, idx := range w.indexers {
		if err := idx.BulkIndex(ctx, listings); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}

	w.log.Info("batch indexed", "listings", len(listings))
	return nil
}
