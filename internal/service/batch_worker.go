package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"coursepilot/internal/domain"
)

// BatchConfig holds settings for the batch worker.
type BatchConfig struct {
	Concurrency int
	// PerDocumentTimeout bounds one upload run. Zero means no limit.
	PerDocumentTimeout time.Duration
}

// BatchItem is the outcome for one document of a batch.
type BatchItem struct {
	FileName string
	Result   *UploadResult
	Err      error
}

// BatchWorker runs many documents through the upload pipeline with bounded concurrency.
type BatchWorker struct {
	syllabus SyllabusService
	cfg      BatchConfig
	logger   *zap.Logger
}

// NewBatchWorker creates a new BatchWorker.
func NewBatchWorker(syllabus SyllabusService, cfg BatchConfig, logger *zap.Logger) *BatchWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchWorker{syllabus: syllabus, cfg: cfg, logger: logger}
}

// Run processes docs and returns one item per document in input order.
// Documents not started before ctx is canceled are reported with ctx.Err().
func (w *BatchWorker) Run(ctx context.Context, docs []domain.RawDocument) []BatchItem {
	items := make([]BatchItem, len(docs))
	sem := make(chan struct{}, w.cfg.Concurrency)
	var wg sync.WaitGroup

	w.logger.Debug("batch started", zap.Int("documents", len(docs)), zap.Int("concurrency", w.cfg.Concurrency))

	for i := range docs {
		items[i].FileName = docs[i].FileName
		if err := ctx.Err(); err != nil {
			items[i].Err = err
			continue
		}

		select {
		case <-ctx.Done():
			items[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}: // acquire
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			runCtx := ctx
			if w.cfg.PerDocumentTimeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, w.cfg.PerDocumentTimeout)
				defer cancel()
			}
			items[i].Result, items[i].Err = w.syllabus.HandleUpload(runCtx, docs[i])
			if items[i].Err != nil {
				w.logger.Warn("batch document failed", zap.String("file", docs[i].FileName), zap.Error(items[i].Err))
			}
		}(i)
	}

	wg.Wait()
	return items
}
