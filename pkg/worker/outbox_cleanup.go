package worker

import (
	"context"
	"time"

	"github.com/carebooker/carebooker-api/internal/repository"
	"github.com/carebooker/carebooker-api/pkg/logger"
)

// OutboxCleanupWorker purges processed outbox events past the retention
// window. Pending and failed events are kept.
type OutboxCleanupWorker struct {
	repo          repository.OutboxRepository
	retentionDays int
	interval      time.Duration
	logger        *logger.Logger
}

func NewOutboxCleanupWorker(repo repository.OutboxRepository, retentionDays int, interval time.Duration, logger *logger.Logger) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		repo:          repo,
		retentionDays: retentionDays,
		interval:      interval,
		logger:        logger,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Starting outbox cleanup worker")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Shutting down outbox cleanup worker")
			return
		case <-ticker.C:
			deleted, err := w.repo.DeleteProcessedBefore(ctx, w.retentionDays)
			if err != nil {
				w.logger.Error(err, "Failed to clean up processed events")
				continue
			}
			if deleted > 0 {
				w.logger.Info("Cleaned up processed events", "deleted", deleted)
			}
		}
	}
}
