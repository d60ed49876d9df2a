package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/inquiry-service/internal/notify"
	"github.com/spec-kit/inquiry-service/internal/repository"
)

// OutboxWorker drains durably recorded notification requests to the
// Notifier. Delivery failures leave rows pending for the next sweep.
type OutboxWorker struct {
	outbox   repository.OutboxRepository
	notifier notify.Notifier
	logger   *zap.Logger
	interval time.Duration
	batch    int
}

// NewOutboxWorker constructs the worker.
func NewOutboxWorker(outbox repository.OutboxRepository, notifier notify.Notifier, logger *zap.Logger, interval time.Duration, batch int) *OutboxWorker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &OutboxWorker{
		outbox:   outbox,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		batch:    batch,
	}
}

// Run polls the outbox until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.Sweep(ctx); err != nil {
				w.logger.Warn("outbox sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep dispatches one batch of pending requests.
func (w *OutboxWorker) Sweep(ctx context.Context) error {
	pending, err := w.outbox.ListPending(ctx, w.batch)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	dispatched := make([]string, 0, len(pending))
	for _, req := range pending {
		if err := w.notifier.NotifyUser(ctx, req.UserID, req.Kind, req.Title, req.Message, req.Link); err != nil {
			// leave the row pending; a later sweep retries it
			continue
		}
		dispatched = append(dispatched, req.ID)
	}
	if len(dispatched) == 0 {
		return nil
	}
	if err := w.outbox.MarkDispatched(ctx, dispatched); err != nil {
		return err
	}
	w.logger.Debug("outbox dispatched", zap.Int("count", len(dispatched)))
	return nil
}
