package worker

import (
	"context"
	"errors"
	"time"

	"meo-pos/internal/domain"
	"meo-pos/internal/models"

	"github.com/rs/zerolog"
)

// SalesWorker ships journal entries to the sales spreadsheet in the
// background. Only the spreadsheet sync is retried; the order itself was
// already submitted and is never re-sent.
type SalesWorker struct {
	sheets      domain.SheetsAppender
	retryPolicy RetryPolicy
	queue       chan *models.JournalEntry
	logger      *zerolog.Logger
}

func NewSalesWorker(appender domain.SheetsAppender, retry RetryPolicy, logger *zerolog.Logger) *SalesWorker {
	return &SalesWorker{
		sheets:      appender,
		retryPolicy: retry.normalized(),
		queue:       make(chan *models.JournalEntry, models.WorkerQueueSize),
		logger:      logger,
	}
}

// Enqueue schedules an entry for sync. A full queue drops the entry with
// an error rather than blocking the order flow.
func (w *SalesWorker) Enqueue(entry *models.JournalEntry) error {
	if entry == nil {
		return errors.New("journal entry is required")
	}

	select {
	case w.queue <- entry:
		return nil
	default:
		return errors.New("sales sync queue is full")
	}
}

// Start consumes the queue until the context is cancelled.
func (w *SalesWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Sales sync worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Sales sync worker stopping")
			return
		case entry := <-w.queue:
			w.process(ctx, entry)
		}
	}
}

func (w *SalesWorker) process(ctx context.Context, entry *models.JournalEntry) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.sheets.AppendSale(ctx, entry)
		if lastErr == nil {
			w.logger.Debug().Int64("remote_id", entry.RemoteID).Msg("Sale synced to spreadsheet")
			return
		}

		delay := w.retryPolicy.NextDelay(attempt)
		w.logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Dur("next_delay", delay).
			Msg("Sale sync attempt failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	w.logger.Error().
		Err(lastErr).
		Int64("remote_id", entry.RemoteID).
		Msg("Sale sync gave up after max retries")
}
