// Package worker processes queued transaction exports.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JasvinK/Student-Paycheck-Buddy/internal/amqp"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/core"
	"github.com/JasvinK/Student-Paycheck-Buddy/internal/export"
)

// ExportStore is the slice of the repository the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, id int64) (*core.Transaction, error)
	PendingExportIDs(ctx context.Context, limit int) ([]int64, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

type ExportWorker struct {
	store     ExportStore
	target    export.TransactionAppender
	batchSize int
}

func NewExportWorker(store ExportStore, target export.TransactionAppender, batchSize int) *ExportWorker {
	return &ExportWorker{store: store, target: target, batchSize: batchSize}
}

// HandleExportMessage exports the transaction named by one queue message.
// The returned error drives the consumer's requeue decision.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	return w.exportOne(ctx, msg.ID)
}

func (w *ExportWorker) exportOne(ctx context.Context, id int64) error {
	t, err := w.store.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// Row was deleted after the message was queued; nothing to export.
		slog.WarnContext(ctx, "Transaction no longer exists, skipping export", "id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", id, err)
	}

	ref, err := w.target.Append(ctx, *t)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "error", markErr, "id", id)
		}
		return fmt.Errorf("append transaction %d: %w", id, err)
	}

	if err := w.store.MarkExported(ctx, id); err != nil {
		return fmt.Errorf("mark transaction %d exported: %w", id, err)
	}

	slog.InfoContext(ctx, "Exported transaction", "id", id, "ref", ref)
	return nil
}

// SweepPending exports a batch of transactions still marked pending. It
// catches rows whose queue messages were lost, on startup and on a timer.
func (w *ExportWorker) SweepPending(ctx context.Context) error {
	ids, err := w.store.PendingExportIDs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Sweeping pending exports", "count", len(ids))

	var failed int
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.exportOne(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Sweep export failed", "error", err, "id", id)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("sweep finished with %d of %d exports failed", failed, len(ids))
	}
	return nil
}
