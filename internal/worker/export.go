// Package worker runs the background side of lupa: exporting ledger events to
// a spreadsheet and the scheduled overdue refresh.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"lupa/internal/amqp"
	"lupa/internal/core"
	"lupa/internal/sheets"
)

// TransactionReader is the part of the record store the exporter reads.
type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error)
}

// ExportWorker mirrors ledger events into a TransactionExporter.
type ExportWorker struct {
	store    TransactionReader
	exporter sheets.TransactionExporter
	logger   *slog.Logger
}

func NewExportWorker(store TransactionReader, exporter sheets.TransactionExporter, logger *slog.Logger) *ExportWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportWorker{store: store, exporter: exporter, logger: logger}
}

// HandleEvent is an amqp.Handler. A returned error requeues the message.
func (w *ExportWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event", "event", ev.Event, "id", ev.ID)

	switch ev.Event {
	case amqp.EventDeleted:
		return w.remove(ctx, ev.ID)
	case amqp.EventCreated, amqp.EventUpdated:
	default:
		return fmt.Errorf("%w: %q", amqp.ErrInvalidEvent, ev.Event)
	}

	tx, err := w.store.GetTransaction(ctx, ev.ID)
	if core.IsNotFound(err) {
		// Deleted before this event was handled; the delete event follows.
		w.logger.InfoContext(ctx, "Transaction no longer exists, removing row", "id", ev.ID)
		return w.remove(ctx, ev.ID)
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	methods, err := w.store.ListPaymentMethods(ctx)
	if err != nil {
		return fmt.Errorf("load payment methods: %w", err)
	}
	name := tx.PaymentMethod
	if m, ok := core.FindPaymentMethod(methods, tx.PaymentMethod); ok {
		name = m.Name
	}

	if err := w.exporter.ExportTransaction(ctx, tx, name); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}
	w.logger.InfoContext(ctx, "Transaction exported", "id", tx.ID)
	return nil
}

func (w *ExportWorker) remove(ctx context.Context, id string) error {
	if err := w.exporter.RemoveTransaction(ctx, id); err != nil {
		return fmt.Errorf("remove transaction row: %w", err)
	}
	return nil
}
