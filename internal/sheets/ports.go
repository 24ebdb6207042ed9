// Package sheets defines the export port for ledger rows and the row layout
// shared by its adapters.
package sheets

import (
	"context"
	"time"

	"lupa/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter mirrors transactions into an external sheet,
	// one row per transaction keyed by id.
	TransactionExporter interface {
		// ExportTransaction inserts the row or replaces the existing one.
		ExportTransaction(ctx context.Context, tx core.Transaction, methodName string) error
		// RemoveTransaction deletes the row; a missing row is not an error.
		RemoveTransaction(ctx context.Context, id string) error
	}
)

// Header is the first row of an exported sheet.
var Header = []string{
	"ID", "Data", "Tipo", "Descrição", "Categoria", "Forma de pagamento",
	"Valor", "Taxa", "Líquido", "Observações", "Atualizado em",
}

// Row is one exported transaction. Amounts use a dot decimal separator.
type Row struct {
	ID            string
	Date          string
	Type          string
	Description   string
	Category      string
	PaymentMethod string
	Amount        string
	CardFee       string
	NetAmount     string
	Notes         string
	UpdatedAt     string
}

func RowFor(tx core.Transaction, methodName string) Row {
	return Row{
		ID:            tx.ID,
		Date:          tx.Date.String(),
		Type:          string(tx.Type),
		Description:   tx.Description,
		Category:      tx.Category,
		PaymentMethod: methodName,
		Amount:        tx.Amount.String(),
		CardFee:       tx.CardFee.String(),
		NetAmount:     tx.NetAmount.String(),
		Notes:         tx.Notes,
		UpdatedAt:     tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Values returns the row in column order, matching Header.
func (r Row) Values() []any {
	return []any{
		r.ID, r.Date, r.Type, r.Description, r.Category, r.PaymentMethod,
		r.Amount, r.CardFee, r.NetAmount, r.Notes, r.UpdatedAt,
	}
}
