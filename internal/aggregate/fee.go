// Package aggregate derives dashboard figures from record collections.
// Every function is pure: inputs are never modified and no I/O happens,
// so results may be computed concurrently and cached freely.
package aggregate

import "lupa/internal/core"

// FeePreview is what a form shows before a transaction is submitted.
type FeePreview struct {
	Amount     core.Money `json:"amount"`
	FeePercent float64    `json:"fee_percent"`
	Fee        core.Money `json:"fee"`
	Net        core.Money `json:"net"`
}

// ComputeFeePreview never fails. An empty or non-numeric amount previews
// as zero and an unknown method carries no fee.
func ComputeFeePreview(amount, methodID string, methods []core.PaymentMethod) FeePreview {
	gross := core.ParseAmountOrZero(amount)
	var percent float64
	if m, ok := core.FindPaymentMethod(methods, methodID); ok {
		percent = m.Fee
	}
	fee, net := core.SplitFee(gross, percent)
	return FeePreview{Amount: gross, FeePercent: percent, Fee: fee, Net: net}
}
