package aggregate

import "lupa/internal/core"

// Dashboard is the summary plus the counters shown next to it.
type Dashboard struct {
	Summary
	PendingBills    int     `json:"pendingBills"`
	OverduePayments int     `json:"overduePayments"`
	ActiveCustomers int     `json:"activeCustomers"`
	MonthlyGrowth   float64 `json:"monthlyGrowth"`
}

// Inputs is everything a dashboard is computed from.
type Inputs struct {
	Transactions   []core.Transaction
	PaymentMethods []core.PaymentMethod
	Bills          []core.Bill
	Receivables    []core.Receivable
	Today          core.Date
}

func ComputeDashboard(in Inputs) Dashboard {
	d := Dashboard{
		Summary:         ComputeDashboardSummary(in.Transactions, in.PaymentMethods),
		ActiveCustomers: ActiveCustomers(in.Receivables),
		MonthlyGrowth:   MonthlyGrowth(in.Transactions),
	}
	for _, b := range in.Bills {
		if billStatusOn(b, in.Today) == core.BillPending {
			d.PendingBills++
		}
	}
	for _, r := range in.Receivables {
		if r.IsOverdue(in.Today) {
			d.OverduePayments++
		}
	}
	return d
}
