package aggregate

import (
	"slices"

	"lupa/internal/core"
)

const topCustomers = 10

type ReceivableTypeStat struct {
	Type      core.ReceivableType `json:"type"`
	Count     int                 `json:"count"`
	Total     core.Money          `json:"total"`
	Remaining core.Money          `json:"remaining"`
}

type CustomerStat struct {
	Name      string     `json:"name"`
	Count     int        `json:"count"`
	Total     core.Money `json:"total"`
	Remaining core.Money `json:"remaining"`
}

type ReceivableSummary struct {
	Total         int                  `json:"total"`
	Pending       int                  `json:"pending"`
	Partial       int                  `json:"partial"`
	Paid          int                  `json:"paid"`
	Overdue       int                  `json:"overdue"`
	Cancelled     int                  `json:"cancelled"`
	DueThisWeek   int                  `json:"dueThisWeek"`
	TotalAmount   core.Money           `json:"totalAmount"`
	PendingAmount core.Money           `json:"pendingAmount"`
	PaidAmount    core.Money           `json:"paidAmount"`
	OverdueAmount core.Money           `json:"overdueAmount"`
	ByType        []ReceivableTypeStat `json:"byType"`
	TopCustomers  []CustomerStat       `json:"topCustomers"`
}

// open reports whether a receivable still expects money.
func open(r core.Receivable) bool {
	return r.Status != core.ReceivablePaid && r.Status != core.ReceivableCancelled
}

// ComputeReceivableSummary counts stored statuses; Overdue counts every open
// receivable past its due date, partial ones included.
func ComputeReceivableSummary(recs []core.Receivable, today core.Date) ReceivableSummary {
	s := ReceivableSummary{Total: len(recs), ByType: []ReceivableTypeStat{}}
	weekEnd := today.AddDays(7)
	typeIndex := make(map[core.ReceivableType]int)
	custIndex := make(map[string]int)
	customers := []CustomerStat{}

	for _, r := range recs {
		switch r.Status {
		case core.ReceivablePending:
			s.Pending++
		case core.ReceivablePartial:
			s.Partial++
		case core.ReceivablePaid:
			s.Paid++
		case core.ReceivableCancelled:
			s.Cancelled++
		}
		if r.IsOverdue(today) {
			s.Overdue++
			s.OverdueAmount = s.OverdueAmount.Add(r.RemainingAmount)
		} else if (r.Status == core.ReceivablePending || r.Status == core.ReceivablePartial) &&
			!r.DueDate.After(weekEnd.Time) && !r.DueDate.Before(today.Time) {
			s.DueThisWeek++
		}

		s.TotalAmount = s.TotalAmount.Add(r.OriginalAmount)
		s.PaidAmount = s.PaidAmount.Add(r.PaidAmount)
		if open(r) {
			s.PendingAmount = s.PendingAmount.Add(r.RemainingAmount)
		}

		i, ok := typeIndex[r.Type]
		if !ok {
			i = len(s.ByType)
			typeIndex[r.Type] = i
			s.ByType = append(s.ByType, ReceivableTypeStat{Type: r.Type})
		}
		s.ByType[i].Count++
		s.ByType[i].Total = s.ByType[i].Total.Add(r.OriginalAmount)
		if open(r) {
			s.ByType[i].Remaining = s.ByType[i].Remaining.Add(r.RemainingAmount)
		}

		j, ok := custIndex[r.CustomerName]
		if !ok {
			j = len(customers)
			custIndex[r.CustomerName] = j
			customers = append(customers, CustomerStat{Name: r.CustomerName})
		}
		customers[j].Count++
		customers[j].Total = customers[j].Total.Add(r.OriginalAmount)
		if open(r) {
			customers[j].Remaining = customers[j].Remaining.Add(r.RemainingAmount)
		}
	}

	slices.SortStableFunc(customers, func(a, b CustomerStat) int {
		switch {
		case a.Total.Cents > b.Total.Cents:
			return -1
		case a.Total.Cents < b.Total.Cents:
			return 1
		}
		return 0
	})
	if len(customers) > topCustomers {
		customers = customers[:topCustomers]
	}
	s.TopCustomers = customers
	return s
}

// ActiveCustomers counts distinct customers with an open receivable.
func ActiveCustomers(recs []core.Receivable) int {
	seen := make(map[string]struct{})
	for _, r := range recs {
		if open(r) {
			seen[r.CustomerName] = struct{}{}
		}
	}
	return len(seen)
}
