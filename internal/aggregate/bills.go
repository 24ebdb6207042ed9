package aggregate

import "lupa/internal/core"

const defaultBillCategory = "Outros"

type BillCategoryStat struct {
	Category string     `json:"category"`
	Count    int        `json:"count"`
	Total    core.Money `json:"total"`
	Pending  core.Money `json:"pending"`
}

type BillSummary struct {
	Total         int                `json:"total"`
	Pending       int                `json:"pending"`
	Paid          int                `json:"paid"`
	Overdue       int                `json:"overdue"`
	Cancelled     int                `json:"cancelled"`
	DueThisWeek   int                `json:"dueThisWeek"`
	PendingAmount core.Money         `json:"pendingAmount"`
	PaidAmount    core.Money         `json:"paidAmount"`
	OverdueAmount core.Money         `json:"overdueAmount"`
	Categories    []BillCategoryStat `json:"categories"`
}

// billStatusOn treats a pending bill whose due date has passed as overdue
// even before the scheduled refresh has stored that.
func billStatusOn(b core.Bill, today core.Date) core.BillStatus {
	if b.Status == core.BillPending && b.IsOverdue(today) {
		return core.BillOverdue
	}
	return b.Status
}

func ComputeBillSummary(bills []core.Bill, today core.Date) BillSummary {
	s := BillSummary{Total: len(bills), Categories: []BillCategoryStat{}}
	weekEnd := today.AddDays(7)
	catIndex := make(map[string]int)

	for _, b := range bills {
		status := billStatusOn(b, today)
		switch status {
		case core.BillPending:
			s.Pending++
			s.PendingAmount = s.PendingAmount.Add(b.FinalAmount)
			if !b.DueDate.Before(today.Time) && !b.DueDate.After(weekEnd.Time) {
				s.DueThisWeek++
			}
		case core.BillPaid:
			s.Paid++
			s.PaidAmount = s.PaidAmount.Add(b.FinalAmount)
		case core.BillOverdue:
			s.Overdue++
			s.OverdueAmount = s.OverdueAmount.Add(b.FinalAmount)
		case core.BillCancelled:
			s.Cancelled++
		}

		cat := b.Category
		if cat == "" {
			cat = defaultBillCategory
		}
		i, ok := catIndex[cat]
		if !ok {
			i = len(s.Categories)
			catIndex[cat] = i
			s.Categories = append(s.Categories, BillCategoryStat{Category: cat})
		}
		c := &s.Categories[i]
		c.Count++
		c.Total = c.Total.Add(b.FinalAmount)
		if status == core.BillPending || status == core.BillOverdue {
			c.Pending = c.Pending.Add(b.FinalAmount)
		}
	}
	return s
}
