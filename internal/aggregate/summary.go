package aggregate

import (
	"github.com/shopspring/decimal"

	"lupa/internal/core"
)

// UnknownMethod buckets transactions whose payment method no longer exists.
const UnknownMethod = "Unknown"

var hundred = decimal.NewFromInt(100)

// Summary holds the headline dashboard figures. All totals are net amounts.
// TransactionCount counts income transactions only.
type Summary struct {
	TotalRevenue       core.Money `json:"totalRevenue"`
	TotalExpenses      core.Money `json:"totalExpenses"`
	NetProfit          core.Money `json:"netProfit"`
	ProfitMargin       float64    `json:"profitMargin"`
	TransactionCount   int        `json:"transactionCount"`
	AverageTransaction core.Money `json:"averageTransaction"`
	CategoryStats      Buckets    `json:"categoryStats"`
	PaymentMethodStats Buckets    `json:"paymentMethodStats"`
	TopCategory        string     `json:"topCategory"`
	TopPaymentMethod   string     `json:"topPaymentMethod"`
}

func ComputeDashboardSummary(txs []core.Transaction, methods []core.PaymentMethod) Summary {
	names := make(map[string]string, len(methods))
	for _, m := range methods {
		if _, dup := names[m.ID]; !dup {
			names[m.ID] = m.Name
		}
	}

	var s Summary
	categories := newBucketer()
	byMethod := newBucketer()
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			s.TotalRevenue = s.TotalRevenue.Add(tx.NetAmount)
			s.TransactionCount++
			categories.add(tx.Category, tx.NetAmount)
			name, ok := names[tx.PaymentMethod]
			if !ok {
				name = UnknownMethod
			}
			byMethod.add(name, tx.NetAmount)
		case core.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(tx.NetAmount)
		}
	}

	s.NetProfit = s.TotalRevenue.Sub(s.TotalExpenses)
	s.ProfitMargin = percentOf(s.NetProfit, s.TotalRevenue)
	if s.TransactionCount > 0 {
		avg := s.TotalRevenue.Decimal().Div(decimal.NewFromInt(int64(s.TransactionCount)))
		s.AverageTransaction = core.MoneyFromDecimal(avg)
	}
	s.CategoryStats = categories.out
	s.PaymentMethodStats = byMethod.out
	s.TopCategory = s.CategoryStats.Top()
	s.TopPaymentMethod = s.PaymentMethodStats.Top()
	return s
}

// percentOf returns part/whole*100 rounded to 2 places, or 0 when whole is
// not positive.
func percentOf(part, whole core.Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	return part.Decimal().Div(whole.Decimal()).Mul(hundred).Round(2).InexactFloat64()
}
