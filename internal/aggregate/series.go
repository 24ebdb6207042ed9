package aggregate

import (
	"fmt"
	"slices"

	"lupa/internal/core"
)

const (
	monthlyPoints = 6
	dailyPoints   = 7
)

var (
	monthAbbr   = [...]string{"jan.", "fev.", "mar.", "abr.", "mai.", "jun.", "jul.", "ago.", "set.", "out.", "nov.", "dez."}
	weekdayAbbr = [...]string{"dom.", "seg.", "ter.", "qua.", "qui.", "sex.", "sáb."}
)

// MonthPoint aggregates one calendar month. Key is YYYY-MM; Month is the
// pt-BR label shown on charts.
type MonthPoint struct {
	Key      string     `json:"key"`
	Month    string     `json:"month"`
	Receita  core.Money `json:"receita"`
	Despesas core.Money `json:"despesas"`
	Lucro    core.Money `json:"lucro"`
}

type DayPoint struct {
	Date     core.Date  `json:"date"`
	Day      string     `json:"day"`
	Entradas core.Money `json:"entradas"`
	Saidas   core.Money `json:"saidas"`
}

// ComputeMonthlySeries returns the most recent six months that have
// transactions, oldest first.
func ComputeMonthlySeries(txs []core.Transaction) []MonthPoint {
	all := monthlyTotals(txs)
	if len(all) > monthlyPoints {
		all = all[len(all)-monthlyPoints:]
	}
	return all
}

// monthlyTotals groups every month, sorted ascending.
func monthlyTotals(txs []core.Transaction) []MonthPoint {
	byKey := make(map[string]*MonthPoint)
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		key := tx.Date.Format("2006-01")
		p, ok := byKey[key]
		if !ok {
			p = &MonthPoint{Key: key, Month: monthLabel(tx.Date)}
			byKey[key] = p
		}
		switch tx.Type {
		case core.Income:
			p.Receita = p.Receita.Add(tx.NetAmount)
		case core.Expense:
			p.Despesas = p.Despesas.Add(tx.NetAmount)
		}
	}

	out := make([]MonthPoint, 0, len(byKey))
	for _, p := range byKey {
		p.Lucro = p.Receita.Sub(p.Despesas)
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b MonthPoint) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return out
}

// ComputeDailySeries always returns seven points, today and the six days
// before it, oldest first. Days without transactions report zero.
func ComputeDailySeries(txs []core.Transaction, today core.Date) []DayPoint {
	points := make([]DayPoint, dailyPoints)
	index := make(map[string]int, dailyPoints)
	for i := range points {
		d := today.AddDays(i - (dailyPoints - 1))
		points[i] = DayPoint{Date: d, Day: weekdayAbbr[d.Weekday()]}
		index[d.String()] = i
	}
	for _, tx := range txs {
		i, ok := index[tx.Date.String()]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			points[i].Entradas = points[i].Entradas.Add(tx.NetAmount)
		case core.Expense:
			points[i].Saidas = points[i].Saidas.Add(tx.NetAmount)
		}
	}
	return points
}

func monthLabel(d core.Date) string {
	return fmt.Sprintf("%s de %d", monthAbbr[d.Month()-1], d.Year())
}

// MonthlyGrowth is the percent change of the newest month's receita over
// the month before it. It is 0 without two months or when the earlier one
// had no receita.
func MonthlyGrowth(txs []core.Transaction) float64 {
	months := monthlyTotals(txs)
	if len(months) < 2 {
		return 0
	}
	prev, last := months[len(months)-2], months[len(months)-1]
	return percentOf(last.Receita.Sub(prev.Receita), prev.Receita)
}
