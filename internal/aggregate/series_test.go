package aggregate

import (
	"testing"

	"lupa/internal/core"
)

func TestComputeMonthlySeries(t *testing.T) {
	var txs []core.Transaction
	// Eight months, newest first, to prove the result is sorted.
	for m := 8; m >= 1; m-- {
		d := core.NewDate(2023, 10, 5).Time.AddDate(0, m-1, 0)
		txs = append(txs,
			tx(core.Income, int64(m)*10000, "Vendas", "1", core.DateOf(d)),
			tx(core.Expense, 1000, "Aluguel", "1", core.DateOf(d)),
		)
	}

	got := ComputeMonthlySeries(txs)
	if len(got) != 6 {
		t.Fatalf("want 6 points, got %d", len(got))
	}
	wantKeys := []string{"2023-12", "2024-01", "2024-02", "2024-03", "2024-04", "2024-05"}
	for i, p := range got {
		if p.Key != wantKeys[i] {
			t.Fatalf("point %d key = %s, want %s", i, p.Key, wantKeys[i])
		}
		if p.Lucro != p.Receita.Sub(p.Despesas) {
			t.Fatalf("lucro mismatch at %s", p.Key)
		}
	}
	if got[1].Month != "jan. de 2024" || got[0].Month != "dez. de 2023" {
		t.Fatalf("unexpected labels %q %q", got[0].Month, got[1].Month)
	}
	if got[5].Receita.Cents != 80000 || got[5].Despesas.Cents != 1000 {
		t.Fatalf("unexpected newest point %+v", got[5])
	}
}

func TestComputeMonthlySeriesEmpty(t *testing.T) {
	if got := ComputeMonthlySeries(nil); len(got) != 0 {
		t.Fatalf("want empty series, got %v", got)
	}
}

func TestComputeDailySeries(t *testing.T) {
	today := core.NewDate(2024, 3, 15) // Friday

	t.Run("always seven points", func(t *testing.T) {
		got := ComputeDailySeries(nil, today)
		if len(got) != 7 {
			t.Fatalf("want 7 points, got %d", len(got))
		}
		if got[0].Date != core.NewDate(2024, 3, 9) || got[6].Date != today {
			t.Fatalf("range = %s..%s", got[0].Date, got[6].Date)
		}
		if got[0].Day != "sáb." || got[6].Day != "sex." {
			t.Fatalf("labels = %q..%q", got[0].Day, got[6].Day)
		}
		for _, p := range got {
			if !p.Entradas.IsZero() || !p.Saidas.IsZero() {
				t.Fatalf("empty day must be zero: %+v", p)
			}
		}
	})

	t.Run("buckets by day", func(t *testing.T) {
		txs := []core.Transaction{
			tx(core.Income, 1000, "Vendas", "1", today),
			tx(core.Income, 500, "Vendas", "1", today),
			tx(core.Expense, 700, "Aluguel", "1", today),
			tx(core.Income, 300, "Vendas", "1", core.NewDate(2024, 3, 9)),
			tx(core.Income, 9999, "Vendas", "1", core.NewDate(2024, 3, 8)),
			tx(core.Income, 9999, "Vendas", "1", core.NewDate(2024, 3, 16)),
		}
		got := ComputeDailySeries(txs, today)
		if len(got) != 7 {
			t.Fatalf("want 7 points, got %d", len(got))
		}
		if got[6].Entradas.Cents != 1500 || got[6].Saidas.Cents != 700 {
			t.Fatalf("today = %+v", got[6])
		}
		if got[0].Entradas.Cents != 300 {
			t.Fatalf("oldest day = %+v", got[0])
		}
		var total int64
		for _, p := range got {
			total += p.Entradas.Cents
		}
		if total != 1800 {
			t.Fatalf("days outside the window leaked in: total %d", total)
		}
	})
}

func TestMonthlyGrowth(t *testing.T) {
	tests := []struct {
		name string
		txs  []core.Transaction
		want float64
	}{
		{"no data", nil, 0},
		{"single month", []core.Transaction{tx(core.Income, 100, "Vendas", "1", core.NewDate(2024, 3, 1))}, 0},
		{"growth", []core.Transaction{
			tx(core.Income, 10000, "Vendas", "1", core.NewDate(2024, 2, 1)),
			tx(core.Income, 15000, "Vendas", "1", core.NewDate(2024, 3, 1)),
		}, 50},
		{"decline", []core.Transaction{
			tx(core.Income, 20000, "Vendas", "1", core.NewDate(2024, 2, 1)),
			tx(core.Income, 15000, "Vendas", "1", core.NewDate(2024, 3, 1)),
		}, -25},
		{"previous month without receita", []core.Transaction{
			tx(core.Expense, 20000, "Aluguel", "1", core.NewDate(2024, 2, 1)),
			tx(core.Income, 15000, "Vendas", "1", core.NewDate(2024, 3, 1)),
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthlyGrowth(tt.txs); got != tt.want {
				t.Fatalf("MonthlyGrowth = %v, want %v", got, tt.want)
			}
		})
	}
}
