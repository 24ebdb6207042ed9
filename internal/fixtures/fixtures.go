// Package fixtures generates demo data. Nothing in the production path calls
// it unless demo seeding is switched on.
package fixtures

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"lupa/internal/core"
)

// Saver is the part of the record store the seeder writes through.
type Saver interface {
	Today() core.Date
	ListPaymentMethods(ctx context.Context) ([]core.PaymentMethod, error)
	SaveTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
}

// Seed inserts n valid transactions dated within the last six months. The
// same seed produces the same inputs.
func Seed(ctx context.Context, store Saver, n int, seed int64) ([]core.Transaction, error) {
	methods, err := store.ListPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no payment methods to seed with")
	}

	f := gofakeit.New(seed)
	today := store.Today()
	out := make([]core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		in := Transaction(f, today, methods)
		tx, err := store.SaveTransaction(ctx, in)
		if err != nil {
			return out, fmt.Errorf("seed transaction %d: %w", i, err)
		}
		out = append(out, tx)
	}
	return out, nil
}

// Transaction builds one random input. Income is roughly twice as likely as
// an expense.
func Transaction(f *gofakeit.Faker, today core.Date, methods []core.PaymentMethod) core.TransactionInput {
	typ := core.Income
	if f.Number(0, 2) == 0 {
		typ = core.Expense
	}
	categories := core.CategoriesFor(typ)

	desc := "Venda " + f.Noun()
	if typ == core.Expense {
		desc = "Pagamento " + f.Company()
	}
	in := core.TransactionInput{
		Type:          typ,
		Amount:        core.Money{Cents: int64(f.Number(1000, 500000))},
		Description:   desc,
		Category:      categories[f.Number(0, len(categories)-1)],
		PaymentMethod: methods[f.Number(0, len(methods)-1)].ID,
		Date:          today.AddDays(-f.Number(0, 179)),
	}
	if f.Number(0, 3) == 0 {
		in.Notes = f.Sentence(4)
	}
	return in
}
