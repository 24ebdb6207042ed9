package core

var (
	incomeCategories = []string{"Vendas", "Serviços", "Comissões", "Juros", "Aluguel", "Outros"}

	expenseCategories = []string{
		"Fornecedores", "Salários", "Aluguel", "Marketing", "Transporte",
		"Alimentação", "Energia", "Internet", "Telefone", "Materiais", "Outros",
	}
)

// CategoriesFor returns the fixed category list of a transaction type.
// The returned slice is a copy.
func CategoriesFor(t TransactionType) []string {
	var src []string
	switch t {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsKnownCategory reports whether category belongs to t's list.
func IsKnownCategory(t TransactionType, category string) bool {
	var src []string
	switch t {
	case Income:
		src = incomeCategories
	case Expense:
		src = expenseCategories
	}
	for _, c := range src {
		if c == category {
			return true
		}
	}
	return false
}
