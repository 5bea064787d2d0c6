// Package categories defines the fixed category vocabulary for transactions
// and bills. The table is a process-wide read-only constant; callers share it
// and never mutate it.
package categories

// Kind classifies what a category applies to.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
	KindBill    Kind = "bill"
)

// Category IDs. These are the only values the extractor and stores emit.
const (
	Salary      = "salary"
	Freelance   = "freelance"
	Investments = "investments"
	OtherIncome = "other-income"

	Food           = "food"
	Transportation = "transportation"
	Shopping       = "shopping"
	Entertainment  = "entertainment"
	Healthcare     = "healthcare"
	Education      = "education"
	OtherExpense   = "other-expense"

	Utilities     = "utilities"
	Rent          = "rent"
	Insurance     = "insurance"
	Subscriptions = "subscriptions"
)

// Category is a spending or income bucket.
type Category struct {
	ID   string
	Name string
	Kind Kind
}

// Defaults is the full category table in display order.
var Defaults = []Category{
	{ID: Salary, Name: "Salary", Kind: KindIncome},
	{ID: Freelance, Name: "Freelance", Kind: KindIncome},
	{ID: Investments, Name: "Investments", Kind: KindIncome},
	{ID: OtherIncome, Name: "Other", Kind: KindIncome},

	{ID: Food, Name: "Food & Dining", Kind: KindExpense},
	{ID: Transportation, Name: "Transportation", Kind: KindExpense},
	{ID: Shopping, Name: "Shopping", Kind: KindExpense},
	{ID: Entertainment, Name: "Entertainment", Kind: KindExpense},
	{ID: Healthcare, Name: "Healthcare", Kind: KindExpense},
	{ID: Education, Name: "Education", Kind: KindExpense},
	{ID: OtherExpense, Name: "Other", Kind: KindExpense},

	{ID: Utilities, Name: "Utilities", Kind: KindBill},
	{ID: Rent, Name: "Rent/Mortgage", Kind: KindBill},
	{ID: Insurance, Name: "Insurance", Kind: KindBill},
	{ID: Subscriptions, Name: "Subscriptions", Kind: KindBill},
}

var byID = func() map[string]Category {
	m := make(map[string]Category, len(Defaults))
	for _, c := range Defaults {
		m[c.ID] = c
	}
	return m
}()

// ByID returns the category with the given ID.
func ByID(id string) (Category, bool) {
	c, ok := byID[id]
	return c, ok
}

// ByKind returns all categories of the given kind, in display order.
func ByKind(kind Kind) []Category {
	var out []Category
	for _, c := range Defaults {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Name returns the display name for a category ID, or "Other" when the ID
// is not in the table.
func Name(id string) string {
	if c, ok := byID[id]; ok {
		return c.Name
	}
	return "Other"
}
