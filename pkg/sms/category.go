package sms

import (
	"strings"

	"github.com/financeflow/financeflow/pkg/api"
	"github.com/financeflow/financeflow/pkg/categories"
)

// categoryRule maps keyword hits to a category ID. Content keywords match
// the lower-cased message body; merchant keywords match only the lower-cased
// extracted merchant name, so a merchant keyword never fires when merchant
// extraction came up empty.
type categoryRule struct {
	id       string
	content  []string
	merchant []string
}

// expenseCategories is evaluated top to bottom and the first satisfied rule
// wins, so a message hitting several keyword sets resolves to the earliest.
// Shopping is checked before food: a merchant name containing both "amazon"
// and "zomato" categorizes as shopping.
var expenseCategories = []categoryRule{
	{id: categories.OtherExpense, content: []string{"atm", "cash"}},
	{
		id:       categories.Transportation,
		content:  []string{"fuel", "petrol", "diesel"},
		merchant: []string{"uber", "ola", "taxi", "cab", "metro"},
	},
	{
		id:       categories.Shopping,
		content:  []string{"shopping"},
		merchant: []string{"amazon", "flipkart", "myntra", "ajio", "mall", "store"},
	},
	{
		id:       categories.Food,
		content:  []string{"dining"},
		merchant: []string{"restaurant", "cafe", "food", "zomato", "swiggy", "dominos", "mcdonald", "kfc", "pizza"},
	},
	{
		id:       categories.Entertainment,
		content:  []string{"subscription", "movie"},
		merchant: []string{"netflix", "spotify", "prime", "hotstar", "cinema", "theatre"},
	},
	{
		id:       categories.Healthcare,
		content:  []string{"medical", "pharmacy", "hospital", "doctor"},
		merchant: []string{"apollo", "medplus"},
	},
	{
		id:      categories.Utilities,
		content: []string{"electricity", "water", "gas", "internet", "mobile", "recharge"},
	},
}

var incomeCategories = []categoryRule{
	{id: categories.Salary, content: []string{"salary", "payroll"}},
	{id: categories.Freelance, content: []string{"freelance", "contract"}},
	{id: categories.Investments, content: []string{"investment", "dividend"}},
}

// autoCategory assigns a category ID from the fixed chains. lower is the
// lower-cased message content.
func autoCategory(lower string, merchant *string, kind api.Kind) string {
	merchantLower := ""
	if merchant != nil {
		merchantLower = strings.ToLower(*merchant)
	}

	rules, fallback := expenseCategories, categories.OtherExpense
	if kind == api.Income {
		rules, fallback = incomeCategories, categories.OtherIncome
	}

	for _, rule := range rules {
		if rule.matches(lower, merchantLower) {
			return rule.id
		}
	}
	return fallback
}

func (r categoryRule) matches(content, merchant string) bool {
	for _, kw := range r.content {
		if strings.Contains(content, kw) {
			return true
		}
	}
	if merchant == "" {
		return false
	}
	for _, kw := range r.merchant {
		if strings.Contains(merchant, kw) {
			return true
		}
	}
	return false
}
