package sms

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/financeflow/financeflow/pkg/api"
)

// currencyMarker optionally precedes an amount ("Rs.", "₹", "$"). A match
// never requires it.
const currencyMarker = `(?:rs\.?\s*|₹\s*|\$\s*)?`

// amountGroup captures digit groups with optional comma thousands separators
// and an optional decimal part. Separators are stripped before parsing.
const amountGroup = `([\d,]+\.?\d*)`

// extractRule pairs a pattern with the transaction kind it implies and the
// capture group holding the amount.
type extractRule struct {
	pattern *regexp.Regexp
	kind    api.Kind
	group   int
}

// extractRules is evaluated in declaration order and the first rule that
// yields a positive, parseable amount wins. The order is load-bearing:
// a message matching both a generic debit phrase and a more specific ATM
// phrase is claimed by the debit rule because it comes first. Reordering
// changes classification outcomes for such messages.
var extractRules = []extractRule{
	// Debit / purchase phrasings.
	{regexp.MustCompile(`(?i)\b(?:debited|spent|purchase|paid|debit)\b\s+(?:(?:of|by|for)\s+)?` + currencyMarker + amountGroup), api.Expense, 1},
	// Credit / deposit phrasings, verb first.
	{regexp.MustCompile(`(?i)\b(?:credited|received|deposit|salary|credit)\b\s+(?:(?:of|by|with)\s+)?` + currencyMarker + amountGroup), api.Income, 1},
	// Credit phrasings with the amount leading ("Rs.500.00 credited to ...").
	{regexp.MustCompile(`(?i)` + currencyMarker + amountGroup + `\s+(?:credited|received|deposited)\b`), api.Income, 1},
	// ATM and cash withdrawals.
	{regexp.MustCompile(`(?i)\b(?:atm|cash)\s+(?:withdrawal|wd|withdraw)\b\s+(?:of\s+)?` + currencyMarker + amountGroup), api.Expense, 1},
	// Outbound transfers.
	{regexp.MustCompile(`(?i)\b(?:transferred|transfer|sent)\b\s+` + currencyMarker + amountGroup), api.Expense, 1},
	// UPI payments.
	{regexp.MustCompile(`(?i)\bupi\b(?:\s+payment)?\s+(?:of\s+)?` + currencyMarker + amountGroup), api.Expense, 1},
	// Card and POS payments.
	{regexp.MustCompile(`(?i)\b(?:card|pos)\s+(?:payment|transaction)\b\s+(?:of\s+)?` + currencyMarker + amountGroup), api.Expense, 1},
}

// extractKindAndAmount applies the rule table in order against the
// original-case content (the patterns themselves are case-insensitive).
// A rule whose captured amount fails to parse, or parses to zero or a
// negative value, is treated as a non-match and evaluation falls through to
// later rules. Exhausting the table means no transaction.
func extractKindAndAmount(content string) (api.Kind, float64, bool) {
	for _, rule := range extractRules {
		m := rule.pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		amount, err := parseAmount(m[rule.group])
		if err != nil || amount <= 0 {
			continue
		}
		return rule.kind, amount, true
	}
	return "", 0, false
}

// parseAmount strips thousands separators and parses the remainder.
// "2,500.00" and "2500.00" yield the same value.
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
