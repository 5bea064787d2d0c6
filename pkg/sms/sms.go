// Package sms implements rule-based extraction of financial transactions
// from free-text bank notification messages.
//
// Extraction runs in four stages: a cheap financial-relevance filter, an
// ordered rule table that determines transaction kind and amount, best-effort
// merchant and account extraction, and description/category synthesis. The
// whole pipeline is a pure function of the message text; the rule and keyword
// tables are compiled once at init and never mutated, so Parse is safe to
// call from any number of goroutines.
package sms

import (
	"strings"

	"github.com/financeflow/financeflow/pkg/api"
)

// financialKeywords gates full extraction: a message is only parsed when its
// content or sender mentions at least one of these. Substring matching is
// deliberately loose; the rule table downstream is what actually decides
// whether a transaction exists.
var financialKeywords = []string{
	"rs", "₹", "$", "debit", "credit", "paid", "received", "bank", "account",
	"transaction", "payment", "upi", "atm", "card", "wallet", "transfer",
}

// Relevant reports whether a message plausibly describes a financial event.
// It never fails and has no side effects; non-financial text that happens to
// contain a keyword passes the filter and is rejected later by the rule table.
func Relevant(content, sender string) bool {
	content = strings.ToLower(content)
	sender = strings.ToLower(sender)
	for _, kw := range financialKeywords {
		if strings.Contains(content, kw) || strings.Contains(sender, kw) {
			return true
		}
	}
	return false
}

// Parse extracts a transaction candidate from a bank notification message.
// It returns nil when no transaction is detected: a candidate is only
// produced when both a kind and a strictly positive amount were found.
// Merchant and account are optional and never gate the result. The candidate
// carries no date; the consuming layer supplies one (typically the import
// time).
func Parse(content, sender string) *api.Candidate {
	if !Relevant(content, sender) {
		return nil
	}

	kind, amount, ok := extractKindAndAmount(content)
	if !ok {
		return nil
	}

	merchant := extractMerchant(content)
	account := extractAccount(content)
	lower := strings.ToLower(content)

	return &api.Candidate{
		Kind:        kind,
		Amount:      amount,
		Description: describe(kind, lower, merchant),
		Category:    autoCategory(lower, merchant, kind),
		Merchant:    merchant,
		Account:     account,
		Source:      api.SourceSMS,
	}
}
