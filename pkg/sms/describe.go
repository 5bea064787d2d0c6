package sms

import (
	"strings"

	"github.com/financeflow/financeflow/pkg/api"
)

// describe builds a human-readable description from the message body and the
// extracted merchant. lower is the lower-cased message content.
func describe(kind api.Kind, lower string, merchant *string) string {
	name := ""
	if merchant != nil {
		name = *merchant
	}

	if kind == api.Expense {
		switch {
		case strings.Contains(lower, "atm") || strings.Contains(lower, "cash"):
			return "ATM Withdrawal"
		case strings.Contains(lower, "upi"):
			if name != "" {
				return "UPI Payment to " + name
			}
			return "UPI Payment"
		case strings.Contains(lower, "card"):
			if name != "" {
				return "Card Payment at " + name
			}
			return "Card Payment"
		default:
			if name != "" {
				return "Payment to " + name
			}
			return "Payment"
		}
	}

	switch {
	case strings.Contains(lower, "salary"):
		return "Salary Credit"
	case strings.Contains(lower, "transfer"):
		if name != "" {
			return "Transfer from " + name
		}
		return "Transfer Received"
	default:
		if name != "" {
			return "Payment from " + name
		}
		return "Credit"
	}
}
