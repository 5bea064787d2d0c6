package sms

import (
	"regexp"
	"strings"
)

// merchantPatterns capture an uppercase-led alphanumeric token sequence
// following common counterparty markers. First match wins.
var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:at|from|to)\s+([A-Z][A-Z0-9\s&.-]{2,30})`),
	regexp.MustCompile(`(?i)(?:merchant|store):\s*([A-Z][A-Z0-9\s&.-]{2,30})`),
	regexp.MustCompile(`(?i)(?:pos|card)\s+([A-Z][A-Z0-9\s&.-]{2,30})`),
	regexp.MustCompile(`(?i)upi\s+([A-Z][A-Z0-9\s&.-]{2,30})`),
	regexp.MustCompile(`(?i)(?:paid to|sent to)\s+([A-Z][A-Z0-9\s&.-]{2,30})`),
}

// merchantJunk matches characters stripped from a captured merchant name.
var merchantJunk = regexp.MustCompile(`[^a-zA-Z0-9\s&.-]`)

// accountPatterns capture a 4-digit account or card suffix, optionally
// masked with leading asterisks.
var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:a/c|account|acc)\s*(?:no\.?\s*)?(\*+\d{4}|\d{4})`),
	regexp.MustCompile(`(?i)(?:card|ending)\s*(\*+\d{4}|\d{4})`),
}

// extractMerchant pulls a counterparty name out of the message text.
// The result is cleaned to the allowed character set and truncated to 30
// characters. Absence is a normal outcome, reported as nil.
func extractMerchant(content string) *string {
	for _, p := range merchantPatterns {
		m := p.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(merchantJunk.ReplaceAllString(strings.TrimSpace(m[1]), ""))
		if len(name) > 30 {
			name = strings.TrimSpace(name[:30])
		}
		if name == "" {
			continue
		}
		return &name
	}
	return nil
}

// extractAccount pulls a masked account or card suffix out of the message
// text, or nil when none is present.
func extractAccount(content string) *string {
	for _, p := range accountPatterns {
		if m := p.FindStringSubmatch(content); m != nil {
			acct := m[1]
			return &acct
		}
	}
	return nil
}
