// Package currency provides the fixed region-to-currency lookup table and
// display formatting. The table is a process-wide read-only constant.
package currency

import (
	"strconv"
	"strings"
)

// Currency describes a display currency.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

// Default is used when no region can be resolved.
var Default = Currency{Code: "USD", Symbol: "$", Name: "US Dollar"}

// byRegion maps ISO 3166-1 alpha-2 region codes to currencies.
var byRegion = map[string]Currency{
	"US": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"IN": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"GB": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"EU": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"JP": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"CA": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	"AU": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CN": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	"KR": {Code: "KRW", Symbol: "₩", Name: "South Korean Won"},
	"SG": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar"},
	"HK": {Code: "HKD", Symbol: "HK$", Name: "Hong Kong Dollar"},
	"CH": {Code: "CHF", Symbol: "CHF", Name: "Swiss Franc"},
	"SE": {Code: "SEK", Symbol: "kr", Name: "Swedish Krona"},
	"NO": {Code: "NOK", Symbol: "kr", Name: "Norwegian Krone"},
	"DK": {Code: "DKK", Symbol: "kr", Name: "Danish Krone"},
	"BR": {Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
	"MX": {Code: "MXN", Symbol: "$", Name: "Mexican Peso"},
	"ZA": {Code: "ZAR", Symbol: "R", Name: "South African Rand"},
	"AE": {Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
	"TH": {Code: "THB", Symbol: "฿", Name: "Thai Baht"},
	"MY": {Code: "MYR", Symbol: "RM", Name: "Malaysian Ringgit"},
	"ID": {Code: "IDR", Symbol: "Rp", Name: "Indonesian Rupiah"},
	"PH": {Code: "PHP", Symbol: "₱", Name: "Philippine Peso"},
	"VN": {Code: "VND", Symbol: "₫", Name: "Vietnamese Dong"},
	"BD": {Code: "BDT", Symbol: "৳", Name: "Bangladeshi Taka"},
	"PK": {Code: "PKR", Symbol: "₨", Name: "Pakistani Rupee"},
	"LK": {Code: "LKR", Symbol: "₨", Name: "Sri Lankan Rupee"},
	"NP": {Code: "NPR", Symbol: "₨", Name: "Nepalese Rupee"},
	"NG": {Code: "NGN", Symbol: "₦", Name: "Nigerian Naira"},
	"KE": {Code: "KES", Symbol: "KSh", Name: "Kenyan Shilling"},
}

// FromRegion resolves a region code, falling back to Default.
func FromRegion(region string) Currency {
	if c, ok := byRegion[strings.ToUpper(region)]; ok {
		return c
	}
	return Default
}

// FromLocale resolves a BCP-47 locale tag such as "en-IN" or "hi". The
// region subtag wins when present; otherwise a handful of common language
// prefixes are mapped before falling back to Default.
func FromLocale(locale string) Currency {
	parts := strings.SplitN(locale, "-", 2)
	if len(parts) == 2 {
		if c, ok := byRegion[strings.ToUpper(parts[1])]; ok {
			return c
		}
	}

	switch {
	case strings.HasPrefix(locale, "hi"):
		return byRegion["IN"]
	case strings.HasPrefix(locale, "ja"):
		return byRegion["JP"]
	case strings.HasPrefix(locale, "zh"):
		return byRegion["CN"]
	case strings.HasPrefix(locale, "ko"):
		return byRegion["KR"]
	case strings.HasPrefix(locale, "de"), strings.HasPrefix(locale, "fr"),
		strings.HasPrefix(locale, "es"), strings.HasPrefix(locale, "it"):
		return byRegion["EU"]
	}
	return Default
}

// Format renders an amount with the currency symbol, comma thousands
// grouping, and at most two decimal places. Whole amounts drop the decimal
// part: Format(1234.5, INR) is "₹1,234.50", Format(1000, INR) is "₹1,000".
func Format(amount float64, c Currency) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(c.Symbol)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
