// Package amount extracts currency-tagged monetary amounts from free text
// and formats them for display.
package amount

import (
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency identifies one of the supported currencies.
type Currency string

const (
	USD Currency = "USD"
	KHR Currency = "KHR"
)

// Places returns the number of fractional digits displayed for the currency.
func (c Currency) Places() int32 {
	if c == KHR {
		return 0
	}
	return 2
}

// Amount is a single monetary mention found in a message.
type Amount struct {
	Currency Currency
	Value    decimal.Decimal
}

// Separators and digits follow Unicode: any space separator may sit between
// the tag and the number, and digits after the first may be from any script.
const (
	space      = `[\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]*`
	usdNumeral = `([0-9][\p{Nd},]*(?:\.\p{Nd}{1,2})?)`
	khrNumeral = `([0-9][\p{Nd},]*)`
)

type patternSet struct {
	currency Currency
	patterns []*regexp.Regexp
}

// Order matters: every USD pattern is scanned over the whole text before any
// KHR pattern, and matches of different patterns are never deduplicated.
var patternSets = []patternSet{
	{
		currency: USD,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\$` + space + usdNumeral),
			regexp.MustCompile(`(?i)USD` + space + usdNumeral),
			regexp.MustCompile(`(?i)` + usdNumeral + space + `USD`),
		},
	},
	{
		currency: KHR,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)៛` + space + khrNumeral),
			regexp.MustCompile(`(?i)KHR` + space + khrNumeral),
			regexp.MustCompile(`(?i)` + khrNumeral + space + `KHR`),
		},
	},
}

// Extract returns every amount mentioned in text, USD matches first, then KHR.
// A span matched by two patterns of the same currency yields two entries.
func Extract(text string) []Amount {
	var amounts []Amount
	if text == "" {
		return amounts
	}

	for _, set := range patternSets {
		for _, re := range set.patterns {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				v, err := parseNumeral(m[1])
				if err != nil {
					continue
				}
				amounts = append(amounts, Amount{Currency: set.currency, Value: v})
			}
		}
	}
	return amounts
}

// parseNumeral drops grouping commas and reads digits of any script by
// their decimal value.
func parseNumeral(s string) (decimal.Decimal, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ',':
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case unicode.Is(unicode.Nd, r):
			b.WriteRune('0' + digitValue(r))
		default:
			b.WriteRune(r)
		}
	}
	return decimal.NewFromString(b.String())
}

// digitValue returns the value of a decimal digit rune. Every Unicode Nd block
// is a run of whole zero-to-nine sequences, so the value is the offset from the
// start of the run modulo ten.
func digitValue(r rune) rune {
	start := r
	for unicode.Is(unicode.Nd, start-1) {
		start--
	}
	return (r - start) % 10
}

// Format renders v with thousands separators and the currency's fixed number
// of fractional digits, e.g. "1,234.50" for USD and "5,000" for KHR.
func Format(c Currency, v decimal.Decimal) string {
	fixed := v.StringFixed(c.Places())

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, hasFrac := strings.Cut(fixed, ".")
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return sign + fixed
	}

	out := sign + humanize.BigComma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}
