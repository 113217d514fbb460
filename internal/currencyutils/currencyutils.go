// Package currencyutils parses user-entered amounts and formats amounts for display in the
// locale associated with the selected currency.
package currencyutils

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"fjacquet/pocket-budget/internal/budgeterror"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	symbolPattern    = regexp.MustCompile(`[€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪\s\x{00A0}\x{202F}']`)
	codePattern      = regexp.MustCompile(`[A-Za-z]{3}`)
	dotGroupsPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3}){2,}$`)
)

// localeByCurrency is the display locale used for each supported currency.
var localeByCurrency = map[string]string{
	"USD": "en-US",
	"EUR": "de-DE",
	"GBP": "en-GB",
	"JPY": "ja-JP",
	"INR": "en-IN",
	"AUD": "en-AU",
	"CAD": "en-CA",
	"LKR": "si-LK",
	"CNY": "zh-CN",
	"SGD": "en-SG",
	"MYR": "ms-MY",
	"THB": "th-TH",
	"IDR": "id-ID",
	"PHP": "en-PH",
	"VND": "vi-VN",
	"KRW": "ko-KR",
	"AED": "ar-AE",
	"SAR": "ar-SA",
	"QAR": "ar-QA",
}

// DefaultLocale is used for currencies without an entry in the locale table.
var DefaultLocale = language.AmericanEnglish

// ParseAmount parses a string representation of an amount into a decimal value.
// It handles formats like "1,234.56", "1.234,56", "1'234.56", "€12" and "CHF 12.50".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, fmt.Errorf("failed to parse amount: empty input")
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount strips currency markers and grouping so the result can be parsed by
// decimal.NewFromString. Whichever of ',' and '.' comes last is taken as the decimal separator.
func StandardizeAmount(amountStr string) string {
	amountStr = codePattern.ReplaceAllString(amountStr, "")
	amountStr = symbolPattern.ReplaceAllString(amountStr, "")

	hasComma := strings.Contains(amountStr, ",")
	hasDot := strings.Contains(amountStr, ".")

	switch {
	case hasComma && hasDot:
		if strings.LastIndex(amountStr, ".") < strings.LastIndex(amountStr, ",") {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
			amountStr = strings.ReplaceAll(amountStr, ",", ".")
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasComma:
		parts := strings.Split(amountStr, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			amountStr = strings.Replace(amountStr, ",", ".", 1)
		} else {
			amountStr = strings.ReplaceAll(amountStr, ",", "")
		}
	case hasDot:
		if dotGroupsPattern.MatchString(amountStr) {
			amountStr = strings.ReplaceAll(amountStr, ".", "")
		}
	}

	return amountStr
}

// NormalizeCode extracts and validates the ISO-4217 code from input. Both "EUR" and display labels
// such as "EUR - Euro" are accepted.
func NormalizeCode(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	code := trimmed
	if i := strings.IndexAny(code, " -"); i >= 0 {
		code = code[:i]
	}
	code = strings.ToUpper(code)

	if len(code) != 3 {
		return "", budgeterror.NewValidation("currency", trimmed, "expected a three-letter ISO 4217 code")
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", budgeterror.NewValidation("currency", trimmed, "unknown ISO 4217 code")
	}
	return unit.String(), nil
}

// LocaleFor returns the display locale for a currency code.
func LocaleFor(code string) language.Tag {
	if loc, ok := localeByCurrency[strings.ToUpper(code)]; ok {
		return language.MustParse(loc)
	}
	return DefaultLocale
}

// Scale returns the number of decimals conventionally shown for a currency.
func Scale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// FormatNumber formats amount with the grouping and decimal separators of the currency's locale,
// without any currency marker.
func FormatNumber(amount decimal.Decimal, code string) string {
	scale := Scale(code)
	p := message.NewPrinter(LocaleFor(code))
	return p.Sprint(number.Decimal(amount.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// FormatAmount formats amount for display in the given currency, e.g. "$1,234.50" or
// "€ 1.234,50". Unknown codes are shown as "<code> 1234.50".
func FormatAmount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return amount.StringFixed(2)
		}
		return code + " " + amount.StringFixed(2)
	}

	tag := LocaleFor(code)
	symbol := message.NewPrinter(tag).Sprint(currency.Symbol(unit))
	if symbol == "" {
		symbol = unit.String()
	}

	formatted := FormatNumber(amount, code)
	if utf8.RuneCountInString(symbol) > 1 {
		return symbol + " " + formatted
	}
	return symbol + formatted
}

// SupportedCodes lists the currencies with a dedicated display locale, sorted.
func SupportedCodes() []string {
	codes := make([]string, 0, len(localeByCurrency))
	for code := range localeByCurrency {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
