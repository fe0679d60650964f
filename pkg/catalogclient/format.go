package catalogclient

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxPriceDigits keeps parsed prices inside int64.
const maxPriceDigits = 15

var (
	indianTag      = language.MustParse("en-IN")
	indianPrinter  = message.NewPrinter(indianTag)
	indianGrouping = number.PatternOverrides(map[string]string{indianTag.String(): "#,##,##0"})
)

// FormatIndianNumber groups n the Indian way: last three digits, then pairs.
// 1234567 becomes "12,34,567".
func FormatIndianNumber(n int64) string {
	return indianPrinter.Sprint(number.Decimal(n, indianGrouping))
}

// ParseDigits drops every non-digit rune from s and returns the kept digits
// together with their integer value. An input without digits yields ("", 0).
func ParseDigits(s string) (string, int64) {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" && b.Len() > 0 {
		digits = "0"
	}
	if len(digits) > maxPriceDigits {
		digits = digits[:maxPriceDigits]
	}
	if digits == "" {
		return "", 0
	}
	n, _ := strconv.ParseInt(digits, 10, 64)
	return digits, n
}
