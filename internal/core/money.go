package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// displayLocale is the locale every amount is rendered in. The front-ends this
// API serves format currency for Mexican Spanish users.
var displayLocale = language.MustParse("es-MX")

var displayPrinter = message.NewPrinter(displayLocale)

// ParseAmount converts a display-formatted whole-currency string into an exact
// numeric value. Every character that is not a digit is stripped, so currency
// symbols, grouping separators, and stray input are all tolerated. An empty or
// unparseable string yields zero; this never fails. Malformed input is a
// validation-time concern, not a typing-time one.
func ParseAmount(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDecimal is ParseAmount for fields that accept fractional values
// (unit prices). Digits and the first decimal point survive; everything
// else is stripped.
func ParseDecimal(raw string) decimal.Decimal {
	var b strings.Builder
	seenPoint := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenPoint:
			seenPoint = true
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders a value with locale grouping and the given number of
// fraction digits: 0 for editable currency inputs, 2 for report display.
// Rounding to fracDigits happens here and only here; arithmetic upstream
// stays exact.
func FormatAmount(v decimal.Decimal, fracDigits int) string {
	return FormatAmountIn(v, displayLocale, fracDigits)
}

// FormatAmountIn is FormatAmount for an explicit locale. Rendering works on
// the decimal's own string form; a float64 round trip would corrupt values
// above 2^53 and break parse/format idempotence for large amounts.
func FormatAmountIn(v decimal.Decimal, locale language.Tag, fracDigits int) string {
	group, point := displayGroup, displayPoint
	if locale != displayLocale {
		group, point = localeMarks(message.NewPrinter(locale))
	}

	s := v.StringFixed(int32(fracDigits))
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(group)
		}
		b.WriteByte(intPart[i])
	}
	if fracDigits > 0 {
		b.WriteString(point)
		b.WriteString(fracPart)
	}
	return b.String()
}

var displayGroup, displayPoint = localeMarks(displayPrinter)

// localeMarks reads the grouping and decimal marks out of the locale's own
// formatter by probing it with a known value, so the CLDR tables stay the
// single source of truth for them.
func localeMarks(p *message.Printer) (group, point string) {
	group, point = ",", "."
	probe := p.Sprintf("%v", number.Decimal(1234567.8,
		number.MinFractionDigits(1), number.MaxFractionDigits(1)))

	var marks []string
	var cur strings.Builder
	for _, r := range probe {
		if r >= '0' && r <= '9' {
			if cur.Len() > 0 {
				marks = append(marks, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	switch {
	case len(marks) >= 2:
		group, point = marks[0], marks[len(marks)-1]
	case len(marks) == 1:
		point = marks[0]
	}
	return group, point
}
