package core_test

import (
	"testing"

	"erp-backoffice/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"plain digits", "12345", 12345},
		{"thousands separator", "12,345", 12345},
		{"currency symbol and grouping", "$1,234,567", 1234567},
		{"empty", "", 0},
		{"garbage", "abc", 0},
		{"partial input mid-typing", "12,", 12},
		{"spaces", " 9 000 ", 9000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ParseAmount(tt.raw)
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "10.50", "10.5"},
		{"currency formatted", "$1,234.56", "1234.56"},
		{"second point dropped", "1.2.3", "1.23"},
		{"trailing point", "12.", "12"},
		{"empty", "", "0"},
		{"lone point", ".", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, _ := decimal.NewFromString(tt.want)
			got := core.ParseDecimal(tt.raw)
			if !got.Equal(want) {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatAmount_Grouping(t *testing.T) {
	got := core.FormatAmount(decimal.NewFromInt(12345), 0)
	if got != "12,345" {
		t.Errorf("FormatAmount(12345, 0) = %q, want %q", got, "12,345")
	}

	got = core.FormatAmount(decimal.RequireFromString("1234.5"), 2)
	if got != "1,234.50" {
		t.Errorf("FormatAmount(1234.5, 2) = %q, want %q", got, "1,234.50")
	}

	got = core.FormatAmount(decimal.RequireFromString("-1234.5"), 2)
	if got != "-1,234.50" {
		t.Errorf("FormatAmount(-1234.5, 2) = %q, want %q", got, "-1,234.50")
	}
}

// Values past float64's 2^53 integer ceiling must render digit-exact.
func TestFormatAmount_LargeValuesExact(t *testing.T) {
	v := decimal.RequireFromString("9007199254740993") // 2^53 + 1
	got := core.FormatAmount(v, 0)
	if got != "9,007,199,254,740,993" {
		t.Errorf("FormatAmount(2^53+1, 0) = %q", got)
	}
	if !core.ParseAmount(got).Equal(v) {
		t.Errorf("round trip of 2^53+1 lost precision: %s", core.ParseAmount(got))
	}
}

// Parsing a formatted value must round-trip: parse(format(parse(s))) == parse(s).
func TestNormalizer_Idempotence(t *testing.T) {
	inputs := []string{"12,345", "$9,000", "0", "", "777", "1,000,000"}
	for _, s := range inputs {
		first := core.ParseAmount(s)
		again := core.ParseAmount(core.FormatAmount(first, 0))
		if !first.Equal(again) {
			t.Errorf("round trip of %q: %s != %s", s, first, again)
		}
	}
}
