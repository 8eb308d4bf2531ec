package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatIDR formats an amount as Indonesian rupiah without decimals.
// Example: 1234567.8 => "Rp 1.234.568"; -500 => "-Rp 500".
func FormatIDR(v float64) string {
	s := FormatIDNumber(v, 0)
	if strings.HasPrefix(s, "-") {
		return "-Rp " + s[1:]
	}
	return "Rp " + s
}

// FormatIDNumber formats a number using Indonesian locale conventions:
// dot as thousands separator and comma as decimal separator.
// When the fractional part is zero after rounding, the decimal part is omitted.
// Example: 1234.5 (2 decimals) => "1.234,50"; 1000.0 => "1.000".
func FormatIDNumber(v float64, decimals int32) string {
	if decimals < 0 {
		decimals = 0
	}

	d := decimal.NewFromFloat(v).Round(decimals)
	neg := d.IsNegative()
	d = d.Abs()

	intPart := d.Truncate(0)
	fracPart := d.Sub(intPart)

	s := groupThousands(intPart.String())

	prefix := ""
	if neg {
		prefix = "-"
	}

	if decimals == 0 || fracPart.IsZero() {
		return prefix + s
	}

	// StringFixed yields "0.xx"; keep the digits after the point.
	frac := fracPart.StringFixed(decimals)
	return prefix + s + "," + frac[strings.IndexByte(frac, '.')+1:]
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a percentage with two decimals, e.g. "93.33%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}
