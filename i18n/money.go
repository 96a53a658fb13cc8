package i18n

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount as "Rp 1.000.000", with ",50" style cents
// only when the amount has a fractional part.
func FormatRupiah(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs().Round(2)
	whole := d.Truncate(0)
	frac := d.Sub(whole).Shift(2).IntPart()

	s := groupThousands(whole.String())
	if frac != 0 {
		s += fmt.Sprintf(",%02d", frac)
	}
	if neg {
		return "-Rp " + s
	}
	return "Rp " + s
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var ones = []string{"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas"}

// Terbilang spells a whole amount in Indonesian words, e.g. 1500 becomes
// "seribu lima ratus". Zero is "nol".
func Terbilang(n int64) string {
	if n == 0 {
		return "nol"
	}
	if n < 0 {
		return "minus " + Terbilang(-n)
	}
	return strings.TrimSpace(spell(n))
}

func spell(n int64) string {
	switch {
	case n < 12:
		return ones[n]
	case n < 20:
		return spell(n-10) + " belas"
	case n < 100:
		return join(spell(n/10)+" puluh", spell(n%10))
	case n < 200:
		return join("seratus", spell(n-100))
	case n < 1000:
		return join(spell(n/100)+" ratus", spell(n%100))
	case n < 2000:
		return join("seribu", spell(n-1000))
	case n < 1_000_000:
		return join(spell(n/1000)+" ribu", spell(n%1000))
	case n < 1_000_000_000:
		return join(spell(n/1_000_000)+" juta", spell(n%1_000_000))
	case n < 1_000_000_000_000:
		return join(spell(n/1_000_000_000)+" miliar", spell(n%1_000_000_000))
	default:
		return join(spell(n/1_000_000_000_000)+" triliun", spell(n%1_000_000_000_000))
	}
}

func join(a, b string) string {
	if b == "" {
		return a
	}
	return a + " " + b
}
