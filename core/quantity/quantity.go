// Package quantity reads and writes numbers with units, such as "$10k",
// "-1.2M", "6.5%" or "1,250.00".
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"tvm/internal/errors"
)

// Quantity is a number and its units
type Quantity struct {
	Value float64
	Units string
}

// IsPercent reports whether the quantity was written with a % suffix
func (q Quantity) IsPercent() bool {
	return q.Units == "%"
}

var currencySymbols = []string{"$", "€", "£", "¥"}

var scaleFactors = map[rune]int32{
	'T': 12,
	'G': 9,
	'M': 6,
	'k': 3,
	'K': 3,
	'm': -3,
	'u': -6,
	'µ': -6,
	'n': -9,
	'p': -12,
}

// Parse reads a quantity. The grammar is
//
//	[sign] [currency] [sign] digits [exponent] [scale] [%]
//
// where digits may be grouped with commas and scale is an SI prefix.
func Parse(s string) (Quantity, error) {
	src := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, errors.Parsing(fmt.Sprintf("empty quantity %q", src), nil)
	}

	var q Quantity
	negative := false
	takeSign := func() {
		if strings.HasPrefix(s, "-") {
			negative = !negative
			s = s[1:]
		} else if strings.HasPrefix(s, "+") {
			s = s[1:]
		}
	}

	takeSign()
	for _, sym := range currencySymbols {
		if strings.HasPrefix(s, sym) {
			q.Units = sym
			s = strings.TrimSpace(strings.TrimPrefix(s, sym))
			takeSign()
			break
		}
	}

	if strings.HasSuffix(s, "%") {
		if q.Units != "" {
			return Quantity{}, errors.Parsing(fmt.Sprintf("quantity %q has both currency and percent", src), nil)
		}
		q.Units = "%"
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	var exp int32
	if r := lastRune(s); r != 0 && !unicode.IsDigit(r) && r != '.' {
		scale, ok := scaleFactors[r]
		if !ok {
			return Quantity{}, errors.Parsing(fmt.Sprintf("unknown scale factor %q in %q", string(r), src), nil)
		}
		exp = scale
		s = strings.TrimSpace(strings.TrimSuffix(s, string(r)))
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return Quantity{}, errors.Parsing(fmt.Sprintf("quantity %q has no digits", src), nil)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, errors.Parsing(fmt.Sprintf("cannot read %q as a number", src), err)
	}
	d = d.Shift(exp)
	if negative {
		d = d.Neg()
	}
	q.Value = d.InexactFloat64()
	if math.IsInf(q.Value, 0) {
		return Quantity{}, errors.Parsing(fmt.Sprintf("quantity %q is out of range", src), nil)
	}
	return q, nil
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r := []rune(s)
	return r[len(r)-1]
}

// Money renders v as a fixed point amount with thousands grouping, for
// example -$1,234.57. Halves round away from zero.
func Money(v float64, symbol string, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(v).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(places)
	whole, frac, hasFrac := strings.Cut(fixed, ".")
	out := sign + symbol + group(whole)
	if hasFrac {
		out += "." + frac
	}
	return out
}

func group(digits string) string {
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
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

var siPrefixes = map[int]string{
	12: "T", 9: "G", 6: "M", 3: "k", 0: "",
	-3: "m", -6: "u", -9: "n", -12: "p",
}

// SI renders v in engineering notation with an SI prefix, for example
// $10k or -1.25M. digits is the number of significant digits kept.
func SI(v float64, units string, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if digits < 1 {
		digits = 1
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	if v == 0 {
		return sign + units + "0"
	}

	d := decimal.NewFromFloat(v)
	// round to significant digits before picking the prefix so 999.96 -> 1k
	mag := int32(math.Floor(math.Log10(v)))
	d = d.Round(int32(digits) - 1 - mag)
	mag = int32(len(d.Truncate(0).String())) - 1
	if d.LessThan(decimal.NewFromInt(1)) {
		mag = int32(math.Floor(math.Log10(d.InexactFloat64())))
	}

	exp := int(math.Floor(float64(mag)/3)) * 3
	if exp > 12 {
		exp = 12
	}
	if exp < -12 {
		exp = -12
	}
	mantissa := d.Shift(int32(-exp))
	text := mantissa.String()
	if strings.Contains(text, ".") {
		text = strings.TrimRight(strings.TrimRight(text, "0"), ".")
	}
	return sign + units + text + siPrefixes[exp]
}

// Percent renders a fraction as a percentage, for example 0.065 -> 6.5%.
// Trailing zeros are dropped.
func Percent(fraction float64, places int32) string {
	if math.IsNaN(fraction) || math.IsInf(fraction, 0) {
		return strconv.FormatFloat(fraction, 'f', -1, 64)
	}
	d := decimal.NewFromFloat(fraction).Shift(2).Round(places)
	return d.String() + "%"
}

// Plain renders v rounded to places with trailing zeros dropped.
func Plain(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).Round(places).String()
}
