// Package output provides output formatting interfaces.
// This package produces human and machine-readable outputs.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"tvm/core/quantity"
	"tvm/core/request"
	"tvm/core/tvm"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable summary
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given reports
	Render(w io.Writer, reports []*request.Report) error
}

// Display controls how numbers are written
type Display struct {
	// Currency is the symbol put before amounts
	Currency string

	// Precision is the number of decimal places for amounts
	Precision int

	// SI selects engineering notation ($1.9k) over fixed ($1,896.20)
	SI bool

	// NoColor disables ANSI colors
	NoColor bool

	// Verbose adds solver diagnostics
	Verbose bool
}

// Amount renders a currency amount
func (d Display) Amount(v float64) string {
	if d.SI {
		return quantity.SI(v, d.Currency, 4)
	}
	return quantity.Money(v, d.Currency, int32(d.Precision))
}

// Value renders one of the five quantities. rate is an annual fraction.
func (d Display) Value(name tvm.Variable, v float64) string {
	switch name {
	case tvm.Rate:
		return quantity.Percent(v, 4)
	case tvm.Periods:
		return quantity.Plain(v, 4)
	default:
		return d.Amount(v)
	}
}

// New returns the formatter for a format name
func New(format Format, display Display) (Formatter, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatCLI, "":
		return NewCLIFormatter(display), nil
	case FormatJSON:
		return NewJSONFormatter(display), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(Formats(), " or "))
}

// Formats lists the supported format names
func Formats() []string {
	names := []string{string(FormatCLI), string(FormatJSON)}
	sort.Strings(names)
	return names
}
