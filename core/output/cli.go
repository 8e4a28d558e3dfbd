package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"tvm/core/request"
	"tvm/core/tvm"
	"tvm/core/ui"
)

// CLIFormatter writes a human readable summary, plus an amortization
// table when the report carries one.
type CLIFormatter struct {
	display Display
}

// NewCLIFormatter creates a CLI formatter
func NewCLIFormatter(display Display) *CLIFormatter {
	return &CLIFormatter{display: display}
}

// Format returns the format type
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

var labels = map[tvm.Variable]string{
	tvm.PresentValue: "pv",
	tvm.FutureValue:  "fv",
	tvm.Payment:      "pmt",
	tvm.Rate:         "r",
	tvm.Periods:      "N",
}

const labelWidth = 3

// Render writes each report in turn
func (f *CLIFormatter) Render(w io.Writer, reports []*request.Report) error {
	out := ui.NewWriter(w, f.display.NoColor)
	if f.display.Verbose {
		out.SetVerbosity(2)
	}
	for _, r := range reports {
		f.renderReport(out, r)
	}
	return nil
}

func (f *CLIFormatter) renderReport(out *ui.Writer, r *request.Report) {
	if r.Name != "" {
		out.Header(r.Name)
	}

	for _, v := range tvm.Variables {
		out.Field(labels[v], f.display.Value(v, r.Values.Get(v)), labelWidth, v == r.Solved)
	}

	out.Println("")
	out.Note("%d periods per year, payments at period %s", r.Frequency, r.Timing)
	out.Note("effective annual rate %s", f.display.Value(tvm.Rate, r.EffectiveRate))
	out.Note("total payments %s, net interest %s",
		f.display.Amount(r.TotalPayments), f.display.Amount(r.NetInterest))
	if r.Iterations > 0 {
		out.Debug("rate converged in %d iterations", r.Iterations)
	}

	if len(r.Schedule) > 0 {
		out.Println("")
		f.renderSchedule(out.Out(), r.Schedule)
	}
}

func (f *CLIFormatter) renderSchedule(w io.Writer, rows []tvm.ScheduleRow) {
	table := tablewriter.NewWriter(w)
	table.Header("Period", "Opening", "Payment", "Interest", "Principal", "Closing")

	for _, row := range rows {
		table.Append(
			strconv.Itoa(row.Period),
			f.display.Amount(row.Opening),
			f.display.Amount(row.Payment),
			f.display.Amount(row.Interest),
			f.display.Amount(row.Principal),
			f.display.Amount(row.Closing),
		)
	}

	payments, interest := tvm.Totals(rows)
	table.Footer("Total", "", f.display.Amount(payments), f.display.Amount(interest), "", "")
	table.Render()
}
