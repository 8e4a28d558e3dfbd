package output

import (
	"encoding/json"
	"io"

	"tvm/core/request"
	"tvm/core/tvm"
)

// JSONFormatter writes reports as an indented JSON array
type JSONFormatter struct {
	display Display
}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter(display Display) *JSONFormatter {
	return &JSONFormatter{display: display}
}

// Format returns the format type
func (f *JSONFormatter) Format() Format {
	return FormatJSON
}

type jsonReport struct {
	*request.Report
	Display map[tvm.Variable]string `json:"display"`
}

// Render writes the reports. Each carries a "display" object with the
// values as the CLI would print them.
func (f *JSONFormatter) Render(w io.Writer, reports []*request.Report) error {
	out := make([]jsonReport, 0, len(reports))
	for _, r := range reports {
		display := make(map[tvm.Variable]string, len(tvm.Variables))
		for _, v := range tvm.Variables {
			display[v] = f.display.Value(v, r.Values.Get(v))
		}
		out = append(out, jsonReport{Report: r, Display: display})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
