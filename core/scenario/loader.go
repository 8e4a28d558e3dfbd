// Package scenario reads named calculations from HCL files.
//
//	scenario "mortgage" {
//	  pv      = "$300k"
//	  fv      = 0
//	  rate    = "6.5%"
//	  periods = 360
//	}
//
// The attribute left out (or set to "") is solved for. Rates are annual
// percentages, as on the command line.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"tvm/core/request"
	"tvm/core/tvm"
	"tvm/internal/errors"
)

// Scenario is one named calculation from a file
type Scenario struct {
	request.Request

	// Pos is the file:line of the scenario block
	Pos string
}

// Defaults fill in what a scenario does not say
type Defaults struct {
	Frequency int
	Timing    tvm.Timing
}

var fileSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "scenario", LabelNames: []string{"name"}},
	},
}

var scenarioSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "pv"},
		{Name: "fv"},
		{Name: "pmt"},
		{Name: "rate"},
		{Name: "periods"},
		{Name: "frequency"},
		{Name: "timing"},
		{Name: "schedule"},
	},
}

var attributeVariables = map[string]tvm.Variable{
	"pv":      tvm.PresentValue,
	"fv":      tvm.FutureValue,
	"pmt":     tvm.Payment,
	"rate":    tvm.Rate,
	"periods": tvm.Periods,
}

// Loader parses scenario files
type Loader struct {
	parser   *hclparse.Parser
	defaults Defaults
}

// NewLoader creates a loader
func NewLoader(defaults Defaults) *Loader {
	return &Loader{
		parser:   hclparse.NewParser(),
		defaults: defaults,
	}
}

// LoadFile reads every scenario in a file, in file order
func (l *Loader) LoadFile(path string) ([]Scenario, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing(fmt.Sprintf("read %s", path), err)
	}
	return l.Load(src, path)
}

// Load reads every scenario in src; filename is used in messages
func (l *Loader) Load(src []byte, filename string) ([]Scenario, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var scenarios []Scenario
	seen := make(map[string]string)
	for _, block := range content.Blocks {
		name := block.Labels[0]
		pos := fmt.Sprintf("%s:%d", block.DefRange.Filename, block.DefRange.Start.Line)
		if prev, dup := seen[name]; dup {
			return nil, errors.Parsing(fmt.Sprintf("%s: scenario %q already defined at %s", pos, name, prev), nil)
		}
		seen[name] = pos

		s, err := l.decodeScenario(block, pos)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, *s)
	}

	if len(scenarios) == 0 {
		return nil, errors.Parsing(fmt.Sprintf("%s: no scenario blocks", filename), nil)
	}
	return scenarios, nil
}

func (l *Loader) decodeScenario(block *hcl.Block, pos string) (*Scenario, error) {
	body, diags := block.Body.Content(scenarioSchema)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	s := &Scenario{
		Request: request.Request{
			Name:      block.Labels[0],
			Params:    make(map[tvm.Variable]*float64),
			Frequency: l.defaults.Frequency,
			Timing:    l.defaults.Timing,
		},
		Pos: pos,
	}

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(diags)
		}
		at := fmt.Sprintf("%s:%d", attr.Range.Filename, attr.Range.Start.Line)

		switch name {
		case "frequency":
			f, err := ctyFloat(val)
			if err != nil || f != float64(int(f)) || f <= 0 {
				return nil, errors.Parsing(fmt.Sprintf("%s: frequency must be a positive whole number", at), err)
			}
			s.Frequency = int(f)
		case "timing":
			str, err := ctyString(val)
			if err != nil {
				return nil, errors.Parsing(fmt.Sprintf("%s: timing", at), err)
			}
			t, err := tvm.ParseTiming(str)
			if err != nil {
				return nil, errors.Parsing(at, err)
			}
			s.Timing = t
		case "schedule":
			if val.Type() != cty.Bool || val.IsNull() {
				return nil, errors.Parsing(fmt.Sprintf("%s: schedule must be true or false", at), nil)
			}
			s.Schedule = val.True()
		default:
			v := attributeVariables[name]
			p, err := ctyParam(v, val)
			if err != nil {
				return nil, errors.Parsing(fmt.Sprintf("%s: %s", at, name), err)
			}
			s.Params[v] = p
		}
	}
	return s, nil
}

// ctyParam reads a numeric attribute. Numbers are taken as they are;
// strings go through the quantity parser so "$10k" and "6.5%" work.
func ctyParam(v tvm.Variable, val cty.Value) (*float64, error) {
	if val.IsNull() {
		return nil, nil
	}
	switch val.Type() {
	case cty.Number:
		f, err := ctyFloat(val)
		if err != nil {
			return nil, err
		}
		return &f, nil
	case cty.String:
		return request.ParseValue(v, val.AsString())
	}
	return nil, fmt.Errorf("expected a number or string, got %s", val.Type().FriendlyName())
}

func ctyFloat(val cty.Value) (float64, error) {
	if val.IsNull() || val.Type() != cty.Number {
		return 0, fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}

func ctyString(val cty.Value) (string, error) {
	if val.IsNull() || val.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", val.Type().FriendlyName())
	}
	return val.AsString(), nil
}

func diagError(diags hcl.Diagnostics) error {
	var msgs []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		msg := diag.Summary
		if diag.Detail != "" {
			msg += ": " + diag.Detail
		}
		if diag.Subject != nil {
			msg = fmt.Sprintf("%s:%d: %s", diag.Subject.Filename, diag.Subject.Start.Line, msg)
		}
		msgs = append(msgs, msg)
	}
	return errors.Parsing(strings.Join(msgs, "; "), nil)
}

// Select returns the named scenarios in the order asked for, or all of them
// when names is empty.
func Select(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Scenario, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, ok := byName[name]
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("no scenario named %q", name))
		}
		out = append(out, s)
	}
	return out, nil
}
