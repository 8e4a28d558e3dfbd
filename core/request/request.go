// Package request turns a calculation as a user states it into solver
// inputs, and the solver's answer back into user terms.
//
// Users state amounts in currency units, the interest rate as an annual
// nominal percentage, and the term as a number of periods. The per-period
// rate handed to the solver is annual/100/frequency.
package request

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tvm/core/quantity"
	"tvm/core/tvm"
	"tvm/internal/errors"
)

// Request is one calculation
type Request struct {
	// Name identifies the request in reports; empty for command line use
	Name string

	// Params maps each given variable to its value. A nil value marks the
	// unknown explicitly. Rate is an annual percentage.
	Params map[tvm.Variable]*float64

	// Frequency is the number of periods per year
	Frequency int

	// Timing selects ordinary annuity or annuity-due
	Timing tvm.Timing

	// Schedule requests an amortization table
	Schedule bool
}

var aliases = map[string]tvm.Variable{
	"pv":            tvm.PresentValue,
	"present":       tvm.PresentValue,
	"present_value": tvm.PresentValue,
	"fv":            tvm.FutureValue,
	"future":        tvm.FutureValue,
	"future_value":  tvm.FutureValue,
	"pmt":           tvm.Payment,
	"payment":       tvm.Payment,
	"r":             tvm.Rate,
	"rate":          tvm.Rate,
	"n":             tvm.Periods,
	"periods":       tvm.Periods,
}

// Lookup resolves a parameter name or alias, case-insensitively
func Lookup(name string) (tvm.Variable, bool) {
	v, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Names lists the accepted parameter names
func Names() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseValue reads the value of a parameter. An empty string means the
// parameter is the unknown. Rates may be written with or without a % sign;
// both 6.5 and 6.5% mean six and a half percent a year.
func ParseValue(v tvm.Variable, s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	q, err := quantity.Parse(s)
	if err != nil {
		return nil, err
	}
	if q.IsPercent() && v != tvm.Rate {
		return nil, errors.Parsing(fmt.Sprintf("%s cannot be a percentage: %q", v.Description(), s), nil)
	}
	return tvm.Float(q.Value), nil
}

// ParseAssignments reads name=value arguments. Each variable may be given
// once.
func ParseAssignments(args []string) (map[tvm.Variable]*float64, error) {
	params := make(map[tvm.Variable]*float64, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.Parsing(fmt.Sprintf("expected name=value, got %q", arg), nil)
		}
		v, known := Lookup(name)
		if !known {
			return nil, errors.Parsing(fmt.Sprintf("unknown parameter %q (known: %s)", name, strings.Join(Names(), ", ")), nil)
		}
		if _, dup := params[v]; dup {
			return nil, errors.Parsing(fmt.Sprintf("%s given more than once", v), nil)
		}
		p, err := ParseValue(v, value)
		if err != nil {
			return nil, err
		}
		params[v] = p
	}
	return params, nil
}

// Inputs converts the request into solver inputs
func (r Request) Inputs() (tvm.Inputs, error) {
	if r.Frequency <= 0 {
		return tvm.Inputs{}, errors.InvalidInput("frequency must be positive").WithContext("frequency", r.Frequency)
	}
	var in tvm.Inputs
	for v, p := range r.Params {
		if p == nil {
			continue
		}
		value := *p
		if v == tvm.Rate {
			value = value / 100 / float64(r.Frequency)
		}
		in.Set(v, tvm.Float(value))
	}
	return in, nil
}

// Report is the answer to a request, in user terms
type Report struct {
	Name      string       `json:"name,omitempty"`
	Solved    tvm.Variable `json:"solved"`
	Values    tvm.Values   `json:"values"`
	Frequency int          `json:"frequency"`
	Timing    string       `json:"timing"`

	// PeriodRate is the per-period rate as a fraction
	PeriodRate float64 `json:"period_rate"`

	// EffectiveRate is the annual rate with compounding, as a fraction
	EffectiveRate float64 `json:"effective_rate"`

	// TotalPayments is pmt*n
	TotalPayments float64 `json:"total_payments"`

	// NetInterest is pv + pmt*n + fv; negative when interest is paid
	NetInterest float64 `json:"net_interest"`

	Iterations int               `json:"iterations,omitempty"`
	Residual   float64           `json:"residual"`
	Schedule   []tvm.ScheduleRow `json:"schedule,omitempty"`
}

// Evaluate solves the request and builds a report. Values.Rate in the
// report is the annual nominal rate as a fraction.
func Evaluate(r Request, opts tvm.Options) (*Report, error) {
	in, err := r.Inputs()
	if err != nil {
		return nil, err
	}
	opts.Timing = r.Timing

	res, err := tvm.Solve(in, opts)
	if err != nil {
		if e, ok := errors.As(err); ok {
			// the solver reports the per-period rate; add what the user wrote
			e.WithContext("frequency", r.Frequency)
			if p := r.Params[tvm.Rate]; p != nil {
				e.WithContext("annual_rate", fmt.Sprintf("%g%%", *p))
			}
			if r.Name != "" {
				e.WithContext("scenario", r.Name)
			}
		}
		return nil, err
	}

	v := res.Values
	report := &Report{
		Name:          r.Name,
		Solved:        res.Solved,
		Frequency:     r.Frequency,
		Timing:        r.Timing.String(),
		PeriodRate:    v.Rate,
		EffectiveRate: math.Expm1(float64(r.Frequency) * math.Log1p(v.Rate)),
		TotalPayments: v.Payment * v.Periods,
		NetInterest:   v.PresentValue + v.Payment*v.Periods + v.FutureValue,
		Iterations:    res.Iterations,
		Residual:      res.Residual,
	}

	if r.Schedule {
		rows, err := tvm.Schedule(v, r.Timing)
		if err != nil {
			return nil, err
		}
		report.Schedule = rows
	}

	v.Rate = v.Rate * float64(r.Frequency)
	report.Values = v
	return report, nil
}
