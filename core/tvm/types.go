// Package tvm solves the fixed-rate annuity equation for whichever of its
// five quantities is left unspecified.
//
// The sign convention is that of cash flows: money received is positive and
// money paid out is negative. A borrower taking a 1000 loan has pv = 1000 and
// a negative payment; the lender sees the same numbers with signs flipped.
package tvm

import (
	"fmt"
	"strings"
)

// Variable names one of the five annuity quantities
type Variable string

const (
	PresentValue Variable = "pv"
	FutureValue  Variable = "fv"
	Payment      Variable = "pmt"
	Rate         Variable = "rate"
	Periods      Variable = "periods"
)

// Variables lists the quantities in display order
var Variables = []Variable{PresentValue, FutureValue, Payment, Rate, Periods}

// Description returns a human label
func (v Variable) Description() string {
	switch v {
	case PresentValue:
		return "present value"
	case FutureValue:
		return "future value"
	case Payment:
		return "payment"
	case Rate:
		return "rate"
	case Periods:
		return "periods"
	default:
		return string(v)
	}
}

// Timing selects when in each period the payment is made
type Timing int

const (
	// End is the ordinary annuity: payments at the end of each period
	End Timing = iota
	// Begin is the annuity-due: payments at the start of each period
	Begin
)

// String returns the timing name
func (t Timing) String() string {
	if t == Begin {
		return "begin"
	}
	return "end"
}

// ParseTiming accepts "end" or "begin" and a few common synonyms
func ParseTiming(s string) (Timing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end", "ordinary", "arrears":
		return End, nil
	case "begin", "start", "due", "advance":
		return Begin, nil
	}
	return End, fmt.Errorf("unknown payment timing %q (want end or begin)", s)
}

// Inputs holds the five quantities. Exactly one must be nil.
type Inputs struct {
	PresentValue *float64 `json:"pv,omitempty"`
	FutureValue  *float64 `json:"fv,omitempty"`
	Payment      *float64 `json:"pmt,omitempty"`
	Rate         *float64 `json:"rate,omitempty"`
	Periods      *float64 `json:"periods,omitempty"`
}

// Float returns a pointer to v, for building Inputs literals
func Float(v float64) *float64 {
	return &v
}

// Get returns the field for a variable
func (in Inputs) Get(v Variable) *float64 {
	switch v {
	case PresentValue:
		return in.PresentValue
	case FutureValue:
		return in.FutureValue
	case Payment:
		return in.Payment
	case Rate:
		return in.Rate
	case Periods:
		return in.Periods
	}
	return nil
}

// Set assigns the field for a variable
func (in *Inputs) Set(v Variable, value *float64) {
	switch v {
	case PresentValue:
		in.PresentValue = value
	case FutureValue:
		in.FutureValue = value
	case Payment:
		in.Payment = value
	case Rate:
		in.Rate = value
	case Periods:
		in.Periods = value
	}
}

// Missing returns the variables that are unset
func (in Inputs) Missing() []Variable {
	var missing []Variable
	for _, v := range Variables {
		if in.Get(v) == nil {
			missing = append(missing, v)
		}
	}
	return missing
}

// Values is a fully specified quintuple
type Values struct {
	PresentValue float64 `json:"pv"`
	FutureValue  float64 `json:"fv"`
	Payment      float64 `json:"pmt"`
	Rate         float64 `json:"rate"`
	Periods      float64 `json:"periods"`
}

// Get returns the value of a variable
func (v Values) Get(name Variable) float64 {
	switch name {
	case PresentValue:
		return v.PresentValue
	case FutureValue:
		return v.FutureValue
	case Payment:
		return v.Payment
	case Rate:
		return v.Rate
	case Periods:
		return v.Periods
	}
	return 0
}

// Options tunes the solver
type Options struct {
	// Tolerance is the convergence threshold on successive rate iterates
	Tolerance float64

	// MaxIterations bounds the rate root-finder
	MaxIterations int

	// Timing selects ordinary annuity or annuity-due
	Timing Timing

	// Guess seeds the rate root-finder; it is clamped into the bracket
	Guess float64
}

const (
	DefaultTolerance     = 1e-10
	DefaultMaxIterations = 100
	DefaultGuess         = 0.01
)

// DefaultOptions returns the standard solver settings
func DefaultOptions() Options {
	return Options{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
		Timing:        End,
		Guess:         DefaultGuess,
	}
}

func (o Options) withDefaults() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Result is the outcome of a solve
type Result struct {
	// Solved is the variable that was computed
	Solved Variable `json:"solved"`

	// Value is the computed value of Solved
	Value float64 `json:"value"`

	// Values echoes the inputs with the solved value filled in
	Values Values `json:"values"`

	// Timing is the payment timing used
	Timing Timing `json:"-"`

	// Iterations is the root-finder iteration count (rate solves only)
	Iterations int `json:"iterations,omitempty"`

	// Residual is the equation's left-hand side at Values
	Residual float64 `json:"residual"`
}
