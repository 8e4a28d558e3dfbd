package tvm

import (
	"fmt"
	"math"

	"tvm/internal/errors"
)

// Solve computes the one unset field of in.
func Solve(in Inputs, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	unknown, err := validate(in)
	if err != nil {
		return nil, err
	}

	v := Values{}
	for _, name := range Variables {
		if p := in.Get(name); p != nil {
			setValue(&v, name, *p)
		}
	}

	result := &Result{Solved: unknown, Timing: opts.Timing}
	var value float64

	switch unknown {
	case FutureValue:
		value = FutureValueOf(v.PresentValue, v.Payment, v.Rate, v.Periods, opts.Timing)
	case PresentValue:
		value = PresentValueOf(v.FutureValue, v.Payment, v.Rate, v.Periods, opts.Timing)
	case Payment:
		value, err = PaymentOf(v.PresentValue, v.FutureValue, v.Rate, v.Periods, opts.Timing)
		if errors.IsType(err, errors.TypeDivisionByZero) {
			err = errors.Wrap(errors.TypeInvalidInput, "payment is undefined for these values", err)
		}
	case Periods:
		value, err = PeriodsOf(v.PresentValue, v.FutureValue, v.Payment, v.Rate, opts.Timing)
	case Rate:
		value, result.Iterations, err = RateOf(v.PresentValue, v.FutureValue, v.Payment, v.Periods, opts)
	}
	if err != nil {
		return nil, annotate(err, unknown, in)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, annotate(errors.NoSolution("result is not a finite number"), unknown, in)
	}

	setValue(&v, unknown, value)
	result.Value = value
	result.Values = v
	result.Residual = Residual(v, opts.Timing)
	return result, nil
}

// FutureValueOf solves the relation for fv.
func FutureValueOf(pv, pmt, r, n float64, t Timing) float64 {
	if isZeroRate(r) {
		return -(pv + pmt*n)
	}
	g, _ := growth(r, n)
	return -(pv*g + pmt*timingFactor(r, t)*annuityFactor(r, n))
}

// PresentValueOf solves the relation for pv.
func PresentValueOf(fv, pmt, r, n float64, t Timing) float64 {
	if isZeroRate(r) {
		return -(fv + pmt*n)
	}
	g, _ := growth(r, n)
	return -(fv + pmt*timingFactor(r, t)*annuityFactor(r, n)) / g
}

// PaymentOf solves the relation for pmt. A zero annuity factor, which only
// happens when n is zero, is reported as a division by zero.
func PaymentOf(pv, fv, r, n float64, t Timing) (float64, error) {
	denom := timingFactor(r, t) * annuityFactor(r, n)
	if denom == 0 {
		return 0, errors.DivisionByZero("annuity factor is zero")
	}
	if isZeroRate(r) {
		return -(pv + fv) / denom, nil
	}
	g, _ := growth(r, n)
	return -(pv*g + fv) / denom, nil
}

// PeriodsOf solves the relation for n.
func PeriodsOf(pv, fv, pmt, r float64, t Timing) (float64, error) {
	if isZeroRate(r) {
		if pmt == 0 {
			return 0, errors.NoSolution("with no interest and no payment the balance never changes")
		}
		n := -(pv + fv) / pmt
		if n <= 0 {
			return 0, errors.NoSolution("the payment moves the balance away from the future value")
		}
		return n, nil
	}

	c := pmt * timingFactor(r, t) / r
	den := pv + c
	scale := math.Max(math.Abs(pv), math.Abs(c))
	if math.Abs(den) <= 1e-12*scale || den == 0 {
		return 0, errors.NoSolution("the payment exactly covers the interest, so the principal never changes")
	}
	// (1+r)^n = (c - fv)/(pv + c); take the log of 1 + (ratio - 1)
	growthLessOne := -(pv + fv) / den
	if growthLessOne <= -1 {
		return 0, errors.NoSolution("the balance never reaches the future value")
	}
	n := math.Log1p(growthLessOne) / math.Log1p(r)
	if !(n > 0) {
		return 0, errors.NoSolution("the future value would have been reached before the first period")
	}
	return n, nil
}

func validate(in Inputs) (Variable, error) {
	missing := in.Missing()
	if len(missing) != 1 {
		return "", errors.InvalidInput("specify exactly four of the five values").
			WithContext("unset", len(missing))
	}
	unknown := missing[0]

	for _, name := range Variables {
		p := in.Get(name)
		if p == nil {
			continue
		}
		if math.IsNaN(*p) || math.IsInf(*p, 0) {
			return "", errors.Newf(errors.TypeInvalidInput, "%s must be a finite number", name.Description()).
				WithContext("solving", string(unknown)).
				WithContext(string(name), *p)
		}
	}
	if in.Periods != nil && *in.Periods <= 0 {
		return "", errors.InvalidInput("periods must be positive").
			WithContext("solving", string(unknown)).
			WithContext("periods", *in.Periods)
	}
	if in.Rate != nil && *in.Rate <= -1 {
		return "", errors.InvalidInput("rate must be greater than -100% per period").
			WithContext("solving", string(unknown)).
			WithContext("rate", *in.Rate)
	}
	return unknown, nil
}

// annotate attaches the unknown and the given inputs to a solver error.
func annotate(err error, unknown Variable, in Inputs) error {
	e, ok := errors.As(err)
	if !ok {
		return errors.Internal(fmt.Sprintf("solving for %s", unknown.Description()), err)
	}
	e.WithContext("solving", string(unknown))
	for _, name := range Variables {
		if p := in.Get(name); p != nil {
			e.WithContext(string(name), *p)
		}
	}
	return e
}

func setValue(v *Values, name Variable, value float64) {
	switch name {
	case PresentValue:
		v.PresentValue = value
	case FutureValue:
		v.FutureValue = value
	case Payment:
		v.Payment = value
	case Rate:
		v.Rate = value
	case Periods:
		v.Periods = value
	}
}
