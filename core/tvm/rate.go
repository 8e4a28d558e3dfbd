package tvm

import (
	"fmt"
	"math"

	"tvm/internal/errors"
)

const (
	// RateLowerBound is the lowest per-period rate searched. Rates at or
	// below -100% are meaningless.
	RateLowerBound = -0.999

	// RateUpperBound is the highest per-period rate searched.
	RateUpperBound = 1000.0
)

// rateGrid brackets the root. It is dense near zero where loan and savings
// rates live and sparse further out.
var rateGrid = []float64{
	RateLowerBound, -0.9, -0.5, -0.2, -0.1, -0.05, -0.01, -0.001,
	0,
	0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 100,
	RateUpperBound,
}

// RateOf solves the relation for the per-period rate. It returns the rate
// and the number of iterations used.
func RateOf(pv, fv, pmt, n float64, opts Options) (float64, int, error) {
	opts = opts.withDefaults()
	f := func(r float64) float64 { return scaledResidual(pv, fv, pmt, r, n, opts.Timing) }
	df := func(r float64) float64 { return scaledResidualDerivative(pv, fv, pmt, r, n, opts.Timing) }

	lo, hi, flo, fhi, ok := bracket(f, opts.Guess)
	if !ok {
		return 0, 0, errors.NoSolution("no rate between -99.9% and 100000% per period balances the cash flows").
			WithContext("search_low", RateLowerBound).
			WithContext("search_high", RateUpperBound)
	}
	if flo == 0 {
		return lo, 0, nil
	}
	if fhi == 0 {
		return hi, 0, nil
	}
	// orient so that f(lo) < 0
	if flo > 0 {
		lo, hi = hi, lo
	}

	x := opts.Guess
	if !(x > math.Min(lo, hi) && x < math.Max(lo, hi)) {
		x = (lo + hi) / 2
	}
	dxOld := math.Abs(hi - lo)
	dx := dxOld
	fx := f(x)
	dfx := df(x)

	for i := 1; i <= opts.MaxIterations; i++ {
		outside := ((x-hi)*dfx-fx)*((x-lo)*dfx-fx) > 0
		slow := math.Abs(2*fx) > math.Abs(dxOld*dfx)
		if outside || slow || dfx == 0 || math.IsNaN(dfx) {
			dxOld = dx
			dx = (hi - lo) / 2
			x = lo + dx
		} else {
			dxOld = dx
			dx = fx / dfx
			x -= dx
		}
		if math.Abs(dx) < opts.Tolerance {
			return x, i, nil
		}

		fx = f(x)
		dfx = df(x)
		if fx == 0 {
			return x, i, nil
		}
		if fx < 0 {
			lo = x
		} else {
			hi = x
		}
	}

	residual := Residual(Values{PresentValue: pv, FutureValue: fv, Payment: pmt, Rate: x, Periods: n}, opts.Timing)
	return 0, opts.MaxIterations, errors.Convergence(fmt.Sprintf("rate did not converge after %s", iterations(opts.MaxIterations))).
		WithContext("last_rate", x).
		WithContext("residual", residual).
		WithContext("iterations", opts.MaxIterations)
}

// bracket finds adjacent grid points where f changes sign. When the cash
// flows change sign more than once there can be several; the one nearest
// guess wins.
func bracket(f func(float64) float64, guess float64) (lo, hi, flo, fhi float64, ok bool) {
	best := math.Inf(1)
	prev := rateGrid[0]
	fprev := f(prev)
	if fprev == 0 {
		lo, hi, flo, fhi, ok = prev, prev, 0, 0, true
		best = math.Abs(prev - guess)
	}
	for _, r := range rateGrid[1:] {
		fr := f(r)
		if math.IsNaN(fr) {
			continue
		}
		if fr == 0 || (fr < 0) != (fprev < 0) {
			d := 0.0
			if guess < prev {
				d = prev - guess
			} else if guess > r {
				d = guess - r
			}
			if d < best {
				lo, hi, flo, fhi, ok = prev, r, fprev, fr, true
				best = d
			}
		}
		prev, fprev = r, fr
	}
	return lo, hi, flo, fhi, ok
}

func iterations(n int) string {
	if n == 1 {
		return "1 iteration"
	}
	return fmt.Sprintf("%d iterations", n)
}
