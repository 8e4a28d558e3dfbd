package tvm

import "math"

// zeroRateEpsilon is the band around r = 0 where the linear relation
// replaces the general one.
const zeroRateEpsilon = 1e-12

func isZeroRate(r float64) bool {
	return math.Abs(r) < zeroRateEpsilon
}

// growth returns (1+r)^n and (1+r)^n - 1 without cancellation for small r.
func growth(r, n float64) (g, gm1 float64) {
	x := n * math.Log1p(r)
	return math.Exp(x), math.Expm1(x)
}

// annuityFactor is ((1+r)^n - 1)/r, the future value of n unit payments
// made at the end of each period. It tends to n as r tends to 0.
func annuityFactor(r, n float64) float64 {
	if isZeroRate(r) {
		return n
	}
	_, gm1 := growth(r, n)
	return gm1 / r
}

// timingFactor scales payments made at the start of a period by one extra
// period of interest.
func timingFactor(r float64, t Timing) float64 {
	if t == Begin {
		return 1 + r
	}
	return 1
}

// Residual evaluates pv*(1+r)^n + pmt*(1+r*w)*((1+r)^n-1)/r + fv, which
// is zero for a consistent set of values.
func Residual(v Values, t Timing) float64 {
	r, n := v.Rate, v.Periods
	if isZeroRate(r) {
		return v.PresentValue + v.Payment*n + v.FutureValue
	}
	g, _ := growth(r, n)
	return v.PresentValue*g + v.Payment*timingFactor(r, t)*annuityFactor(r, n) + v.FutureValue
}

// scaledResidual is Residual divided by (1+r)^n for r > 0. It has the same
// sign and roots as Residual but stays finite for large r and n.
func scaledResidual(pv, fv, pmt, r, n float64, t Timing) float64 {
	if r <= 0 || isZeroRate(r) {
		return Residual(Values{PresentValue: pv, FutureValue: fv, Payment: pmt, Rate: r, Periods: n}, t)
	}
	q := math.Exp(-n * math.Log1p(r))
	return pv + pmt*timingFactor(r, t)*(-math.Expm1(-n*math.Log1p(r)))/r + fv*q
}

// scaledResidualDerivative is d/dr of scaledResidual.
func scaledResidualDerivative(pv, fv, pmt, r, n float64, t Timing) float64 {
	w := 0.0
	if t == Begin {
		w = 1
	}
	if isZeroRate(r) {
		// derivative of the unscaled relation at r = 0
		return pv*n + pmt*(w*n+n*(n-1)/2)
	}
	if r < 0 {
		g, gm1 := growth(r, n)
		dg := n * g / (1 + r)
		a := gm1 / r
		da := (dg*r - gm1) / (r * r)
		return pv*dg + pmt*(w*a+(1+r*w)*da)
	}
	lq := -n * math.Log1p(r)
	q := math.Exp(lq)
	oneMinusQ := -math.Expm1(lq)
	dq := -n * q / (1 + r)
	b := oneMinusQ / r
	db := (-dq*r - oneMinusQ) / (r * r)
	return pmt*(w*b+(1+r*w)*db) + fv*dq
}
