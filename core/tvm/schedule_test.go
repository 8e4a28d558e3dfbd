package tvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm/internal/errors"
)

func TestScheduleEndsAtFutureValue(t *testing.T) {
	for _, timing := range []Timing{End, Begin} {
		t.Run(timing.String(), func(t *testing.T) {
			pmt, err := PaymentOf(10000, -2000, 0.01, 24, timing)
			require.NoError(t, err)

			v := Values{PresentValue: 10000, FutureValue: -2000, Payment: pmt, Rate: 0.01, Periods: 24}
			rows, err := Schedule(v, timing)
			require.NoError(t, err)
			require.Len(t, rows, 24)

			assert.Equal(t, 1, rows[0].Period)
			assert.Equal(t, 10000.0, rows[0].Opening)
			assert.InDelta(t, 2000, rows[23].Closing, 1e-6)

			for i := 1; i < len(rows); i++ {
				assert.Equal(t, rows[i-1].Closing, rows[i].Opening)
			}
		})
	}
}

func TestScheduleFirstRowInterest(t *testing.T) {
	v := Values{PresentValue: 1000, Payment: -100, Rate: 0.02, Periods: 3}

	end, err := Schedule(v, End)
	require.NoError(t, err)
	assert.InDelta(t, 20, end[0].Interest, 1e-12)
	assert.InDelta(t, -80, end[0].Principal, 1e-12)
	assert.InDelta(t, 920, end[0].Closing, 1e-12)

	begin, err := Schedule(v, Begin)
	require.NoError(t, err)
	assert.InDelta(t, 18, begin[0].Interest, 1e-12)
	assert.InDelta(t, 918, begin[0].Closing, 1e-12)
}

func TestScheduleRejectsUnusablePeriods(t *testing.T) {
	for _, n := range []float64{12.5, 0, MaxScheduleRows + 1} {
		_, err := Schedule(Values{PresentValue: 1000, Payment: -100, Rate: 0.01, Periods: n}, End)
		assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "periods %v", n)
	}
}

func TestTotals(t *testing.T) {
	rows, err := Schedule(Values{PresentValue: -1200, Payment: 100, Rate: 0, Periods: 12}, End)
	require.NoError(t, err)

	paid, interest := Totals(rows)
	assert.InDelta(t, 1200, paid, 1e-9)
	assert.Equal(t, 0.0, interest)
	assert.InDelta(t, 0, rows[11].Closing, 1e-9)
}

func TestResidualZeroRateMatchesLimit(t *testing.T) {
	v := Values{PresentValue: -1200, FutureValue: 0, Payment: 100, Periods: 12}
	assert.InDelta(t, 0, Residual(v, End), 1e-12)

	// just outside the linear band the general form must agree closely
	v.Rate = 1e-11
	assert.InDelta(t, 0, Residual(v, End), 1e-6)
}

func TestScaledResidualDerivative(t *testing.T) {
	pv, fv, pmt, n := -1000.0, 50.0, 30.0, 36.0
	for _, timing := range []Timing{End, Begin} {
		for _, r := range []float64{-0.3, -0.01, 0.004, 0.05, 0.8} {
			h := 1e-7
			numeric := (scaledResidual(pv, fv, pmt, r+h, n, timing) - scaledResidual(pv, fv, pmt, r-h, n, timing)) / (2 * h)
			analytic := scaledResidualDerivative(pv, fv, pmt, r, n, timing)
			assert.InEpsilon(t, numeric, analytic, 1e-4, "timing %s rate %v", timing, r)
		}
	}
}
