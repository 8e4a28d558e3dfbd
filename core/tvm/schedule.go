package tvm

import (
	"math"

	"tvm/internal/errors"
)

// MaxScheduleRows caps amortization tables at 100 years of monthly periods.
const MaxScheduleRows = 1200

// ScheduleRow is one period of an amortization table
type ScheduleRow struct {
	Period    int     `json:"period"`
	Opening   float64 `json:"opening"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Closing   float64 `json:"closing"`
}

// Schedule walks the balance of a solved set of values one period at a
// time. The balance starts at pv and finishes at -fv.
func Schedule(v Values, t Timing) ([]ScheduleRow, error) {
	rows := math.Round(v.Periods)
	if math.Abs(v.Periods-rows) > 1e-6 {
		return nil, errors.InvalidInput("a schedule needs a whole number of periods").
			WithContext("periods", v.Periods)
	}
	if rows < 1 || rows > MaxScheduleRows {
		return nil, errors.Newf(errors.TypeInvalidInput, "a schedule needs between 1 and %d periods", MaxScheduleRows).
			WithContext("periods", v.Periods)
	}

	schedule := make([]ScheduleRow, 0, int(rows))
	balance := v.PresentValue
	for k := 1; k <= int(rows); k++ {
		row := ScheduleRow{Period: k, Opening: balance, Payment: v.Payment}
		if t == Begin {
			balance += v.Payment
			row.Interest = balance * v.Rate
			balance += row.Interest
		} else {
			row.Interest = balance * v.Rate
			balance += row.Interest + v.Payment
		}
		row.Principal = v.Payment + row.Interest
		row.Closing = balance
		schedule = append(schedule, row)
	}
	return schedule, nil
}

// Totals sums payments and interest over a schedule.
func Totals(rows []ScheduleRow) (payments, interest float64) {
	for _, r := range rows {
		payments += r.Payment
		interest += r.Interest
	}
	return payments, interest
}
