package quantity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvm/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		units string
	}{
		{in: "100", value: 100},
		{in: "-2.5", value: -2.5},
		{in: "+7", value: 7},
		{in: "$10k", value: 10000, units: "$"},
		{in: "-$1.2M", value: -1200000, units: "$"},
		{in: "$-1.2M", value: -1200000, units: "$"},
		{in: "$ 250", value: 250, units: "$"},
		{in: "€3.5K", value: 3500, units: "€"},
		{in: "1,250.75", value: 1250.75},
		{in: "6.5%", value: 6.5, units: "%"},
		{in: " 4.25 % ", value: 4.25, units: "%"},
		{in: "1e3", value: 1000},
		{in: "25m", value: 0.025},
		{in: "10 k", value: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, err := Parse(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.value, q.Value, 1e-9)
			assert.Equal(t, tt.units, q.Units)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12x", "1.2.3", "$", "k", "$5%"} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeParsing), "got %v", err)
		})
	}
}

func TestIsPercent(t *testing.T) {
	q, err := Parse("6.5%")
	require.NoError(t, err)
	assert.True(t, q.IsPercent())

	q, err = Parse("6.5")
	require.NoError(t, err)
	assert.False(t, q.IsPercent())
}

func TestMoney(t *testing.T) {
	tests := []struct {
		v      float64
		symbol string
		places int32
		want   string
	}{
		{v: 1234.567, symbol: "$", places: 2, want: "$1,234.57"},
		{v: -1234.567, symbol: "$", places: 2, want: "-$1,234.57"},
		{v: 1896.2043, symbol: "€", places: 2, want: "€1,896.20"},
		{v: 300000, symbol: "$", places: 0, want: "$300,000"},
		{v: 999.995, symbol: "$", places: 2, want: "$1,000.00"},
		{v: -0.001, symbol: "$", places: 2, want: "$0.00"},
		{v: 12, symbol: "", places: 2, want: "12.00"},
		{v: 1234567.891, symbol: "$", places: 2, want: "$1,234,567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.v, tt.symbol, tt.places))
	}
}

func TestSI(t *testing.T) {
	tests := []struct {
		v      float64
		units  string
		digits int
		want   string
	}{
		{v: 10000, units: "$", digits: 3, want: "$10k"},
		{v: -1234567, units: "$", digits: 3, want: "-$1.23M"},
		{v: 999.96, units: "$", digits: 3, want: "$1k"},
		{v: 42, units: "", digits: 4, want: "42"},
		{v: 0.0054, units: "", digits: 3, want: "5.4m"},
		{v: 0, units: "$", digits: 3, want: "$0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SI(tt.v, tt.units, tt.digits))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "6.5%", Percent(0.065, 4))
	assert.Equal(t, "0.9578%", Percent(0.0095783, 4))
	assert.Equal(t, "-12%", Percent(-0.12, 2))
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "360", Plain(360, 4))
	assert.Equal(t, "49.5", Plain(49.5000000001, 4))
	assert.Equal(t, "51.1569", Plain(51.15689, 4))
}
