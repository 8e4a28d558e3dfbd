package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := NoSolution("payment only covers interest").
		WithContext("solving", "periods").
		WithContext("pmt", 10.0)

	assert.Equal(t, "[NO_SOLUTION] payment only covers interest (pmt=10, solving=periods)", err.Error())
}

func TestErrorStringWithCause(t *testing.T) {
	err := Parsing("bad quantity", fmt.Errorf("unexpected %q", "x"))
	assert.Equal(t, `[PARSING_ERROR] bad quantity: unexpected "x"`, err.Error())
}

func TestIsTypeFollowsWrapping(t *testing.T) {
	inner := DivisionByZero("annuity factor is zero")
	outer := Wrap(TypeInvalidInput, "payment is undefined", inner)
	wrapped := fmt.Errorf("solve: %w", outer)

	assert.True(t, IsType(wrapped, TypeInvalidInput))
	assert.True(t, IsType(wrapped, TypeDivisionByZero))
	assert.False(t, IsType(wrapped, TypeConvergence))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInvalidInput))
	assert.False(t, IsType(nil, TypeInvalidInput))
}

func TestAs(t *testing.T) {
	e, ok := As(fmt.Errorf("ctx: %w", Convergence("no luck").WithContext("iterations", 3)))
	require.True(t, ok)
	assert.Equal(t, TypeConvergence, e.Type)
	assert.Equal(t, 3, e.Context["iterations"])
}
