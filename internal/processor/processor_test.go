package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitConversion(t *testing.T) {
	t.Run("two decimals", func(t *testing.T) {
		assert.Equal(t, int64(2550), ToSmallestUnit(25.50, 2))
		assert.Equal(t, 25.50, FromSmallestUnit(2550, 2))
	})

	t.Run("zero decimals", func(t *testing.T) {
		assert.Equal(t, int64(500), ToSmallestUnit(500, 0))
		assert.Equal(t, 500.0, FromSmallestUnit(500, 0))
	})

	t.Run("round trip", func(t *testing.T) {
		for _, decimals := range []int{0, 2} {
			for _, x := range []int64{1, 7, 100, 99999} {
				amount := FromSmallestUnit(x, decimals)
				assert.Equal(t, x, ToSmallestUnit(amount, decimals),
					"x=%d decimals=%d", x, decimals)
			}
		}
	})

	t.Run("rounds half up", func(t *testing.T) {
		assert.Equal(t, int64(1006), ToSmallestUnit(10.055, 2))
	})
}

func TestKoboAmount(t *testing.T) {
	// NGN convention: kobo is amount x 100, independent of the registry's
	// decimals=0 for NGN.
	assert.Equal(t, int64(2_500_000), koboAmount(25000))
	assert.Equal(t, int64(150), koboAmount(1.5))
}
