package rounding_test

import (
	"testing"

	"github.com/Qguillot-pro/barstock-pro/utils/rounding"
	"github.com/stretchr/testify/assert"
)

func TestQuantity(t *testing.T) {
	assert.Equal(t, 0.3, rounding.Quantity(0.1+0.2), "float noise is squashed to two decimals")
	assert.Equal(t, 1.67, rounding.Quantity(1.666))
	assert.Equal(t, -0.5, rounding.Quantity(-0.5))
	assert.Equal(t, 0.0, rounding.Quantity(0))
}

func TestFloorCeil(t *testing.T) {
	assert.Equal(t, 3, rounding.Floor(3.9))
	assert.Equal(t, 3, rounding.Floor(3))
	assert.Equal(t, 4, rounding.Ceil(3.1))
	assert.Equal(t, 3, rounding.Ceil(3))
	assert.Equal(t, 1, rounding.Ceil(0.4))
	assert.Equal(t, 0, rounding.Floor(0.9))
}
