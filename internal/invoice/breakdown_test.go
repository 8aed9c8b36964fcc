package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	breakdown := Calculate(3000)

	expectedServiceCharge := 150.0                       // 5% of 3000
	expectedTax := 567.0                                  // 18% of 3150
	expectedTotal := 3000 + expectedServiceCharge + 567.0 // 3717

	assert.Equal(t, 3000.0, breakdown.BasePrice)
	assert.Equal(t, expectedServiceCharge, breakdown.ServiceCharge)
	assert.Equal(t, expectedTax, breakdown.Tax)
	assert.Equal(t, expectedTotal, breakdown.Total)
}

func TestCalculate_RoundsToCents(t *testing.T) {
	breakdown := Calculate(1441)

	assert.Equal(t, 72.05, breakdown.ServiceCharge)
	assert.Equal(t, 272.35, breakdown.Tax) // 0.18 * 1513.05 = 272.349
	assert.Equal(t, 1785.4, breakdown.Total)
}

func TestCalculate_ZeroAndNegative(t *testing.T) {
	assert.Equal(t, Breakdown{}, Calculate(0))
	assert.Equal(t, Breakdown{}, Calculate(-250))
}
