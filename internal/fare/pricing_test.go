package fare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPricingConfig(t *testing.T) {
	pricing := DefaultPricingConfig()

	expected := map[Category]float64{
		Hatchback:    12,
		Sedan:        15,
		SedanPremium: 18,
		SUV:          21,
		MUV:          26,
	}

	for category, rate := range expected {
		if pricing.DefaultRatePerKm[category] != rate {
			t.Errorf("Expected %s default rate %.0f, got %.0f", category, rate, pricing.DefaultRatePerKm[category])
		}
	}

	if pricing.FallbackDistanceKm != 100 {
		t.Errorf("Expected fallback distance 100, got %.0f", pricing.FallbackDistanceKm)
	}
}

func TestPricingConfig_RatePerKm_FallsBackPerCategory(t *testing.T) {
	pricing := DefaultPricingConfig()

	tables := []RateTable{
		nil,
		{},
		{Hatchback: 0, Sedan: 0, SedanPremium: 0, SUV: 0, MUV: 0},
		{Hatchback: -4, Sedan: -1, SedanPremium: -0.5, SUV: -21, MUV: -2},
	}

	for _, table := range tables {
		for _, category := range Categories() {
			assert.Equal(t, pricing.DefaultRatePerKm[category], pricing.RatePerKm(category, table),
				"category %s with table %v", category, table)
		}
	}
}

func TestPricingConfig_RatePerKm_UsesSuppliedRate(t *testing.T) {
	pricing := DefaultPricingConfig()
	table := RateTable{Hatchback: 9.5, Sedan: 11, SedanPremium: 13.25, SUV: 18, MUV: 30}

	for _, category := range Categories() {
		assert.Equal(t, table[category], pricing.RatePerKm(category, table))
	}
}

func TestPricingConfig_RatePerKm_PartialTable(t *testing.T) {
	pricing := DefaultPricingConfig()
	table := RateTable{SUV: 18}

	assert.Equal(t, 18.0, pricing.RatePerKm(SUV, table))
	assert.Equal(t, 15.0, pricing.RatePerKm(Sedan, table))
}

func TestPricingConfig_RatePerKm_UnknownCategory(t *testing.T) {
	pricing := DefaultPricingConfig()

	assert.Equal(t, 0.0, pricing.RatePerKm(Category("limousine"), nil))
	assert.Equal(t, 0, pricing.CalculateFare(Category("limousine"), FareInput{DistanceKm: 50, TripType: OneWay}))
}

func TestPricingConfig_ResolveDistance(t *testing.T) {
	pricing := DefaultPricingConfig()

	tests := []struct {
		name     string
		stateKm  float64
		cachedKm float64
		expected float64
	}{
		{"state wins", 240, 180, 240},
		{"cached when state missing", 0, 180, 180},
		{"cached when state negative", -5, 75, 75},
		{"fallback when nothing known", 0, 0, 100},
		{"fallback when both negative", -1, -2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pricing.ResolveDistance(tt.stateKm, tt.cachedKm))
		})
	}
}

func TestPricingConfig_CalculateFare_Scenarios(t *testing.T) {
	pricing := DefaultPricingConfig()

	tests := []struct {
		name     string
		category Category
		input    FareInput
		expected int
	}{
		{
			name:     "sedan one-way without rate table",
			category: Sedan,
			input:    FareInput{DistanceKm: 200, TripType: OneWay},
			expected: 3000,
		},
		{
			name:     "suv rate table overrides default",
			category: SUV,
			input:    FareInput{DistanceKm: 150, TripType: OneWay, Rates: RateTable{SUV: 18}},
			expected: 2700,
		},
		{
			name:     "hatchback zero rate falls back on multi-day round trip",
			category: Hatchback,
			input:    FareInput{DistanceKm: 80, TripType: RoundTrip, Days: 3, Rates: RateTable{Hatchback: 0}},
			expected: 1440,
		},
		{
			name:     "muv unknown distance uses fallback",
			category: MUV,
			input:    FareInput{TripType: OneWay},
			expected: 2600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pricing.CalculateFare(tt.category, tt.input))
		})
	}
}

func TestPricingConfig_CalculateFare_RoundTripDayMultiplier(t *testing.T) {
	pricing := DefaultPricingConfig()

	for _, days := range []int{2, 3, 5, 9} {
		for _, distance := range []float64{1, 37.3, 80, 415.9} {
			rate := 17.4
			input := FareInput{
				DistanceKm: distance,
				TripType:   RoundTrip,
				Days:       days,
				Rates:      RateTable{Sedan: rate},
			}

			expected := int(math.Round((distance / 2) * float64(days) * rate))
			assert.Equal(t, expected, pricing.CalculateFare(Sedan, input), "days=%d distance=%.1f", days, distance)
		}
	}
}

func TestPricingConfig_CalculateFare_SingleDayTrips(t *testing.T) {
	pricing := DefaultPricingConfig()

	for _, tripType := range []TripType{OneWay, RoundTrip, RentalTrip} {
		for _, days := range []int{-1, 0, 1} {
			input := FareInput{DistanceKm: 123.4, TripType: tripType, Days: days}
			assert.Equal(t, int(math.Round(123.4*21)), pricing.CalculateFare(SUV, input), "%s days=%d", tripType, days)
		}
	}

	// One-way ignores the day count entirely
	input := FareInput{DistanceKm: 60, TripType: OneWay, Days: 7}
	assert.Equal(t, 900, pricing.CalculateFare(Sedan, input))
}

func TestPricingConfig_CalculateFare_UsesCachedDistance(t *testing.T) {
	pricing := DefaultPricingConfig()

	input := FareInput{CachedDistanceKm: 50, TripType: OneWay}
	assert.Equal(t, 600, pricing.CalculateFare(Hatchback, input))
}

func TestPricingConfig_CalculateFare_Idempotent(t *testing.T) {
	pricing := DefaultPricingConfig()
	input := FareInput{DistanceKm: 333.3, TripType: RoundTrip, Days: 4, Rates: RateTable{SedanPremium: 19.9}}

	first := pricing.CalculateFare(SedanPremium, input)
	second := pricing.CalculateFare(SedanPremium, input)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0)
}

func TestPricingConfig_CalculateFare_NonFiniteAndHugeInputs(t *testing.T) {
	pricing := DefaultPricingConfig()

	// Unusable distances price at the fallback
	for _, km := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.Equal(t, 1500, pricing.CalculateFare(Sedan, FareInput{DistanceKm: km, TripType: OneWay}), "distance %v", km)
	}

	// An infinite rate is not a rate
	assert.Equal(t, 1500, pricing.CalculateFare(Sedan, FareInput{TripType: OneWay, Rates: RateTable{Sedan: math.Inf(1)}}))

	// Finite but overflowing totals are capped, never wrapped negative
	assert.Equal(t, math.MaxInt, pricing.CalculateFare(Sedan, FareInput{DistanceKm: 1e308, TripType: OneWay}))
	assert.Equal(t, math.MaxInt, pricing.CalculateFare(MUV, FareInput{DistanceKm: 1e18, TripType: RoundTrip, Days: 9}))
}

func TestKnownDistance(t *testing.T) {
	assert.True(t, KnownDistance(0.5))
	assert.True(t, KnownDistance(1e308))
	for _, km := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.False(t, KnownDistance(km), "distance %v", km)
		assert.Equal(t, 0.0, NormalizeDistance(km), "distance %v", km)
	}
}
