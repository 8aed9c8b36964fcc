package fare

import "math"

// FallbackDistanceKm is priced when no real route distance is known
const FallbackDistanceKm = 100.0

// KnownDistance reports whether km is a usable route distance: positive and finite
func KnownDistance(km float64) bool {
	return km > 0 && !math.IsInf(km, 1)
}

// NormalizeDistance maps anything that is not a usable distance to 0
func NormalizeDistance(km float64) float64 {
	if !KnownDistance(km) {
		return 0
	}
	return km
}

// RateTable maps a vehicle category to a per-km rate supplied by the pricing backend.
// A nil table means no backend data; a missing or non-positive entry means "use default".
type RateTable map[Category]float64

// PricingConfig holds the fixed per-km defaults used when the backend has no usable rate
type PricingConfig struct {
	DefaultRatePerKm   map[Category]float64
	FallbackDistanceKm float64
}

// DefaultPricingConfig returns the standard per-km rates
func DefaultPricingConfig() *PricingConfig {
	return &PricingConfig{
		DefaultRatePerKm: map[Category]float64{
			Hatchback:    12,
			Sedan:        15,
			SedanPremium: 18,
			SUV:          21,
			MUV:          26,
		},
		FallbackDistanceKm: FallbackDistanceKm,
	}
}

// FareInput is everything the estimator needs besides the category
type FareInput struct {
	// DistanceKm is the distance already held in view state
	DistanceKm float64
	// CachedDistanceKm is the distance remembered in the session
	CachedDistanceKm float64
	TripType         TripType
	Days             int
	Rates            RateTable
}

// RatePerKm returns the effective per-km rate for a category.
// Unknown categories have a zero base rate.
func (p *PricingConfig) RatePerKm(category Category, rates RateTable) float64 {
	if rate, ok := rates[category]; ok && rate > 0 && !math.IsInf(rate, 1) {
		return rate
	}
	return p.DefaultRatePerKm[category]
}

// ResolveDistance picks the view-state distance, then the cached one, then the fallback
func (p *PricingConfig) ResolveDistance(stateKm, cachedKm float64) float64 {
	if KnownDistance(stateKm) {
		return stateKm
	}
	if KnownDistance(cachedKm) {
		return cachedKm
	}
	return p.FallbackDistanceKm
}

// CalculateFare returns the rounded total price for one category.
// Multi-day round trips bill half the quoted distance per day.
// Totals too large for an int are capped at math.MaxInt.
func (p *PricingConfig) CalculateFare(category Category, in FareInput) int {
	rate := p.RatePerKm(category, in.Rates)
	distance := p.ResolveDistance(in.DistanceKm, in.CachedDistanceKm)

	var total float64
	if in.TripType == RoundTrip && in.Days > 1 {
		total = (distance / 2) * float64(in.Days) * rate
	} else {
		total = distance * rate
	}

	if !(total > 0) {
		return 0
	}
	total = math.Round(total)
	// float64(math.MaxInt) rounds up to 2^63, which no int can hold
	if total >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(total)
}
