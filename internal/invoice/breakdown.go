package invoice

import "math"

const (
	ServiceChargeRate = 0.05
	TaxRate           = 0.18
)

// Breakdown is the fare split shown on the invoice page
type Breakdown struct {
	BasePrice     float64 `json:"base_price"`
	ServiceCharge float64 `json:"service_charge"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
}

// Calculate derives service charge, tax and total from a base price.
// Tax applies to base plus service charge.
func Calculate(basePrice float64) Breakdown {
	if basePrice < 0 || math.IsNaN(basePrice) {
		basePrice = 0
	}

	serviceCharge := basePrice * ServiceChargeRate
	tax := (basePrice + serviceCharge) * TaxRate

	return Breakdown{
		BasePrice:     roundCents(basePrice),
		ServiceCharge: roundCents(serviceCharge),
		Tax:           roundCents(tax),
		Total:         roundCents(basePrice + serviceCharge + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
