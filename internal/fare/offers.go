package fare

// VehicleOffer is one priced vehicle card on the results page
type VehicleOffer struct {
	Category      Category `json:"category" dynamodbav:"category"`
	DisplayName   string   `json:"display_name" dynamodbav:"display_name"`
	ImageRef      string   `json:"image_ref" dynamodbav:"image_ref"`
	Rating        float64  `json:"rating" dynamodbav:"rating"`
	ReviewCount   int      `json:"review_count" dynamodbav:"review_count"`
	Features      []string `json:"features" dynamodbav:"features"`
	TotalPrice    int      `json:"total_price" dynamodbav:"total_price"`
	DiscountLabel string   `json:"discount_label" dynamodbav:"discount_label"`
}

// The discount label is display text only; it is never applied to the price.
var catalog = map[Category]VehicleOffer{
	Hatchback: {
		Category:      Hatchback,
		DisplayName:   "Hatchback",
		ImageRef:      "/images/cars/hatchback.png",
		Rating:        4.5,
		ReviewCount:   1245,
		Features:      []string{"4 Seats", "AC", "1 Bag", "Music System"},
		DiscountLabel: "10% off",
	},
	Sedan: {
		Category:      Sedan,
		DisplayName:   "Sedan",
		ImageRef:      "/images/cars/sedan.png",
		Rating:        4.6,
		ReviewCount:   2087,
		Features:      []string{"4 Seats", "AC", "2 Bags", "Music System"},
		DiscountLabel: "12% off",
	},
	SedanPremium: {
		Category:      SedanPremium,
		DisplayName:   "Sedan Premium",
		ImageRef:      "/images/cars/sedan-premium.png",
		Rating:        4.7,
		ReviewCount:   864,
		Features:      []string{"4 Seats", "AC", "3 Bags", "Leather Seats", "Music System"},
		DiscountLabel: "15% off",
	},
	SUV: {
		Category:      SUV,
		DisplayName:   "SUV",
		ImageRef:      "/images/cars/suv.png",
		Rating:        4.6,
		ReviewCount:   1532,
		Features:      []string{"6 Seats", "AC", "3 Bags", "Music System"},
		DiscountLabel: "10% off",
	},
	MUV: {
		Category:      MUV,
		DisplayName:   "MUV",
		ImageRef:      "/images/cars/muv.png",
		Rating:        4.8,
		ReviewCount:   978,
		Features:      []string{"7 Seats", "AC", "4 Bags", "Captain Seats", "Music System"},
		DiscountLabel: "8% off",
	},
}

// Offer prices a single category. It reports false for categories outside the catalog.
func (p *PricingConfig) Offer(category Category, in FareInput) (VehicleOffer, bool) {
	offer, ok := catalog[category]
	if !ok {
		return VehicleOffer{}, false
	}
	offer.Features = append([]string(nil), offer.Features...)
	offer.TotalPrice = p.CalculateFare(category, in)
	return offer, true
}

// Offers prices every category in display order
func (p *PricingConfig) Offers(in FareInput) []VehicleOffer {
	offers := make([]VehicleOffer, 0, len(catalog))
	for _, category := range Categories() {
		offer, _ := p.Offer(category, in)
		offers = append(offers, offer)
	}
	return offers
}
