package fare

import "strings"

// Category is a rentable vehicle class
type Category string

const (
	Hatchback    Category = "hatchback"
	Sedan        Category = "sedan"
	SedanPremium Category = "sedanPremium"
	SUV          Category = "suv"
	MUV          Category = "muv"
)

// Categories returns every vehicle category in display order
func Categories() []Category {
	return []Category{Hatchback, Sedan, SedanPremium, SUV, MUV}
}

// ParseCategory maps user and backend spellings onto a Category.
// The pricing backend calls the MUV class "suvplus".
func ParseCategory(s string) (Category, bool) {
	key := strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
	switch key {
	case "hatchback":
		return Hatchback, true
	case "sedan":
		return Sedan, true
	case "sedanpremium":
		return SedanPremium, true
	case "suv":
		return SUV, true
	case "muv", "suvplus":
		return MUV, true
	}
	return "", false
}

// TripType selects the pricing formula branch
type TripType string

const (
	OneWay     TripType = "one-way"
	RoundTrip  TripType = "round-trip"
	RentalTrip TripType = "rental-trip"
)

// ParseTripType accepts both the hyphenated form and the backend's camel case names
func ParseTripType(s string) (TripType, bool) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "oneway":
		return OneWay, true
	case "roundtrip":
		return RoundTrip, true
	case "rentaltrip", "rental":
		return RentalTrip, true
	}
	return "", false
}

// RouteQuery is the pickup/drop/date/time/trip-type/distance tuple driving a price lookup
type RouteQuery struct {
	Pickup     string   `json:"pickup" dynamodbav:"pickup"`
	Drop       string   `json:"drop" dynamodbav:"drop"`
	Date       string   `json:"date" dynamodbav:"date"`
	ReturnDate string   `json:"return_date,omitempty" dynamodbav:"return_date,omitempty"`
	Time       string   `json:"time" dynamodbav:"time"`
	TripType   TripType `json:"trip_type" dynamodbav:"trip_type"`
	DistanceKm float64  `json:"distance_km" dynamodbav:"distance_km"`
}
