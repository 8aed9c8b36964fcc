package ui

import (
	"math"
	"testing"

	"booking-service/internal/fare"

	"github.com/stretchr/testify/assert"
	testrequire "github.com/stretchr/testify/require"
)

func TestParseFormKind(t *testing.T) {
	for kind, name := range formNames {
		parsed, err := ParseFormKind(name)
		testrequire.NoError(t, err)
		assert.Equal(t, kind, parsed)
		assert.Equal(t, name, kind.String())
	}

	_, err := ParseFormKind("multi-city")
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestFormKind_Route_TripTypes(t *testing.T) {
	form := SearchForm{
		Pickup:     "Pune",
		Drop:       "Mumbai",
		Date:       "2026-11-02",
		ReturnDate: "2026-11-04",
		Time:       "09:30",
		DistanceKm: 148,
	}

	expected := map[FormKind]fare.TripType{
		FormOneWay:        fare.OneWay,
		FormRoundTrip:     fare.RoundTrip,
		FormRental:        fare.RentalTrip,
		FormAirportPickup: fare.OneWay,
		FormAirportDrop:   fare.OneWay,
		FormLocal:         fare.RentalTrip,
	}

	for kind, tripType := range expected {
		route, err := kind.Route(form)
		testrequire.NoError(t, err, kind.String())
		assert.Equal(t, tripType, route.TripType, kind.String())
		assert.Equal(t, 148.0, route.DistanceKm)
	}
}

func TestFormKind_Route_MissingFields(t *testing.T) {
	_, err := FormOneWay.Route(SearchForm{Pickup: "Pune", Date: "2026-11-02", Time: "09:30"})
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, err.Error(), "drop")

	_, err = FormRoundTrip.Route(SearchForm{Pickup: "Pune", Drop: "Goa", Date: "2026-11-02", Time: "09:30"})
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, err.Error(), "return_date")
}

func TestFormKind_Route_ReturnBeforeDeparture(t *testing.T) {
	_, err := FormRoundTrip.Route(SearchForm{
		Pickup:     "Pune",
		Drop:       "Goa",
		Date:       "2026-11-04",
		ReturnDate: "2026-11-02",
		Time:       "09:30",
	})
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestFormKind_Route_RentalDropDefaultsToPickup(t *testing.T) {
	route, err := FormLocal.Route(SearchForm{Pickup: " Pune ", Date: "2026-11-02", Time: "09:30", DistanceKm: -3})
	testrequire.NoError(t, err)

	assert.Equal(t, "Pune", route.Pickup)
	assert.Equal(t, "Pune", route.Drop)
	assert.Equal(t, 0.0, route.DistanceKm)
}

func TestFormKind_Route_UnknownKind(t *testing.T) {
	_, err := FormKind(42).Route(SearchForm{})
	assert.ErrorIs(t, err, ErrInvalidForm)
}

func TestFormKind_Route_NonFiniteDistanceIsUnknown(t *testing.T) {
	for _, km := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -12} {
		route, err := FormOneWay.Route(SearchForm{Pickup: "Pune", Drop: "Mumbai", Date: "2026-11-02", Time: "09:30", DistanceKm: km})
		testrequire.NoError(t, err)
		assert.Equal(t, 0.0, route.DistanceKm, "distance %v", km)
	}
}
