package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-service/internal/fare"
)

// ErrInvalidForm is returned when a search form is missing or has bad fields
var ErrInvalidForm = errors.New("invalid search form")

// FormKind is the search tab a query was submitted from
type FormKind int

const (
	FormOneWay FormKind = iota
	FormRoundTrip
	FormRental
	FormAirportPickup
	FormAirportDrop
	FormLocal
)

var formNames = map[FormKind]string{
	FormOneWay:        "one-way",
	FormRoundTrip:     "round-trip",
	FormRental:        "rental",
	FormAirportPickup: "airport-pickup",
	FormAirportDrop:   "airport-drop",
	FormLocal:         "local",
}

func (k FormKind) String() string {
	if name, ok := formNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FormKind(%d)", int(k))
}

// ParseFormKind maps a tab name onto its FormKind
func ParseFormKind(s string) (FormKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range formNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown form %q", ErrInvalidForm, s)
}

// SearchForm is the raw field set shared by every search tab
type SearchForm struct {
	Pickup     string
	Drop       string
	Date       string
	ReturnDate string
	Time       string
	DistanceKm float64
}

type formHandler func(f SearchForm) (fare.RouteQuery, error)

var formHandlers = map[FormKind]formHandler{
	FormOneWay:        oneWayRoute,
	FormRoundTrip:     roundTripRoute,
	FormRental:        rentalRoute,
	FormAirportPickup: oneWayRoute,
	FormAirportDrop:   oneWayRoute,
	FormLocal:         rentalRoute,
}

// Route validates the form for this tab and turns it into a RouteQuery
func (k FormKind) Route(f SearchForm) (fare.RouteQuery, error) {
	handler, ok := formHandlers[k]
	if !ok {
		return fare.RouteQuery{}, fmt.Errorf("%w: unknown form %s", ErrInvalidForm, k)
	}
	f.Pickup = strings.TrimSpace(f.Pickup)
	f.Drop = strings.TrimSpace(f.Drop)
	f.DistanceKm = fare.NormalizeDistance(f.DistanceKm)
	return handler(f)
}

func oneWayRoute(f SearchForm) (fare.RouteQuery, error) {
	if err := require(f, "pickup", "drop", "date", "time"); err != nil {
		return fare.RouteQuery{}, err
	}
	return newRoute(f, fare.OneWay), nil
}

func roundTripRoute(f SearchForm) (fare.RouteQuery, error) {
	if err := require(f, "pickup", "drop", "date", "return_date", "time"); err != nil {
		return fare.RouteQuery{}, err
	}

	start, errStart := time.Parse(time.DateOnly, f.Date)
	end, errEnd := time.Parse(time.DateOnly, f.ReturnDate)
	if errStart == nil && errEnd == nil && end.Before(start) {
		return fare.RouteQuery{}, fmt.Errorf("%w: return_date is before date", ErrInvalidForm)
	}

	return newRoute(f, fare.RoundTrip), nil
}

// Rentals start and end at the pickup point
func rentalRoute(f SearchForm) (fare.RouteQuery, error) {
	if err := require(f, "pickup", "date", "time"); err != nil {
		return fare.RouteQuery{}, err
	}
	if f.Drop == "" {
		f.Drop = f.Pickup
	}
	return newRoute(f, fare.RentalTrip), nil
}

func newRoute(f SearchForm, tripType fare.TripType) fare.RouteQuery {
	return fare.RouteQuery{
		Pickup:     f.Pickup,
		Drop:       f.Drop,
		Date:       f.Date,
		ReturnDate: f.ReturnDate,
		Time:       f.Time,
		TripType:   tripType,
		DistanceKm: f.DistanceKm,
	}
}

func require(f SearchForm, fields ...string) error {
	values := map[string]string{
		"pickup":      f.Pickup,
		"drop":        f.Drop,
		"date":        f.Date,
		"return_date": f.ReturnDate,
		"time":        f.Time,
	}
	for _, field := range fields {
		if strings.TrimSpace(values[field]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidForm, field)
		}
	}
	return nil
}
