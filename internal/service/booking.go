package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"booking-service/internal/fare"
	"booking-service/internal/invoice"
	"booking-service/internal/kinesis"
	"booking-service/internal/storage"
)

// Common errors
var (
	ErrDistanceUnknown = errors.New("route distance unknown, please search again")
	ErrUnknownCategory = errors.New("unknown vehicle category")
	ErrNoBooking       = errors.New("no booking selected")
)

const invoicePath = "/invoice"

// Handoff is the result of pressing "Book Now"
type Handoff struct {
	Selection storage.BookingSelection `json:"selection"`
	NextURL   string                   `json:"next_url"`
}

// InvoiceView is what the invoice page renders
type InvoiceView struct {
	Selection storage.BookingSelection `json:"selection"`
	Breakdown invoice.Breakdown        `json:"breakdown"`
}

// BookingService hands a chosen offer over to the invoice view
type BookingService struct {
	sessions storage.SessionStorage
	search   *SearchService
	streamer *kinesis.Streamer
}

// NewBookingService creates a new booking service instance
func NewBookingService(sessions storage.SessionStorage, search *SearchService) *BookingService {
	return &BookingService{
		sessions: sessions,
		search:   search,
	}
}

// SetKinesisStreamer sets the Kinesis streamer for booking events
func (b *BookingService) SetKinesisStreamer(streamer *kinesis.Streamer) {
	b.streamer = streamer
}

// Book stores the currently rendered offer for category in the session.
// It refuses without writing anything when the route distance is not known.
func (b *BookingService) Book(ctx context.Context, sessionID string, category fare.Category) (*Handoff, error) {
	session, err := b.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Route == nil {
		return nil, ErrDistanceUnknown
	}

	distanceKm := session.DistanceKm
	if !fare.KnownDistance(distanceKm) {
		distanceKm = session.Route.DistanceKm
	}
	if !fare.KnownDistance(distanceKm) {
		return nil, ErrDistanceUnknown
	}

	offer, days, ok := b.search.currentOffer(session, category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	route := *session.Route
	route.DistanceKm = distanceKm
	selection := storage.BookingSelection{
		Offer:    offer,
		Route:    route,
		Days:     days,
		BookedAt: time.Now().UTC(),
	}

	session.Booking = &selection
	if err := b.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	b.streamer.StreamBookingEvent(ctx, kinesis.BookingEvent{
		SessionID:  sessionID,
		EventType:  "booked",
		Pickup:     route.Pickup,
		Drop:       route.Drop,
		TripType:   route.TripType,
		DistanceKm: route.DistanceKm,
		Category:   offer.Category,
		TotalPrice: offer.TotalPrice,
	})

	return &Handoff{
		Selection: selection,
		NextURL:   invoicePath + "?" + SelectionParams(selection).Encode(),
	}, nil
}

// Invoice builds the fare breakdown from navigation parameters when they carry a
// selection, otherwise from the session.
func (b *BookingService) Invoice(ctx context.Context, sessionID string, params url.Values) (*InvoiceView, error) {
	var selection *storage.BookingSelection

	if params.Get("price") != "" {
		parsed, err := SelectionFromParams(params)
		if err != nil {
			return nil, err
		}
		selection = parsed
	} else {
		if sessionID == "" {
			return nil, ErrNoBooking
		}
		session, err := b.sessions.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.Booking == nil {
			return nil, ErrNoBooking
		}
		selection = session.Booking
	}

	return &InvoiceView{
		Selection: *selection,
		Breakdown: invoice.Calculate(float64(selection.Offer.TotalPrice)),
	}, nil
}

// SelectionParams flattens a selection into query parameters for the next view
func SelectionParams(selection storage.BookingSelection) url.Values {
	params := url.Values{}
	params.Set("category", string(selection.Offer.Category))
	params.Set("name", selection.Offer.DisplayName)
	params.Set("image", selection.Offer.ImageRef)
	params.Set("price", strconv.Itoa(selection.Offer.TotalPrice))
	params.Set("discount", selection.Offer.DiscountLabel)
	for _, feature := range selection.Offer.Features {
		params.Add("features", feature)
	}
	params.Set("pickup", selection.Route.Pickup)
	params.Set("drop", selection.Route.Drop)
	params.Set("date", selection.Route.Date)
	params.Set("returnDate", selection.Route.ReturnDate)
	params.Set("time", selection.Route.Time)
	params.Set("tripType", string(selection.Route.TripType))
	params.Set("distance", strconv.FormatFloat(selection.Route.DistanceKm, 'f', -1, 64))
	params.Set("days", strconv.Itoa(selection.Days))
	return params
}

// SelectionFromParams is the inverse of SelectionParams
func SelectionFromParams(params url.Values) (*storage.BookingSelection, error) {
	category, ok := fare.ParseCategory(params.Get("category"))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, params.Get("category"))
	}

	price, err := strconv.Atoi(params.Get("price"))
	if err != nil || price < 0 {
		return nil, fmt.Errorf("%w: invalid price %q", ErrNoBooking, params.Get("price"))
	}

	tripType, ok := fare.ParseTripType(params.Get("tripType"))
	if !ok {
		tripType = fare.OneWay
	}

	distanceKm, _ := strconv.ParseFloat(params.Get("distance"), 64)
	days, _ := strconv.Atoi(params.Get("days"))

	var features []string
	for _, feature := range params["features"] {
		if feature != "" {
			features = append(features, feature)
		}
	}

	return &storage.BookingSelection{
		Offer: fare.VehicleOffer{
			Category:      category,
			DisplayName:   params.Get("name"),
			ImageRef:      params.Get("image"),
			Features:      features,
			TotalPrice:    price,
			DiscountLabel: params.Get("discount"),
		},
		Route: fare.RouteQuery{
			Pickup:     params.Get("pickup"),
			Drop:       params.Get("drop"),
			Date:       params.Get("date"),
			ReturnDate: params.Get("returnDate"),
			Time:       params.Get("time"),
			TripType:   tripType,
			DistanceKm: fare.NormalizeDistance(distanceKm),
		},
		Days: days,
	}, nil
}
