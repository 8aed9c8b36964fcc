package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"booking-service/internal/distance"
	"booking-service/internal/fare"
	"booking-service/internal/kinesis"
	"booking-service/internal/pricing"
	"booking-service/internal/storage"

	"github.com/google/uuid"
)

// ErrNoSearch is returned when a session has not searched for a route yet
var ErrNoSearch = errors.New("no search in session")

const (
	PricingSourceBackend = "backend"
	PricingSourceDefault = "default"
)

// SearchResult is what the results page renders
type SearchResult struct {
	SessionID string          `json:"session_id"`
	Route     fare.RouteQuery `json:"route"`
	// DistanceKm is the distance the offers were priced at, possibly the fallback
	DistanceKm    float64             `json:"distance_km"`
	DistanceKnown bool                `json:"distance_known"`
	Days          int                 `json:"days"`
	PricingSource string              `json:"pricing_source"`
	Offers        []fare.VehicleOffer `json:"offers"`
}

// SearchService prices routes for a session
type SearchService struct {
	sessions  storage.SessionStorage
	pricing   pricing.PricingClient
	fares     *fare.PricingConfig
	distances distance.Provider
	streamer  *kinesis.Streamer

	// latest backend quote per session; never persisted
	mu     sync.RWMutex
	quotes map[string]*pricing.Quote
}

// NewSearchService creates a new search service instance
func NewSearchService(sessions storage.SessionStorage, pricingClient pricing.PricingClient) *SearchService {
	return &SearchService{
		sessions: sessions,
		pricing:  pricingClient,
		fares:    fare.DefaultPricingConfig(),
		quotes:   make(map[string]*pricing.Quote),
	}
}

// SetDistanceProvider enables road distance lookups for searches without a distance
func (s *SearchService) SetDistanceProvider(provider distance.Provider) {
	s.distances = provider
}

// SetKinesisStreamer sets the Kinesis streamer for booking events
func (s *SearchService) SetKinesisStreamer(streamer *kinesis.Streamer) {
	s.streamer = streamer
}

// CreateSession starts an empty session
func (s *SearchService) CreateSession(ctx context.Context) (*storage.Session, error) {
	session := &storage.Session{ID: uuid.NewString()}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Search remembers the route in the session, fetches backend rates and prices every category.
// Backend failures degrade to default rates and never fail the search.
func (s *SearchService) Search(ctx context.Context, sessionID string, route fare.RouteQuery) (*SearchResult, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// a cached distance belongs to the route it was measured on
	if session.Route != nil && !sameEndpoints(*session.Route, route) {
		session.DistanceKm = 0
	}

	known := fare.NormalizeDistance(route.DistanceKm)
	if known == 0 {
		known = fare.NormalizeDistance(session.DistanceKm)
	}
	if known == 0 && s.distances != nil && route.Pickup != "" && route.Drop != "" {
		km, err := s.distances.DistanceKm(ctx, route.Pickup, route.Drop)
		if err != nil {
			slog.Warn("Distance lookup failed", "session_id", sessionID, "pickup", route.Pickup, "drop", route.Drop, "error", err)
		} else {
			known = fare.NormalizeDistance(km)
		}
	}
	route.DistanceKm = known

	quote := s.fetchQuote(ctx, sessionID, route)
	if known == 0 && quote != nil && fare.KnownDistance(quote.DistanceKm) {
		route.DistanceKm = quote.DistanceKm
	}

	session.Route = &route
	if fare.KnownDistance(route.DistanceKm) {
		session.DistanceKm = route.DistanceKm
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save search: %w", err)
	}

	s.setQuote(sessionID, quote)

	result := s.render(session, quote)
	s.streamer.StreamBookingEvent(ctx, kinesis.BookingEvent{
		SessionID:  sessionID,
		EventType:  "searched",
		Pickup:     route.Pickup,
		Drop:       route.Drop,
		TripType:   route.TripType,
		DistanceKm: result.DistanceKm,
	})
	return result, nil
}

// Offers re-renders the session's last search against the latest quote
func (s *SearchService) Offers(ctx context.Context, sessionID string) (*SearchResult, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Route == nil {
		return nil, ErrNoSearch
	}
	return s.render(session, s.quote(sessionID)), nil
}

// Refresh re-issues the pricing query for the session's route and replaces the held quote
func (s *SearchService) Refresh(ctx context.Context, sessionID string) error {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Route == nil {
		return ErrNoSearch
	}

	quote := s.fetchQuote(ctx, sessionID, *session.Route)
	s.setQuote(sessionID, quote)

	if !fare.KnownDistance(session.DistanceKm) && quote != nil && fare.KnownDistance(quote.DistanceKm) {
		route := *session.Route
		route.DistanceKm = quote.DistanceKm
		session.Route = &route
		session.DistanceKm = quote.DistanceKm
		if err := s.sessions.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("failed to cache distance: %w", err)
		}
	}
	return nil
}

// Forget drops the in-memory quote for a session
func (s *SearchService) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, sessionID)
}

// currentOffer prices one category exactly as it is currently rendered
func (s *SearchService) currentOffer(session *storage.Session, category fare.Category) (fare.VehicleOffer, int, bool) {
	in := s.fareInput(session, s.quote(session.ID))
	offer, ok := s.fares.Offer(category, in)
	return offer, in.Days, ok
}

func (s *SearchService) fetchQuote(ctx context.Context, sessionID string, route fare.RouteQuery) *pricing.Quote {
	quote, err := s.pricing.GetQuote(ctx, route)
	if err != nil {
		slog.Warn("Pricing unavailable, using default rates", "session_id", sessionID, "error", err)
		return nil
	}
	return quote
}

func (s *SearchService) render(session *storage.Session, quote *pricing.Quote) *SearchResult {
	in := s.fareInput(session, quote)

	source := PricingSourceDefault
	if quote != nil && quote.Rates != nil {
		source = PricingSourceBackend
	}

	return &SearchResult{
		SessionID:     session.ID,
		Route:         *session.Route,
		DistanceKm:    s.fares.ResolveDistance(in.DistanceKm, in.CachedDistanceKm),
		DistanceKnown: fare.KnownDistance(in.DistanceKm) || fare.KnownDistance(in.CachedDistanceKm),
		Days:          in.Days,
		PricingSource: source,
		Offers:        s.fares.Offers(in),
	}
}

func (s *SearchService) fareInput(session *storage.Session, quote *pricing.Quote) fare.FareInput {
	in := fare.FareInput{CachedDistanceKm: session.DistanceKm}
	if session.Route != nil {
		in.DistanceKm = session.Route.DistanceKm
		in.TripType = session.Route.TripType
	}
	if quote != nil {
		in.Rates = quote.Rates
		in.Days = quote.Days
	}
	return in
}

func (s *SearchService) quote(sessionID string) *pricing.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes[sessionID]
}

func (s *SearchService) setQuote(sessionID string, quote *pricing.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[sessionID] = quote
}

func sameEndpoints(a, b fare.RouteQuery) bool {
	return strings.EqualFold(strings.TrimSpace(a.Pickup), strings.TrimSpace(b.Pickup)) &&
		strings.EqualFold(strings.TrimSpace(a.Drop), strings.TrimSpace(b.Drop))
}
