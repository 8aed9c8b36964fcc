package storage

import (
	"context"
	"errors"
	"time"

	"booking-service/internal/account"
	"booking-service/internal/fare"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// Session is the typed per-visitor state that survives navigation between views
type Session struct {
	ID    string           `json:"id" dynamodbav:"id"`
	Route *fare.RouteQuery `json:"route,omitempty" dynamodbav:"route,omitempty"`
	// DistanceKm is the last real route distance seen; never the fallback value
	DistanceKm float64           `json:"distance_km" dynamodbav:"distance_km"`
	Booking    *BookingSelection `json:"booking,omitempty" dynamodbav:"booking,omitempty"`
	User       *account.Identity `json:"user,omitempty" dynamodbav:"user,omitempty"`
	CreatedAt  time.Time         `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" dynamodbav:"updated_at"`
}

// BookingSelection is the offer the visitor picked, with the route it was priced for
type BookingSelection struct {
	Offer    fare.VehicleOffer `json:"offer" dynamodbav:"offer"`
	Route    fare.RouteQuery   `json:"route" dynamodbav:"route"`
	Days     int               `json:"days" dynamodbav:"days"`
	BookedAt time.Time         `json:"booked_at" dynamodbav:"booked_at"`
}

// Clone returns a deep copy, so a stored session shares no memory with its callers
func (s *Session) Clone() *Session {
	c := *s
	if s.Route != nil {
		route := *s.Route
		c.Route = &route
	}
	if s.Booking != nil {
		booking := *s.Booking
		booking.Offer.Features = append([]string(nil), s.Booking.Offer.Features...)
		c.Booking = &booking
	}
	if s.User != nil {
		user := *s.User
		if s.User.ExpiresAt != nil {
			exp := *s.User.ExpiresAt
			user.ExpiresAt = &exp
		}
		c.User = &user
	}
	return &c
}

// SessionStorage defines the interface for session state operations.
// Writes are last-write-wins.
type SessionStorage interface {
	// CreateSession adds a new session
	CreateSession(ctx context.Context, session *Session) error

	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// SaveSession creates or replaces a session
	SaveSession(ctx context.Context, session *Session) error

	// DeleteSession forgets everything about a session
	DeleteSession(ctx context.Context, sessionID string) error
}
