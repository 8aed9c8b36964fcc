package pricing

import (
	"context"

	"booking-service/internal/fare"
)

// PricingClient defines the interface for route pricing lookups
type PricingClient interface {
	GetQuote(ctx context.Context, route fare.RouteQuery) (*Quote, error)
}
