package distance

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// ErrNoRoute is returned when the maps service has no driving route between the places
var ErrNoRoute = errors.New("no route between locations")

// Provider resolves the road distance between two free-form places
type Provider interface {
	DistanceKm(ctx context.Context, origin, destination string) (float64, error)
}

// GoogleMapsProvider looks distances up with the Distance Matrix API
type GoogleMapsProvider struct {
	client *maps.Client
}

// NewGoogleMapsProvider creates a provider. Extra options are passed to the maps client.
func NewGoogleMapsProvider(apiKey string, opts ...maps.ClientOption) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("maps client: %w", err)
	}
	return &GoogleMapsProvider{client: client}, nil
}

func (g *GoogleMapsProvider) DistanceKm(ctx context.Context, origin, destination string) (float64, error) {
	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("distance matrix: %w", err)
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, ErrNoRoute
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" || element.Distance.Meters <= 0 {
		return 0, ErrNoRoute
	}

	return float64(element.Distance.Meters) / 1000, nil
}
