package service

import (
	"context"
	"testing"
	"time"

	"booking-service/internal/fare"
	"booking-service/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceRefresher_WatchUnwatch(t *testing.T) {
	search, _, _, sessionID := setupSearch(t)
	refresher := NewPriceRefresher(search, time.Minute)

	assert.False(t, refresher.Watching(sessionID))
	refresher.Watch(sessionID)
	assert.True(t, refresher.Watching(sessionID))
	refresher.Unwatch(sessionID)
	assert.False(t, refresher.Watching(sessionID))
}

func TestPriceRefresher_DefaultInterval(t *testing.T) {
	search, _, _, _ := setupSearch(t)

	refresher := NewPriceRefresher(search, 0)
	assert.Equal(t, 30*time.Second, refresher.interval)
}

func TestPriceRefresher_RefreshAll(t *testing.T) {
	search, pricingClient, _, sessionID := setupSearch(t)
	ctx := context.Background()

	pricingClient.SetQuote(&pricing.Quote{Rates: fare.RateTable{fare.MUV: 20}})
	_, err := search.Search(ctx, sessionID, oneWay(100))
	require.NoError(t, err)

	refresher := NewPriceRefresher(search, time.Minute)
	refresher.Watch(sessionID)
	refresher.Watch("gone")

	pricingClient.SetQuote(&pricing.Quote{Rates: fare.RateTable{fare.MUV: 30}})
	refresher.refreshAll()

	result, err := search.Offers(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, 3000, offerPrice(t, result, fare.MUV))

	assert.True(t, refresher.Watching(sessionID))
	assert.False(t, refresher.Watching("gone"), "unknown sessions stop being refreshed")
}

func TestPriceRefresher_StartStop(t *testing.T) {
	search, pricingClient, _, sessionID := setupSearch(t)
	ctx := context.Background()

	_, err := search.Search(ctx, sessionID, oneWay(100))
	require.NoError(t, err)
	callsAfterSearch := pricingClient.Calls()

	refresher := NewPriceRefresher(search, 10*time.Millisecond)
	refresher.Watch(sessionID)
	refresher.Start()

	assert.Eventually(t, func() bool {
		return pricingClient.Calls() > callsAfterSearch
	}, time.Second, 5*time.Millisecond)

	refresher.Stop()
	refresher.Stop()
}
