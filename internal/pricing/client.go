package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"booking-service/internal/fare"
)

const quotePath = "/api/cab1"

// ErrMalformedResponse is returned when the pricing body is not the expected JSON
var ErrMalformedResponse = errors.New("malformed pricing response")

// Quote is the usable part of a pricing response.
// Rates is nil when the backend returned no rate table.
type Quote struct {
	DistanceKm float64
	Days       int
	Rates      fare.RateTable
}

// Client handles communication with the pricing backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new pricing client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetQuote posts the route as a form and decodes the per-category rates
func (c *Client) GetQuote(ctx context.Context, route fare.RouteQuery) (*Quote, error) {
	form := url.Values{}
	form.Set("tripType", wireTripType(route.TripType))
	form.Set("pickupLocation", route.Pickup)
	form.Set("dropLocation", route.Drop)
	form.Set("date", route.Date)
	form.Set("Returndate", route.ReturnDate)
	form.Set("time", route.Time)
	form.Set("distance", strconv.FormatFloat(route.DistanceKm, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+quotePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("pricing service returned status %d", resp.StatusCode)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return body.toQuote(), nil
}

type quoteResponse struct {
	Distance number              `json:"distance"`
	Days     number              `json:"days"`
	TripInfo []map[string]number `json:"tripinfo"`
	CabInfo  json.RawMessage     `json:"cabinfo"`
}

func (r *quoteResponse) toQuote() *Quote {
	quote := &Quote{
		DistanceKm: math.Max(float64(r.Distance), 0),
		Days:       int(math.Max(math.Round(float64(r.Days)), 0)),
	}

	if len(r.TripInfo) == 0 {
		return quote
	}

	quote.Rates = fare.RateTable{}
	for key, rate := range r.TripInfo[0] {
		if category, ok := fare.ParseCategory(key); ok {
			quote.Rates[category] = float64(rate)
		}
	}
	return quote
}

// number decodes JSON numbers and numeric strings; anything else, including
// NaN and infinities, reads as zero
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	*n = 0

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return nil
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = number(f)
	return nil
}

func wireTripType(t fare.TripType) string {
	switch t {
	case fare.RoundTrip:
		return "roundTrip"
	case fare.RentalTrip:
		return "rentalTrip"
	default:
		return "oneWay"
	}
}
