package kinesis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-service/internal/fare"

	"github.com/aws/aws-sdk-go-v2/service/kinesis"
)

// KinesisAPI interface for mocking
type KinesisAPI interface {
	PutRecord(ctx context.Context, params *kinesis.PutRecordInput, optFns ...func(*kinesis.Options)) (*kinesis.PutRecordOutput, error)
}

type Streamer struct {
	client     KinesisAPI
	streamName string
}

type BookingEvent struct {
	SessionID  string        `json:"session_id"`
	EventType  string        `json:"event_type"` // searched, booked
	Timestamp  time.Time     `json:"timestamp"`
	Pickup     string        `json:"pickup"`
	Drop       string        `json:"drop"`
	TripType   fare.TripType `json:"trip_type"`
	DistanceKm float64       `json:"distance_km"`
	Category   fare.Category `json:"category,omitempty"`
	TotalPrice int           `json:"total_price,omitempty"`
}

func NewStreamer(client KinesisAPI, streamName string) *Streamer {
	return &Streamer{
		client:     client,
		streamName: streamName,
	}
}

// StreamBookingEvent publishes one event; failures are only logged
func (s *Streamer) StreamBookingEvent(ctx context.Context, event BookingEvent) {
	if s == nil || s.client == nil {
		return // Kinesis not enabled
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal booking event", "session_id", event.SessionID, "error", err)
		return
	}

	_, err = s.client.PutRecord(ctx, &kinesis.PutRecordInput{
		StreamName:   &s.streamName,
		Data:         data,
		PartitionKey: &event.SessionID,
	})

	if err != nil {
		slog.Error("Failed to stream booking event", "session_id", event.SessionID, "event_type", event.EventType, "error", err)
	} else {
		slog.Debug("Streamed booking event", "session_id", event.SessionID, "event_type", event.EventType)
	}
}
