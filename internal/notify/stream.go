package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

// StreamMessage is the JSON payload appended to the notification stream.
type StreamMessage struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// StreamSender appends notifications to a durable stream on a SignalBus so
// downstream consumers can replay them.
type StreamSender struct {
	bus    domain.SignalBus
	stream string
	now    func() time.Time
}

// NewStreamSender creates a StreamSender writing to the named stream.
func NewStreamSender(bus domain.SignalBus, stream string) *StreamSender {
	return &StreamSender{
		bus:    bus,
		stream: stream,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Send appends one JSON-encoded StreamMessage to the stream and publishes the
// same payload on the pub/sub channel of the same name for live subscribers.
func (s *StreamSender) Send(ctx context.Context, title, message string) error {
	payload, err := json.Marshal(StreamMessage{
		Title:   title,
		Message: message,
		SentAt:  s.now(),
	})
	if err != nil {
		return fmt.Errorf("stream: marshal payload: %w", err)
	}
	if err := s.bus.StreamAppend(ctx, s.stream, payload); err != nil {
		return fmt.Errorf("stream: append to %s: %w", s.stream, err)
	}
	if err := s.bus.Publish(ctx, s.stream, payload); err != nil {
		return fmt.Errorf("stream: publish to %s: %w", s.stream, err)
	}
	return nil
}

// Name returns the sender identifier.
func (s *StreamSender) Name() string {
	return "stream:" + s.stream
}
