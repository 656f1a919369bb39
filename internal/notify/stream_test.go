package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	streams    map[string][][]byte
	published  map[string]int
	err        error
	publishErr error
}

func (b *fakeBus) Publish(_ context.Context, channel string, _ []byte) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	if b.published == nil {
		b.published = map[string]int{}
	}
	b.published[channel]++
	return nil
}

func (b *fakeBus) StreamAppend(_ context.Context, stream string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	if b.streams == nil {
		b.streams = map[string][][]byte{}
	}
	b.streams[stream] = append(b.streams[stream], payload)
	return nil
}

func TestStreamSender_Send(t *testing.T) {
	bus := &fakeBus{}
	sender := NewStreamSender(bus, "positionwatch:alerts")
	fixed := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	sender.now = func() time.Time { return fixed }

	require.NoError(t, sender.Send(context.Background(), "T", "m"))
	require.Len(t, bus.streams["positionwatch:alerts"], 1)

	var msg StreamMessage
	require.NoError(t, json.Unmarshal(bus.streams["positionwatch:alerts"][0], &msg))
	assert.Equal(t, StreamMessage{Title: "T", Message: "m", SentAt: fixed}, msg)
	assert.Equal(t, "stream:positionwatch:alerts", sender.Name())
	assert.Equal(t, 1, bus.published["positionwatch:alerts"])
}

func TestStreamSender_BusError(t *testing.T) {
	sender := NewStreamSender(&fakeBus{err: errors.New("down")}, "s")
	err := sender.Send(context.Background(), "T", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream: append to s")
}

func TestStreamSender_PublishError(t *testing.T) {
	bus := &fakeBus{publishErr: errors.New("no subscribers allowed")}
	err := NewStreamSender(bus, "s").Send(context.Background(), "T", "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stream: publish to s")
	assert.Len(t, bus.streams["s"], 1)
}
