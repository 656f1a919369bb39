package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/positionwatch/internal/domain"
)

type recordingSender struct {
	name  string
	err   error
	calls []string
}

func (s *recordingSender) Send(_ context.Context, title, message string) error {
	s.calls = append(s.calls, title+"|"+message)
	return s.err
}

func (s *recordingSender) Name() string { return s.name }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_DeliversToAllSenders(t *testing.T) {
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b"}
	n := NewNotifier([]Sender{a, b}, discardLogger())

	require.NoError(t, n.NotifyAll(context.Background(), "t", "m"))
	assert.Equal(t, []string{"t|m"}, a.calls)
	assert.Equal(t, []string{"t|m"}, b.calls)
	assert.Equal(t, []string{"a", "b"}, n.Senders())
}

func TestNotifier_FailureDoesNotStopOthers(t *testing.T) {
	failing := &recordingSender{name: "failing", err: errors.New("boom")}
	ok := &recordingSender{name: "ok"}
	n := NewNotifier([]Sender{failing, ok}, discardLogger())

	err := n.NotifyAll(context.Background(), "t", "m")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDelivery)
	assert.Contains(t, err.Error(), "failing: boom")
	assert.Len(t, ok.calls, 1)
}

func TestNotifier_NoSenders(t *testing.T) {
	assert.NoError(t, NewNotifier(nil, discardLogger()).NotifyAll(context.Background(), "t", "m"))
}
