package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(EventSessionStarted, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.Subject)
		return nil
	})
	d.Subscribe(EventSessionStarted, func(_ context.Context, e Event) error {
		seen = append(seen, "second:"+e.Subject)
		return nil
	})
	d.Subscribe(EventSessionEnded, func(context.Context, Event) error {
		seen = append(seen, "ended")
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventSessionStarted, "k", "alice", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"first:alice", "second:alice"}, seen)
}

func TestDispatcherJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	ran := false

	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error { return boom })
	d.Subscribe(EventSessionRevoked, func(context.Context, Event) error {
		ran = true
		return nil
	})

	err := d.Publish(context.Background(), NewEvent(EventSessionRevoked, "k", "", nil))
	assert.ErrorIs(t, err, boom)
	assert.True(t, ran, "later handlers still run")
}

func TestNewEventStampsIdentity(t *testing.T) {
	e := NewEvent(EventSessionEnded, "key", "bob", nil)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "bob", e.Subject)
}
