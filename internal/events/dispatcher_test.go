package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string

	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.AccountID)
		return nil
	})
	d.Subscribe(EventAccountRegistered, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.AccountID)
		return nil
	})
	d.Subscribe(EventAccountPasswordChanged, func(context.Context, Event) error {
		got = append(got, "unexpected")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountRegistered, AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:acc-1", "second:acc-1"}, got)
}

func TestDispatcherRunsAllHandlersOnFailure(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("smtp down")
	ran := 0

	d.Subscribe(EventAccountRegistered, func(context.Context, Event) error {
		ran++
		return boom
	})
	d.Subscribe(EventAccountRegistered, func(context.Context, Event) error {
		ran++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountRegistered})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, ran)
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventAccountRegistered}))
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	delivered := false

	d.Subscribe(EventAccountPasswordChanged, func(context.Context, Event) error {
		panic("template missing")
	})
	d.Subscribe(EventAccountPasswordChanged, func(context.Context, Event) error {
		delivered = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventAccountPasswordChanged})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template missing")
	assert.True(t, delivered)
}
