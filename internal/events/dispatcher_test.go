package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	var created, deleted []string
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		created = append(created, event.TicketID)
		return nil
	})
	dispatcher.Subscribe(EventTicketDeleted, func(_ context.Context, event Event) error {
		deleted = append(deleted, event.TicketID)
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t1"}))
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketDeleted, TicketID: "t2"}))

	require.Equal(t, []string{"t1"}, created)
	require.Equal(t, []string{"t2"}, deleted)
}

func TestInMemoryDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0
	dispatcher.Subscribe(EventTicketStatusToggled, func(context.Context, Event) error {
		calls++
		return boom
	})
	dispatcher.Subscribe(EventTicketStatusToggled, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusToggled})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
}
