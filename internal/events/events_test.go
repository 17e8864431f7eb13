package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventStepEntered, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventStepEntered, StepEventPayload{SessionID: "s-1", Step: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventStepEntered, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded StepEventPayload
	require.NoError(t, received.Decode(&decoded))
	assert.Equal(t, StepEventPayload{SessionID: "s-1", Step: 2}, decoded)
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return errors.New("first") })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	err := bus.Publish(&Event{Type: "event"})

	assert.Equal(t, 1, count1)
	assert.Equal(t, 1, count2)
	assert.ErrorContains(t, err, "first")
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NoError(t, bus.Publish(&Event{Type: "unknown"}))
	assert.NoError(t, bus.PublishJSON("unknown", nil))

	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventBookingConfirmed, nil))
}

func TestPublishJSON_MarshalError(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON("bad", make(chan int))
	assert.Error(t, err)
}

func TestNewJSONEvent(t *testing.T) {
	payload := BookingEventPayload{BookingID: "SH1ABCD", SessionID: "s", Amount: 628}
	event, err := NewJSONEvent(EventBookingConfirmed, payload)
	require.NoError(t, err)

	assert.Equal(t, EventBookingConfirmed, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded BookingEventPayload
	require.NoError(t, event.Decode(&decoded))
	assert.Equal(t, "SH1ABCD", decoded.BookingID)
	assert.Equal(t, int64(628), decoded.Amount)
}
