package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"luckydraw/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, subject string, data []byte, msgID string) error {
	args := m.Called(ctx, subject, data, msgID)
	return args.Error(0)
}

func sampleEvent() events.DrawDecidedEvent {
	return events.DrawDecidedEvent{
		DrawID:          10,
		FundraiserID:    7,
		FundraiserTitle: "School Roof",
		Prize:           "Hamper",
		SupporterID:     2,
		FirstName:       "Grace",
		LastName:        "Hopper",
		Email:           "grace@example.com",
		TicketNumber:    4,
		PoolSize:        6,
		DecidedAt:       time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestDrawNotifier_PublishesEnvelope(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := NewDrawNotifier(publisher, "luckydraw.draw.decided")
	notifier.now = func() time.Time { return time.Date(2026, 3, 15, 10, 0, 1, 0, time.UTC) }

	var published []byte
	publisher.On("Publish", mock.Anything, "luckydraw.draw.decided", mock.Anything, "draw-decided-10").
		Return(nil).
		Run(func(args mock.Arguments) {
			published = args.Get(2).([]byte)
		})

	notifier.Handle(context.Background(), sampleEvent())

	publisher.AssertExpectations(t)
	require.NotNil(t, published)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(published, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, "draw_decided", envelope.EventType)
	assert.Equal(t, "luckydraw", envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(time.Date(2026, 3, 15, 10, 0, 1, 0, time.UTC)))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, float64(10), payload["drawId"])
	assert.Equal(t, "grace@example.com", payload["email"])
	assert.Equal(t, float64(4), payload["ticketNumber"])
	assert.Equal(t, "Hamper", payload["prize"])
}

func TestDrawNotifier_PublishFailureIsSwallowed(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := NewDrawNotifier(publisher, "luckydraw.draw.decided")

	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("nats: timeout"))

	assert.NotPanics(t, func() {
		notifier.Handle(context.Background(), sampleEvent())
	})
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestDrawNotifier_PublishHasDeadline(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := NewDrawNotifier(publisher, "luckydraw.draw.decided")

	publisher.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything, mock.Anything, mock.Anything).Return(nil)

	notifier.Handle(context.Background(), sampleEvent())
	publisher.AssertExpectations(t)
}

func TestDrawNotifier_RegisteredOnBus(t *testing.T) {
	publisher := new(mockPublisher)
	notifier := NewDrawNotifier(publisher, "luckydraw.draw.decided")

	done := make(chan struct{})
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, "draw-decided-10").
		Return(nil).
		Run(func(mock.Arguments) { close(done) })

	bus := events.NewBus()
	notifier.Register(bus)
	bus.Emit(context.Background(), sampleEvent())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier did not receive bus event")
	}
}
