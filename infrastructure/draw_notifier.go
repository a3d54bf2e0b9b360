package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"luckydraw/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "luckydraw"

// messagePublisher is the subset of NATSClient the notifier needs
type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte, msgID string) error
}

// EventEnvelope wraps every message published to NATS
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// DrawNotifier forwards committed draw decisions to the winner notification stream
type DrawNotifier struct {
	publisher      messagePublisher
	subject        string
	publishTimeout time.Duration
	now            func() time.Time
}

// NewDrawNotifier creates a notifier publishing to subject
func NewDrawNotifier(publisher messagePublisher, subject string) *DrawNotifier {
	return &DrawNotifier{
		publisher:      publisher,
		subject:        subject,
		publishTimeout: 5 * time.Second,
		now:            time.Now,
	}
}

// Register subscribes the notifier to decided draws on bus
func (n *DrawNotifier) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeDrawDecided, n.Handle)
}

// Handle publishes one DrawDecidedEvent. Failures are logged, the draw is already committed.
func (n *DrawNotifier) Handle(ctx context.Context, event events.Event) {
	decided, ok := event.(events.DrawDecidedEvent)
	if !ok {
		return
	}

	data, err := n.envelope(decided)
	if err != nil {
		log.WithFields(log.Fields{
			"draw_id": decided.DrawID,
			"error":   err,
		}).Error("Failed to encode draw decided event")
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, n.publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(publishCtx, n.subject, data, messageID(decided)); err != nil {
		log.WithFields(log.Fields{
			"draw_id":      decided.DrawID,
			"supporter_id": decided.SupporterID,
			"subject":      n.subject,
			"error":        err,
		}).Error("Failed to publish winner notification")
		return
	}

	log.WithFields(log.Fields{
		"draw_id":      decided.DrawID,
		"supporter_id": decided.SupporterID,
		"subject":      n.subject,
	}).Info("Published winner notification")
}

func (n *DrawNotifier) envelope(event events.DrawDecidedEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     n.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// messageID is stable per draw so a republished decision is deduplicated by JetStream
func messageID(event events.DrawDecidedEvent) string {
	return fmt.Sprintf("draw-decided-%d", event.DrawID)
}
