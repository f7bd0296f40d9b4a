package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"planora/contexts/event-planning/budget-service/adapters/memory"
	"planora/contexts/event-planning/budget-service/ports"
)

type capturingPublisher struct {
	topics    []string
	envelopes []ports.EventEnvelope
	fail      bool
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, envelope ports.EventEnvelope) error {
	if p.fail {
		return errors.New("broker unreachable")
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func appendEnvelope(t *testing.T, store *memory.Store, eventID string, eventType string) {
	t.Helper()
	data, _ := json.Marshal(map[string]string{"event_id": "event-1"})
	if err := store.AppendOutbox(context.Background(), ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC),
		SourceService: "budget-service",
		SchemaVersion: 1,
		PartitionKey:  "event-1",
		Data:          data,
	}); err != nil {
		t.Fatalf("append outbox failed: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	appendEnvelope(t, store, "evt-1", "package.applied")
	appendEnvelope(t, store, "evt-2", "budget.adjusted")

	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.envelopes) != 2 {
		t.Fatalf("expected 2 published envelopes, got %d", len(publisher.envelopes))
	}
	for _, topic := range publisher.topics {
		if topic != "budget.events" {
			t.Fatalf("expected default topic budget.events, got %s", topic)
		}
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected drained outbox, got %d pending", len(pending))
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("idle relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 2 {
		t.Fatalf("idle run must not republish, got %d envelopes", len(publisher.envelopes))
	}
}

func TestOutboxRelayKeepsMessagePendingOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{fail: true}
	appendEnvelope(t, store, "evt-1", "package.applied")

	relay := OutboxRelay{
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}

	pending, err := store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected message to stay pending for retry, got %d", len(pending))
	}
}
