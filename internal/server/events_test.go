package server

import (
	"context"
	"testing"
	"time"
)

func TestDispatcherDeliversTenantEvents(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, testCollectionIdentity)
	defer cleanup()

	dispatcher.Publish(RegistryEvent{
		Tenant:    testCollectionIdentity,
		EventType: EventConfigChanged,
		Operation: "update_drop_uri",
		Timestamp: time.Now().UTC(),
	})

	select {
	case event := <-stream:
		if event.EventType != EventConfigChanged || event.Operation != "update_drop_uri" {
			t.Fatalf("unexpected event: %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected event delivery")
	}
}

func TestDispatcherIsolatesTenants(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, testCollectionIdentity)
	defer cleanup()

	dispatcher.Publish(RegistryEvent{
		Tenant:    testStrangerIdentity,
		EventType: EventMinted,
		Timestamp: time.Now().UTC(),
	})

	select {
	case event := <-stream:
		t.Fatalf("expected no event, got %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatcherDropsEventsForSlowSubscribers(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, cleanup := dispatcher.Subscribe(ctx, testCollectionIdentity)
	defer cleanup()

	for i := 0; i < 64; i++ {
		dispatcher.Publish(RegistryEvent{
			Tenant:    testCollectionIdentity,
			EventType: EventMinted,
			Timestamp: time.Now().UTC(),
		})
	}
	// Publish never blocks even when the subscriber buffer is full.
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx, testCollectionIdentity)
	cleanup()

	dispatcher.Publish(RegistryEvent{
		Tenant:    testCollectionIdentity,
		EventType: EventMinted,
		Timestamp: time.Now().UTC(),
	})

	select {
	case _, open := <-stream:
		if open {
			t.Fatal("expected no delivery after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}
