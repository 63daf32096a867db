package server

import (
	"context"
	"sync"
	"time"
)

const (
	// EventConfigChanged is published after a successful configuration mutation.
	EventConfigChanged = "config-change"
	// EventMinted is published after a successful mint.
	EventMinted = "mint"
)

// RegistryEvent notifies subscribers that a tenant's state changed.
type RegistryEvent struct {
	Tenant    string
	EventType string
	Operation string
	Timestamp time.Time
}

// EventDispatcher fans registry events out to per-tenant subscribers. Slow
// subscribers drop events rather than block publishers.
type EventDispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*eventSubscriber
	nextID      int64
	bufferSize  int
}

type eventSubscriber struct {
	id     int64
	stream chan RegistryEvent
}

// NewEventDispatcher returns a dispatcher with a small per-subscriber buffer.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		subscribers: make(map[string]map[int64]*eventSubscriber),
		bufferSize:  16,
	}
}

// Subscribe registers for a tenant's events until ctx is done or the cleanup
// function runs.
func (d *EventDispatcher) Subscribe(ctx context.Context, tenant string) (<-chan RegistryEvent, func()) {
	if tenant == "" {
		ch := make(chan RegistryEvent)
		close(ch)
		return ch, func() {}
	}
	subscriber := &eventSubscriber{
		id:     d.nextSequence(),
		stream: make(chan RegistryEvent, d.bufferSize),
	}
	d.registerSubscriber(tenant, subscriber)
	cleanup := func() {
		d.unregisterSubscriber(tenant, subscriber.id)
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// Publish delivers the event to every subscriber of its tenant.
func (d *EventDispatcher) Publish(event RegistryEvent) {
	if event.Tenant == "" || event.EventType == "" {
		return
	}
	d.mu.RLock()
	subscribers := d.subscribers[event.Tenant]
	if len(subscribers) == 0 {
		d.mu.RUnlock()
		return
	}
	copies := make([]*eventSubscriber, 0, len(subscribers))
	for _, subscriber := range subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}

func (d *EventDispatcher) nextSequence() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return d.nextID
}

func (d *EventDispatcher) registerSubscriber(tenant string, subscriber *eventSubscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.subscribers[tenant]; !ok {
		d.subscribers[tenant] = make(map[int64]*eventSubscriber)
	}
	d.subscribers[tenant][subscriber.id] = subscriber
}

func (d *EventDispatcher) unregisterSubscriber(tenant string, subscriberID int64) {
	d.mu.Lock()
	subscribers := d.subscribers[tenant]
	if subscribers != nil {
		delete(subscribers, subscriberID)
		if len(subscribers) == 0 {
			delete(d.subscribers, tenant)
		}
	}
	d.mu.Unlock()
}
