// internal/events/events.go
package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is the base contract for all domain events
type Event interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetMetadata() map[string]interface{}
}

// BaseEvent provides common event functionality
type BaseEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// GetEventID returns the event ID
func (e *BaseEvent) GetEventID() string { return e.EventID }

// GetEventType returns the event type
func (e *BaseEvent) GetEventType() string { return e.EventType }

// GetTimestamp returns the event timestamp
func (e *BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// GetMetadata returns the event metadata
func (e *BaseEvent) GetMetadata() map[string]interface{} { return e.Metadata }

// ===============================
// EVENT BUS
// ===============================

// EventBus delivers domain events to registered handlers
type EventBus interface {
	// Publish enqueues an event for asynchronous delivery
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a handler for an exact event type
	Subscribe(eventType string, handler EventHandler) error
	// SubscribePattern registers a handler for a "prefix.*" pattern
	SubscribePattern(pattern string, handler EventHandler) error

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats() *EventBusStats
}

// EventHandler represents an event handler function
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	GetHandlerID() string
}

// EventHandlerFunc adapts a function to EventHandler
type EventHandlerFunc struct {
	ID   string
	Func func(ctx context.Context, event Event) error
}

func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error { return f.Func(ctx, event) }
func (f EventHandlerFunc) GetHandlerID() string                          { return f.ID }

// NewEventHandlerFunc creates an EventHandler from a function
func NewEventHandlerFunc(id string, fn func(ctx context.Context, event Event) error) EventHandler {
	return EventHandlerFunc{ID: id, Func: fn}
}

// EventBusStats exposes delivery counters
type EventBusStats struct {
	EventsPublished int64         `json:"events_published"`
	EventsProcessed int64         `json:"events_processed"`
	EventsFailed    int64         `json:"events_failed"`
	HandlersCount   int           `json:"handlers_count"`
	QueueDepth      int           `json:"queue_depth"`
	Uptime          time.Duration `json:"uptime"`
}

// EventBusConfig holds event bus configuration
type EventBusConfig struct {
	BufferSize     int           `json:"buffer_size"`
	WorkerCount    int           `json:"worker_count"`
	HandlerTimeout time.Duration `json:"handler_timeout"`
}

// DefaultEventBusConfig returns default configuration
func DefaultEventBusConfig() *EventBusConfig {
	return &EventBusConfig{
		BufferSize:     256,
		WorkerCount:    4,
		HandlerTimeout: 10 * time.Second,
	}
}

// ===============================
// IN-MEMORY EVENT BUS
// ===============================

// inMemoryEventBus implements EventBus over a buffered channel and a small
// worker pool. Delivery is at-most-once; a full queue drops the event with
// an error back to the publisher.
type inMemoryEventBus struct {
	mu              sync.RWMutex
	handlers        map[string][]EventHandler
	patternHandlers map[string][]EventHandler
	queue           chan Event
	config          *EventBusConfig
	logger          *zap.Logger
	startTime       time.Time
	started         bool
	stopCh          chan struct{}
	workersDone     sync.WaitGroup

	statsMu         sync.Mutex
	eventsPublished int64
	eventsProcessed int64
	eventsFailed    int64
}

// NewEventBus creates a new in-memory event bus
func NewEventBus(config *EventBusConfig, logger *zap.Logger) EventBus {
	if config == nil {
		config = DefaultEventBusConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryEventBus{
		handlers:        make(map[string][]EventHandler),
		patternHandlers: make(map[string][]EventHandler),
		queue:           make(chan Event, config.BufferSize),
		config:          config,
		logger:          logger,
		stopCh:          make(chan struct{}),
	}
}

func (b *inMemoryEventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	started := b.started
	b.mu.RUnlock()
	if !started {
		return fmt.Errorf("event bus not started")
	}

	select {
	case b.queue <- event:
		b.statsMu.Lock()
		b.eventsPublished++
		b.statsMu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("event queue full, dropping %s", event.GetEventType())
	}
}

func (b *inMemoryEventBus) Subscribe(eventType string, handler EventHandler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

func (b *inMemoryEventBus) SubscribePattern(pattern string, handler EventHandler) error {
	if !strings.HasSuffix(pattern, ".*") {
		return fmt.Errorf("unsupported pattern %q, want \"prefix.*\"", pattern)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	b.patternHandlers[prefix] = append(b.patternHandlers[prefix], handler)
	return nil
}

func (b *inMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	b.started = true
	b.startTime = time.Now()

	for i := 0; i < b.config.WorkerCount; i++ {
		b.workersDone.Add(1)
		go b.worker(i)
	}

	b.logger.Info("Event bus started",
		zap.Int("workers", b.config.WorkerCount),
		zap.Int("buffer_size", b.config.BufferSize),
	)
	return nil
}

func (b *inMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return nil
	}
	b.started = false
	b.mu.Unlock()

	close(b.stopCh)

	done := make(chan struct{})
	go func() {
		b.workersDone.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	b.logger.Info("Event bus stopped")
	return nil
}

func (b *inMemoryEventBus) Stats() *EventBusStats {
	b.statsMu.Lock()
	defer b.statsMu.Unlock()

	b.mu.RLock()
	handlerCount := 0
	for _, hs := range b.handlers {
		handlerCount += len(hs)
	}
	for _, hs := range b.patternHandlers {
		handlerCount += len(hs)
	}
	b.mu.RUnlock()

	return &EventBusStats{
		EventsPublished: b.eventsPublished,
		EventsProcessed: b.eventsProcessed,
		EventsFailed:    b.eventsFailed,
		HandlersCount:   handlerCount,
		QueueDepth:      len(b.queue),
		Uptime:          time.Since(b.startTime),
	}
}

func (b *inMemoryEventBus) worker(id int) {
	defer b.workersDone.Done()
	for {
		select {
		case event := <-b.queue:
			b.dispatch(event)
		case <-b.stopCh:
			// Drain what is already queued before exiting.
			for {
				select {
				case event := <-b.queue:
					b.dispatch(event)
				default:
					return
				}
			}
		}
	}
}

func (b *inMemoryEventBus) dispatch(event Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event.GetEventType()]...)
	for prefix, hs := range b.patternHandlers {
		if strings.HasPrefix(event.GetEventType(), prefix) {
			handlers = append(handlers, hs...)
		}
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		ctx, cancel := context.WithTimeout(context.Background(), b.config.HandlerTimeout)
		err := handler.Handle(ctx, event)
		cancel()

		b.statsMu.Lock()
		if err != nil {
			b.eventsFailed++
		} else {
			b.eventsProcessed++
		}
		b.statsMu.Unlock()

		if err != nil {
			b.logger.Warn("Event handler failed",
				zap.Error(err),
				zap.String("event_type", event.GetEventType()),
				zap.String("handler_id", handler.GetHandlerID()),
			)
		}
	}
}

// GenerateEventID returns a unique-enough id for an event instance
func GenerateEventID() string {
	return fmt.Sprintf("evt_%d", time.Now().UnixNano())
}
