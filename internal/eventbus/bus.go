package eventbus

import (
	"errors"
	"sync"
	"time"
)

// CoreEvent represents events sent from background workers to the UI
type CoreEvent interface {
	CoreEvent()
}

// TreeChangedEvent - entries were created, removed or renamed under a
// watched folder
type TreeChangedEvent struct {
	Dir string
}

func (e TreeChangedEvent) CoreEvent() {}

// DocumentChangedEvent - the open document was rewritten on disk
type DocumentChangedEvent struct {
	Path string
}

func (e DocumentChangedEvent) CoreEvent() {}

// WatchErrorEvent - the filesystem watcher reported a failure
type WatchErrorEvent struct {
	Err error
}

func (e WatchErrorEvent) CoreEvent() {}

var ErrBusClosed = errors.New("event bus is closed")

// EventBusError represents errors in event processing
type EventBusError struct {
	Operation string
	Err       error
	Timestamp time.Time
}

func (e EventBusError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e EventBusError) Unwrap() error { return e.Err }

// EventBus carries core events to the UI without ever blocking the sender
type EventBus struct {
	mu            sync.RWMutex
	coreToUI      chan CoreEvent
	closed        bool
	dropped       int
	errorCallback func(EventBusError)
}

func NewEventBus() *EventBus {
	return NewEventBusSize(100)
}

func NewEventBusSize(size int) *EventBus {
	return &EventBus{
		coreToUI: make(chan CoreEvent, size),
	}
}

func (eb *EventBus) SetErrorCallback(callback func(EventBusError)) {
	eb.mu.Lock()
	eb.errorCallback = callback
	eb.mu.Unlock()
}

func (eb *EventBus) reportError(operation string, err error) {
	eb.mu.RLock()
	callback := eb.errorCallback
	eb.mu.RUnlock()

	if callback != nil {
		callback(EventBusError{
			Operation: operation,
			Err:       err,
			Timestamp: time.Now(),
		})
	}
}

// SendToUI queues an event. A full queue drops the event and reports it.
func (eb *EventBus) SendToUI(event CoreEvent) error {
	eb.mu.Lock()
	if eb.closed {
		eb.mu.Unlock()
		return ErrBusClosed
	}

	select {
	case eb.coreToUI <- event:
		eb.mu.Unlock()
		return nil
	default:
		eb.dropped++
		eb.mu.Unlock()
		err := errors.New("core to UI channel is full")
		eb.reportError("SendToUI", err)
		return err
	}
}

func (eb *EventBus) CoreToUI() <-chan CoreEvent {
	return eb.coreToUI
}

// Dropped returns how many events were discarded on a full queue.
func (eb *EventBus) Dropped() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return eb.dropped
}

// Close stops accepting events and closes the channel. Safe to call twice.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	close(eb.coreToUI)
}
