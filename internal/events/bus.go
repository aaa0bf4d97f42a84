package events

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// DefaultSubscriberBuffer is the channel buffer handed to each subscriber.
const DefaultSubscriberBuffer = 64

// Bus is a minimal in-process fan-out for session events. Publish is
// non-blocking: a subscriber that falls behind loses the event (with a
// warning) instead of stalling the publisher, so a slow or broken consumer
// can never delay or fail a session create.
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan SessionCompleted
	closed      bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new consumer and returns its receive channel. The
// channel is closed when the bus shuts down.
func (b *Bus) Subscribe() <-chan SessionCompleted {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan SessionCompleted, DefaultSubscriberBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(event SessionCompleted) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			log.WithFields(log.Fields{
				"sessionId": event.SessionID.Hex(),
				"ownerId":   event.OwnerID.Hex(),
			}).Warn("event bus: subscriber buffer full, dropping session.completed event")
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
