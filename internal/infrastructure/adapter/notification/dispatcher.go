package notification

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
)

// envelope is one queued message
type envelope struct {
	routingKey string
	payload    any
}

// dispatcher owns a bounded queue drained by a single worker goroutine.
// Enqueue never blocks; a full or closed queue rejects the message.
type dispatcher struct {
	publisher      publisher
	logger         coreport.Logger
	publishTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

func newDispatcher(pub publisher, queueSize int, publishTimeout time.Duration, logger coreport.Logger) *dispatcher {
	d := &dispatcher{
		publisher:      pub,
		logger:         logger,
		publishTimeout: publishTimeout,
		queue:          make(chan envelope, queueSize),
		done:           make(chan struct{}),
	}
	go d.run()
	return d
}

// enqueue reports whether the message was accepted
func (d *dispatcher) enqueue(msg envelope) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}
	select {
	case d.queue <- msg:
		return true
	default:
		return false
	}
}

func (d *dispatcher) run() {
	defer close(d.done)

	d.logger.Info("Notification worker started", nil)
	for msg := range d.queue {
		d.publish(msg)
	}
	d.logger.Info("Notification worker stopped", nil)
}

func (d *dispatcher) publish(msg envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
	defer cancel()

	if err := d.publisher.PublishJSON(ctx, msg.routingKey, msg.payload); err != nil {
		d.logger.Error("Failed to publish notification", map[string]any{
			"routing_key": msg.routingKey,
			"error":       err.Error(),
		})
		return
	}
	d.logger.Debug("Notification published", map[string]any{"routing_key": msg.routingKey})
}

// close stops accepting messages and waits until the queue is drained or ctx ends
func (d *dispatcher) close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		d.logger.Warn("Notification queue not drained before shutdown", map[string]any{
			"pending": len(d.queue),
		})
		return ctx.Err()
	}
}
