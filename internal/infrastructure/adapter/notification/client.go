// Package notification delivers booking confirmations to RabbitMQ without blocking the caller.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/screen-booking/internal/domain/port/core"
	"github.com/amirhossein-jamali/screen-booking/internal/domain/port/messaging"
)

// Defaults applied to a zero Config
const (
	DefaultExchange       = "screen-booking.events"
	DefaultRoutingKey     = "booking.confirmed"
	DefaultQueueSize      = 256
	DefaultPublishTimeout = 5 * time.Second
)

var (
	// ErrDisabled is reported by every send when notifications are switched off
	ErrDisabled = errors.New("notifications are disabled")

	// ErrQueueFull is reported when the outbound queue rejects a message
	ErrQueueFull = errors.New("notification queue is full or closed")
)

// Config configures the RabbitMQ client
type Config struct {
	Enabled        bool
	URL            string
	Exchange       string
	RoutingKey     string
	QueueSize      int
	PublishTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.RoutingKey == "" {
		c.RoutingKey = DefaultRoutingKey
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = DefaultPublishTimeout
	}
	return c
}

// New returns the notification client for cfg. When notifications are disabled or the broker
// cannot be reached it returns an Unavailable client, so callers always get a usable handle.
func New(cfg Config, logger coreport.Logger) messaging.Notifier {
	logger = logger.With(map[string]any{"component": "notification"})
	if !cfg.Enabled {
		logger.Info("Notifications disabled", nil)
		return NewUnavailable(ErrDisabled)
	}

	cfg = cfg.withDefaults()
	pub, err := dialPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		logger.Error("Notification broker unavailable", map[string]any{
			"exchange": cfg.Exchange,
			"error":    err.Error(),
		})
		return NewUnavailable(err)
	}

	logger.Info("Connected to notification broker", map[string]any{
		"exchange":    cfg.Exchange,
		"routing_key": cfg.RoutingKey,
		"queue_size":  cfg.QueueSize,
	})
	return newClient(pub, cfg, logger)
}

// Client queues booking confirmations for asynchronous publishing
type Client struct {
	dispatcher *dispatcher
	publisher  publisher
	routingKey string
	logger     coreport.Logger
}

var _ messaging.Notifier = (*Client)(nil)

func newClient(pub publisher, cfg Config, logger coreport.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		dispatcher: newDispatcher(pub, cfg.QueueSize, cfg.PublishTimeout, logger),
		publisher:  pub,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}
}

// BookingConfirmed queues the message. StatusSent means it was accepted, not yet published.
func (c *Client) BookingConfirmed(_ context.Context, msg messaging.BookingConfirmed) messaging.Result {
	if !c.dispatcher.enqueue(envelope{routingKey: c.routingKey, payload: msg}) {
		return messaging.Result{
			Status: messaging.StatusDropped,
			Err:    fmt.Errorf("booking %s: %w", msg.BookingID, ErrQueueFull),
		}
	}
	return messaging.Result{Status: messaging.StatusSent}
}

// Close drains the queue and closes the broker connection
func (c *Client) Close(ctx context.Context) error {
	drainErr := c.dispatcher.close(ctx)
	if err := c.publisher.Close(); err != nil {
		c.logger.Warn("Failed to close notification broker connection", map[string]any{"error": err.Error()})
	}
	return drainErr
}

// Unavailable is the client handed out when no broker connection exists.
// Every send reports StatusUnavailable with the construction error.
type Unavailable struct {
	Err error
}

var _ messaging.Notifier = (*Unavailable)(nil)

// NewUnavailable creates a client that never sends
func NewUnavailable(err error) *Unavailable {
	return &Unavailable{Err: err}
}

// BookingConfirmed reports that nothing was sent
func (u *Unavailable) BookingConfirmed(context.Context, messaging.BookingConfirmed) messaging.Result {
	return messaging.Result{Status: messaging.StatusUnavailable, Err: u.Err}
}

// Close is a no-op
func (u *Unavailable) Close(context.Context) error {
	return nil
}
