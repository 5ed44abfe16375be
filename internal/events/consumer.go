package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/service"
)

// BookingEventType represents the type of booking event.
type BookingEventType string

const (
	BookingEventUpdated   BookingEventType = "booking.updated"
	BookingEventCancelled BookingEventType = "booking.cancelled"
)

// BookingEvent represents a booking change published by the bookings service.
// Menu or guest-count changes on a booking invalidate the priced totals of
// any order attached to it.
type BookingEvent struct {
	ID        string           `json:"id"`
	Type      BookingEventType `json:"type"`
	BookingID string           `json:"booking_id"`
	OrderID   string           `json:"order_id"`
	Data      json.RawMessage  `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// KafkaConsumer consumes booking events from Kafka.
type KafkaConsumer struct {
	reader       *kafka.Reader
	orderService *service.OrderService
	logger       *logging.Logger
	stopCh       chan struct{}
}

// NewKafkaConsumer creates a new Kafka-based event consumer.
func NewKafkaConsumer(cfg config.KafkaConfig, orderService *service.OrderService, logger *logging.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.BookingsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:       reader,
		orderService: orderService,
		logger:       logger,
		stopCh:       make(chan struct{}),
	}
}

// Start begins consuming events.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting Kafka consumer", nil)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Kafka consumer stopped", nil)
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to read message", logging.Fields{"error": err.Error()})
				continue
			}

			c.handleMessage(ctx, msg)
		}
	}
}

// Stop stops the consumer.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Failed to unmarshal event", logging.Fields{"error": err.Error()})
		return
	}

	switch event.Type {
	case BookingEventUpdated:
		c.handleBookingUpdated(ctx, &event)
	case BookingEventCancelled:
		c.handleBookingCancelled(ctx, &event)
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
	}
}

func (c *KafkaConsumer) handleBookingUpdated(ctx context.Context, event *BookingEvent) {
	if event.OrderID == "" {
		return
	}

	c.logger.Info("Handling booking updated event", logging.Fields{
		"booking_id": event.BookingID,
		"order_id":   event.OrderID,
	})

	_, err := c.orderService.RepriceOrder(ctx, event.OrderID)
	if err != nil {
		c.logger.Error("Failed to reprice order", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}

func (c *KafkaConsumer) handleBookingCancelled(ctx context.Context, event *BookingEvent) {
	if event.OrderID == "" {
		return
	}

	c.logger.Info("Handling booking cancelled event", logging.Fields{
		"booking_id": event.BookingID,
		"order_id":   event.OrderID,
	})

	_, err := c.orderService.CancelOrder(ctx, event.OrderID, "Booking cancelled")
	if err != nil {
		c.logger.Error("Failed to cancel order", logging.Fields{
			"order_id": event.OrderID,
			"error":    err.Error(),
		})
	}
}
