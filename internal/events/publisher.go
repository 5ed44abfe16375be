package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/models"
)

// EventType represents the type of order event.
type EventType string

const (
	EventTypeQuoteComputed  EventType = "quote.computed"
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderRepriced  EventType = "order.repriced"
	EventTypeOrderCancelled EventType = "order.cancelled"
)

// OrderEvent is the envelope for order and quote events.
type OrderEvent struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	OrderID   string          `json:"order_id,omitempty"`
	HostID    string          `json:"host_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// KafkaPublisher publishes order and quote events to Kafka.
type KafkaPublisher struct {
	orderWriter *kafka.Writer
	quoteWriter *kafka.Writer
	logger      *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			WriteTimeout: 10 * time.Second,
			RequiredAcks: kafka.RequireOne,
		}
	}

	return &KafkaPublisher{
		orderWriter: newWriter(cfg.OrdersTopic),
		quoteWriter: newWriter(cfg.QuotesTopic),
		logger:      logger,
	}
}

// PublishQuoteComputed publishes a quote computed event.
func (p *KafkaPublisher) PublishQuoteComputed(ctx context.Context, quote *models.Quote) error {
	p.logger.Debug("Publishing quote computed event", logging.Fields{
		"quote_id": quote.ID,
	})

	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeQuoteComputed, "", quote.HostID, data)
	return p.publish(ctx, p.quoteWriter, event)
}

// PublishOrderCreated publishes an order created event.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	p.logger.Debug("Publishing order created event", logging.Fields{
		"order_id": order.ID,
	})

	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeOrderCreated, order.ID, order.HostID, data)
	return p.publish(ctx, p.orderWriter, event)
}

// PublishOrderRepriced publishes an order repriced event carrying both
// the previous and the recomputed grand totals.
func (p *KafkaPublisher) PublishOrderRepriced(ctx context.Context, order *models.Order, previousGrandTotal int64) error {
	p.logger.Debug("Publishing order repriced event", logging.Fields{
		"order_id": order.ID,
	})

	payload := struct {
		Order              *models.Order `json:"order"`
		PreviousGrandTotal int64         `json:"previous_grand_total_cents"`
		NewGrandTotal      int64         `json:"new_grand_total_cents"`
	}{
		Order:              order,
		PreviousGrandTotal: previousGrandTotal,
		NewGrandTotal:      order.Totals.GrandTotal.Amount,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeOrderRepriced, order.ID, order.HostID, data)
	return p.publish(ctx, p.orderWriter, event)
}

// PublishOrderCancelled publishes an order cancellation event.
func (p *KafkaPublisher) PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error {
	p.logger.Debug("Publishing order cancelled event", logging.Fields{
		"order_id": order.ID,
		"reason":   reason,
	})

	payload := struct {
		Order  *models.Order `json:"order"`
		Reason string        `json:"reason"`
	}{
		Order:  order,
		Reason: reason,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	event := newEvent(EventTypeOrderCancelled, order.ID, order.HostID, data)
	return p.publish(ctx, p.orderWriter, event)
}

func newEvent(eventType EventType, orderID, hostID string, data []byte) *OrderEvent {
	return &OrderEvent{
		ID:        "evt_" + uuid.New().String(),
		Type:      eventType,
		OrderID:   orderID,
		HostID:    hostID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, writer *kafka.Writer, event *OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.OrderID
	if key == "" {
		key = event.HostID
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event", logging.Fields{
			"event_id":   event.ID,
			"event_type": event.Type,
			"order_id":   event.OrderID,
			"error":      err.Error(),
		})
		return err
	}

	p.logger.Info("Event published", logging.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
		"order_id":   event.OrderID,
	})

	return nil
}

// Close closes both Kafka writers.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher", nil)
	if err := p.orderWriter.Close(); err != nil {
		return err
	}
	return p.quoteWriter.Close()
}
