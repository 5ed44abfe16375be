package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/clients"
	"github.com/tablescape/tablescape-orders-service/internal/config"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/metrics"
	"github.com/tablescape/tablescape-orders-service/internal/models"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
	"github.com/tablescape/tablescape-orders-service/internal/repository"
)

// EventPublisher publishes order and quote lifecycle events.
type EventPublisher interface {
	PublishQuoteComputed(ctx context.Context, quote *models.Quote) error
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderRepriced(ctx context.Context, order *models.Order, previousGrandTotal int64) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error
}

// OrderService handles quote and order business logic.
type OrderService struct {
	orderRepo      repository.OrderRepository
	quoteCache     repository.QuoteCache
	distanceClient clients.DistanceClient
	taxClient      clients.TaxRateClient
	eventPublisher EventPublisher
	calculator     *pricing.OrderTotalsCalculator
	config         *config.Config
	logger         *logging.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	quoteCache repository.QuoteCache,
	distanceClient clients.DistanceClient,
	taxClient clients.TaxRateClient,
	eventPublisher EventPublisher,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		quoteCache:     quoteCache,
		distanceClient: distanceClient,
		taxClient:      taxClient,
		eventPublisher: eventPublisher,
		calculator:     pricing.NewOrderTotalsCalculator(),
		config:         cfg,
		logger:         logging.NewLogger("order-service"),
	}
}

// ComputeQuote validates and prices a quote request. Identical normalized
// inputs hash to the same cache key, so repeat requests are served from
// Redis without recomputation.
func (s *OrderService) ComputeQuote(ctx context.Context, req *models.QuoteRequest) (*models.Quote, error) {
	s.logger.Info("Computing quote", logging.Fields{
		"host_id":       req.HostID,
		"guest_count":   req.GuestCount,
		"service_count": len(req.Services),
	})

	if err := ValidateQuoteRequest(req); err != nil {
		return nil, err
	}

	s.resolveDistances(ctx, req)

	input, err := NormalizeQuoteRequest(req, s.config.Pricing)
	if err != nil {
		return nil, err
	}

	s.resolveTaxRate(ctx, req, &input)

	key, err := quoteHash(&input)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableQuoteCaching {
		cached, err := s.quoteCache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Quote cache lookup failed", logging.Fields{"error": err.Error()})
		} else if cached != nil {
			s.logger.Debug("Quote served from cache", logging.Fields{"quote_id": cached.ID})
			metrics.QuotesComputed.WithLabelValues("cache_hit").Inc()
			return cached, nil
		}
	}

	start := time.Now()
	totals, err := s.calculator.Compute(input)
	metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QuotesComputed.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.QuotesComputed.WithLabelValues("success").Inc()
	s.recordDeliveryOutcomes(totals)

	quote := &models.Quote{
		ID:         "qt_" + uuid.New().String(),
		HostID:     req.HostID,
		Totals:     *totals,
		ComputedAt: time.Now().UTC(),
	}

	if s.config.Features.EnableQuoteCaching {
		if err := s.quoteCache.Set(ctx, key, quote); err != nil {
			s.logger.Warn("Failed to cache quote", logging.Fields{
				"quote_id": quote.ID,
				"error":    err.Error(),
			})
		}
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishQuoteComputed(ctx, quote); err != nil {
			s.logger.Error("Failed to publish quote computed event", logging.Fields{
				"quote_id": quote.ID,
				"error":    err.Error(),
			})
		}
	}

	return quote, nil
}

// CreateOrder prices the request and persists the result as a pending order.
// The normalized input snapshot is stored alongside the totals so the order
// can be repriced later without the original request.
func (s *OrderService) CreateOrder(ctx context.Context, req *models.QuoteRequest) (*models.Order, error) {
	s.logger.Info("Creating order", logging.Fields{
		"host_id":       req.HostID,
		"service_count": len(req.Services),
	})

	if err := ValidateQuoteRequest(req); err != nil {
		return nil, err
	}

	s.resolveDistances(ctx, req)

	input, err := NormalizeQuoteRequest(req, s.config.Pricing)
	if err != nil {
		return nil, err
	}

	s.resolveTaxRate(ctx, req, &input)

	totals, err := s.calculator.Compute(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:        "ord_" + uuid.New().String(),
		HostID:    req.HostID,
		Status:    models.OrderStatusPending,
		Input:     input,
		Totals:    *totals,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", logging.Fields{
			"host_id": req.HostID,
			"error":   err.Error(),
		})
		return nil, err
	}

	metrics.OrdersCreated.Inc()

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("Failed to publish order created event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, orderID)
}

// ListOrders retrieves orders matching the filter.
func (s *OrderService) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	if err := ValidateOrderListFilter(filter); err != nil {
		return nil, 0, err
	}
	return s.orderRepo.List(ctx, filter)
}

// RepriceOrder recomputes an order's totals from its stored input snapshot.
// Cancelled orders are not repriced.
func (s *OrderService) RepriceOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == models.OrderStatusCancelled {
		return nil, apperrors.NewValidationError("status", "cancelled orders cannot be repriced")
	}

	previousGrandTotal := order.Totals.GrandTotal.Amount

	totals, err := s.calculator.Compute(order.Input)
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateTotals(ctx, orderID, totals)
	if err != nil {
		s.logger.Error("Failed to update order totals", logging.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}

	s.logger.Info("Order repriced", logging.Fields{
		"order_id":       orderID,
		"previous_total": previousGrandTotal,
		"new_total":      updated.Totals.GrandTotal.Amount,
	})

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderRepriced(ctx, updated, previousGrandTotal); err != nil {
			s.logger.Error("Failed to publish order repriced event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	return updated, nil
}

// CancelOrder cancels a pending or confirmed order.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, reason string) (*models.Order, error) {
	if err := ValidateCancellationReason(reason); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanCancel() {
		return nil, apperrors.NewValidationError("status", "order cannot be cancelled in status: "+string(order.Status))
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled", logging.Fields{
		"order_id": orderID,
		"reason":   reason,
	})

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderCancelled(ctx, updated, reason); err != nil {
			s.logger.Error("Failed to publish order cancelled event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	return updated, nil
}

// resolveDistances fills in missing vendor-to-event distances for services
// that carry delivery ranges. Lookup failures leave the distance unset and
// the service falls through to no delivery resolution.
func (s *OrderService) resolveDistances(ctx context.Context, req *models.QuoteRequest) {
	if !s.config.Features.EnableDistanceLookup || req.EventAddress == "" {
		return
	}

	for i := range req.Services {
		svc := &req.Services[i]
		if svc.DistanceMiles != nil || len(svc.DeliveryRanges) == 0 || svc.VendorAddress == "" {
			continue
		}

		miles, err := s.distanceClient.GetDistanceMiles(ctx, svc.VendorAddress, req.EventAddress)
		if err != nil {
			s.logger.Warn("Distance lookup failed", logging.Fields{
				"service_id": svc.ID,
				"error":      err.Error(),
			})
			continue
		}
		svc.DistanceMiles = &miles
	}
}

// resolveTaxRate overrides the default tax rate with a jurisdiction lookup
// when the caller supplied no explicit rate.
func (s *OrderService) resolveTaxRate(ctx context.Context, req *models.QuoteRequest, input *pricing.OrderInput) {
	if !s.config.Features.EnableTaxLookup || req.TaxRatePercent != nil || req.EventAddress == "" {
		return
	}

	rateBP, err := s.taxClient.GetRateBasisPoints(ctx, req.EventAddress)
	if err != nil {
		s.logger.Warn("Tax rate lookup failed", logging.Fields{
			"event_address": req.EventAddress,
			"error":         err.Error(),
		})
		return
	}
	input.TaxRateBP = rateBP
}

func (s *OrderService) recordDeliveryOutcomes(totals *pricing.OrderTotals) {
	for _, line := range totals.ServiceLines {
		if line.Delivery != nil && !line.Delivery.Eligible {
			metrics.DeliveryIneligible.WithLabelValues(string(line.Delivery.Reason)).Inc()
		}
	}
}

// quoteHash derives a deterministic cache key from a normalized input.
// Selection maps marshal with sorted keys, so equal inputs always hash
// equal.
func quoteHash(input *pricing.OrderInput) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
