package repository

import (
	"context"

	"github.com/tablescape/tablescape-orders-service/internal/models"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
)

// OrderRepository persists priced orders together with their normalized
// input snapshots.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
	UpdateTotals(ctx context.Context, id string, totals *pricing.OrderTotals) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// QuoteCache stores computed quotes keyed by a deterministic hash of their
// normalized input, so identical requests skip recomputation.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*models.Quote, error)
	Set(ctx context.Context, key string, quote *models.Quote) error
	Delete(ctx context.Context, key string) error
}
