package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/tablescape/tablescape-orders-service/internal/apperrors"
	"github.com/tablescape/tablescape-orders-service/internal/logging"
	"github.com/tablescape/tablescape-orders-service/internal/models"
	"github.com/tablescape/tablescape-orders-service/internal/pricing"
)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db:     db,
		logger: logging.NewLogger("order-repository"),
	}
}

// Create inserts a priced order with its input snapshot and totals.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.logger.Debug("Creating order", logging.Fields{"order_id": order.ID, "host_id": order.HostID})

	inputJSON, err := json.Marshal(order.Input)
	if err != nil {
		return err
	}
	totalsJSON, err := json.Marshal(order.Totals)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			id, host_id, status, input, totals,
			currency, grand_total_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.HostID,
		order.Status,
		inputJSON,
		totalsJSON,
		order.Totals.Currency,
		order.Totals.GrandTotal.Amount,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	r.logger.Info("Order created", logging.Fields{
		"order_id":    order.ID,
		"host_id":     order.HostID,
		"grand_total": order.Totals.GrandTotal.Amount,
	})
	return nil
}

// GetByID retrieves an order by its unique identifier.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT id, host_id, status, input, totals, created_at, updated_at
		FROM orders
		WHERE id = $1 AND deleted_at IS NULL
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch order", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return order, nil
}

// List retrieves orders matching the filter, newest first.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	r.logger.Debug("Listing orders", logging.Fields{
		"host_id": filter.HostID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	baseQuery := ` FROM orders WHERE deleted_at IS NULL`
	args := make([]interface{}, 0, 4)

	if filter.HostID != "" {
		args = append(args, filter.HostID)
		baseQuery += ` AND host_id = ` + placeholder(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += ` AND status = ` + placeholder(len(args))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit)
	limitIdx := len(args)
	args = append(args, filter.Offset)
	offsetIdx := len(args)

	selectQuery := `
		SELECT id, host_id, status, input, totals, created_at, updated_at
	` + baseQuery + ` ORDER BY created_at DESC LIMIT ` + placeholder(limitIdx) + ` OFFSET ` + placeholder(offsetIdx)

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateTotals replaces an order's computed totals after a reprice.
func (r *PostgresOrderRepository) UpdateTotals(ctx context.Context, id string, totals *pricing.OrderTotals) (*models.Order, error) {
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE orders
		SET totals = $2, grand_total_cents = $3, updated_at = $4
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`

	var returnedID string
	err = r.db.QueryRowContext(ctx, query, id, totalsJSON, totals.GrandTotal.Amount, time.Now()).Scan(&returnedID)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update order totals", logging.Fields{
			"order_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}

	r.logger.Info("Order repriced", logging.Fields{
		"order_id":    id,
		"grand_total": totals.GrandTotal.Amount,
	})
	return r.GetByID(ctx, id)
}

// UpdateStatus moves an order to a new status.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRowContext(ctx, query, id, status, time.Now()).Scan(&returnedID)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Order status updated", logging.Fields{
		"order_id":   id,
		"new_status": status,
	})
	return r.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var order models.Order
	var inputJSON, totalsJSON []byte

	err := row.Scan(
		&order.ID,
		&order.HostID,
		&order.Status,
		&inputJSON,
		&totalsJSON,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(inputJSON, &order.Input); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(totalsJSON, &order.Totals); err != nil {
		return nil, err
	}
	return &order, nil
}

// placeholder builds a positional query parameter like "$3".
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
