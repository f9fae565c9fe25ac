package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/config"
	"github.com/themizzi/swaglabs-e2e/internal/models"
)

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db     *sql.DB
	driver string
}

// NewOrderRepository creates a new order repository for a postgres or sqlite connection
func NewOrderRepository(db *sql.DB, driver string) *OrderRepository {
	return &OrderRepository{
		db:     db,
		driver: driver,
	}
}

// rebind rewrites postgres placeholders ($1) into sqlite numbered parameters (?1)
func (r *OrderRepository) rebind(query string) string {
	if r.driver == config.DriverSQLite {
		return strings.ReplaceAll(query, "$", "?")
	}
	return query
}

// CreateOrder creates a new order in the database
func (r *OrderRepository) CreateOrder(order *models.Order) error {
	query := `
		INSERT INTO orders (id, reference, username, customer, items, subtotal, tax, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	customer, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(r.rebind(query),
		order.ID,
		order.Reference,
		order.Username,
		string(customer),
		string(items),
		order.SubtotalCents,
		order.TaxCents,
		order.Amount,
		order.Currency,
		string(order.Status),
		now,
		now,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now

	return nil
}

const selectOrder = `
	SELECT id, reference, username, customer, items, subtotal, tax, amount, currency, status, created_at, updated_at
	FROM orders
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order    models.Order
		customer string
		items    string
		status   string
	)
	err := row.Scan(
		&order.ID,
		&order.Reference,
		&order.Username,
		&customer,
		&items,
		&order.SubtotalCents,
		&order.TaxCents,
		&order.Amount,
		&order.Currency,
		&status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.Status = models.OrderStatus(status)

	if err := json.Unmarshal([]byte(customer), &order.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer of %s: %w", order.Reference, err)
	}
	if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode items of %s: %w", order.Reference, err)
	}
	return &order, nil
}

// GetOrderByReference retrieves an order by its reference
func (r *OrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(r.rebind(selectOrder+"WHERE reference = $1"), reference))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrOrderNotFound, reference)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return order, nil
}

// ListOrders returns the orders placed by username, newest first
func (r *OrderRepository) ListOrders(username string) ([]*models.Order, error) {
	rows, err := r.db.Query(r.rebind(selectOrder+"WHERE username = $1 ORDER BY created_at DESC"), username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateOrderStatus updates the status of an order
func (r *OrderRepository) UpdateOrderStatus(reference, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE reference = $3
	`

	result, err := r.db.Exec(r.rebind(query), status, time.Now().UTC(), reference)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", models.ErrOrderNotFound, reference)
	}

	return nil
}
