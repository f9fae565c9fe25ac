package services

import (
	"fmt"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"go.uber.org/zap"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(order *models.Order) error
	GetOrderByReference(reference string) (*models.Order, error)
	UpdateOrderStatus(reference, status string) error
	ListOrders(username string) ([]*models.Order, error)
}

// OrderService handles order business logic
type OrderService interface {
	CreateOrder(username string, customer models.Customer, cart models.Cart) (*models.Order, error)
	GetOrderByReference(reference string) (*models.Order, error)
	ListOrders(username string) ([]*models.Order, error)
	CompleteOrder(reference string) (*models.Order, error)
	CancelOrder(reference string) (*models.Order, error)
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo OrderRepository
	catalog   *models.Catalog
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository, catalog *models.Catalog, logger *zap.Logger) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
		catalog:   catalog,
		logger:    logger,
	}
}

// CreateOrder prices the cart against the catalog and persists a pending order
func (s *OrderServiceImpl) CreateOrder(username string, customer models.Customer, cart models.Cart) (*models.Order, error) {
	// Create order using domain factory method
	items := s.catalog.Items(cart)
	order, err := models.NewOrder(username, customer, items, s.catalog.TaxRatePercent, s.catalog.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	// Persist to database
	if err := s.orderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created",
		zap.String("reference", order.Reference),
		zap.String("username", username),
		zap.Int("items", len(order.Items)),
		zap.Int64("amount", order.Amount))
	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (s *OrderServiceImpl) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrders returns the orders placed by username
func (s *OrderServiceImpl) ListOrders(username string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListOrders(username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// CompleteOrder moves a pending order to completed
func (s *OrderServiceImpl) CompleteOrder(reference string) (*models.Order, error) {
	return s.transition(reference, (*models.Order).Complete)
}

// CancelOrder cancels an order that has not been completed
func (s *OrderServiceImpl) CancelOrder(reference string) (*models.Order, error) {
	return s.transition(reference, (*models.Order).Cancel)
}

func (s *OrderServiceImpl) transition(reference string, apply func(*models.Order) error) (*models.Order, error) {
	// Get the order
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	// Use domain methods to transition state
	if err := apply(order); err != nil {
		return nil, err
	}

	// Update in database
	if err := s.orderRepo.UpdateOrderStatus(reference, string(order.Status)); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("order status changed",
		zap.String("reference", reference),
		zap.String("status", string(order.Status)))
	return order, nil
}
