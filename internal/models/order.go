package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Customer is the shipping information collected at checkout
type Customer struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	PostalCode string `json:"postalCode"`
}

// OrderItem is a product line of an order, priced at order time
type OrderItem struct {
	ProductID  int    `json:"productId"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// Order represents a customer order with business logic
type Order struct {
	ID            string
	Reference     string
	Username      string
	Customer      Customer
	Items         []OrderItem
	SubtotalCents int64
	TaxCents      int64
	Amount        int64
	Currency      string
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Domain errors
var (
	ErrInvalidAmount           = errors.New("order amount must be positive")
	ErrInvalidCurrency         = errors.New("currency code must be 3 characters")
	ErrInvalidProductName      = errors.New("product name cannot be empty")
	ErrEmptyOrder              = errors.New("order must contain at least one item")
	ErrMissingCustomer         = errors.New("customer first name, last name and postal code are required")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
	ErrOrderNotFound           = errors.New("order not found")
)

// NewOrder creates a pending order for items with validation
func NewOrder(username string, customer Customer, items []Product, taxRatePercent int64, currency string) (*Order, error) {
	if err := validateOrderInput(customer, items, currency); err != nil {
		return nil, err
	}

	summary := Summarize(items, taxRatePercent)
	lines := make([]OrderItem, len(items))
	for i, p := range items {
		lines[i] = OrderItem{ProductID: p.ID, Name: p.Name, PriceCents: p.PriceCents}
	}

	id := uuid.New()
	now := time.Now()

	return &Order{
		ID:            id.String(),
		Reference:     "ORDER-" + strings.ToUpper(id.String()[:8]),
		Username:      username,
		Customer:      customer,
		Items:         lines,
		SubtotalCents: summary.SubtotalCents,
		TaxCents:      summary.TaxCents,
		Amount:        summary.TotalCents,
		Currency:      currency,
		Status:        OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// validateOrderInput validates order creation parameters
func validateOrderInput(customer Customer, items []Product, currency string) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, p := range items {
		if p.Name == "" {
			return ErrInvalidProductName
		}
		if p.PriceCents <= 0 {
			return ErrInvalidAmount
		}
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	if customer.FirstName == "" || customer.LastName == "" || customer.PostalCode == "" {
		return ErrMissingCustomer
	}
	return nil
}

// Complete marks a pending order as completed
func (o *Order) Complete() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot complete order with status %s", ErrInvalidStatusTransition, o.Status)
	}

	o.Status = OrderStatusCompleted
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the order as cancelled. Cancelling twice is allowed.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCompleted {
		return fmt.Errorf("%w: cannot cancel a completed order", ErrInvalidStatusTransition)
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// IsPending returns true if the order is in pending status
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// GetFormattedAmount returns the amount formatted with currency
func (o *Order) GetFormattedAmount() string {
	amountInMajorUnits := float64(o.Amount) / 100.0
	return fmt.Sprintf("%.2f %s", amountInMajorUnits, o.Currency)
}
