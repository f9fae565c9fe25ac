package services

import (
	"errors"
	"strings"

	"github.com/themizzi/swaglabs-e2e/internal/models"
)

// Checkout information errors, in the order the form reports them
var (
	ErrFirstNameRequired  = errors.New("first name is required")
	ErrLastNameRequired   = errors.New("last name is required")
	ErrPostalCodeRequired = errors.New("postal code is required")
)

// ValidateCustomer trims the shipping information and reports the first missing field
func ValidateCustomer(c models.Customer) (models.Customer, error) {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.PostalCode = strings.TrimSpace(c.PostalCode)

	switch {
	case c.FirstName == "":
		return c, ErrFirstNameRequired
	case c.LastName == "":
		return c, ErrLastNameRequired
	case c.PostalCode == "":
		return c, ErrPostalCodeRequired
	}
	return c, nil
}

// CheckoutMessage returns the text shown on the checkout form for a validation error
func CheckoutMessage(err error) string {
	switch {
	case errors.Is(err, ErrFirstNameRequired):
		return "Error: First Name is required"
	case errors.Is(err, ErrLastNameRequired):
		return "Error: Last Name is required"
	case errors.Is(err, ErrPostalCodeRequired):
		return "Error: Postal Code is required"
	default:
		return "Error: " + err.Error()
	}
}
