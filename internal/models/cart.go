package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CartCookie is the cookie holding cart contents
const CartCookie = "cart-contents"

// Cart is an ordered list of product ids, each present at most once
type Cart []int

// ParseCart decodes a cart cookie value such as "4-0-1". Malformed or
// repeated entries are dropped.
func ParseCart(value string) Cart {
	if value == "" {
		return Cart{}
	}
	seen := make(map[int]bool)
	cart := Cart{}
	for _, part := range strings.Split(value, "-") {
		id, err := strconv.Atoi(part)
		if err != nil || id < 0 || seen[id] {
			continue
		}
		seen[id] = true
		cart = append(cart, id)
	}
	return cart
}

// String encodes the cart as a cookie value
func (c Cart) String() string {
	parts := make([]string, len(c))
	for i, id := range c {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "-")
}

// Contains returns true if the product is in the cart
func (c Cart) Contains(id int) bool {
	for _, v := range c {
		if v == id {
			return true
		}
	}
	return false
}

// Add returns the cart with id appended unless already present
func (c Cart) Add(id int) Cart {
	if c.Contains(id) {
		return c
	}
	return append(c, id)
}

// Remove returns the cart without id
func (c Cart) Remove(id int) Cart {
	out := make(Cart, 0, len(c))
	for _, v := range c {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Summary is the price breakdown shown on the checkout overview
type Summary struct {
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Summarize totals items and applies taxRatePercent, rounding tax half up to
// the nearest cent.
func Summarize(items []Product, taxRatePercent int64) Summary {
	var s Summary
	for _, p := range items {
		s.SubtotalCents += p.PriceCents
	}
	s.TaxCents = (s.SubtotalCents*taxRatePercent + 50) / 100
	s.TotalCents = s.SubtotalCents + s.TaxCents
	return s
}

// FormatCents renders cents as "$D.CC"
func FormatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
