package models

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Account behaviors
const (
	BehaviorStandard = "standard"
	BehaviorLocked   = "locked"
	BehaviorProblem  = "problem"
	BehaviorGlitch   = "glitch"
)

// Product is an item for sale
type Product struct {
	ID          int    `yaml:"id" json:"id"`
	Slug        string `yaml:"slug" json:"slug"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	PriceCents  int64  `yaml:"price_cents" json:"priceCents"`
	Image       string `yaml:"image" json:"image"`
}

// FormattedPrice returns the price as displayed in the storefront
func (p Product) FormattedPrice() string {
	return FormatCents(p.PriceCents)
}

// Account is a seeded storefront login
type Account struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Behavior string `yaml:"behavior"`
}

// IsLocked returns true if the account may not log in
func (a Account) IsLocked() bool {
	return a.Behavior == BehaviorLocked
}

// Catalog holds products and accounts
type Catalog struct {
	Currency       string    `yaml:"currency"`
	TaxRatePercent int64     `yaml:"tax_rate_percent"`
	Products       []Product `yaml:"products"`
	Accounts       []Account `yaml:"accounts"`

	byID       map[int]Product
	byUsername map[string]Account
}

// Catalog errors
var (
	ErrProductNotFound = errors.New("product not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrEmptyCatalog    = errors.New("catalog has no products")
)

// LoadCatalog parses the embedded catalog
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog parses and validates a YAML catalog. Products are kept in name
// order, which is the storefront's default listing order.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Products) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(c.Currency) != 3 {
		return nil, ErrInvalidCurrency
	}

	c.byID = make(map[int]Product, len(c.Products))
	for _, p := range c.Products {
		if p.Name == "" {
			return nil, fmt.Errorf("product %d: %w", p.ID, ErrInvalidProductName)
		}
		if p.PriceCents <= 0 {
			return nil, fmt.Errorf("product %q: %w", p.Name, ErrInvalidAmount)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %d", p.ID)
		}
		c.byID[p.ID] = p
	}
	sort.SliceStable(c.Products, func(i, j int) bool { return c.Products[i].Name < c.Products[j].Name })

	c.byUsername = make(map[string]Account, len(c.Accounts))
	for _, a := range c.Accounts {
		switch a.Behavior {
		case BehaviorStandard, BehaviorLocked, BehaviorProblem, BehaviorGlitch:
		default:
			return nil, fmt.Errorf("account %q: unknown behavior %q", a.Username, a.Behavior)
		}
		c.byUsername[a.Username] = a
	}

	return &c, nil
}

// Product returns the product with the given id
func (c *Catalog) Product(id int) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// Account returns the account with the given username
func (c *Catalog) Account(username string) (Account, error) {
	a, ok := c.byUsername[username]
	if !ok {
		return Account{}, fmt.Errorf("%w: %q", ErrAccountNotFound, username)
	}
	return a, nil
}

// Items resolves a cart into catalog products, in cart order
func (c *Catalog) Items(cart Cart) []Product {
	out := make([]Product, 0, len(cart))
	for _, id := range cart {
		if p, ok := c.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
