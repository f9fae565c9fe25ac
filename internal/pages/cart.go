package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/locator"
)

// CartPage is the shopping cart.
type CartPage struct {
	base
}

// NewCartPage binds a CartPage to page.
func NewCartPage(page playwright.Page, opts Options) *CartPage {
	return &CartPage{base: newBase("CartPage", "/cart.html", "list", page, opts,
		locator.Definition{Name: "list", Query: locator.TestID("cart-list")},
		locator.Definition{Name: "title", Query: locator.TestID("title")},
		locator.Definition{Name: "items", Query: itemRow},
		locator.Definition{Name: "item-names", Query: itemName},
		locator.Definition{Name: "item-prices", Query: itemPrice},
		locator.Definition{Name: "item-quantities", Query: locator.TestID("item-quantity")},
		locator.Definition{Name: "remove-buttons", Query: locator.CSS("button[data-test^='remove']")},
		locator.Definition{Name: "checkout", Query: locator.TestID("checkout")},
		locator.Definition{Name: "continue-shopping", Query: locator.TestID("continue-shopping")},
	)}
}

// GetCartItemCount returns the number of rows in the cart.
func (p *CartPage) GetCartItemCount() (int, error) {
	if err := p.waitReady(); err != nil {
		return 0, err
	}
	return p.el("items").Count()
}

// GetCartItemNames returns item names in cart order.
func (p *CartPage) GetCartItemNames() ([]string, error) {
	if err := p.waitReady(); err != nil {
		return nil, err
	}
	return p.el("item-names").Texts()
}

// GetCartItemPrices returns item prices in cart order.
func (p *CartPage) GetCartItemPrices() ([]float64, error) {
	if err := p.waitReady(); err != nil {
		return nil, err
	}
	texts, err := p.el("item-prices").Texts()
	if err != nil {
		return nil, err
	}
	prices, err := ParsePrices(texts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.op("GetCartItemPrices"), err)
	}
	return prices, nil
}

// RemoveItem clicks remove in the row of the named item.
func (p *CartPage) RemoveItem(name string) error {
	op := p.op("RemoveItem")
	if err := p.waitReady(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	row := p.el("items").WhereChildText(itemName, name)
	n, err := row.Count()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch {
	case n == 0:
		return errs.Newf(errs.NotFound, op, "cart item %q", name)
	case n > 1:
		return errs.Newf(errs.AmbiguousMatch, op, "cart item %q matched %d rows", name, n)
	}
	if err := row.Child("remove", locator.CSS("button[data-test^='remove']")).Click(); err != nil {
		return fmt.Errorf("%s(%q): %w", op, name, err)
	}
	return nil
}

// RemoveFirstItem clicks the first remove button in the cart.
func (p *CartPage) RemoveFirstItem() error {
	if err := p.el("remove-buttons").First().Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("RemoveFirstItem"), err)
	}
	return nil
}

// ProceedToCheckout clicks the checkout button.
func (p *CartPage) ProceedToCheckout() error {
	if err := p.el("checkout").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("ProceedToCheckout"), err)
	}
	return nil
}

// ContinueShopping returns to the inventory.
func (p *CartPage) ContinueShopping() error {
	if err := p.el("continue-shopping").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("ContinueShopping"), err)
	}
	return nil
}

// IsCartEmpty reports whether the cart has no rows.
func (p *CartPage) IsCartEmpty() (bool, error) {
	n, err := p.GetCartItemCount()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
