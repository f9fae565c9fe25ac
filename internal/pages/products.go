package pages

import (
	"fmt"
	"strconv"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/locator"
)

// SortOption is a value of the product sort select.
type SortOption string

// Sort options
const (
	SortNameAZ       SortOption = "az"
	SortNameZA       SortOption = "za"
	SortPriceLowHigh SortOption = "lohi"
	SortPriceHighLow SortOption = "hilo"
)

// SortOptions lists the accepted sort values.
var SortOptions = []SortOption{SortNameAZ, SortNameZA, SortPriceLowHigh, SortPriceHighLow}

// Valid reports whether o is one of SortOptions.
func (o SortOption) Valid() bool {
	switch o {
	case SortNameAZ, SortNameZA, SortPriceLowHigh, SortPriceHighLow:
		return true
	}
	return false
}

// Rows on the inventory, cart and overview screens share these hooks.
var (
	itemRow   = locator.TestID("inventory-item")
	itemName  = locator.TestID("inventory-item-name")
	itemPrice = locator.TestID("inventory-item-price")
)

// ProductsPage is the inventory listing.
type ProductsPage struct {
	base
}

// NewProductsPage binds a ProductsPage to page.
func NewProductsPage(page playwright.Page, opts Options) *ProductsPage {
	return &ProductsPage{base: newBase("ProductsPage", "/inventory.html", "list", page, opts,
		locator.Definition{Name: "list", Query: locator.TestID("inventory-list")},
		locator.Definition{Name: "title", Query: locator.TestID("title")},
		locator.Definition{Name: "items", Query: itemRow},
		locator.Definition{Name: "item-names", Query: itemName},
		locator.Definition{Name: "item-prices", Query: itemPrice},
		locator.Definition{Name: "item-images", Query: locator.CSS(".inventory_item_img img")},
		locator.Definition{Name: "add-buttons", Query: locator.CSS("button[data-test^='add-to-cart']")},
		locator.Definition{Name: "remove-buttons", Query: locator.CSS("button[data-test^='remove']")},
		locator.Definition{Name: "cart-badge", Query: locator.TestID("shopping-cart-badge")},
		locator.Definition{Name: "cart-link", Query: locator.TestID("shopping-cart-link")},
		locator.Definition{Name: "sort", Query: locator.TestID("product-sort-container")},
		locator.Definition{Name: "menu-button", Query: locator.CSS("#react-burger-menu-btn")},
		locator.Definition{Name: "logout", Query: locator.TestID("logout-sidebar-link")},
		locator.Definition{Name: "reset", Query: locator.TestID("reset-sidebar-link")},
		locator.Definition{Name: "menu-close", Query: locator.CSS("#react-burger-cross-btn")},
	)}
}

// GetProductCount returns the number of product rows.
func (p *ProductsPage) GetProductCount() (int, error) {
	if err := p.waitReady(); err != nil {
		return 0, err
	}
	return p.el("items").Count()
}

// row returns the single product row whose name is exactly name.
func (p *ProductsPage) row(op, name string) (*locator.Element, error) {
	if err := p.waitReady(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.op(op), err)
	}
	row := p.el("items").WhereChildText(itemName, name)
	n, err := row.Count()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.op(op), err)
	}
	switch {
	case n == 0:
		return nil, errs.Newf(errs.NotFound, p.op(op), "product %q", name)
	case n > 1:
		return nil, errs.Newf(errs.AmbiguousMatch, p.op(op), "product %q matched %d rows", name, n)
	}
	return row, nil
}

// AddProductToCart clicks the add button in the row of the named product.
func (p *ProductsPage) AddProductToCart(name string) error {
	row, err := p.row("AddProductToCart", name)
	if err != nil {
		return err
	}
	if err := row.Child("add", locator.CSS("button[data-test^='add-to-cart']")).Click(); err != nil {
		return fmt.Errorf("%s(%q): %w", p.op("AddProductToCart"), name, err)
	}
	return nil
}

// RemoveProductFromCart clicks the remove button in the row of the named product.
func (p *ProductsPage) RemoveProductFromCart(name string) error {
	row, err := p.row("RemoveProductFromCart", name)
	if err != nil {
		return err
	}
	if err := row.Child("remove", locator.CSS("button[data-test^='remove']")).Click(); err != nil {
		return fmt.Errorf("%s(%q): %w", p.op("RemoveProductFromCart"), name, err)
	}
	return nil
}

// AddFirstProductToCart clicks the first add button on the page.
func (p *ProductsPage) AddFirstProductToCart() error {
	if err := p.el("add-buttons").First().Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("AddFirstProductToCart"), err)
	}
	return nil
}

// GetProductPrice returns the displayed price of the named product.
func (p *ProductsPage) GetProductPrice(name string) (float64, error) {
	row, err := p.row("GetProductPrice", name)
	if err != nil {
		return 0, err
	}
	text, err := row.Child("price", itemPrice).Text()
	if err != nil {
		return 0, fmt.Errorf("%s(%q): %w", p.op("GetProductPrice"), name, err)
	}
	price, err := ParsePrice(text)
	if err != nil {
		return 0, fmt.Errorf("%s(%q): %w", p.op("GetProductPrice"), name, err)
	}
	return price, nil
}

// GetCartCount returns the cart badge number, or 0 when no badge is shown.
func (p *ProductsPage) GetCartCount() (int, error) {
	badge := p.el("cart-badge")
	visible, err := badge.IsVisible()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.op("GetCartCount"), err)
	}
	if !visible {
		return 0, nil
	}
	text, err := badge.Text()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.op("GetCartCount"), err)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%s: badge text %q is not a number", p.op("GetCartCount"), text)
	}
	return n, nil
}

// GoToCart follows the cart link.
func (p *ProductsPage) GoToCart() error {
	if err := p.el("cart-link").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("GoToCart"), err)
	}
	return nil
}

// SortProducts applies a sort option. Values outside SortOptions are rejected
// before the page is touched.
func (p *ProductsPage) SortProducts(option SortOption) error {
	if !option.Valid() {
		return errs.Newf(errs.InvalidOption, p.op("SortProducts"), "sort option %q", string(option))
	}
	if err := p.el("sort").SelectOption(string(option)); err != nil {
		return fmt.Errorf("%s(%q): %w", p.op("SortProducts"), option, err)
	}
	return nil
}

// GetSortOption returns the currently selected sort value.
func (p *ProductsPage) GetSortOption() (SortOption, error) {
	v, err := p.el("sort").InputValue()
	return SortOption(v), err
}

// GetAllProductNames returns product names in display order.
func (p *ProductsPage) GetAllProductNames() ([]string, error) {
	if err := p.waitReady(); err != nil {
		return nil, err
	}
	return p.el("item-names").Texts()
}

// GetAllProductPrices returns product prices in display order.
func (p *ProductsPage) GetAllProductPrices() ([]float64, error) {
	if err := p.waitReady(); err != nil {
		return nil, err
	}
	texts, err := p.el("item-prices").Texts()
	if err != nil {
		return nil, err
	}
	prices, err := ParsePrices(texts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.op("GetAllProductPrices"), err)
	}
	return prices, nil
}

// GetImageSources returns the src of every product image in display order.
func (p *ProductsPage) GetImageSources() ([]string, error) {
	if err := p.waitReady(); err != nil {
		return nil, err
	}
	images := p.el("item-images")
	n, err := images.Count()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		src, err := images.Nth(i).Attribute("src")
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// GetTitle returns the page heading.
func (p *ProductsPage) GetTitle() (string, error) {
	return p.el("title").Text()
}

// Logout opens the side menu and logs out.
func (p *ProductsPage) Logout() error {
	if err := p.el("menu-button").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("Logout"), err)
	}
	if err := p.el("logout").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("Logout"), err)
	}
	return nil
}

// ResetAppState opens the side menu, clears the cart and closes the menu.
func (p *ProductsPage) ResetAppState() error {
	if err := p.el("menu-button").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("ResetAppState"), err)
	}
	if err := p.el("reset").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("ResetAppState"), err)
	}
	if err := p.el("menu-close").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("ResetAppState"), err)
	}
	return nil
}

// List returns the inventory list element, for screenshots.
func (p *ProductsPage) List() *locator.Element { return p.el("list") }
