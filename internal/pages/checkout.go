package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/locator"
)

// CheckoutPage covers the three checkout steps: customer information, order
// overview and completion.
type CheckoutPage struct {
	base
}

// NewCheckoutPage binds a CheckoutPage to page.
func NewCheckoutPage(page playwright.Page, opts Options) *CheckoutPage {
	return &CheckoutPage{base: newBase("CheckoutPage", "/checkout-step-one.html", "first-name", page, opts,
		locator.Definition{Name: "first-name", Query: locator.TestID("firstName")},
		locator.Definition{Name: "last-name", Query: locator.TestID("lastName")},
		locator.Definition{Name: "postal-code", Query: locator.TestID("postalCode")},
		locator.Definition{Name: "continue", Query: locator.TestID("continue")},
		locator.Definition{Name: "cancel", Query: locator.TestID("cancel")},
		locator.Definition{Name: "error", Query: locator.TestID("error")},
		locator.Definition{Name: "item-names", Query: itemName},
		locator.Definition{Name: "subtotal", Query: locator.TestID("subtotal-label")},
		locator.Definition{Name: "tax", Query: locator.TestID("tax-label")},
		locator.Definition{Name: "total", Query: locator.TestID("total-label")},
		locator.Definition{Name: "finish", Query: locator.TestID("finish")},
		locator.Definition{Name: "complete-header", Query: locator.TestID("complete-header")},
		locator.Definition{Name: "order-reference", Query: locator.TestID("order-reference")},
		locator.Definition{Name: "back-home", Query: locator.TestID("back-to-products")},
	)}
}

// FillInformation fills the customer information form without submitting it.
func (p *CheckoutPage) FillInformation(firstName, lastName, postalCode string) error {
	for _, f := range []struct{ el, value string }{
		{"first-name", firstName},
		{"last-name", lastName},
		{"postal-code", postalCode},
	} {
		if err := p.el(f.el).Fill(f.value); err != nil {
			return fmt.Errorf("%s: %w", p.op("FillInformation"), err)
		}
	}
	return nil
}

// Continue submits the information form.
func (p *CheckoutPage) Continue() error {
	return p.click("Continue", "continue")
}

// Cancel leaves checkout.
func (p *CheckoutPage) Cancel() error {
	return p.click("Cancel", "cancel")
}

// Finish places the order from the overview step.
func (p *CheckoutPage) Finish() error {
	return p.click("Finish", "finish")
}

// BackHome returns to the inventory from the completion step.
func (p *CheckoutPage) BackHome() error {
	return p.click("BackHome", "back-home")
}

// GetErrorMessage returns the validation error of the information form.
func (p *CheckoutPage) GetErrorMessage() (string, error) {
	return p.text("GetErrorMessage", "error")
}

// GetOverviewItemNames returns the item names listed on the overview step.
func (p *CheckoutPage) GetOverviewItemNames() ([]string, error) {
	if err := p.el("finish").WaitVisible(); err != nil {
		return nil, err
	}
	return p.el("item-names").Texts()
}

// GetItemTotal returns the overview subtotal.
func (p *CheckoutPage) GetItemTotal() (float64, error) {
	return p.amount("GetItemTotal", "subtotal")
}

// GetTax returns the overview tax.
func (p *CheckoutPage) GetTax() (float64, error) {
	return p.amount("GetTax", "tax")
}

// GetTotal returns the overview total.
func (p *CheckoutPage) GetTotal() (float64, error) {
	return p.amount("GetTotal", "total")
}

// GetCompleteHeader returns the confirmation heading.
func (p *CheckoutPage) GetCompleteHeader() (string, error) {
	return p.text("GetCompleteHeader", "complete-header")
}

// GetOrderReference returns the reference of the order just placed.
func (p *CheckoutPage) GetOrderReference() (string, error) {
	return p.text("GetOrderReference", "order-reference")
}

func (p *CheckoutPage) click(op, el string) error {
	if err := p.el(el).Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op(op), err)
	}
	return nil
}

func (p *CheckoutPage) text(op, el string) (string, error) {
	s, err := p.el(el).Text()
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.op(op), err)
	}
	return s, nil
}

func (p *CheckoutPage) amount(op, el string) (float64, error) {
	s, err := p.text(op, el)
	if err != nil {
		return 0, err
	}
	v, err := ParseLabeledPrice(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.op(op), err)
	}
	return v, nil
}
