package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/swaglabs-e2e/internal/locator"
)

// LoginPage is the storefront landing page.
type LoginPage struct {
	base
}

// NewLoginPage binds a LoginPage to page.
func NewLoginPage(page playwright.Page, opts Options) *LoginPage {
	return &LoginPage{base: newBase("LoginPage", "/", "login-button", page, opts,
		locator.Definition{Name: "username", Query: locator.CSS("#user-name")},
		locator.Definition{Name: "password", Query: locator.CSS("#password")},
		locator.Definition{Name: "login-button", Query: locator.CSS("#login-button")},
		locator.Definition{Name: "error", Query: locator.TestID("error")},
		locator.Definition{Name: "logo", Query: locator.CSS(".login_logo")},
	)}
}

// Login submits credentials. Empty values are submitted as-is; the outcome is
// not checked.
func (p *LoginPage) Login(username, password string) error {
	if err := p.el("username").Fill(username); err != nil {
		return fmt.Errorf("%s: %w", p.op("Login"), err)
	}
	if err := p.el("password").Fill(password); err != nil {
		return fmt.Errorf("%s: %w", p.op("Login"), err)
	}
	if err := p.el("login-button").Click(); err != nil {
		return fmt.Errorf("%s: %w", p.op("Login"), err)
	}
	return nil
}

// IsLoggedIn waits up to the expect timeout for the inventory page. Not
// getting there is a false answer, not an error.
func (p *LoginPage) IsLoggedIn() (bool, error) {
	err := p.page.WaitForURL("**/inventory.html", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(float64(p.opts.ExpectTimeout.Milliseconds())),
	})
	if err == nil {
		return true, nil
	}
	if isTimeout(err) {
		return false, nil
	}
	return false, fmt.Errorf("%s: %w", p.op("IsLoggedIn"), err)
}

// GetErrorMessage returns the login error banner text.
func (p *LoginPage) GetErrorMessage() (string, error) {
	msg, err := p.el("error").Text()
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.op("GetErrorMessage"), err)
	}
	return msg, nil
}

// IsErrorVisible reports whether the error banner is showing right now.
func (p *LoginPage) IsErrorVisible() (bool, error) {
	return p.el("error").IsVisible()
}

// UsernamePlaceholder returns the username input placeholder.
func (p *LoginPage) UsernamePlaceholder() (string, error) {
	return p.el("username").Attribute("placeholder")
}

// PasswordPlaceholder returns the password input placeholder.
func (p *LoginPage) PasswordPlaceholder() (string, error) {
	return p.el("password").Attribute("placeholder")
}

// FocusUsername puts keyboard focus on the username input.
func (p *LoginPage) FocusUsername() error {
	return p.el("username").Focus()
}

// ErrorBanner returns the login error banner element, for screenshots.
func (p *LoginPage) ErrorBanner() *locator.Element { return p.el("error") }
