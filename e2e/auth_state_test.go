package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/authstate"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
	"github.com/themizzi/swaglabs-e2e/internal/fixture"
	"github.com/themizzi/swaglabs-e2e/internal/tags"
)

// TestAuthStateSkipsLogin
// Feature: Auth state
//
//	Scenario: A stored session opens the inventory directly
//	  Given the auth state was recorded for "standard_user"
//	  When I open the inventory with it
//	  Then I should not be sent to the login page
func TestAuthStateSkipsLogin(t *testing.T) {
	tags.Require(t, tags.Smoke, tags.E2E)

	p := browser(t)
	state, err := p.AuthCache().Load()
	must(t, "authstate.Load", err)
	assert.Equal(t, suiteCfg.Username, state.Session.Value)

	s := p.AuthenticatedSession(t, p.AuthCache(), fixture.SessionOptions{})
	must(t, "ProductsPage.Navigate", s.Products.Navigate())
	assert.Contains(t, s.URL(), "inventory.html")
}

// TestAuthStateSaveAndReload
// Feature: Auth state
//
//	Scenario: Saving a fresh auth state
//	  When I save the auth state for "problem_user" to a new file
//	  Then the file should be private and load as fresh
func TestAuthStateSaveAndReload(t *testing.T) {
	tags.Require(t, tags.E2E)

	p := browser(t)
	cache := p.AuthCache()
	cache.Path = filepath.Join(t.TempDir(), "nested", "auth.json")

	state, err := cache.Save(context.Background(), p.Browser(), authstate.Credentials{Username: problemUser, Password: correctPassword}, p.PageOptions())
	must(t, "authstate.Save", err)
	assert.Equal(t, problemUser, state.Session.Value)

	info, err := os.Stat(cache.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

// TestAuthStateRefusesBadLogin
// Feature: Auth state
//
//	Scenario: A failed login writes nothing
//	  When I save the auth state for "locked_out_user"
//	  Then saving should fail
//	  And no file should be written
func TestAuthStateRefusesBadLogin(t *testing.T) {
	tags.Require(t, tags.E2E)

	p := browser(t)
	cache := p.AuthCache()
	cache.Path = filepath.Join(t.TempDir(), "auth.json")

	_, err := cache.Save(context.Background(), p.Browser(), authstate.Credentials{Username: lockedOutUser, Password: correctPassword}, p.PageOptions())
	require.ErrorIs(t, err, authstate.ErrLoginFailed)

	_, statErr := os.Stat(cache.Path)
	assert.True(t, os.IsNotExist(statErr))
}

// TestAuthStateStaleIsRejected
// Feature: Auth state
//
//	Scenario: An outdated auth state is never used
//	  Given the recorded auth state is older than the allowed age
//	  Then loading it should report a stale auth state
func TestAuthStateStaleIsRejected(t *testing.T) {
	tags.Require(t, tags.E2E)

	p := browser(t)
	cache := p.AuthCache()
	cache.Clock = func() time.Time { return time.Now().Add(2 * time.Hour) }
	cache.MaxAge = time.Hour

	_, err := cache.Load()
	assert.Equal(t, errs.StaleAuthState, errs.KindOf(err))
}
