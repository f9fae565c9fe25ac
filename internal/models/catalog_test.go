package models

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() unexpected error = %v", err)
	}

	var got []string
	for _, p := range catalog.Products {
		got = append(got, p.Name+" "+p.FormattedPrice())
	}
	want := []string{
		"Sauce Labs Backpack $29.99",
		"Sauce Labs Bike Light $9.99",
		"Sauce Labs Bolt T-Shirt $15.99",
		"Sauce Labs Fleece Jacket $49.99",
		"Sauce Labs Onesie $7.99",
		"Test.allTheThings() T-Shirt (Red) $15.99",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog products mismatch (-want +got):\n%s", diff)
	}

	if catalog.TaxRatePercent != 8 || catalog.Currency != "USD" {
		t.Errorf("unexpected pricing: %d%% %s", catalog.TaxRatePercent, catalog.Currency)
	}
}

func TestCatalog_Accounts(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() unexpected error = %v", err)
	}

	tests := []struct {
		username   string
		wantLocked bool
		wantErr    error
	}{
		{"standard_user", false, nil},
		{"locked_out_user", true, nil},
		{"problem_user", false, nil},
		{"performance_glitch_user", false, nil},
		{"visual_user", false, ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			account, err := catalog.Account(tt.username)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Account() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && account.IsLocked() != tt.wantLocked {
				t.Errorf("IsLocked() = %v, want %v", account.IsLocked(), tt.wantLocked)
			}
			if err == nil && account.Password != "secret_sauce" {
				t.Errorf("unexpected password %q", account.Password)
			}
		})
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "products: [:"},
		{"no products", "currency: USD\nproducts: []\n"},
		{"bad currency", "currency: DOLLARS\nproducts:\n  - {id: 1, name: A, price_cents: 1}\n"},
		{"zero price", "currency: USD\nproducts:\n  - {id: 1, name: A, price_cents: 0}\n"},
		{"duplicate id", "currency: USD\nproducts:\n  - {id: 1, name: A, price_cents: 1}\n  - {id: 1, name: B, price_cents: 1}\n"},
		{"unknown behavior", "currency: USD\nproducts:\n  - {id: 1, name: A, price_cents: 1}\naccounts:\n  - {username: x, behavior: admin}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.yaml)); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestCatalog_ItemsKeepCartOrderAndSkipUnknown(t *testing.T) {
	catalog, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() unexpected error = %v", err)
	}

	items := catalog.Items(Cart{0, 42, 4})

	if len(items) != 2 || items[0].Name != "Sauce Labs Bike Light" || items[1].Name != "Sauce Labs Backpack" {
		t.Errorf("unexpected items %+v", items)
	}
	if _, err := catalog.Product(42); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Product(42) error = %v, want ErrProductNotFound", err)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		items []Product
		want  Summary
	}{
		{"empty", nil, Summary{}},
		{"backpack", []Product{backpack}, Summary{SubtotalCents: 2999, TaxCents: 240, TotalCents: 3239}},
		{"backpack and bike light", []Product{backpack, bikeLight}, Summary{SubtotalCents: 3998, TaxCents: 320, TotalCents: 4318}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.items, 8); got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCart_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.IntRange(0, 500), rapid.ID[int]).Draw(t, "ids")
		cart := Cart(ids)

		got := ParseCart(cart.String())

		if diff := cmp.Diff([]int(cart), []int(got), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestCart_AddRemoveInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfDistinct(rapid.IntRange(0, 50), rapid.ID[int]).Draw(t, "ids")
		extra := rapid.IntRange(51, 100).Draw(t, "extra")
		cart := Cart(ids)

		added := cart.Add(extra)
		if len(added) != len(cart)+1 || !added.Contains(extra) {
			t.Fatalf("Add(%d) = %v", extra, added)
		}
		if again := added.Add(extra); len(again) != len(added) {
			t.Fatalf("Add is not idempotent: %v", again)
		}
		if diff := cmp.Diff([]int(cart), []int(added.Remove(extra)), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("Remove did not undo Add (-want +got):\n%s", diff)
		}
	})
}

func TestParseCart_DropsGarbage(t *testing.T) {
	got := ParseCart("4-x-0-4--1")
	if diff := cmp.Diff(Cart{4, 0, 1}, got); diff != "" {
		t.Errorf("ParseCart mismatch (-want +got):\n%s", diff)
	}
	if len(ParseCart("")) != 0 {
		t.Error("empty cookie should give empty cart")
	}
}
