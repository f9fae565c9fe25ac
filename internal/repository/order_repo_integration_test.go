//go:build integration
// +build integration

package repository

import (
	"testing"

	"github.com/themizzi/swaglabs-e2e/internal/models"
	"github.com/themizzi/swaglabs-e2e/internal/repository/testutil"
)

func TestOrderRepository_Postgres_Integration(t *testing.T) {
	runRepositoryContract(t, testutil.SetupTestDatabase)
}

func TestOrderRepository_SchemaIsolation_Integration(t *testing.T) {
	// Create two separate test databases to simulate different connections
	testDB1 := testutil.SetupTestDatabase(t)
	defer testDB1.Teardown(t)

	testDB2 := testutil.SetupTestDatabase(t)
	defer testDB2.Teardown(t)

	repo1 := NewOrderRepository(testDB1.DB, testDB1.Driver)
	repo2 := NewOrderRepository(testDB2.DB, testDB2.Driver)

	// Create order in first database
	order := newTestOrder("ORDER-ISO-001", "standard_user")
	if err := repo1.CreateOrder(order); err != nil {
		t.Fatalf("Failed to create order in first database: %v", err)
	}

	// Verify it exists in first database
	if _, err := repo1.GetOrderByReference(order.Reference); err != nil {
		t.Errorf("Order should exist in first database: %v", err)
	}

	// Verify it doesn't exist in second database (different schema)
	if _, err := repo2.GetOrderByReference(order.Reference); err == nil {
		t.Error("Order should not exist in second database (different schema)")
	}

	if order.Status != models.OrderStatusPending {
		t.Errorf("unexpected status %s", order.Status)
	}
}
