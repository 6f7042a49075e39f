package catalog

import "testing"

func TestLoadEmbedded(t *testing.T) {
	store, err := Load("")
	if err != nil {
		t.Fatalf("load embedded catalog: %v", err)
	}

	if len(store.Orders()) == 0 {
		t.Fatal("expected seeded orders")
	}
	if len(store.Products()) == 0 {
		t.Fatal("expected seeded products")
	}
	if len(store.Users()) != 4 {
		t.Fatalf("expected 4 seeded users, got %d", len(store.Users()))
	}

	order, ok := store.FindOrder("ORD1001")
	if !ok {
		t.Fatal("expected ORD1001 in seed data")
	}
	if order.Status != "delivered" {
		t.Fatalf("unexpected status %q", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "LAP123" {
		t.Fatalf("unexpected items %+v", order.Items)
	}

	product, ok := store.ProductByID("HPH001")
	if !ok {
		t.Fatal("expected HPH001 in seed data")
	}
	if product.Category != "headphones" {
		t.Fatalf("unexpected category %q", product.Category)
	}

	if _, ok := store.FindOrder("ORD9999"); ok {
		t.Fatal("did not expect ORD9999")
	}

	kb := store.Troubleshooting()
	steps := kb["laptop"]["not_turning_on"]
	if len(steps) == 0 {
		t.Fatal("expected laptop troubleshooting steps")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load("/nonexistent/path"); err == nil {
		t.Fatal("expected error for missing data dir")
	}
}
