package tools

import (
	"strings"
	"testing"
)

func TestWarrantyLaptopInWarranty(t *testing.T) {
	store := testStore(t)
	out := checkWarrantyStatus(store, "ORD1001", "LAP123", fixtureToday)
	if out["in_warranty"] != true {
		t.Fatalf("expected in warranty, got %v", out)
	}
	if out["category"] != "laptop" {
		t.Fatalf("unexpected category %v", out["category"])
	}
	// delivered 2025-12-01, 365-day warranty
	if out["warranty_end_date"] != "2026-12-01" {
		t.Fatalf("unexpected warranty end %v", out["warranty_end_date"])
	}
	reason := out["reason"].(string)
	if !strings.Contains(reason, "is still under warranty") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestWarrantyHeadphonesWindow(t *testing.T) {
	store := testStore(t)
	// HPH001 delivered 2025-06-15, 180-day warranty ends 2025-12-12
	out := checkWarrantyStatus(store, "ORD1002", "HPH001", fixtureToday)
	if out["in_warranty"] != true {
		t.Fatalf("expected in warranty, got %v", out)
	}
	if out["warranty_end_date"] != "2025-12-12" {
		t.Fatalf("unexpected warranty end %v", out["warranty_end_date"])
	}

	out = checkWarrantyStatus(store, "ORD1002", "HPH001", "2025-12-13")
	if out["in_warranty"] != false {
		t.Fatalf("expected expired warranty, got %v", out)
	}
	reason := out["reason"].(string)
	if !strings.Contains(reason, "no longer under warranty") {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestWarrantyProductNotInOrder(t *testing.T) {
	store := testStore(t)
	out := checkWarrantyStatus(store, "ORD1001", "HPH001", fixtureToday)
	if out["found_product"] != false {
		t.Fatalf("expected product miss, got %v", out)
	}
	if out["reason"] != "Product HPH001 is not part of order ORD1001." {
		t.Fatalf("unexpected reason %v", out["reason"])
	}
}

func TestWarrantyOrderNotFound(t *testing.T) {
	store := testStore(t)
	out := checkWarrantyStatus(store, "ORD9999", "LAP123", fixtureToday)
	if out["found_order"] != false {
		t.Fatalf("expected order miss, got %v", out)
	}
}

func TestWarrantyFallsBackToOrderDate(t *testing.T) {
	store := testStore(t)
	// ORD1004 has no delivery date; order_date 2025-12-04, keyboard default 90 days
	out := checkWarrantyStatus(store, "ORD1004", "KEY001", fixtureToday)
	if out["purchase_date"] != "2025-12-04" {
		t.Fatalf("expected order date as purchase date, got %v", out["purchase_date"])
	}
	if out["in_warranty"] != true {
		t.Fatalf("expected in warranty, got %v", out)
	}
	if out["warranty_end_date"] != "2026-03-04" {
		t.Fatalf("unexpected warranty end %v", out["warranty_end_date"])
	}
}
