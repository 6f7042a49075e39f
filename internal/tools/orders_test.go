package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUserID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"U001", "U001"},
		{"u001", "U001"},
		{"001", "U001"},
		{"1", "U001"},
		{"42", "U042"},
		{" u004 ", "U004"},
		{"004", "U004"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeUserID(tc.in), "input %q", tc.in)
	}
}

func TestGetOrderStatusDelivered(t *testing.T) {
	store := testStore(t)
	out := getOrderStatus(store, "ORD1001")
	if out["found"] != true {
		t.Fatalf("expected found, got %v", out)
	}
	if out["status"] != "delivered" {
		t.Fatalf("unexpected status %v", out["status"])
	}
	msg := out["message"].(string)
	if !strings.Contains(msg, "has been delivered on 2025-12-01") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGetOrderStatusProcessing(t *testing.T) {
	store := testStore(t)
	out := getOrderStatus(store, "ORD1004")
	msg := out["message"].(string)
	if msg != "Order ORD1004 is currently being processed." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGetOrderStatusNotFound(t *testing.T) {
	store := testStore(t)
	out := getOrderStatus(store, "ORD9999")
	if out["found"] != false {
		t.Fatalf("expected not found, got %v", out)
	}
	if out["message"] != "No order found with ID ORD9999." {
		t.Fatalf("unexpected message %v", out["message"])
	}
}

func TestFindOrdersByUserID(t *testing.T) {
	store := testStore(t)
	out := findOrdersByUserID(store, "u001")
	if out["found"] != true {
		t.Fatalf("expected orders for U001, got %v", out)
	}
	if out["count"] != 2 {
		t.Fatalf("expected 2 orders, got %v", out["count"])
	}
	msg := out["message"].(string)
	if !strings.HasPrefix(msg, "Found 2 order(s) for user U001:") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestFindOrdersByUserIDNormalizesBareDigits(t *testing.T) {
	store := testStore(t)
	out := findOrdersByUserID(store, "2")
	if out["user_id"] != "U002" {
		t.Fatalf("expected normalized user id, got %v", out["user_id"])
	}
	if out["count"] != 1 {
		t.Fatalf("expected 1 order for U002, got %v", out["count"])
	}
}

func TestFindOrdersByUserIDNoOrders(t *testing.T) {
	store := testStore(t)
	out := findOrdersByUserID(store, "U099")
	if out["found"] != false {
		t.Fatalf("expected no orders, got %v", out)
	}
	msg := out["message"].(string)
	if !strings.Contains(msg, "No orders found for user U099") {
		t.Fatalf("unexpected message %q", msg)
	}
}
