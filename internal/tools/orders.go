package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

// NormalizeUserID canonicalizes user IDs to the U### form: bare digits are
// zero-padded and prefixed, lowercase prefixes are uppercased.
func NormalizeUserID(userID string) string {
	id := strings.ToUpper(strings.TrimSpace(userID))
	if id != "" && isDigits(id) {
		for len(id) < 3 {
			id = "0" + id
		}
		return "U" + id
	}
	if !strings.HasPrefix(id, "U") {
		id = "U" + id
	}
	return id
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// RegisterOrderTools adds get_order_status and find_orders_by_user_id.
func RegisterOrderTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "get_order_status",
		Description: "Get the detailed status of a specific order including delivery date, items, and current status.",
		Parameters: toolParams(
			map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "The order ID, e.g., ORD1001, ORD1002",
				},
			},
			[]string{"order_id"},
		),
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			return getOrderStatus(store, args.String("order_id")), nil
		},
	})

	r.Register(Spec{
		Name:        "find_orders_by_user_id",
		Description: "Find all orders placed by a specific user. Use this when you have the user_id and need to see their order history.",
		Parameters: toolParams(
			map[string]interface{}{
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "The user ID, e.g., U001, U002",
				},
			},
			[]string{"user_id"},
		),
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			return findOrdersByUserID(store, args.String("user_id")), nil
		},
	})
}

func getOrderStatus(store *catalog.Store, orderID string) map[string]interface{} {
	order, ok := store.FindOrder(orderID)
	if !ok {
		return map[string]interface{}{
			"found":         false,
			"order_id":      orderID,
			"status":        nil,
			"delivery_date": nil,
			"items":         []interface{}{},
			"message":       fmt.Sprintf("No order found with ID %s.", orderID),
		}
	}

	var msg string
	switch order.Status {
	case "delivered":
		msg = fmt.Sprintf("Order %s has been delivered on %s.", orderID, order.DeliveryDate)
	case "shipped":
		msg = fmt.Sprintf("Order %s has been shipped. Estimated delivery date: %s.", orderID, order.DeliveryDate)
	case "processing":
		msg = fmt.Sprintf("Order %s is currently being processed.", orderID)
	default:
		msg = fmt.Sprintf("Order %s has status: %s.", orderID, order.Status)
	}

	return map[string]interface{}{
		"found":         true,
		"order_id":      orderID,
		"status":        order.Status,
		"delivery_date": order.DeliveryDate,
		"items":         order.Items,
		"message":       msg,
	}
}

func findOrdersByUserID(store *catalog.Store, userID string) map[string]interface{} {
	normalized := NormalizeUserID(userID)

	var matches []catalog.Order
	for _, order := range store.Orders() {
		if NormalizeUserID(order.UserID) == normalized {
			matches = append(matches, order)
		}
	}

	if len(matches) == 0 {
		return map[string]interface{}{
			"found":   false,
			"user_id": normalized,
			"count":   0,
			"orders":  []interface{}{},
			"message": fmt.Sprintf("No orders found for user %s. Please check if the user ID is correct (format: U001, U002, etc.).", normalized),
		}
	}

	summaries := make([]map[string]interface{}, 0, len(matches))
	messageLines := []string{fmt.Sprintf("Found %d order(s) for user %s:", len(matches), normalized)}
	for i, order := range matches {
		itemsDesc := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			itemsDesc = append(itemsDesc, fmt.Sprintf("%s (qty: %d)", item.ProductID, item.Quantity))
		}
		summaries = append(summaries, map[string]interface{}{
			"order_id":      order.OrderID,
			"status":        order.Status,
			"order_date":    order.OrderDate,
			"delivery_date": order.DeliveryDate,
			"items":         itemsDesc,
		})
		messageLines = append(messageLines, fmt.Sprintf(
			"%d. Order %s - Status: %s - Items: %s",
			i+1, order.OrderID, order.Status, strings.Join(itemsDesc, ", ")))
	}

	return map[string]interface{}{
		"found":   true,
		"user_id": normalized,
		"count":   len(matches),
		"orders":  summaries,
		"message": strings.Join(messageLines, "\n"),
	}
}
