package tools

import (
	"context"
	"fmt"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

const returnWindowDays = 7

// RegisterReturnTools adds check_return_eligibility.
func RegisterReturnTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "check_return_eligibility",
		Description: "Check if a specific order is eligible for return based on delivery date and return policy.",
		Parameters: toolParams(
			map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "The order ID to check",
				},
				"today": map[string]interface{}{
					"type":        "string",
					"description": "Today's date in YYYY-MM-DD format",
				},
			},
			[]string{"order_id", "today"},
		),
		NeedsToday: true,
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			return checkReturnEligibility(store, args.String("order_id"), args.String("today")), nil
		},
	})
}

// checkReturnEligibility applies the demo return policy: returns are only
// possible after delivery, and electronics must be returned within seven days.
func checkReturnEligibility(store *catalog.Store, orderID, today string) map[string]interface{} {
	order, ok := store.FindOrder(orderID)
	if !ok {
		return map[string]interface{}{
			"found":               false,
			"eligible":            false,
			"order_id":            orderID,
			"status":              nil,
			"delivery_date":       nil,
			"days_since_delivery": nil,
			"reason":              fmt.Sprintf("No order found with ID %s.", orderID),
		}
	}

	deliveryDate, delivered := parseDate(order.DeliveryDate)
	if !delivered {
		return map[string]interface{}{
			"found":               true,
			"eligible":            false,
			"order_id":            orderID,
			"status":              order.Status,
			"delivery_date":       order.DeliveryDate,
			"days_since_delivery": nil,
			"reason":              "Order has not been delivered yet. Returns are only possible after delivery.",
		}
	}

	todayDate, ok := parseDate(today)
	if !ok {
		return map[string]interface{}{
			"found":               true,
			"eligible":            false,
			"order_id":            orderID,
			"status":              order.Status,
			"delivery_date":       order.DeliveryDate,
			"days_since_delivery": nil,
			"reason":              "Invalid 'today' date provided.",
		}
	}

	daysSince := daysBetween(deliveryDate, todayDate)

	eligible := daysSince <= returnWindowDays
	var reason string
	if eligible {
		reason = fmt.Sprintf("Order %s is within the %d-day return window (delivered %d day(s) ago).",
			orderID, returnWindowDays, daysSince)
	} else {
		reason = fmt.Sprintf("Order %s is outside the %d-day return window (delivered %d day(s) ago).",
			orderID, returnWindowDays, daysSince)
	}

	return map[string]interface{}{
		"found":               true,
		"eligible":            eligible,
		"order_id":            orderID,
		"status":              order.Status,
		"delivery_date":       order.DeliveryDate,
		"days_since_delivery": daysSince,
		"reason":              reason,
	}
}
