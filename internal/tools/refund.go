package tools

import (
	"context"
	"fmt"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

// RegisterRefundTools adds check_refund_possibility.
func RegisterRefundTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "check_refund_possibility",
		Description: "Check if a refund is possible for an order and get expected refund timeline.",
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
			return checkRefundPossibility(store, args.String("order_id"), args.String("today")), nil
		},
	})
}

// checkRefundPossibility delegates to return eligibility: a refund can only be
// issued for an order that is still returnable.
func checkRefundPossibility(store *catalog.Store, orderID, today string) map[string]interface{} {
	eligibility := checkReturnEligibility(store, orderID, today)

	if found, _ := eligibility["found"].(bool); !found {
		reason, _ := eligibility["reason"].(string)
		if reason == "" {
			reason = fmt.Sprintf("No order found with ID %s.", orderID)
		}
		return map[string]interface{}{
			"found":                    false,
			"refundable":               false,
			"order_id":                 orderID,
			"status":                   nil,
			"delivery_date":            nil,
			"reason":                   reason,
			"expected_refund_timeline": nil,
		}
	}

	status := eligibility["status"]
	deliveryDate := eligibility["delivery_date"]
	baseReason, _ := eligibility["reason"].(string)

	if eligible, _ := eligibility["eligible"].(bool); !eligible {
		return map[string]interface{}{
			"found":                    true,
			"refundable":               false,
			"order_id":                 orderID,
			"status":                   status,
			"delivery_date":            deliveryDate,
			"reason":                   baseReason + " Since the order is not eligible for return, a refund cannot be processed.",
			"expected_refund_timeline": nil,
		}
	}

	var timeline interface{}
	if todayDate, ok := parseDate(today); ok {
		estimated := todayDate.AddDate(0, 0, 7)
		timeline = fmt.Sprintf(
			"If you initiate a return now, the refund will typically be processed "+
				"within 5-7 business days after the returned item is received and inspected. "+
				"Based on today's date (%s), you can expect the refund to be completed "+
				"by around %s.",
			today, estimated.Format(dateLayout))
	}

	return map[string]interface{}{
		"found":         true,
		"refundable":    true,
		"order_id":      orderID,
		"status":        status,
		"delivery_date": deliveryDate,
		"reason": baseReason + " Since the order is eligible for return, a refund can be issued to the " +
			"original payment method once the return is completed.",
		"expected_refund_timeline": timeline,
	}
}
