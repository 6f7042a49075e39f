package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

// warrantyDaysForCategory maps a product category to its warranty duration.
func warrantyDaysForCategory(category string) int {
	switch strings.ToLower(category) {
	case "laptop":
		return 365
	case "headphones":
		return 180
	default:
		return 90
	}
}

// RegisterWarrantyTools adds check_warranty_status.
func RegisterWarrantyTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "check_warranty_status",
		Description: "Check if a product in an order is still under warranty.",
		Parameters: toolParams(
			map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "string",
					"description": "The order ID",
				},
				"product_id": map[string]interface{}{
					"type":        "string",
					"description": "The product ID, e.g., LAP123",
				},
				"today": map[string]interface{}{
					"type":        "string",
					"description": "Today's date in YYYY-MM-DD format",
				},
			},
			[]string{"order_id", "product_id", "today"},
		),
		NeedsToday: true,
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			return checkWarrantyStatus(store,
				args.String("order_id"),
				args.String("product_id"),
				args.String("today")), nil
		},
	})
}

// checkWarrantyStatus determines whether a product in an order is still under
// warranty. The purchase date is the delivery date when available, otherwise
// the order date.
func checkWarrantyStatus(store *catalog.Store, orderID, productID, today string) map[string]interface{} {
	order, ok := store.FindOrder(orderID)
	if !ok {
		return map[string]interface{}{
			"found_order":         false,
			"found_product":       false,
			"in_warranty":         nil,
			"order_id":            orderID,
			"product_id":          productID,
			"category":            nil,
			"purchase_date":       nil,
			"warranty_end_date":   nil,
			"days_since_purchase": nil,
			"reason":              fmt.Sprintf("No order found with ID %s.", orderID),
		}
	}

	inOrder := false
	for _, item := range order.Items {
		if item.ProductID == productID {
			inOrder = true
			break
		}
	}
	if !inOrder {
		return map[string]interface{}{
			"found_order":         true,
			"found_product":       false,
			"in_warranty":         nil,
			"order_id":            orderID,
			"product_id":          productID,
			"category":            nil,
			"purchase_date":       nil,
			"warranty_end_date":   nil,
			"days_since_purchase": nil,
			"reason":              fmt.Sprintf("Product %s is not part of order %s.", productID, orderID),
		}
	}

	var category string
	if product, ok := store.ProductByID(productID); ok {
		category = strings.ToLower(product.Category)
	}

	purchaseDateStr := order.DeliveryDate
	if purchaseDateStr == "" {
		purchaseDateStr = order.OrderDate
	}

	purchaseDate, haveStart := parseDate(purchaseDateStr)
	todayDate, haveToday := parseDate(today)
	if !haveStart || !haveToday {
		return map[string]interface{}{
			"found_order":         true,
			"found_product":       true,
			"in_warranty":         nil,
			"order_id":            orderID,
			"product_id":          productID,
			"category":            category,
			"purchase_date":       purchaseDateStr,
			"warranty_end_date":   nil,
			"days_since_purchase": nil,
			"reason":              "Invalid or missing purchase date or 'today' date.",
		}
	}

	daysSincePurchase := daysBetween(purchaseDate, todayDate)
	warrantyDays := warrantyDaysForCategory(category)
	warrantyEnd := purchaseDate.AddDate(0, 0, warrantyDays)
	inWarranty := !todayDate.After(warrantyEnd)

	var reason string
	if inWarranty {
		reason = fmt.Sprintf(
			"Product %s in order %s is still under warranty. "+
				"Warranty duration is %d days from %s, ending on %s. (Purchased %d day(s) ago.)",
			productID, orderID, warrantyDays, purchaseDateStr,
			warrantyEnd.Format(dateLayout), daysSincePurchase)
	} else {
		reason = fmt.Sprintf(
			"Product %s in order %s is no longer under warranty. "+
				"Warranty duration was %d days from %s, which ended on %s. (Purchased %d day(s) ago.)",
			productID, orderID, warrantyDays, purchaseDateStr,
			warrantyEnd.Format(dateLayout), daysSincePurchase)
	}

	return map[string]interface{}{
		"found_order":         true,
		"found_product":       true,
		"in_warranty":         inWarranty,
		"order_id":            orderID,
		"product_id":          productID,
		"category":            category,
		"purchase_date":       purchaseDateStr,
		"warranty_end_date":   warrantyEnd.Format(dateLayout),
		"days_since_purchase": daysSincePurchase,
		"reason":              reason,
	}
}
