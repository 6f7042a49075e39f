package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"
)

// RegisterProductTools adds search_products.
func RegisterProductTools(r *Registry, store *catalog.Store) {
	r.Register(Spec{
		Name:        "search_products",
		Description: "Search for products in the catalog based on category, price, brand, or tags. Returns a list of matching products.",
		Parameters: toolParams(
			map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Product category: laptop, headphones, mouse, keyboard, or null for all",
				},
				"max_price": map[string]interface{}{
					"type":        "number",
					"description": "Maximum price filter in INR",
				},
				"brand": map[string]interface{}{
					"type":        "string",
					"description": "Brand name filter, e.g., Asus, Lenovo",
				},
				"required_tags": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Required tags like gaming, wireless, office, etc.",
				},
			},
			[]string{},
		),
		Handler: func(_ context.Context, args Args) (map[string]interface{}, error) {
			maxPrice, hasMaxPrice := args.Float("max_price")
			filter := ProductFilter{
				Category:     args.String("category"),
				Brand:        args.String("brand"),
				RequiredTags: args.StringSlice("required_tags"),
			}
			if hasMaxPrice {
				filter.MaxPrice = &maxPrice
			}
			return searchProducts(store, filter), nil
		},
	})
}

// ProductFilter holds the optional AND conditions for a catalog search.
type ProductFilter struct {
	Category     string
	Brand        string
	MaxPrice     *float64
	RequiredTags []string
}

func (f ProductFilter) matches(p catalog.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	for _, required := range f.RequiredTags {
		found := false
		for _, tag := range p.Tags {
			if strings.EqualFold(tag, required) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func searchProducts(store *catalog.Store, filter ProductFilter) map[string]interface{} {
	simplified := make([]map[string]interface{}, 0)
	for _, p := range store.Products() {
		if !filter.matches(p) {
			continue
		}
		currency := p.Currency
		if currency == "" {
			currency = "INR"
		}
		simplified = append(simplified, map[string]interface{}{
			"product_id": p.ProductID,
			"name":       p.Name,
			"category":   p.Category,
			"brand":      p.Brand,
			"price":      p.Price,
			"currency":   currency,
			"tags":       p.Tags,
			"rating":     p.Rating,
		})
	}

	msg := "No products found matching the given filters."
	if len(simplified) > 0 {
		msg = fmt.Sprintf("Found %d product(s) matching the given filters.", len(simplified))
	}

	return map[string]interface{}{
		"count":    len(simplified),
		"products": simplified,
		"message":  msg,
	}
}
