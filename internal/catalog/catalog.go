// Package catalog loads the structured commerce records the deterministic
// tools operate on: orders, products, users and the troubleshooting knowledge
// base. Records ship embedded in the binary and can be overridden with a data
// directory for demos.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed data/*.json
var seedFS embed.FS

// OrderItem is a single line item inside an order.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Order is a customer order record.
type Order struct {
	OrderID      string      `json:"order_id"`
	UserID       string      `json:"user_id"`
	Status       string      `json:"status"`
	OrderDate    string      `json:"order_date"`
	DeliveryDate string      `json:"delivery_date"`
	Items        []OrderItem `json:"items"`
}

// Product is a catalog entry.
type Product struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Brand     string   `json:"brand"`
	Price     float64  `json:"price"`
	Currency  string   `json:"currency"`
	Tags      []string `json:"tags"`
	Rating    float64  `json:"rating"`
}

// User is a registered customer.
type User struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// TroubleshootingKB maps product type to issue key to ordered steps.
type TroubleshootingKB map[string]map[string][]string

// Store holds the loaded records and index structures.
type Store struct {
	orders       []Order
	products     []Product
	users        []User
	kb           TroubleshootingKB
	productIndex map[string]Product
	orderIndex   map[string]Order
}

// Load reads catalog data from dataDir when set, otherwise from the embedded
// seed files.
func Load(dataDir string) (*Store, error) {
	read := func(name string) ([]byte, error) {
		if dataDir != "" {
			return os.ReadFile(filepath.Join(dataDir, name))
		}
		return fs.ReadFile(seedFS, "data/"+name)
	}

	store := &Store{
		productIndex: make(map[string]Product),
		orderIndex:   make(map[string]Order),
	}

	if err := loadJSON(read, "orders.json", &store.orders); err != nil {
		return nil, err
	}
	if err := loadJSON(read, "products.json", &store.products); err != nil {
		return nil, err
	}
	if err := loadJSON(read, "users.json", &store.users); err != nil {
		return nil, err
	}
	if err := loadJSON(read, "troubleshooting.json", &store.kb); err != nil {
		return nil, err
	}

	for _, p := range store.products {
		store.productIndex[p.ProductID] = p
	}
	for _, o := range store.orders {
		store.orderIndex[o.OrderID] = o
	}
	return store, nil
}

func loadJSON(read func(string) ([]byte, error), name string, out interface{}) error {
	raw, err := read(name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return nil
}

// Orders returns all orders.
func (s *Store) Orders() []Order {
	return s.orders
}

// FindOrder returns the order with the given ID.
func (s *Store) FindOrder(orderID string) (Order, bool) {
	o, ok := s.orderIndex[orderID]
	return o, ok
}

// Products returns all products.
func (s *Store) Products() []Product {
	return s.products
}

// ProductByID returns the product with the given ID.
func (s *Store) ProductByID(productID string) (Product, bool) {
	p, ok := s.productIndex[productID]
	return p, ok
}

// Users returns all users.
func (s *Store) Users() []User {
	return s.users
}

// FindUser returns the user with the given ID.
func (s *Store) FindUser(userID string) (User, bool) {
	for _, u := range s.users {
		if u.UserID == userID {
			return u, true
		}
	}
	return User{}, false
}

// Troubleshooting returns the troubleshooting knowledge base.
func (s *Store) Troubleshooting() TroubleshootingKB {
	return s.kb
}
