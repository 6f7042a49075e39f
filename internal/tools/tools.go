package tools

import "github.com/abhinavk0220/ecommerce-chat-assistant/internal/catalog"

// RegisterCatalogTools registers every deterministic tool backed by the
// catalog store.
func RegisterCatalogTools(r *Registry, store *catalog.Store) {
	RegisterOrderTools(r, store)
	RegisterProductTools(r, store)
	RegisterReturnTools(r, store)
	RegisterRefundTools(r, store)
	RegisterWarrantyTools(r, store)
	RegisterTroubleshootingTools(r, store)
}
