// Package inventory tracks store stock and restock demand, and canteen menu
// availability.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/metrics"
	"github.com/hanahehe/restore/models"
)

const (
	// RestockQuantum is added to stock by a vendor restock and is the
	// level an "in stock" toggle sets.
	RestockQuantum = 20
	// HighPriorityRequests is where a restock request is labelled High
	HighPriorityRequests = 10
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
)

// PriorityFor is a display label only
func PriorityFor(requests int) Priority {
	if requests >= HighPriorityRequests {
		return PriorityHigh
	}
	return PriorityNormal
}

// RestockRequest is one row of the vendor's restock queue
type RestockRequest struct {
	Product  models.Product `json:"product"`
	Priority Priority       `json:"priority"`
}

type Manager struct {
	store *catalog.Store
	log   zerolog.Logger
}

func NewManager(store *catalog.Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

func (m *Manager) updateProduct(ctx context.Context, id string, fn func(p *models.Product) error) (models.Product, error) {
	var out models.Product
	err := m.store.Update(ctx, func(c *catalog.Collections) error {
		for i := range c.Products {
			if c.Products[i].ID == id {
				if err := fn(&c.Products[i]); err != nil {
					return err
				}
				out = c.Products[i]
				return nil
			}
		}
		return fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	})
	return out, err
}

func (m *Manager) updateMenuItem(ctx context.Context, id string, fn func(it *models.MenuItem)) (models.MenuItem, error) {
	var out models.MenuItem
	err := m.store.Update(ctx, func(c *catalog.Collections) error {
		for i := range c.Menu {
			if c.Menu[i].ID == id {
				fn(&c.Menu[i])
				out = c.Menu[i]
				return nil
			}
		}
		return fmt.Errorf("menu item %s: %w", id, models.ErrNotFound)
	})
	return out, err
}

// RequestRestock counts one more ask for an out-of-stock product
func (m *Manager) RequestRestock(ctx context.Context, productID string) (models.Product, error) {
	p, err := m.updateProduct(ctx, productID, func(p *models.Product) error {
		if p.InStock() {
			return fmt.Errorf("product %s: %w", p.ID, models.ErrInStock)
		}
		p.Requests++
		return nil
	})
	if err != nil {
		return p, err
	}
	metrics.RestockRequests.Inc()
	m.log.Info().Str("product_id", p.ID).Int("requests", p.Requests).Msg("restock requested")
	return p, nil
}

// Restock adds RestockQuantum and clears pending requests
func (m *Manager) Restock(ctx context.Context, productID string) (models.Product, error) {
	p, err := m.updateProduct(ctx, productID, func(p *models.Product) error {
		p.Stock += RestockQuantum
		p.Requests = 0
		return nil
	})
	if err != nil {
		return p, err
	}
	metrics.Restocks.Inc()
	m.log.Info().Str("product_id", p.ID).Int("stock", p.Stock).Msg("product restocked")
	return p, nil
}

// SetInStock is the binary stock toggle: in stock sets RestockQuantum and
// clears requests, out of stock sets 0.
func (m *Manager) SetInStock(ctx context.Context, productID string, inStock bool) (models.Product, error) {
	return m.updateProduct(ctx, productID, func(p *models.Product) error {
		if inStock {
			p.Stock = RestockQuantum
			p.Requests = 0
		} else {
			p.Stock = 0
		}
		return nil
	})
}

func (m *Manager) SetMenuAvailable(ctx context.Context, itemID string, available bool) (models.MenuItem, error) {
	return m.updateMenuItem(ctx, itemID, func(it *models.MenuItem) { it.Available = available })
}

// ToggleMenuItem flips availability
func (m *Manager) ToggleMenuItem(ctx context.Context, itemID string) (models.MenuItem, error) {
	return m.updateMenuItem(ctx, itemID, func(it *models.MenuItem) { it.Available = !it.Available })
}

// RestockQueue lists products with pending requests, most requested first
func (m *Manager) RestockQueue() []RestockRequest {
	out := []RestockRequest{}
	m.store.View(func(c *catalog.Collections) {
		for _, p := range c.Products {
			if p.Requests > 0 {
				out = append(out, RestockRequest{Product: p, Priority: PriorityFor(p.Requests)})
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Product.Requests > out[j].Product.Requests
	})
	return out
}

// Products is the vendor inventory view
func (m *Manager) Products() []models.Product {
	return m.store.Snapshot().Products
}

// Menu is the canteen inventory view
func (m *Manager) Menu() []models.MenuItem {
	return m.store.Snapshot().Menu
}
