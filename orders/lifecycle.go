// Package orders moves canteen orders through Pending, Preparing, Ready and
// Picked Up, either one step at a time from the vendor dashboard or straight
// to Picked Up on a verification scan.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/metrics"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/statemachine"
	"github.com/hanahehe/restore/verify"
)

// Change describes one applied transition
type Change struct {
	Order    models.Order       `json:"order"`
	Previous models.OrderStatus `json:"previous_status"`
}

type Manager struct {
	store *catalog.Store
	log   zerolog.Logger
}

func NewManager(store *catalog.Store, log zerolog.Logger) *Manager {
	return &Manager{store: store, log: log}
}

func indexOf(orders []models.Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// transition applies pick(current) under the store lock and persists
func (m *Manager) transition(ctx context.Context, id string, actor statemachine.Actor,
	pick func(models.Order) (models.OrderStatus, error)) (*Change, error) {
	var change Change
	err := m.store.Update(ctx, func(c *catalog.Collections) error {
		i := indexOf(c.Orders, id)
		if i < 0 {
			return models.ErrOrderNotFound
		}
		o := &c.Orders[i]
		to, err := pick(*o)
		if err != nil {
			change.Order = *o
			return err
		}
		if err := statemachine.CanTransition(o.Status, to, actor); err != nil {
			change.Order = *o
			return err
		}
		change.Previous = o.Status
		o.Status = to
		change.Order = *o
		return nil
	})
	if err != nil {
		if change.Order.ID != "" {
			return &change, err
		}
		return nil, err
	}
	metrics.OrderTransitions.WithLabelValues(string(change.Order.Status), string(actor)).Inc()
	m.log.Info().
		Str("order_id", id).
		Str("from", string(change.Previous)).
		Str("to", string(change.Order.Status)).
		Str("trigger", string(actor)).
		Msg("order status changed")
	return &change, nil
}

// Advance moves the order exactly one step. Picked Up orders fail with
// models.ErrInvalidTransition.
func (m *Manager) Advance(ctx context.Context, orderID string) (*Change, error) {
	change, err := m.transition(ctx, orderID, statemachine.ActorVendor, func(o models.Order) (models.OrderStatus, error) {
		next, ok := statemachine.Next(o.Status)
		if !ok {
			return "", fmt.Errorf("%w: order %s is %s", models.ErrInvalidTransition, o.ID, o.Status)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// Scan decodes a presented token and fulfils the order from any open
// status. An already collected order yields models.ErrAlreadyFulfilled
// together with the unchanged order.
func (m *Manager) Scan(ctx context.Context, raw string) (*Change, error) {
	p, err := decodeToken(raw)
	if err != nil {
		return nil, err
	}
	return m.fulfil(ctx, p.OrderID)
}

func decodeToken(raw string) (verify.Payload, error) {
	p, err := verify.Decode(raw)
	if err != nil {
		metrics.ScanResults.WithLabelValues("invalid_token").Inc()
	}
	return p, err
}

func (m *Manager) fulfil(ctx context.Context, orderID string) (*Change, error) {
	change, err := m.transition(ctx, orderID, statemachine.ActorScanner, func(o models.Order) (models.OrderStatus, error) {
		if o.Status.Terminal() {
			return "", models.ErrAlreadyFulfilled
		}
		return models.StatusPickedUp, nil
	})
	switch {
	case err == nil:
		metrics.ScanResults.WithLabelValues("picked_up").Inc()
	case errors.Is(err, models.ErrAlreadyFulfilled):
		metrics.ScanResults.WithLabelValues("already_fulfilled").Inc()
	case errors.Is(err, models.ErrOrderNotFound):
		metrics.ScanResults.WithLabelValues("not_found").Inc()
	}
	return change, err
}

// Get returns one order by id
func (m *Manager) Get(orderID string) (models.Order, error) {
	var (
		order models.Order
		err   = models.ErrOrderNotFound
	)
	m.store.View(func(c *catalog.Collections) {
		if i := indexOf(c.Orders, orderID); i >= 0 {
			order, err = copyOrder(c.Orders[i]), nil
		}
	})
	return order, err
}

func copyOrder(o models.Order) models.Order {
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return o
}

// Counts has an entry for every status, zero included
func (m *Manager) Counts() map[models.OrderStatus]int {
	counts := make(map[models.OrderStatus]int, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	m.store.View(func(c *catalog.Collections) {
		for _, o := range c.Orders {
			counts[o.Status]++
		}
	})
	return counts
}

// List returns orders in status, newest first. An empty status lists all.
func (m *Manager) List(status models.OrderStatus) []models.Order {
	return m.filter(func(o models.Order) bool { return status == "" || o.Status == status })
}

// ForUser returns a student's orders, newest first
func (m *Manager) ForUser(userID string) []models.Order {
	return m.filter(func(o models.Order) bool { return o.UserID == userID })
}

func (m *Manager) filter(keep func(models.Order) bool) []models.Order {
	out := []models.Order{}
	m.store.View(func(c *catalog.Collections) {
		for _, o := range c.Orders {
			if keep(o) {
				out = append(out, copyOrder(o))
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
