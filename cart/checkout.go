package cart

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/metrics"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/verify"
)

const (
	SlotCount    = 8
	SlotInterval = 15 * time.Minute
	SlotLayout   = "03:04 PM"
	// SlotGrace is how long a slot list stays acceptable after it was offered
	SlotGrace = 15 * time.Minute

	orderIDPrefix   = "ORD-"
	orderIDLen      = 6
	orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// PickupSlots offers SlotCount labels at SlotInterval steps after now
func PickupSlots(now time.Time) []string {
	slots := make([]string, SlotCount)
	for i := range slots {
		slots[i] = now.Add(time.Duration(i+1) * SlotInterval).Format(SlotLayout)
	}
	return slots
}

// slotOffered reports whether label was among the slots offered at any
// minute in the last SlotGrace
func slotOffered(now time.Time, label string) bool {
	for back := time.Duration(0); back <= SlotGrace; back += time.Minute {
		if slices.Contains(PickupSlots(now.Add(-back)), label) {
			return true
		}
	}
	return false
}

// NewOrderID returns "ORD-" followed by six upper-case base36 characters
func NewOrderID() string {
	var b strings.Builder
	b.WriteString(orderIDPrefix)
	for range orderIDLen {
		b.WriteByte(orderIDAlphabet[rand.IntN(len(orderIDAlphabet))])
	}
	return b.String()
}

// Receipt is what the student shows at the counter
type Receipt struct {
	Order models.Order `json:"order"`
	Token string       `json:"token"`
}

type Engine struct {
	store *catalog.Store
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewEngine(store *catalog.Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now, newID: NewOrderID}
}

// AddItem looks the menu item up in the live catalog and adds it
func (e *Engine) AddItem(c *Cart, menuItemID string) (models.CartLine, error) {
	item, ok := e.store.MenuItem(menuItemID)
	if !ok {
		return models.CartLine{}, fmt.Errorf("menu item %s: %w", menuItemID, models.ErrNotFound)
	}
	return c.Add(item)
}

// Slots are the pickup labels offered right now
func (e *Engine) Slots() []string { return PickupSlots(e.now()) }

// Checkout places an order from the cart. An empty cart is rejected with
// models.ErrEmptyCart and nothing changes. An empty pickup takes the first
// slot on offer; any other pickup must be a slot offered within SlotGrace.
func (e *Engine) Checkout(ctx context.Context, user models.User, c *Cart, pickup string) (*Receipt, error) {
	if c.Empty() {
		return nil, models.ErrEmptyCart
	}
	now := e.now()
	pickup = strings.TrimSpace(pickup)
	if pickup == "" {
		pickup = PickupSlots(now)[0]
	} else if !slotOffered(now, pickup) {
		return nil, models.Invalid("pickup", "Pickup slot "+pickup+" is not on offer")
	}

	items := make([]models.OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, models.OrderItem{Name: l.Name, Qty: l.Qty, Price: l.Price})
	}
	order := models.Order{
		UserID:    user.ID,
		UserName:  user.Name,
		Items:     items,
		Total:     c.Total(),
		Pickup:    pickup,
		Status:    models.StatusPending,
		CreatedAt: now,
	}

	err := e.store.Update(ctx, func(col *catalog.Collections) error {
		order.ID = e.uniqueID(col.Orders)
		col.Orders = append(col.Orders, order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := verify.Encode(order.ID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	metrics.OrdersPlaced.Inc()
	e.log.Info().
		Str("order_id", order.ID).
		Str("user_id", user.ID).
		Float64("total", order.Total).
		Str("pickup", order.Pickup).
		Msg("order placed")
	return &Receipt{Order: order, Token: token}, nil
}

func (e *Engine) uniqueID(orders []models.Order) string {
	for {
		id := e.newID()
		taken := false
		for _, o := range orders {
			if o.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
