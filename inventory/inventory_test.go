package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/inventory"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/storage"
)

func newManager(t *testing.T) (*inventory.Manager, *catalog.Store, storage.Storage) {
	t.Helper()
	base := &catalog.Baseline{
		Products: []models.Product{
			{ID: "p1", Name: "Hoodie", Category: "Merch", Price: 899, Stock: 0, Requests: 9},
			{ID: "p2", Name: "Notebook", Category: "Stationery", Price: 60, Stock: 5, Requests: 0},
			{ID: "p3", Name: "Calculator", Category: "Electronics", Price: 650, Stock: 0, Requests: 3},
		},
		Menu: []models.MenuItem{
			{ID: "m1", Name: "Samosa", Category: "Snacks", Price: 15, Available: true},
		},
	}
	st := storage.NewMemory()
	store := catalog.New(catalog.StaticSource{Baseline: base}, st, zerolog.Nop())
	require.NoError(t, store.Load(context.Background()))
	return inventory.NewManager(store, zerolog.Nop()), store, st
}

func TestRestockRequestCrossesHighPriority(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newManager(t)

	p, err := mgr.RequestRestock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Requests)
	assert.Equal(t, inventory.PriorityHigh, inventory.PriorityFor(p.Requests))

	p, err = mgr.Restock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, 0, p.Requests)
}

func TestRestock_AddsQuantumRegardlessOfRequests(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newManager(t)

	p, err := mgr.Restock(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 25, p.Stock)
	assert.Equal(t, 0, p.Requests)

	_, err = mgr.Restock(ctx, "p404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRequestRestock_InStockRejected(t *testing.T) {
	ctx := context.Background()
	mgr, store, _ := newManager(t)

	_, err := mgr.RequestRestock(ctx, "p2")
	assert.ErrorIs(t, err, models.ErrInStock)
	assert.Equal(t, 0, store.Snapshot().Products[1].Requests)
}

func TestSetInStock(t *testing.T) {
	ctx := context.Background()
	mgr, _, _ := newManager(t)

	p, err := mgr.SetInStock(ctx, "p3", true)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)
	assert.Equal(t, 0, p.Requests)

	p, err = mgr.SetInStock(ctx, "p3", false)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)
}

func TestMenuAvailability(t *testing.T) {
	ctx := context.Background()
	mgr, _, st := newManager(t)

	it, err := mgr.ToggleMenuItem(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, it.Available)

	it, err = mgr.SetMenuAvailable(ctx, "m1", true)
	require.NoError(t, err)
	assert.True(t, it.Available)

	raw, err := st.Get(ctx, storage.KeyMenu)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"available":true`)

	_, err = mgr.ToggleMenuItem(ctx, "m404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRestockQueue(t *testing.T) {
	mgr, _, _ := newManager(t)
	q := mgr.RestockQueue()
	require.Len(t, q, 2)
	assert.Equal(t, "p1", q[0].Product.ID)
	assert.Equal(t, inventory.PriorityNormal, q[0].Priority)
	assert.Equal(t, "p3", q[1].Product.ID)
}
