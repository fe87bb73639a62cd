// Package app assembles the catalog store, session gate and the canteen and
// store managers behind one gin engine.
package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hanahehe/restore/auth"
	"github.com/hanahehe/restore/cart"
	"github.com/hanahehe/restore/catalog"
	"github.com/hanahehe/restore/handlers"
	"github.com/hanahehe/restore/inventory"
	"github.com/hanahehe/restore/metrics"
	"github.com/hanahehe/restore/middleware"
	"github.com/hanahehe/restore/models"
	"github.com/hanahehe/restore/orders"
	"github.com/hanahehe/restore/routes"
	"github.com/hanahehe/restore/storage"
)

type Options struct {
	Source     catalog.Source
	Storage    storage.Storage
	Tokens     *auth.Tokens
	Log        zerolog.Logger
	BcryptCost int
}

type App struct {
	Handler *handlers.Handler
	Router  *gin.Engine
	storage storage.Storage
}

// New loads the catalog, restores any persisted session and wires the
// routes. An unreachable baseline is logged and tolerated.
func New(ctx context.Context, opts Options) (*App, error) {
	store := catalog.New(opts.Source, opts.Storage, opts.Log)
	if err := store.Load(ctx); err != nil && !errors.Is(err, models.ErrFetchFailure) {
		return nil, err
	}

	gate := auth.NewGate(store, opts.Storage, opts.Tokens, opts.Log, auth.Config{BcryptCost: opts.BcryptCost})
	mgr := orders.NewManager(store, opts.Log)
	h := &handlers.Handler{
		Store:     store,
		Gate:      gate,
		Checkout:  cart.NewEngine(store, opts.Log),
		Carts:     cart.NewRegistry(),
		Orders:    mgr,
		Scanner:   orders.NewScanner(mgr),
		Inventory: inventory.NewManager(store, opts.Log),
		Log:       opts.Log,
	}
	gate.OnLogout(func(u models.User) {
		h.Carts.Drop(u.ID)
		h.Scanner.Pause()
	})
	gate.Restore(ctx)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Log), middleware.CORS(), metrics.Middleware())
	routes.SetupRoutes(r, h)

	return &App{Handler: h, Router: r, storage: opts.Storage}, nil
}

func (a *App) Close() error {
	return a.storage.Close()
}
