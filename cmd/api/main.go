// @title           Abasto Marketplace API
// @version         1.0
// @description     REST API connecting restaurants and food/grocery providers.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	_ "github.com/abastio/abasto/docs"
	"github.com/abastio/abasto/internal/cart"
	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/config"
	"github.com/abastio/abasto/internal/invoice"
	"github.com/abastio/abasto/internal/list"
	"github.com/abastio/abasto/internal/order"
	"github.com/abastio/abasto/internal/promotion"
	"github.com/abastio/abasto/internal/user"
)

func main() {
	cfg := config.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	logger := zl.Sugar()
	defer func() { _ = logger.Sync() }()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		logger.Fatalw("postgres pool", "error", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatalw("postgres ping", "error", err)
	}

	orders := order.NewStore(order.NewPGRepo(pool), logger)
	orders.Load(context.Background())

	app := &application{
		config:     cfg,
		logger:     logger,
		users:      user.NewService(user.NewPGRepo(pool), cfg.TokenTTL, logger),
		catalogs:   catalog.NewService(catalog.NewPGRepo(pool), logger),
		lists:      list.NewService(list.NewPGRepo(pool), logger),
		carts:      cart.NewStore(),
		orders:     orders,
		invoices:   invoice.NewPGRepo(pool),
		promotions: promotion.NewPGRepo(pool),
	}

	if err := app.run(app.routes()); err != nil {
		logger.Fatalw("server", "error", err)
	}
}
