package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/abastio/abasto/internal/cart"
	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/config"
	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/invoice"
	"github.com/abastio/abasto/internal/list"
	"github.com/abastio/abasto/internal/order"
	"github.com/abastio/abasto/internal/promotion"
	"github.com/abastio/abasto/internal/user"
)

type application struct {
	config config.Config
	logger *zap.SugaredLogger

	users      *user.Service
	catalogs   *catalog.Service
	lists      *list.Service
	carts      *cart.Store
	orders     *order.Store
	invoices   invoice.Repository
	promotions promotion.Repository
}

func (app *application) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(app.logger))

	r.GET("/healthz", app.healthHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/login", app.loginHandler)
	r.POST("/auth/register", app.registerHandler)

	auth := r.Group("/", app.authenticate())
	{
		auth.GET("/auth/profile", app.getProfileHandler)
		auth.PUT("/auth/profile", app.updateProfileHandler)
		auth.POST("/auth/password", app.changePasswordHandler)

		auth.GET("/catalogs", app.listCatalogsHandler)
		auth.GET("/catalogs/search", app.searchCatalogsHandler)
		auth.GET("/catalogs/:id", app.getCatalogHandler)

		provider := auth.Group("/", app.requireRole(user.RoleProvider))
		{
			provider.POST("/catalogs", app.createCatalogHandler)
			provider.PUT("/catalogs/:id", app.renameCatalogHandler)
			provider.POST("/catalogs/:id/items", app.addCatalogItemHandler)
			provider.PUT("/catalogs/:id/items/:index", app.updateCatalogItemHandler)
			provider.DELETE("/catalogs/:id/items/:index", app.removeCatalogItemHandler)
			provider.POST("/catalogs/:id/publish", app.publishCatalogHandler)

			provider.PUT("/orders/:id/status", app.updateOrderStatusHandler)
			provider.POST("/orders/:id/advance", app.advanceOrderHandler)

			provider.POST("/invoices", app.createInvoiceHandler)
			provider.PUT("/invoices/:id/status", app.toggleInvoiceStatusHandler)
			provider.DELETE("/invoices/:id", app.deleteInvoiceHandler)

			provider.GET("/promotions", app.listPromotionsHandler)
			provider.POST("/promotions", app.createPromotionHandler)
			provider.PUT("/promotions/:id", app.updatePromotionHandler)
			provider.PUT("/promotions/:id/active", app.togglePromotionHandler)
			provider.DELETE("/promotions/:id", app.deletePromotionHandler)
		}

		restaurant := auth.Group("/", app.requireRole(user.RoleRestaurant))
		{
			restaurant.GET("/lists", app.listListsHandler)
			restaurant.POST("/lists", app.createListHandler)
			restaurant.PUT("/lists/:id", app.renameListHandler)
			restaurant.POST("/lists/:id/items", app.addListItemHandler)
			restaurant.PUT("/lists/:id/items/:itemId", app.updateListItemHandler)
			restaurant.DELETE("/lists/:id/items/:itemId", app.removeListItemHandler)
			restaurant.POST("/lists/:id/cart", app.transferListHandler)

			restaurant.GET("/cart", app.getCartHandler)
			restaurant.POST("/cart/items", app.addCartItemHandler)
			restaurant.PUT("/cart/items/:index", app.updateCartItemHandler)
			restaurant.DELETE("/cart/items/:index", app.removeCartItemHandler)
			restaurant.DELETE("/cart", app.clearCartHandler)

			restaurant.POST("/orders", app.createOrderHandler)
			restaurant.POST("/checkout", app.checkoutHandler)
		}

		auth.GET("/orders", app.listOrdersHandler)
		auth.GET("/orders/:id", app.getOrderHandler)
		auth.GET("/invoices", app.listInvoicesHandler)
	}

	return r
}

func (app *application) run(handler http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      handler,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())
		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server started", "addr", app.config.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Infow("server stopped", "addr", app.config.Addr)
	return nil
}
