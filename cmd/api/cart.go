package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastio/abasto/internal/cart"
	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/httpx"
)

// cartResponse is the cart plus its derived totals.
// swagger:model
type cartResponse struct {
	Items     []cart.Item     `json:"items"`
	ItemCount decimal.Decimal `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

func cartResponseFrom(c *cart.Cart) cartResponse {
	items := c.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{Items: items, ItemCount: c.ItemCount(), Total: c.Total()}
}

func (app *application) userCart(c *gin.Context) *cart.Cart {
	return app.carts.Cart(currentUser(c).ID)
}

func (app *application) getCartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponseFrom(app.userCart(c)))
}

type addCartItemRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quality  string          `json:"quality"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
}

func (app *application) addCartItemHandler(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, httpx.Error("item name is required"))
		return
	}
	if req.Quantity.Sign() <= 0 {
		c.JSON(http.StatusBadRequest, httpx.Error("quantity must be positive"))
		return
	}
	if req.Price.Sign() < 0 {
		c.JSON(http.StatusBadRequest, httpx.Error("price must not be negative"))
		return
	}
	if req.Unit != "" && !catalog.ValidUnit(req.Unit) {
		c.JSON(http.StatusBadRequest, httpx.Error("unknown unit"))
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	userCart := app.userCart(c)
	userCart.AddItem(cart.Item{
		ID:       req.ID,
		Name:     req.Name,
		Quality:  req.Quality,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Price:    req.Price,
	})
	c.JSON(http.StatusOK, cartResponseFrom(userCart))
}

type updateCartItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// updateCartItemHandler replaces the quantity at index; zero or negative
// removes the entry.
func (app *application) updateCartItemHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid item index"))
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	userCart := app.userCart(c)
	userCart.UpdateQuantity(index, req.Quantity)
	c.JSON(http.StatusOK, cartResponseFrom(userCart))
}

func (app *application) removeCartItemHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid item index"))
		return
	}

	userCart := app.userCart(c)
	userCart.RemoveItem(index)
	c.JSON(http.StatusOK, cartResponseFrom(userCart))
}

func (app *application) clearCartHandler(c *gin.Context) {
	userCart := app.userCart(c)
	userCart.Clear()
	c.JSON(http.StatusOK, cartResponseFrom(userCart))
}
