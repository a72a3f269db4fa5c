package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/order"
	"github.com/abastio/abasto/internal/user"
)

// listOrdersHandler godoc
// @Summary  List orders (providers see all, restaurants their own)
// @Tags     orders
// @Produce  json
// @Success  200 {array} order.Order
// @Security BearerAuth
// @Router   /orders [get]
func (app *application) listOrdersHandler(c *gin.Context) {
	orders := app.orders.All()

	u := currentUser(c)
	if u.Role == user.RoleRestaurant {
		own := []order.Order{}
		for _, o := range orders {
			if o.Restaurant == u.BusinessName {
				own = append(own, o)
			}
		}
		orders = own
	}
	if orders == nil {
		orders = []order.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (app *application) getOrderHandler(c *gin.Context) {
	o, ok := app.orders.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, httpx.Error("order not found"))
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatusHandler sets the status explicitly. The status may only
// move to the stage immediately after the current one; anything else is
// rejected.
func (app *application) updateOrderStatusHandler(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if !order.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, httpx.Error("unknown status"))
		return
	}

	o, ok := app.orders.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, httpx.Error("order not found"))
		return
	}
	if order.NextStatus(o.Status) != req.Status {
		c.JSON(http.StatusConflict, httpx.Error("status can only advance to the next stage"))
		return
	}

	if err := app.orders.UpdateStatus(c.Request.Context(), o.ID, req.Status); err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not update status"))
		return
	}
	o.Status = req.Status
	c.JSON(http.StatusOK, o)
}

// advanceOrderHandler godoc
// @Summary  Advance an order to the next fulfillment stage
// @Tags     orders
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} order.Order
// @Failure  404 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /orders/{id}/advance [post]
func (app *application) advanceOrderHandler(c *gin.Context) {
	o, err := app.orders.Advance(c.Request.Context(), c.Param("id"))
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("order not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not advance order"))
		return
	}
	c.JSON(http.StatusOK, o)
}

type createOrderRequest struct {
	Location        string       `json:"location"`
	Items           []order.Item `json:"items"`
	PaymentMethod   string       `json:"paymentMethod"`
	AdditionalNotes string       `json:"additionalNotes"`
}

// createOrderHandler registers an order built directly from the request body,
// bypassing the cart. The total is computed server-side from the items.
func (app *application) createOrderHandler(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		c.JSON(http.StatusBadRequest, httpx.Error("delivery address is required"))
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, httpx.Error("at least one item is required"))
		return
	}
	total := decimal.Zero
	for _, it := range req.Items {
		if strings.TrimSpace(it.Name) == "" {
			c.JSON(http.StatusBadRequest, httpx.Error("item name is required"))
			return
		}
		if it.Quantity.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, httpx.Error("quantity must be positive"))
			return
		}
		if it.Price.Sign() < 0 {
			c.JSON(http.StatusBadRequest, httpx.Error("price must not be negative"))
			return
		}
		total = total.Add(it.Price.Mul(it.Quantity))
	}

	date, clock := order.DisplayClock(time.Now())
	id, err := app.orders.Add(c.Request.Context(), order.Draft{
		Restaurant:      currentUser(c).BusinessName,
		Location:        req.Location,
		Items:           req.Items,
		Total:           total.StringFixed(2),
		Date:            date,
		Time:            clock,
		PaymentMethod:   req.PaymentMethod,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, httpx.Error("could not register the order, try again"))
		return
	}
	c.JSON(http.StatusCreated, checkoutResponse{OrderID: id})
}

type checkoutRequest struct {
	Location        string `json:"location"`
	PaymentMethod   string `json:"paymentMethod"`
	AdditionalNotes string `json:"additionalNotes"`
}

type checkoutResponse struct {
	OrderID string `json:"orderId"`
}

// checkoutHandler godoc
// @Summary  Convert the caller's cart into a new order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    checkout body checkoutRequest true "delivery details"
// @Success  201 {object} checkoutResponse
// @Failure  409 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /checkout [post]
func (app *application) checkoutHandler(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Location) == "" {
		c.JSON(http.StatusBadRequest, httpx.Error("delivery address is required"))
		return
	}

	userCart := app.userCart(c)
	items := userCart.Items()
	if len(items) == 0 {
		c.JSON(http.StatusConflict, httpx.Error("cart is empty"))
		return
	}

	orderItems := make([]order.Item, len(items))
	for i, it := range items {
		orderItems[i] = order.Item{
			Name:     it.Name,
			Quality:  it.Quality,
			Quantity: it.Quantity,
			Unit:     it.Unit,
			Price:    it.Price,
		}
	}

	date, clock := order.DisplayClock(time.Now())
	id, err := app.orders.Add(c.Request.Context(), order.Draft{
		Restaurant:      currentUser(c).BusinessName,
		Location:        req.Location,
		Items:           orderItems,
		Total:           userCart.Total().StringFixed(2),
		Date:            date,
		Time:            clock,
		PaymentMethod:   req.PaymentMethod,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		// The cart stays intact; the shopper can retry.
		c.JSON(http.StatusBadGateway, httpx.Error("could not register the order, try again"))
		return
	}

	userCart.Clear()
	c.JSON(http.StatusCreated, checkoutResponse{OrderID: id})
}
