package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/promotion"
)

// listPromotionsHandler godoc
// @Summary  List the caller's promotions
// @Tags     promotions
// @Produce  json
// @Success  200 {array} promotion.Promotion
// @Security BearerAuth
// @Router   /promotions [get]
func (app *application) listPromotionsHandler(c *gin.Context) {
	promos, err := app.promotions.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not list promotions"))
		return
	}
	if promos == nil {
		promos = []promotion.Promotion{}
	}
	c.JSON(http.StatusOK, promos)
}

// createPromotionHandler godoc
// @Summary  Create a promotion
// @Tags     promotions
// @Accept   json
// @Produce  json
// @Param    promotion body promotion.Promotion true "promotion data"
// @Success  201 {object} promotion.Promotion
// @Failure  400 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /promotions [post]
func (app *application) createPromotionHandler(c *gin.Context) {
	var p promotion.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error(err.Error()))
		return
	}

	p.ID = "promo-" + uuid.NewString()
	p.OwnerID = currentUser(c).ID
	if err := app.promotions.Create(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not save promotion"))
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (app *application) updatePromotionHandler(c *gin.Context) {
	var p promotion.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error(err.Error()))
		return
	}

	p.ID = c.Param("id")
	p.OwnerID = currentUser(c).ID
	err := app.promotions.Update(c.Request.Context(), &p)
	if errors.Is(err, promotion.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("promotion not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not update promotion"))
		return
	}
	c.JSON(http.StatusOK, p)
}

type togglePromotionRequest struct {
	Active bool `json:"active"`
}

// togglePromotionHandler switches a promotion on or off. The switch is
// manual; nothing reads the date range.
func (app *application) togglePromotionHandler(c *gin.Context) {
	var req togglePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	err := app.promotions.SetActive(c.Request.Context(), c.Param("id"), currentUser(c).ID, req.Active)
	if errors.Is(err, promotion.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("promotion not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not update promotion"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "active": req.Active})
}

func (app *application) deletePromotionHandler(c *gin.Context) {
	deleted, err := app.promotions.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not delete promotion"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, httpx.Error("promotion not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
