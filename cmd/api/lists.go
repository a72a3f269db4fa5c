package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/list"
)

func (app *application) listListsHandler(c *gin.Context) {
	lists, err := app.lists.ListByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not list shopping lists"))
		return
	}
	if lists == nil {
		lists = []list.List{}
	}
	c.JSON(http.StatusOK, lists)
}

type createListRequest struct {
	Name     string `json:"name"`
	Category int    `json:"category"`
}

func (app *application) createListHandler(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	l, err := app.lists.Create(c.Request.Context(), currentUser(c).ID, req.Name, req.Category)
	if err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (app *application) renameListHandler(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	l, err := app.ownedList(c, c.Param("id"))
	if err != nil {
		return
	}

	l, err = app.lists.Rename(c.Request.Context(), l.ID, req.Name, req.Category)
	if err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// addListItemHandler copies a search hit into the list.
func (app *application) addListItemHandler(c *gin.Context) {
	var product catalog.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	l, err := app.ownedList(c, c.Param("id"))
	if err != nil {
		return
	}

	l, err = app.lists.AddProduct(c.Request.Context(), l.ID, product)
	if err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (app *application) updateListItemHandler(c *gin.Context) {
	var patch list.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	l, err := app.ownedList(c, c.Param("id"))
	if err != nil {
		return
	}

	l, err = app.lists.UpdateItem(c.Request.Context(), l.ID, c.Param("itemId"), patch)
	if err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (app *application) removeListItemHandler(c *gin.Context) {
	l, err := app.ownedList(c, c.Param("id"))
	if err != nil {
		return
	}

	l, err = app.lists.RemoveItem(c.Request.Context(), l.ID, c.Param("itemId"))
	if err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// transferListHandler godoc
// @Summary  Copy every list item into the caller's cart
// @Tags     lists
// @Produce  json
// @Param    id path string true "list id"
// @Success  200 {object} cartResponse
// @Failure  409 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /lists/{id}/cart [post]
func (app *application) transferListHandler(c *gin.Context) {
	l, err := app.ownedList(c, c.Param("id"))
	if err != nil {
		return
	}

	cartForUser := app.carts.Cart(currentUser(c).ID)
	if err := app.lists.TransferToCart(c.Request.Context(), l.ID, cartForUser); err != nil {
		app.listError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponseFrom(cartForUser))
}

// ownedList loads the list and enforces ownership. On failure it writes the
// response itself and returns a non-nil error so callers just bail out.
func (app *application) ownedList(c *gin.Context, id string) (*list.List, error) {
	l, err := app.lists.Get(c.Request.Context(), id)
	if errors.Is(err, list.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("list not found"))
		return nil, err
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not load list"))
		return nil, err
	}
	if l.OwnerID != currentUser(c).ID {
		c.JSON(http.StatusForbidden, httpx.Error("not your list"))
		return nil, errors.New("list owned by someone else")
	}
	return l, nil
}

func (app *application) listError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, list.ErrNotFound):
		c.JSON(http.StatusNotFound, httpx.Error("list not found"))
	case errors.Is(err, list.ErrItemNotFound):
		c.JSON(http.StatusNotFound, httpx.Error("list item not found"))
	case errors.Is(err, list.ErrEmptyList):
		c.JSON(http.StatusConflict, httpx.Error(err.Error()))
	case errors.Is(err, list.ErrEmptyName),
		errors.Is(err, list.ErrEmptyItemName),
		errors.Is(err, list.ErrBadQuantity),
		errors.Is(err, list.ErrFieldReadOnly),
		errors.Is(err, catalog.ErrBadCategory):
		c.JSON(http.StatusBadRequest, httpx.Error(err.Error()))
	default:
		app.logger.Errorw("list operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, httpx.Error("internal error"))
	}
}
