package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abastio/abasto/internal/catalog"
	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/user"
)

// listCatalogsHandler godoc
// @Summary  List catalogs
// @Tags     catalogs
// @Produce  json
// @Success  200 {array} catalog.Catalog
// @Security BearerAuth
// @Router   /catalogs [get]
func (app *application) listCatalogsHandler(c *gin.Context) {
	catalogs, err := app.catalogs.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not list catalogs"))
		return
	}
	// Restaurants shop; they only ever see published catalogs.
	if currentUser(c).Role == user.RoleRestaurant {
		published := []catalog.Catalog{}
		for _, cat := range catalogs {
			if cat.Published {
				published = append(published, cat)
			}
		}
		catalogs = published
	}
	if catalogs == nil {
		catalogs = []catalog.Catalog{}
	}
	c.JSON(http.StatusOK, catalogs)
}

func (app *application) getCatalogHandler(c *gin.Context) {
	cat, err := app.catalogs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("catalog not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not load catalog"))
		return
	}
	c.JSON(http.StatusOK, cat)
}

type createCatalogRequest struct {
	Name     string `json:"name"`
	Category int    `json:"category"`
}

// createCatalogHandler godoc
// @Summary  Create a draft catalog
// @Tags     catalogs
// @Accept   json
// @Produce  json
// @Param    catalog body createCatalogRequest true "catalog"
// @Success  201 {object} catalog.Catalog
// @Security BearerAuth
// @Router   /catalogs [post]
func (app *application) createCatalogHandler(c *gin.Context) {
	var req createCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	cat, err := app.catalogs.Create(c.Request.Context(), currentUser(c).ID, req.Name, req.Category)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

// ownedCatalog loads the catalog and enforces ownership, same contract as
// ownedList: on failure the response is already written and callers bail out.
func (app *application) ownedCatalog(c *gin.Context, id string) (*catalog.Catalog, error) {
	cat, err := app.catalogs.Get(c.Request.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, httpx.Error("catalog not found"))
		return nil, err
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not load catalog"))
		return nil, err
	}
	if cat.OwnerID != currentUser(c).ID {
		c.JSON(http.StatusForbidden, httpx.Error("not your catalog"))
		return nil, errors.New("catalog owned by someone else")
	}
	return cat, nil
}

func (app *application) renameCatalogHandler(c *gin.Context) {
	var req createCatalogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	cat, err := app.ownedCatalog(c, c.Param("id"))
	if err != nil {
		return
	}
	cat, err = app.catalogs.Rename(c.Request.Context(), cat.ID, req.Name, req.Category)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

type addItemRequest struct {
	Name string `json:"name"`
}

func (app *application) addCatalogItemHandler(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	cat, err := app.ownedCatalog(c, c.Param("id"))
	if err != nil {
		return
	}
	cat, err = app.catalogs.AddItem(c.Request.Context(), cat.ID, req.Name)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (app *application) updateCatalogItemHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid item index"))
		return
	}

	var patch catalog.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	cat, err := app.ownedCatalog(c, c.Param("id"))
	if err != nil {
		return
	}
	cat, err = app.catalogs.UpdateItem(c.Request.Context(), cat.ID, index, patch)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (app *application) removeCatalogItemHandler(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid item index"))
		return
	}

	cat, err := app.ownedCatalog(c, c.Param("id"))
	if err != nil {
		return
	}
	cat, err = app.catalogs.RemoveItem(c.Request.Context(), cat.ID, index)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// publishCatalogHandler godoc
// @Summary  Publish a catalog (one-way)
// @Tags     catalogs
// @Produce  json
// @Param    id path string true "catalog id"
// @Success  200 {object} catalog.Catalog
// @Failure  409 {object} httpx.HTTPError
// @Security BearerAuth
// @Router   /catalogs/{id}/publish [post]
func (app *application) publishCatalogHandler(c *gin.Context) {
	cat, err := app.ownedCatalog(c, c.Param("id"))
	if err != nil {
		return
	}
	cat, err = app.catalogs.Publish(c.Request.Context(), cat.ID)
	if err != nil {
		app.catalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// searchCatalogsHandler godoc
// @Summary  Search published catalog items (first 5 matches)
// @Tags     catalogs
// @Produce  json
// @Param    q query string true "search term"
// @Success  200 {array} catalog.Product
// @Security BearerAuth
// @Router   /catalogs/search [get]
func (app *application) searchCatalogsHandler(c *gin.Context) {
	hits, err := app.catalogs.SearchPublished(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("search failed"))
		return
	}
	c.JSON(http.StatusOK, hits)
}

func (app *application) catalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, httpx.Error("catalog not found"))
	case errors.Is(err, catalog.ErrNoItems), errors.Is(err, catalog.ErrAlreadyPublished):
		c.JSON(http.StatusConflict, httpx.Error(err.Error()))
	case errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrEmptyItemName),
		errors.Is(err, catalog.ErrBadCategory),
		errors.Is(err, catalog.ErrBadUnit),
		errors.Is(err, catalog.ErrBadQuantity),
		errors.Is(err, catalog.ErrBadPrice),
		errors.Is(err, catalog.ErrItemIndex):
		c.JSON(http.StatusBadRequest, httpx.Error(err.Error()))
	default:
		app.logger.Errorw("catalog operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, httpx.Error("internal error"))
	}
}
