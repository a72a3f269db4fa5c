package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastio/abasto/internal/httpx"
	"github.com/abastio/abasto/internal/invoice"
	"github.com/abastio/abasto/internal/user"
)

type createInvoiceRequest struct {
	OrderID       string `json:"orderId"`
	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     string `json:"issueDate"`
	DueDate       string `json:"dueDate"`
	Amount        string `json:"amount"`
	Notes         string `json:"notes"`
	File          string `json:"file"`
}

// createInvoiceHandler godoc
// @Summary  Register an invoice against an existing order
// @Tags     invoices
// @Accept   json
// @Produce  json
// @Param    invoice body createInvoiceRequest true "invoice data"
// @Success  201 {object} invoice.Invoice
// @Failure  422 {object} httpx.FieldErrors
// @Security BearerAuth
// @Router   /invoices [post]
func (app *application) createInvoiceHandler(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpx.Error("invalid JSON body"))
		return
	}

	fields := httpx.FieldErrors{}
	if strings.TrimSpace(req.OrderID) == "" {
		fields["orderId"] = append(fields["orderId"], "este campo es obligatorio")
	}
	if strings.TrimSpace(req.InvoiceNumber) == "" {
		fields["invoiceNumber"] = append(fields["invoiceNumber"], "este campo es obligatorio")
	}
	if strings.TrimSpace(req.IssueDate) == "" {
		fields["issueDate"] = append(fields["issueDate"], "este campo es obligatorio")
	}
	if strings.TrimSpace(req.File) == "" {
		fields["file"] = append(fields["file"], "este campo es obligatorio")
	}
	if amount, err := decimal.NewFromString(req.Amount); err != nil || amount.Sign() <= 0 {
		fields["amount"] = append(fields["amount"], "debe ser un monto positivo")
	}
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, fields)
		return
	}

	// Invoices point at real orders only.
	if _, ok := app.orders.Get(req.OrderID); !ok {
		c.JSON(http.StatusNotFound, httpx.Error("order not found"))
		return
	}

	inv := invoice.Invoice{
		ID:            "invoice-" + uuid.NewString(),
		OwnerID:       currentUser(c).ID,
		OrderID:       req.OrderID,
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		Amount:        req.Amount,
		Status:        invoice.StatusPending,
		Notes:         req.Notes,
		File:          req.File,
	}
	if err := app.invoices.Create(c.Request.Context(), &inv); err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not save the invoice"))
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// listInvoicesHandler godoc
// @Summary  List invoices, optionally filtered by search term and status
// @Tags     invoices
// @Produce  json
// @Param    q      query string false "matches invoice number or order id"
// @Param    status query string false "pending or paid"
// @Success  200 {array} invoice.Invoice
// @Security BearerAuth
// @Router   /invoices [get]
func (app *application) listInvoicesHandler(c *gin.Context) {
	invoices, err := app.invoices.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not list invoices"))
		return
	}

	// Providers see what they issued; restaurants what was billed to them.
	u := currentUser(c)
	status := c.Query("status")
	visible := []invoice.Invoice{}
	for _, inv := range invoices {
		if status != "" && inv.Status != status {
			continue
		}
		switch u.Role {
		case user.RoleProvider:
			if inv.OwnerID != u.ID {
				continue
			}
		case user.RoleRestaurant:
			o, ok := app.orders.Get(inv.OrderID)
			if !ok || o.Restaurant != u.BusinessName {
				continue
			}
		}
		visible = append(visible, inv)
	}
	c.JSON(http.StatusOK, visible)
}

// toggleInvoiceStatusHandler flips an invoice between pending and paid.
// Another provider's invoice looks like a missing one.
func (app *application) toggleInvoiceStatusHandler(c *gin.Context) {
	id := c.Param("id")
	owner := currentUser(c).ID

	inv, err := app.invoices.GetByID(c.Request.Context(), id)
	if errors.Is(err, invoice.ErrNotFound) || (err == nil && inv.OwnerID != owner) {
		c.JSON(http.StatusNotFound, httpx.Error("invoice not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not load invoice"))
		return
	}

	inv.Status = invoice.ToggleStatus(inv.Status)
	if err := app.invoices.SetStatus(c.Request.Context(), id, owner, inv.Status); err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not update invoice"))
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (app *application) deleteInvoiceHandler(c *gin.Context) {
	deleted, err := app.invoices.Delete(c.Request.Context(), c.Param("id"), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpx.Error("could not delete invoice"))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, httpx.Error("invoice not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
